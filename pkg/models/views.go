package models

// Response views shaped by the read projector. Profiles render link sets as id
// references rather than full entities, matching the public wire format.

type QuestionRef struct {
	QuestionID string `json:"questionId"`
}

type AnswerRef struct {
	AnswerID string `json:"answerId"`
}

type UserProfile struct {
	ID         string        `json:"id"`
	Username   string        `json:"username"`
	Email      string        `json:"email"`
	Reputation int64         `json:"reputation"`
	JoinDate   int64         `json:"joinDate"`
	Bio        string        `json:"bio"`
	Questions  []QuestionRef `json:"questions"`
	Answers    []AnswerRef   `json:"answers"`
}

// AnswerDetail is an answer joined with its author's display name.
type AnswerDetail struct {
	Answer
	AuthorName string `json:"authorName"`
}

// QuestionDetail is the joined view: the question, its author's display name
// and every answer with its author's display name.
type QuestionDetail struct {
	Question
	AuthorName string         `json:"authorName"`
	Answers    []AnswerDetail `json:"answers"`
}

// QuestionWithAuthor is one row of the flattened all-questions projection.
// Ordering is store-defined; callers must not assume any particular order.
type QuestionWithAuthor struct {
	Question
	AuthorName string `json:"authorName"`
}
