package models

// Domain models matching the database schema in db/migrations/0001_init.sql.
// Link sets (questions/answers on User, answers on Question) and vote sets
// (voters) are denormalized caches stored as JSON array columns; the repository
// keeps them in sync with entity existence.

type User struct {
	ID           string   `json:"id" db:"id"`
	Username     string   `json:"username" db:"username"`
	Email        string   `json:"email" db:"email"`
	PasswordHash string   `json:"-" db:"password_hash"`
	Reputation   int64    `json:"reputation" db:"reputation"`
	JoinDate     int64    `json:"joinDate" db:"join_date"`
	Bio          string   `json:"bio" db:"bio"`
	Questions    []string `json:"questions" db:"questions"`
	Answers      []string `json:"answers" db:"answers"`
	Voters       []string `json:"-" db:"voters"`
}

type Question struct {
	ID       string   `json:"id" db:"id"`
	Title    string   `json:"title" db:"title"`
	Body     string   `json:"content" db:"body"`
	Tags     []string `json:"tags" db:"tags"`
	AuthorID string   `json:"authorId" db:"author_id"`
	Created  int64    `json:"createdAt" db:"created"`
	Answers  []string `json:"answers" db:"answers"`
}

type Answer struct {
	ID           string   `json:"id" db:"id"`
	Body         string   `json:"content" db:"body"`
	QuestionID   string   `json:"questionId" db:"question_id"`
	AuthorID     string   `json:"authorId" db:"author_id"`
	Created      int64    `json:"createdAt" db:"created"`
	Upvotes      int64    `json:"upvotes" db:"upvotes"`
	Voters       []string `json:"-" db:"voters"`
	IsBestAnswer bool     `json:"isBestAnswer" db:"is_best_answer"`
}

// Patch types carry partial updates; nil fields are left untouched.
// QuestionID/AuthorID are immutable after creation and appear here only so the
// orchestrator can reject attempts to swap them.

type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Bio          *string
}

type QuestionPatch struct {
	Title    *string
	Body     *string
	Tags     *[]string
	AuthorID *string
}

type AnswerPatch struct {
	Body         *string
	IsBestAnswer *bool
	QuestionID   *string
	AuthorID     *string
}
