package repository

import (
	"context"

	"github.com/answerhub/answerhub/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// All operations are single-document and atomic at the document level. No
// cross-document atomicity is provided: the orchestrator sequences multi-step
// effects and owns partial-failure behavior.

// LinkSet names a parent link-set column the cross-reference maintainer can
// mutate.
type LinkSet int

const (
	UserQuestions LinkSet = iota
	UserAnswers
	QuestionAnswers
)

// VoteTarget names a vote-membership set and its associated counter.
type VoteTarget int

const (
	// AnswerUpvotes pairs answers.voters with answers.upvotes.
	AnswerUpvotes VoteTarget = iota
	// UserReputation pairs users.voters with users.reputation.
	UserReputation
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (string, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, p models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	UserExists(ctx context.Context, id string) (bool, error)
}

type QuestionRepo interface {
	CreateQuestion(ctx context.Context, q *models.Question) (string, error)
	GetQuestionByID(ctx context.Context, id string) (*models.Question, error)
	ListQuestions(ctx context.Context) ([]models.Question, error)
	ListQuestionsByAuthor(ctx context.Context, authorID string) ([]models.Question, error)
	ListQuestionsWithAuthor(ctx context.Context) ([]models.QuestionWithAuthor, error)
	UpdateQuestion(ctx context.Context, id string, p models.QuestionPatch) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
	QuestionExists(ctx context.Context, id string) (bool, error)
}

type AnswerRepo interface {
	CreateAnswer(ctx context.Context, a *models.Answer) (string, error)
	GetAnswerByID(ctx context.Context, id string) (*models.Answer, error)
	ListAnswers(ctx context.Context) ([]models.Answer, error)
	ListAnswersByQuestion(ctx context.Context, questionID string) ([]models.Answer, error)
	UpdateAnswer(ctx context.Context, id string, p models.AnswerPatch) (*models.Answer, error)
	DeleteAnswer(ctx context.Context, id string) error
	AnswerExists(ctx context.Context, id string) (bool, error)
}

// LinkRepo is the cross-reference maintainer: it keeps the denormalized link
// sets and vote-membership sets synchronized with entity existence. Every
// mutation is a single atomic conditional update; affecting zero documents is
// reported as an error, never silently ignored.
type LinkRepo interface {
	// LinkChild appends childID to the parent's link set. Idempotency is NOT
	// guaranteed: duplicate calls duplicate entries, callers must call exactly
	// once per logical creation. A missing parent yields ErrLinkUpdateFailed.
	LinkChild(ctx context.Context, set LinkSet, parentID, childID string) error

	// UnlinkChild removes childID from the parent's link set. A missing parent
	// or an absent child yields ErrLinkUpdateFailed.
	UnlinkChild(ctx context.Context, set LinkSet, parentID, childID string) error

	// GrantVote appends voterID to the target's voters set and increments the
	// associated counter by exactly 1, as one conditional update. Yields
	// ErrAlreadyVoted when the voter is already present, ErrNotFound when the
	// target is missing.
	GrantVote(ctx context.Context, target VoteTarget, targetID, voterID string) error

	// RevokeVote removes voterID from the target's voters set and decrements
	// the counter by 1, floored at 0. Yields ErrNotVoted when the voter is
	// absent, ErrNotFound when the target is missing.
	RevokeVote(ctx context.Context, target VoteTarget, targetID, voterID string) error
}

// Store bundles every repository contract; the sqlite implementation and the
// in-memory mock satisfy all of them.
type Store interface {
	UserRepo
	QuestionRepo
	AnswerRepo
	LinkRepo
}
