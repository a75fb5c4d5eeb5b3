package repository

import "errors"

// Error taxonomy shared by the repository implementations and the
// orchestrator. Handlers map these to HTTP status classes; anything not listed
// here is treated as an internal failure and never leaks into a response body.
var (
	// ErrNotFound reports that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail reports a registration attempt with an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidID reports a syntactically malformed id supplied by the
	// caller. It is a caller-input error, not a miss.
	ErrInvalidID = errors.New("invalid id")

	// ErrImmutableField reports an update payload trying to change a
	// relationship-identifying field (authorId, questionId) after creation.
	ErrImmutableField = errors.New("immutable field")

	// ErrAlreadyVoted and ErrNotVoted report vote-state conflicts on the
	// membership sets guarding upvotes and reputation grants.
	ErrAlreadyVoted = errors.New("already voted")
	ErrNotVoted     = errors.New("not voted")

	// ErrLinkUpdateFailed reports a cross-reference write that affected zero
	// documents: the parent the link set lives on is gone or never existed,
	// which means an invariant is already broken.
	ErrLinkUpdateFailed = errors.New("link update failed")
)
