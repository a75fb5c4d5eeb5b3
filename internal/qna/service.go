// Package qna is the consistency orchestrator: every public operation is a
// fixed pipeline of single-document steps against the repository, and this
// package owns the sequencing, the cascades and the partial-failure behavior.
// The store provides no multi-document transactions; create pipelines
// compensate on link failure, delete pipelines press on past stale links so
// the whole child set is always processed.
package qna

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/answerhub/answerhub/pkg/models"
	"github.com/answerhub/answerhub/pkg/repository"
)

// Entity-qualified lookup failures. All unwrap to repository.ErrNotFound; the
// message tells the caller which precondition failed.
var (
	ErrUserNotFound         = fmt.Errorf("user: %w", repository.ErrNotFound)
	ErrTargetUserNotFound   = fmt.Errorf("target user: %w", repository.ErrNotFound)
	ErrAuthorNotFound       = fmt.Errorf("author: %w", repository.ErrNotFound)
	ErrAnswerAuthorNotFound = fmt.Errorf("answer author: %w", repository.ErrNotFound)
	ErrQuestionNotFound     = fmt.Errorf("question: %w", repository.ErrNotFound)
	ErrAnswerNotFound       = fmt.Errorf("answer: %w", repository.ErrNotFound)
)

type Service struct {
	users     repository.UserRepo
	questions repository.QuestionRepo
	answers   repository.AnswerRepo
	links     repository.LinkRepo
	logger    *slog.Logger
}

func NewService(store repository.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		users:     store,
		questions: store,
		answers:   store,
		links:     store,
		logger:    logger,
	}
}

// checkID rejects syntactically malformed ids before any query. A malformed
// id is a caller-input error, never a miss.
func checkID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	return nil
}

// requireUser is the single existence check used by every pipeline that
// references a user.
func (s *Service) requireUser(ctx context.Context, id string, missing error) error {
	ok, err := s.users.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return missing
	}
	return nil
}

func (s *Service) requireQuestion(ctx context.Context, id string) error {
	ok, err := s.questions.QuestionExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrQuestionNotFound
	}
	return nil
}

// --- users ---

func (s *Service) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return UserProfileView(u), nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserProfile, 0, len(users))
	for i := range users {
		out = append(out, *UserProfileView(&users[i]))
	}
	return out, nil
}

// UpdateUser applies a partial profile update. The password, when present,
// must already be hashed by the credential layer.
func (s *Service) UpdateUser(ctx context.Context, id string, p models.UserPatch) (*models.UserProfile, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, err := s.users.UpdateUser(ctx, id, p)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return UserProfileView(u), nil
}

// IncreaseReputation grants the target user +1 reputation on behalf of the
// granting user. The membership check and the counter bump are one atomic
// store operation, so the same granter can never count twice. There is no
// symmetric revoke for reputation.
func (s *Service) IncreaseReputation(ctx context.Context, grantingUserID, targetUserID string) (*models.UserProfile, error) {
	if err := checkID(grantingUserID); err != nil {
		return nil, err
	}
	if err := checkID(targetUserID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, grantingUserID, ErrUserNotFound); err != nil {
		return nil, err
	}

	err := s.links.GrantVote(ctx, repository.UserReputation, targetUserID, grantingUserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTargetUserNotFound
	}
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetUserByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	return UserProfileView(u), nil
}

// --- questions ---

// CreateQuestion inserts a question and links it into its author's questions
// set. When the link step fails after the insert succeeded, the insert is
// compensated so no orphaned question is left behind.
func (s *Service) CreateQuestion(ctx context.Context, title, body string, tags []string, authorID string) (*models.Question, error) {
	if err := checkID(authorID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, authorID, ErrAuthorNotFound); err != nil {
		return nil, err
	}

	q := &models.Question{
		Title:    title,
		Body:     body,
		Tags:     tags,
		AuthorID: authorID,
		Answers:  []string{},
	}
	id, err := s.questions.CreateQuestion(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := s.links.LinkChild(ctx, repository.UserQuestions, authorID, id); err != nil {
		s.compensate(ctx, "question insert", s.questions.DeleteQuestion, id)
		return nil, err
	}

	return q, nil
}

func (s *Service) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	q, err := s.questions.GetQuestionByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrQuestionNotFound
	}
	return q, err
}

// ListQuestions returns the flattened all-questions projection with author
// names attached. Ordering is store-defined.
func (s *Service) ListQuestions(ctx context.Context) ([]models.QuestionWithAuthor, error) {
	return s.questions.ListQuestionsWithAuthor(ctx)
}

func (s *Service) ListQuestionsByUser(ctx context.Context, userID string) ([]models.Question, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID, ErrUserNotFound); err != nil {
		return nil, err
	}
	return s.questions.ListQuestionsByAuthor(ctx, userID)
}

// UpdateQuestion merges the supplied fields. authorId is immutable after
// creation: a payload carrying a different value than current is rejected,
// supplying the current value is a no-op.
func (s *Service) UpdateQuestion(ctx context.Context, id string, p models.QuestionPatch) (*models.Question, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	cur, err := s.questions.GetQuestionByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.AuthorID != nil && *p.AuthorID != cur.AuthorID {
		return nil, fmt.Errorf("%w: authorId", repository.ErrImmutableField)
	}

	q, err := s.questions.UpdateQuestion(ctx, id, p)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrQuestionNotFound
	}
	return q, err
}

// --- answers ---

// CreateAnswer inserts an answer and links it into both its author's and its
// question's answers sets. Each link failure after the insert succeeded is
// compensated: prior links are undone and the inserted document removed.
func (s *Service) CreateAnswer(ctx context.Context, body, questionID, authorID string) (*models.Answer, error) {
	if err := checkID(questionID); err != nil {
		return nil, err
	}
	if err := checkID(authorID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, authorID, ErrAuthorNotFound); err != nil {
		return nil, err
	}
	if err := s.requireQuestion(ctx, questionID); err != nil {
		return nil, err
	}

	a := &models.Answer{
		Body:       body,
		QuestionID: questionID,
		AuthorID:   authorID,
		Voters:     []string{},
	}
	id, err := s.answers.CreateAnswer(ctx, a)
	if err != nil {
		return nil, err
	}

	if err := s.links.LinkChild(ctx, repository.UserAnswers, authorID, id); err != nil {
		s.compensate(ctx, "answer insert", s.answers.DeleteAnswer, id)
		return nil, err
	}
	if err := s.links.LinkChild(ctx, repository.QuestionAnswers, questionID, id); err != nil {
		if uerr := s.links.UnlinkChild(ctx, repository.UserAnswers, authorID, id); uerr != nil {
			s.logger.Error("compensation unlink failed", slog.String("answer", id), slog.Any("err", uerr))
		}
		s.compensate(ctx, "answer insert", s.answers.DeleteAnswer, id)
		return nil, err
	}

	return a, nil
}

func (s *Service) GetAnswer(ctx context.Context, id string) (*models.Answer, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	a, err := s.answers.GetAnswerByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAnswerNotFound
	}
	return a, err
}

func (s *Service) ListAnswers(ctx context.Context) ([]models.Answer, error) {
	return s.answers.ListAnswers(ctx)
}

func (s *Service) ListAnswersByQuestion(ctx context.Context, questionID string) ([]models.Answer, error) {
	if err := checkID(questionID); err != nil {
		return nil, err
	}
	if err := s.requireQuestion(ctx, questionID); err != nil {
		return nil, err
	}
	return s.answers.ListAnswersByQuestion(ctx, questionID)
}

// UpdateAnswer merges the supplied fields, covering the content and the
// best-answer toggle. questionId/authorId are immutable after creation.
func (s *Service) UpdateAnswer(ctx context.Context, id string, p models.AnswerPatch) (*models.Answer, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	cur, err := s.answers.GetAnswerByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAnswerNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.QuestionID != nil && *p.QuestionID != cur.QuestionID {
		return nil, fmt.Errorf("%w: questionId", repository.ErrImmutableField)
	}
	if p.AuthorID != nil && *p.AuthorID != cur.AuthorID {
		return nil, fmt.Errorf("%w: authorId", repository.ErrImmutableField)
	}

	a, err := s.answers.UpdateAnswer(ctx, id, p)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAnswerNotFound
	}
	return a, err
}

// --- votes ---

// UpvoteAnswer records an upvote by userID on answerID. Granting is
// idempotent-rejecting: the second call by the same voter conflicts and the
// upvote count moves by exactly 1 in total.
func (s *Service) UpvoteAnswer(ctx context.Context, userID, answerID string) (*models.Answer, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	if err := checkID(answerID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID, ErrUserNotFound); err != nil {
		return nil, err
	}

	err := s.links.GrantVote(ctx, repository.AnswerUpvotes, answerID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAnswerNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.answers.GetAnswerByID(ctx, answerID)
}

// RevokeUpvoteAnswer withdraws a previously recorded upvote; the count is
// decremented by 1, floored at 0.
func (s *Service) RevokeUpvoteAnswer(ctx context.Context, userID, answerID string) (*models.Answer, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	if err := checkID(answerID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID, ErrUserNotFound); err != nil {
		return nil, err
	}

	err := s.links.RevokeVote(ctx, repository.AnswerUpvotes, answerID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAnswerNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.answers.GetAnswerByID(ctx, answerID)
}

// compensate undoes a partially applied create pipeline. Failures here leave
// an orphan; they are logged loudly because only an operator can repair them.
func (s *Service) compensate(ctx context.Context, what string, del func(context.Context, string) error, id string) {
	if err := del(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("compensation failed, orphan left behind",
			slog.String("op", what), slog.String("id", id), slog.Any("err", err))
	}
}
