package qna

import (
	"context"
	"errors"
	"log/slog"

	"github.com/answerhub/answerhub/pkg/models"
	"github.com/answerhub/answerhub/pkg/repository"
)

// Cascading deletes share one procedure and one ordering discipline: remove
// the entity's back-references from every parent link set first, children
// before parent, then delete the document itself. A stale link (the parent is
// already gone, or never held the reference) is logged and skipped so the
// cascade always processes its full child set; any other store failure aborts.

// backRef names one parent link set holding a reference to the entity being
// deleted.
type backRef struct {
	set      repository.LinkSet
	parentID string
}

func answerBackRefs(a *models.Answer) []backRef {
	return []backRef{
		{set: repository.UserAnswers, parentID: a.AuthorID},
		{set: repository.QuestionAnswers, parentID: a.QuestionID},
	}
}

func questionBackRefs(q *models.Question) []backRef {
	return []backRef{
		{set: repository.UserQuestions, parentID: q.AuthorID},
	}
}

// removeBackRefs unlinks the child from every listed parent set. Stale links
// are tolerated; the first real store failure is returned.
func (s *Service) removeBackRefs(ctx context.Context, refs []backRef, childID string) error {
	for _, ref := range refs {
		err := s.links.UnlinkChild(ctx, ref.set, ref.parentID, childID)
		if err == nil {
			continue
		}
		if errors.Is(err, repository.ErrLinkUpdateFailed) {
			s.logger.Warn("stale back-reference during cascade",
				slog.String("child", childID), slog.String("parent", ref.parentID))
			continue
		}
		return err
	}
	return nil
}

func (s *Service) deleteAnswerCascade(ctx context.Context, a *models.Answer) error {
	if err := s.removeBackRefs(ctx, answerBackRefs(a), a.ID); err != nil {
		return err
	}
	if err := s.answers.DeleteAnswer(ctx, a.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// deleteQuestionCascade removes every answer belonging to the question before
// touching the question itself, so no answer is ever left referencing a
// deleted question.
func (s *Service) deleteQuestionCascade(ctx context.Context, q *models.Question) error {
	for _, answerID := range q.Answers {
		a, err := s.answers.GetAnswerByID(ctx, answerID)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("answer set references missing answer",
				slog.String("question", q.ID), slog.String("answer", answerID))
			continue
		}
		if err != nil {
			return err
		}
		if err := s.deleteAnswerCascade(ctx, a); err != nil {
			return err
		}
	}

	if err := s.removeBackRefs(ctx, questionBackRefs(q), q.ID); err != nil {
		return err
	}
	if err := s.questions.DeleteQuestion(ctx, q.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// DeleteAnswer removes a single answer and both of its back-references.
// Returns the deleted id.
func (s *Service) DeleteAnswer(ctx context.Context, id string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	a, err := s.answers.GetAnswerByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrAnswerNotFound
	}
	if err != nil {
		return "", err
	}

	// defensive: a missing author or question is already an invariant breach;
	// it must not make the answer undeletable, so it is logged, not fatal
	s.warnDangling(ctx, a)

	if err := s.deleteAnswerCascade(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

// DeleteQuestion removes a question, cascading to all of its answers first.
// Returns the deleted id.
func (s *Service) DeleteQuestion(ctx context.Context, id string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	q, err := s.questions.GetQuestionByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrQuestionNotFound
	}
	if err != nil {
		return "", err
	}

	if ok, err := s.users.UserExists(ctx, q.AuthorID); err != nil {
		return "", err
	} else if !ok {
		s.logger.Warn("question author no longer exists",
			slog.String("question", q.ID), slog.String("author", q.AuthorID))
	}

	if err := s.deleteQuestionCascade(ctx, q); err != nil {
		return "", err
	}
	return q.ID, nil
}

// DeleteUser removes a user and cascades to everything the user authored:
// each owned question (which removes its answers), then each remaining
// authored answer, then the user document. Nothing is left with a dangling
// authorId.
func (s *Service) DeleteUser(ctx context.Context, id string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	u, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}

	for _, questionID := range u.Questions {
		q, err := s.questions.GetQuestionByID(ctx, questionID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		if err := s.deleteQuestionCascade(ctx, q); err != nil {
			return "", err
		}
	}

	// answers on the user's own questions are gone by now; what remains are
	// answers the user posted under other users' questions
	for _, answerID := range u.Answers {
		a, err := s.answers.GetAnswerByID(ctx, answerID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		if err := s.deleteAnswerCascade(ctx, a); err != nil {
			return "", err
		}
	}

	if err := s.users.DeleteUser(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	return u.ID, nil
}

func (s *Service) warnDangling(ctx context.Context, a *models.Answer) {
	if ok, err := s.users.UserExists(ctx, a.AuthorID); err == nil && !ok {
		s.logger.Warn("answer author no longer exists",
			slog.String("answer", a.ID), slog.String("author", a.AuthorID))
	}
	if ok, err := s.questions.QuestionExists(ctx, a.QuestionID); err == nil && !ok {
		s.logger.Warn("answer question no longer exists",
			slog.String("answer", a.ID), slog.String("question", a.QuestionID))
	}
}
