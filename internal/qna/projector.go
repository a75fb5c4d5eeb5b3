package qna

import (
	"context"
	"errors"

	"github.com/answerhub/answerhub/pkg/models"
	"github.com/answerhub/answerhub/pkg/repository"
)

// UserProfileView shapes a stored user into its response view: link sets
// render as id references, never as full entities, and the vote membership
// set stays private.
func UserProfileView(u *models.User) *models.UserProfile {
	questions := make([]models.QuestionRef, 0, len(u.Questions))
	for _, id := range u.Questions {
		questions = append(questions, models.QuestionRef{QuestionID: id})
	}
	answers := make([]models.AnswerRef, 0, len(u.Answers))
	for _, id := range u.Answers {
		answers = append(answers, models.AnswerRef{AnswerID: id})
	}
	return &models.UserProfile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Reputation: u.Reputation,
		JoinDate:   u.JoinDate,
		Bio:        u.Bio,
		Questions:  questions,
		Answers:    answers,
	}
}

// QuestionDetail is the joined view: the question plus its author's display
// name plus every answer with its author's display name. A referenced author
// that no longer resolves fails the projection; a link-set entry pointing at
// a missing answer is skipped as stale.
func (s *Service) QuestionDetail(ctx context.Context, id string) (*models.QuestionDetail, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	q, err := s.questions.GetQuestionByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	author, err := s.users.GetUserByID(ctx, q.AuthorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAuthorNotFound
	}
	if err != nil {
		return nil, err
	}

	detail := &models.QuestionDetail{
		Question:   *q,
		AuthorName: author.Username,
		Answers:    []models.AnswerDetail{},
	}

	for _, answerID := range q.Answers {
		a, err := s.answers.GetAnswerByID(ctx, answerID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		answerAuthor, err := s.users.GetUserByID(ctx, a.AuthorID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAnswerAuthorNotFound
		}
		if err != nil {
			return nil, err
		}

		detail.Answers = append(detail.Answers, models.AnswerDetail{
			Answer:     *a,
			AuthorName: answerAuthor.Username,
		})
	}

	return detail, nil
}
