// Package mock provides an in-memory repository.Store for handler and
// orchestrator tests. It mirrors the sqlite implementation's observable
// behavior: sentinel errors, duplicate-tolerant link sets, conflict-checked
// vote sets and floored counters.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/answerhub/answerhub/pkg/models"
	"github.com/answerhub/answerhub/pkg/repository"
)

type Store struct {
	mu        sync.Mutex
	users     map[string]*models.User
	questions map[string]*models.Question
	answers   map[string]*models.Answer

	// Injectable failures for pipeline tests. When set, the matching
	// operation fails with the given error until the field is cleared.
	CreateUserErr error
	LinkErr       error
	UnlinkErr     error
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:     map[string]*models.User{},
		questions: map[string]*models.Question{},
		answers:   map[string]*models.Answer{},
	}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func cloneSet(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Questions = cloneSet(u.Questions)
	c.Answers = cloneSet(u.Answers)
	c.Voters = cloneSet(u.Voters)
	return &c
}

func cloneQuestion(q *models.Question) *models.Question {
	c := *q
	c.Tags = cloneSet(q.Tags)
	c.Answers = cloneSet(q.Answers)
	return &c
}

func cloneAnswer(a *models.Answer) *models.Answer {
	c := *a
	c.Voters = cloneSet(a.Voters)
	return &c
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, u *models.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateUserErr != nil {
		return "", s.CreateUserErr
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return "", repository.ErrDuplicateEmail
		}
	}

	id := uuid.NewString()
	u.ID = id
	if u.JoinDate == 0 {
		u.JoinDate = now()
	}
	s.users[id] = cloneUser(u)
	return id, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.User{}
	for _, u := range s.users {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, p models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	return cloneUser(u), nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Store) UserExists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.users[id]
	return ok, nil
}

// --- questions ---

func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	q.ID = id
	if q.Created == 0 {
		q.Created = now()
	}
	s.questions[id] = cloneQuestion(q)
	return id, nil
}

func (s *Store) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneQuestion(q), nil
}

func (s *Store) ListQuestions(ctx context.Context) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Question{}
	for _, q := range s.questions {
		out = append(out, *cloneQuestion(q))
	}
	return out, nil
}

func (s *Store) ListQuestionsByAuthor(ctx context.Context, authorID string) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Question{}
	for _, q := range s.questions {
		if q.AuthorID == authorID {
			out = append(out, *cloneQuestion(q))
		}
	}
	return out, nil
}

func (s *Store) ListQuestionsWithAuthor(ctx context.Context) ([]models.QuestionWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.QuestionWithAuthor{}
	for _, q := range s.questions {
		author, ok := s.users[q.AuthorID]
		if !ok {
			continue
		}
		out = append(out, models.QuestionWithAuthor{Question: *cloneQuestion(q), AuthorName: author.Username})
	}
	return out, nil
}

func (s *Store) UpdateQuestion(ctx context.Context, id string, p models.QuestionPatch) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Body != nil {
		q.Body = *p.Body
	}
	if p.Tags != nil {
		q.Tags = cloneSet(*p.Tags)
	}
	return cloneQuestion(q), nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *Store) QuestionExists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.questions[id]
	return ok, nil
}

// --- answers ---

func (s *Store) CreateAnswer(ctx context.Context, a *models.Answer) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	a.ID = id
	if a.Created == 0 {
		a.Created = now()
	}
	s.answers[id] = cloneAnswer(a)
	return id, nil
}

func (s *Store) GetAnswerByID(ctx context.Context, id string) (*models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneAnswer(a), nil
}

func (s *Store) ListAnswers(ctx context.Context) ([]models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Answer{}
	for _, a := range s.answers {
		out = append(out, *cloneAnswer(a))
	}
	return out, nil
}

func (s *Store) ListAnswersByQuestion(ctx context.Context, questionID string) ([]models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Answer{}
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			out = append(out, *cloneAnswer(a))
		}
	}
	return out, nil
}

func (s *Store) UpdateAnswer(ctx context.Context, id string, p models.AnswerPatch) (*models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Body != nil {
		a.Body = *p.Body
	}
	if p.IsBestAnswer != nil {
		a.IsBestAnswer = *p.IsBestAnswer
	}
	return cloneAnswer(a), nil
}

func (s *Store) DeleteAnswer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.answers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.answers, id)
	return nil
}

func (s *Store) AnswerExists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.answers[id]
	return ok, nil
}

// --- links and votes ---

func (s *Store) linkSet(set repository.LinkSet, parentID string) *[]string {
	switch set {
	case repository.UserQuestions:
		if u, ok := s.users[parentID]; ok {
			return &u.Questions
		}
	case repository.UserAnswers:
		if u, ok := s.users[parentID]; ok {
			return &u.Answers
		}
	case repository.QuestionAnswers:
		if q, ok := s.questions[parentID]; ok {
			return &q.Answers
		}
	}
	return nil
}

func (s *Store) LinkChild(ctx context.Context, set repository.LinkSet, parentID, childID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LinkErr != nil {
		return s.LinkErr
	}
	target := s.linkSet(set, parentID)
	if target == nil {
		return repository.ErrLinkUpdateFailed
	}
	*target = append(*target, childID)
	return nil
}

func (s *Store) UnlinkChild(ctx context.Context, set repository.LinkSet, parentID, childID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UnlinkErr != nil {
		return s.UnlinkErr
	}
	target := s.linkSet(set, parentID)
	if target == nil {
		return repository.ErrLinkUpdateFailed
	}
	kept := (*target)[:0]
	removed := false
	for _, id := range *target {
		if id == childID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		return repository.ErrLinkUpdateFailed
	}
	*target = kept
	return nil
}

func (s *Store) GrantVote(ctx context.Context, target repository.VoteTarget, targetID, voterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	voters, counter := s.voteSet(target, targetID)
	if voters == nil {
		return repository.ErrNotFound
	}
	for _, v := range *voters {
		if v == voterID {
			return repository.ErrAlreadyVoted
		}
	}
	*voters = append(*voters, voterID)
	*counter++
	return nil
}

func (s *Store) RevokeVote(ctx context.Context, target repository.VoteTarget, targetID, voterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	voters, counter := s.voteSet(target, targetID)
	if voters == nil {
		return repository.ErrNotFound
	}
	kept := (*voters)[:0]
	removed := false
	for _, v := range *voters {
		if v == voterID {
			removed = true
			continue
		}
		kept = append(kept, v)
	}
	if !removed {
		return repository.ErrNotVoted
	}
	*voters = kept
	if *counter > 0 {
		*counter--
	}
	return nil
}

func (s *Store) voteSet(target repository.VoteTarget, targetID string) (*[]string, *int64) {
	switch target {
	case repository.AnswerUpvotes:
		if a, ok := s.answers[targetID]; ok {
			return &a.Voters, &a.Upvotes
		}
	case repository.UserReputation:
		if u, ok := s.users[targetID]; ok {
			return &u.Voters, &u.Reputation
		}
	}
	return nil, nil
}
