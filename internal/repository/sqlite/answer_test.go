package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/answerhub/answerhub/pkg/models"
	"github.com/answerhub/answerhub/pkg/repository"
)

func TestAnswerCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustCreateUser(t, repo, "alice", "alice@example.com")
	q := mustCreateQuestion(t, repo, alice.ID, "question")
	a := mustCreateAnswer(t, repo, q.ID, alice.ID)

	got, err := repo.GetAnswerByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAnswerByID: %v", err)
	}
	if got.QuestionID != q.ID || got.AuthorID != alice.ID {
		t.Fatalf("unexpected answer: %+v", got)
	}
	if got.Upvotes != 0 || got.IsBestAnswer {
		t.Fatalf("fresh answer should have no votes and no best flag: %+v", got)
	}
	if got.Voters == nil || len(got.Voters) != 0 {
		t.Fatalf("expected empty voters set, got %v", got.Voters)
	}

	body := "edited answer"
	best := true
	updated, err := repo.UpdateAnswer(ctx, a.ID, models.AnswerPatch{Body: &body, IsBestAnswer: &best})
	if err != nil {
		t.Fatalf("UpdateAnswer: %v", err)
	}
	if updated.Body != body || !updated.IsBestAnswer {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := repo.DeleteAnswer(ctx, a.ID); err != nil {
		t.Fatalf("DeleteAnswer: %v", err)
	}
	if _, err := repo.GetAnswerByID(ctx, a.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListAnswersByQuestion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustCreateUser(t, repo, "alice", "alice@example.com")
	q1 := mustCreateQuestion(t, repo, alice.ID, "first")
	q2 := mustCreateQuestion(t, repo, alice.ID, "second")
	mustCreateAnswer(t, repo, q1.ID, alice.ID)
	mustCreateAnswer(t, repo, q1.ID, alice.ID)
	mustCreateAnswer(t, repo, q2.ID, alice.ID)

	all, err := repo.ListAnswers(ctx)
	if err != nil {
		t.Fatalf("ListAnswers: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(all))
	}

	forQ1, err := repo.ListAnswersByQuestion(ctx, q1.ID)
	if err != nil {
		t.Fatalf("ListAnswersByQuestion: %v", err)
	}
	if len(forQ1) != 2 {
		t.Fatalf("expected 2 answers for q1, got %d", len(forQ1))
	}
}

func TestAnswerExists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustCreateUser(t, repo, "alice", "alice@example.com")
	q := mustCreateQuestion(t, repo, alice.ID, "question")
	a := mustCreateAnswer(t, repo, q.ID, alice.ID)

	exists, err := repo.AnswerExists(ctx, a.ID)
	if err != nil || !exists {
		t.Fatalf("AnswerExists: %v, %v", exists, err)
	}
	exists, err = repo.AnswerExists(ctx, "missing")
	if err != nil || exists {
		t.Fatalf("AnswerExists for missing id: %v, %v", exists, err)
	}
}
