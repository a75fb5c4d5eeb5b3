package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/answerhub/answerhub/pkg/models"
	"github.com/answerhub/answerhub/pkg/repository"
)

func TestQuestionCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	author := mustCreateUser(t, repo, "alice", "alice@example.com")
	q := mustCreateQuestion(t, repo, author.ID, "How do I test SQLite?")

	got, err := repo.GetQuestionByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuestionByID: %v", err)
	}
	if got.Title != q.Title || got.AuthorID != author.ID {
		t.Fatalf("unexpected question: %+v", got)
	}
	if got.Created == 0 {
		t.Fatalf("expected creation timestamp")
	}
	if got.Answers == nil || len(got.Answers) != 0 {
		t.Fatalf("expected empty answers set, got %v", got.Answers)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "go" {
		t.Fatalf("tags did not round-trip: %v", got.Tags)
	}

	title := "How do I test SQLite in Go?"
	tags := []string{"go", "sqlite"}
	updated, err := repo.UpdateQuestion(ctx, q.ID, models.QuestionPatch{Title: &title, Tags: &tags})
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if updated.Title != title || len(updated.Tags) != 2 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Body != q.Body {
		t.Fatalf("untouched body changed: %q", updated.Body)
	}

	if err := repo.DeleteQuestion(ctx, q.ID); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	if _, err := repo.GetQuestionByID(ctx, q.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteQuestion(ctx, q.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestListQuestionsByAuthor(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustCreateUser(t, repo, "alice", "alice@example.com")
	bob := mustCreateUser(t, repo, "bob", "bob@example.com")
	mustCreateQuestion(t, repo, alice.ID, "first")
	mustCreateQuestion(t, repo, alice.ID, "second")
	mustCreateQuestion(t, repo, bob.ID, "third")

	all, err := repo.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(all))
	}

	mine, err := repo.ListQuestionsByAuthor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListQuestionsByAuthor: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 questions for alice, got %d", len(mine))
	}
	for _, q := range mine {
		if q.AuthorID != alice.ID {
			t.Fatalf("question %s has wrong author %s", q.ID, q.AuthorID)
		}
	}
}

func TestListQuestionsWithAuthor(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustCreateUser(t, repo, "alice", "alice@example.com")
	q := mustCreateQuestion(t, repo, alice.ID, "joined view")

	rows, err := repo.ListQuestionsWithAuthor(ctx)
	if err != nil {
		t.Fatalf("ListQuestionsWithAuthor: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ID != q.ID || rows[0].AuthorName != "alice" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestQuestionExists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustCreateUser(t, repo, "alice", "alice@example.com")
	q := mustCreateQuestion(t, repo, alice.ID, "exists?")

	exists, err := repo.QuestionExists(ctx, q.ID)
	if err != nil || !exists {
		t.Fatalf("QuestionExists: %v, %v", exists, err)
	}
	exists, err = repo.QuestionExists(ctx, "missing")
	if err != nil || exists {
		t.Fatalf("QuestionExists for missing id: %v, %v", exists, err)
	}
}
