package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/answerhub/answerhub/pkg/repository"
)

func TestGrantVote_AnswerUpvotes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustCreateUser(t, repo, "alice", "alice@example.com")
	bob := mustCreateUser(t, repo, "bob", "bob@example.com")
	q := mustCreateQuestion(t, repo, alice.ID, "question")
	a := mustCreateAnswer(t, repo, q.ID, alice.ID)

	if err := repo.GrantVote(ctx, repository.AnswerUpvotes, a.ID, bob.ID); err != nil {
		t.Fatalf("GrantVote: %v", err)
	}

	got, err := repo.GetAnswerByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAnswerByID: %v", err)
	}
	if got.Upvotes != 1 {
		t.Fatalf("expected 1 upvote, got %d", got.Upvotes)
	}
	if len(got.Voters) != 1 || got.Voters[0] != bob.ID {
		t.Fatalf("voters set not updated: %v", got.Voters)
	}

	// second vote from the same voter is rejected and the counter stays put
	if err := repo.GrantVote(ctx, repository.AnswerUpvotes, a.ID, bob.ID); !errors.Is(err, repository.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	got, err = repo.GetAnswerByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAnswerByID: %v", err)
	}
	if got.Upvotes != 1 {
		t.Fatalf("duplicate vote changed counter: %d", got.Upvotes)
	}

	// a different voter still counts
	if err := repo.GrantVote(ctx, repository.AnswerUpvotes, a.ID, alice.ID); err != nil {
		t.Fatalf("GrantVote from second voter: %v", err)
	}
	got, _ = repo.GetAnswerByID(ctx, a.ID)
	if got.Upvotes != 2 {
		t.Fatalf("expected 2 upvotes, got %d", got.Upvotes)
	}
}

func TestGrantVote_MissingTarget(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.GrantVote(context.Background(), repository.AnswerUpvotes, "missing", "voter")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRevokeVote(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustCreateUser(t, repo, "alice", "alice@example.com")
	bob := mustCreateUser(t, repo, "bob", "bob@example.com")
	q := mustCreateQuestion(t, repo, alice.ID, "question")
	a := mustCreateAnswer(t, repo, q.ID, alice.ID)

	if err := repo.GrantVote(ctx, repository.AnswerUpvotes, a.ID, bob.ID); err != nil {
		t.Fatalf("GrantVote: %v", err)
	}
	if err := repo.RevokeVote(ctx, repository.AnswerUpvotes, a.ID, bob.ID); err != nil {
		t.Fatalf("RevokeVote: %v", err)
	}

	got, err := repo.GetAnswerByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAnswerByID: %v", err)
	}
	if got.Upvotes != 0 || len(got.Voters) != 0 {
		t.Fatalf("revoke did not restore state: upvotes=%d voters=%v", got.Upvotes, got.Voters)
	}

	// revoking again is a conflict, not a silent no-op
	if err := repo.RevokeVote(ctx, repository.AnswerUpvotes, a.ID, bob.ID); !errors.Is(err, repository.ErrNotVoted) {
		t.Fatalf("expected ErrNotVoted, got %v", err)
	}

	if err := repo.RevokeVote(ctx, repository.AnswerUpvotes, "missing", bob.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing target, got %v", err)
	}
}

func TestGrantVote_UserReputation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustCreateUser(t, repo, "alice", "alice@example.com")
	bob := mustCreateUser(t, repo, "bob", "bob@example.com")

	if err := repo.GrantVote(ctx, repository.UserReputation, alice.ID, bob.ID); err != nil {
		t.Fatalf("GrantVote reputation: %v", err)
	}

	got, err := repo.GetUserByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Reputation != 1 {
		t.Fatalf("expected reputation 1, got %d", got.Reputation)
	}

	if err := repo.GrantVote(ctx, repository.UserReputation, alice.ID, bob.ID); !errors.Is(err, repository.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted on repeat grant, got %v", err)
	}
	got, _ = repo.GetUserByID(ctx, alice.ID)
	if got.Reputation != 1 {
		t.Fatalf("repeat grant changed reputation: %d", got.Reputation)
	}
}
