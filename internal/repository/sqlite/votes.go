package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/answerhub/answerhub/pkg/repository"
)

// voteTarget maps a VoteTarget to its table and counter column. The voters
// membership set always lives in the `voters` JSON column of the same row as
// the counter, so check-and-mutate is a single conditional statement.
func voteTarget(target repository.VoteTarget) (table, counter string, err error) {
	switch target {
	case repository.AnswerUpvotes:
		return "answers", "upvotes", nil
	case repository.UserReputation:
		return "users", "reputation", nil
	default:
		return "", "", fmt.Errorf("unknown vote target %d", target)
	}
}

// GrantVote appends voterID to the target's voters set and bumps the counter
// by exactly 1. The NOT EXISTS guard makes the membership check and the array
// mutation one atomic operation, so at-most-once voting holds under
// concurrent requests from the same voter.
func (r *SQLiteRepo) GrantVote(ctx context.Context, target repository.VoteTarget, targetID, voterID string) error {
	table, counter, err := voteTarget(target)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		`UPDATE %s SET voters = json_insert(voters, '$[#]', ?), %s = %s + 1
		 WHERE id = ? AND NOT EXISTS (SELECT 1 FROM json_each(voters) WHERE value = ?)`,
		table, counter, counter)
	res, err := r.conn.Exec(ctx, query, voterID, targetID, voterID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// either the target is gone or the voter already counted
		return r.voteConflict(ctx, table, targetID, repository.ErrAlreadyVoted)
	}
	return nil
}

// RevokeVote removes voterID from the target's voters set and decrements the
// counter by 1, floored at 0.
func (r *SQLiteRepo) RevokeVote(ctx context.Context, target repository.VoteTarget, targetID, voterID string) error {
	table, counter, err := voteTarget(target)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		`UPDATE %s SET voters = (SELECT json_group_array(value) FROM json_each(voters) WHERE value <> ?),
		 %s = max(%s - 1, 0)
		 WHERE id = ? AND EXISTS (SELECT 1 FROM json_each(voters) WHERE value = ?)`,
		table, counter, counter)
	res, err := r.conn.Exec(ctx, query, voterID, targetID, voterID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.voteConflict(ctx, table, targetID, repository.ErrNotVoted)
	}
	return nil
}

// voteConflict disambiguates a zero-effect vote write: a missing target is a
// NotFound, an existing target means the membership condition failed.
func (r *SQLiteRepo) voteConflict(ctx context.Context, table, targetID string, conflict error) error {
	var one int
	err := r.conn.QueryRow(ctx, fmt.Sprintf(`SELECT 1 FROM %s WHERE id = ?`, table), targetID).Scan(&one)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	return conflict
}
