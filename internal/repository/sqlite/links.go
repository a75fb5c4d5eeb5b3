package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/answerhub/answerhub/pkg/repository"
)

// linkTarget maps a LinkSet to the table and JSON array column holding it.
func linkTarget(set repository.LinkSet) (table, column string, err error) {
	switch set {
	case repository.UserQuestions:
		return "users", "questions", nil
	case repository.UserAnswers:
		return "users", "answers", nil
	case repository.QuestionAnswers:
		return "questions", "answers", nil
	default:
		return "", "", fmt.Errorf("unknown link set %d", set)
	}
}

// LinkChild appends childID to the parent's link set with a single UPDATE.
// Duplicate calls duplicate entries; callers call exactly once per logical
// creation. Zero affected rows means the parent document is gone, which is a
// broken invariant, reported as ErrLinkUpdateFailed.
func (r *SQLiteRepo) LinkChild(ctx context.Context, set repository.LinkSet, parentID, childID string) error {
	table, column, err := linkTarget(set)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = json_insert(%s, '$[#]', ?) WHERE id = ?`, table, column, column)
	res, err := r.conn.Exec(ctx, query, childID, parentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		r.logger.Warn("link update affected no documents",
			slog.String("table", table), slog.String("parent", parentID), slog.String("child", childID))
		return fmt.Errorf("link %s.%s on %s: %w", table, column, parentID, repository.ErrLinkUpdateFailed)
	}
	return nil
}

// UnlinkChild removes childID from the parent's link set. The EXISTS guard
// makes a zero-effect call (absent child or missing parent) observable via
// the affected-row count instead of silently succeeding.
func (r *SQLiteRepo) UnlinkChild(ctx context.Context, set repository.LinkSet, parentID, childID string) error {
	table, column, err := linkTarget(set)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		`UPDATE %s SET %s = (SELECT json_group_array(value) FROM json_each(%s) WHERE value <> ?)
		 WHERE id = ? AND EXISTS (SELECT 1 FROM json_each(%s) WHERE value = ?)`,
		table, column, column, column)
	res, err := r.conn.Exec(ctx, query, childID, parentID, childID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		r.logger.Warn("unlink affected no documents",
			slog.String("table", table), slog.String("parent", parentID), slog.String("child", childID))
		return fmt.Errorf("unlink %s.%s on %s: %w", table, column, parentID, repository.ErrLinkUpdateFailed)
	}
	return nil
}
