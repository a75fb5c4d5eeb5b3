package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/answerhub/answerhub/pkg/models"
	"github.com/answerhub/answerhub/pkg/repository"
)

const answerColumns = `id, body, question_id, author_id, created, upvotes, voters, is_best_answer`

func scanAnswer(row rowScanner) (*models.Answer, error) {
	var a models.Answer
	var voters string
	if err := row.Scan(&a.ID, &a.Body, &a.QuestionID, &a.AuthorID, &a.Created, &a.Upvotes, &voters, &a.IsBestAnswer); err != nil {
		return nil, err
	}

	var err error
	if a.Voters, err = decodeSet(voters); err != nil {
		return nil, fmt.Errorf("decode voters set: %w", err)
	}

	return &a, nil
}

// CreateAnswer inserts a new answer document (upvotes 0, not best answer)
// and returns its minted id.
func (r *SQLiteRepo) CreateAnswer(ctx context.Context, a *models.Answer) (string, error) {
	if a == nil {
		return "", fmt.Errorf("answer is nil")
	}

	id := newID()
	if a.Created == 0 {
		a.Created = now()
	}
	_, err := r.conn.Exec(ctx,
		`INSERT INTO answers (`+answerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, a.Body, a.QuestionID, a.AuthorID, a.Created, a.Upvotes, encodeSet(a.Voters), a.IsBestAnswer)
	if err != nil {
		return "", err
	}

	a.ID = id
	return id, nil
}

func (r *SQLiteRepo) GetAnswerByID(ctx context.Context, id string) (*models.Answer, error) {
	a, err := scanAnswer(r.conn.QueryRow(ctx, `SELECT `+answerColumns+` FROM answers WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return a, err
}

func (r *SQLiteRepo) ListAnswers(ctx context.Context) ([]models.Answer, error) {
	return r.listAnswers(ctx, `SELECT `+answerColumns+` FROM answers`)
}

func (r *SQLiteRepo) ListAnswersByQuestion(ctx context.Context, questionID string) ([]models.Answer, error) {
	return r.listAnswers(ctx, `SELECT `+answerColumns+` FROM answers WHERE question_id = ?`, questionID)
}

func (r *SQLiteRepo) listAnswers(ctx context.Context, query string, args ...any) ([]models.Answer, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateAnswer applies a partial-field merge covering the answer body and the
// best-answer flag. QuestionID/AuthorID are immutable and rejected upstream.
func (r *SQLiteRepo) UpdateAnswer(ctx context.Context, id string, p models.AnswerPatch) (*models.Answer, error) {
	set := []string{}
	args := []any{}
	if p.Body != nil {
		set = append(set, "body = ?")
		args = append(args, *p.Body)
	}
	if p.IsBestAnswer != nil {
		set = append(set, "is_best_answer = ?")
		args = append(args, *p.IsBestAnswer)
	}
	if len(set) > 0 {
		args = append(args, id)
		res, err := r.conn.Exec(ctx, `UPDATE answers SET `+joinSet(set)+` WHERE id = ?`, args...)
		if err != nil {
			return nil, err
		}
		if n, err := res.RowsAffected(); err != nil {
			return nil, err
		} else if n == 0 {
			return nil, repository.ErrNotFound
		}
	}

	return r.GetAnswerByID(ctx, id)
}

func (r *SQLiteRepo) DeleteAnswer(ctx context.Context, id string) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM answers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) AnswerExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.conn.QueryRow(ctx, `SELECT 1 FROM answers WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
