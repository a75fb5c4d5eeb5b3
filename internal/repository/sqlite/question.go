package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/answerhub/answerhub/pkg/models"
	"github.com/answerhub/answerhub/pkg/repository"
)

const questionColumns = `id, title, body, tags, author_id, created, answers`

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var tags, answers string
	if err := row.Scan(&q.ID, &q.Title, &q.Body, &tags, &q.AuthorID, &q.Created, &answers); err != nil {
		return nil, err
	}

	var err error
	if q.Tags, err = decodeSet(tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if q.Answers, err = decodeSet(answers); err != nil {
		return nil, fmt.Errorf("decode answers set: %w", err)
	}

	return &q, nil
}

// CreateQuestion inserts a new question document with an empty answers set
// and returns its minted id.
func (r *SQLiteRepo) CreateQuestion(ctx context.Context, q *models.Question) (string, error) {
	if q == nil {
		return "", fmt.Errorf("question is nil")
	}

	id := newID()
	if q.Created == 0 {
		q.Created = now()
	}
	_, err := r.conn.Exec(ctx,
		`INSERT INTO questions (`+questionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, q.Title, q.Body, encodeSet(q.Tags), q.AuthorID, q.Created, encodeSet(q.Answers))
	if err != nil {
		return "", err
	}

	q.ID = id
	return id, nil
}

func (r *SQLiteRepo) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	q, err := scanQuestion(r.conn.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return q, err
}

func (r *SQLiteRepo) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return r.listQuestions(ctx, `SELECT `+questionColumns+` FROM questions`)
}

func (r *SQLiteRepo) ListQuestionsByAuthor(ctx context.Context, authorID string) ([]models.Question, error) {
	return r.listQuestions(ctx, `SELECT `+questionColumns+` FROM questions WHERE author_id = ?`, authorID)
}

func (r *SQLiteRepo) listQuestions(ctx context.Context, query string, args ...any) ([]models.Question, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

// ListQuestionsWithAuthor is the join-and-flatten projection: one row per
// question with the author's display name attached. No explicit sort; the
// ordering is store-defined.
func (r *SQLiteRepo) ListQuestionsWithAuthor(ctx context.Context) ([]models.QuestionWithAuthor, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT q.id, q.title, q.body, q.tags, q.author_id, q.created, q.answers, u.username
		 FROM questions q JOIN users u ON u.id = q.author_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.QuestionWithAuthor{}
	for rows.Next() {
		var row models.QuestionWithAuthor
		var tags, answers string
		if err := rows.Scan(&row.ID, &row.Title, &row.Body, &tags, &row.AuthorID, &row.Created, &answers, &row.AuthorName); err != nil {
			return nil, err
		}
		if row.Tags, err = decodeSet(tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
		if row.Question.Answers, err = decodeSet(answers); err != nil {
			return nil, fmt.Errorf("decode answers set: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// UpdateQuestion applies a partial-field merge. AuthorID is not updatable
// here; the orchestrator rejects attempts to change it before calling in.
func (r *SQLiteRepo) UpdateQuestion(ctx context.Context, id string, p models.QuestionPatch) (*models.Question, error) {
	set := []string{}
	args := []any{}
	if p.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Body != nil {
		set = append(set, "body = ?")
		args = append(args, *p.Body)
	}
	if p.Tags != nil {
		set = append(set, "tags = ?")
		args = append(args, encodeSet(*p.Tags))
	}
	if len(set) > 0 {
		args = append(args, id)
		res, err := r.conn.Exec(ctx, `UPDATE questions SET `+joinSet(set)+` WHERE id = ?`, args...)
		if err != nil {
			return nil, err
		}
		if n, err := res.RowsAffected(); err != nil {
			return nil, err
		} else if n == 0 {
			return nil, repository.ErrNotFound
		}
	}

	return r.GetQuestionByID(ctx, id)
}

func (r *SQLiteRepo) DeleteQuestion(ctx context.Context, id string) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM questions WHERE id = ?`, id)
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

func (r *SQLiteRepo) QuestionExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.conn.QueryRow(ctx, `SELECT 1 FROM questions WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
