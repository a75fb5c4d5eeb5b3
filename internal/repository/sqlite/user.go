package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/answerhub/answerhub/pkg/models"
	"github.com/answerhub/answerhub/pkg/repository"
)

const userColumns = `id, username, email, password_hash, reputation, join_date, bio, questions, answers, voters`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var questions, answers, voters string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Reputation, &u.JoinDate, &u.Bio, &questions, &answers, &voters); err != nil {
		return nil, err
	}

	var err error
	if u.Questions, err = decodeSet(questions); err != nil {
		return nil, fmt.Errorf("decode questions set: %w", err)
	}
	if u.Answers, err = decodeSet(answers); err != nil {
		return nil, fmt.Errorf("decode answers set: %w", err)
	}
	if u.Voters, err = decodeSet(voters); err != nil {
		return nil, fmt.Errorf("decode voters set: %w", err)
	}

	return &u, nil
}

// CreateUser inserts a new user document and returns its minted id.
// Email uniqueness is enforced with a pre-insert lookup; the UNIQUE index on
// the column is the backstop for concurrent registrations.
func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (string, error) {
	if u == nil {
		return "", fmt.Errorf("user is nil")
	}

	existing, err := r.GetUserByEmail(ctx, u.Email)
	if err != nil && err != repository.ErrNotFound {
		return "", err
	}
	if existing != nil {
		return "", repository.ErrDuplicateEmail
	}

	id := newID()
	if u.JoinDate == 0 {
		u.JoinDate = now()
	}
	_, err = r.conn.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, u.Username, u.Email, u.PasswordHash, u.Reputation, u.JoinDate, u.Bio,
		encodeSet(u.Questions), encodeSet(u.Answers), encodeSet(u.Voters))
	if err != nil {
		if isUniqueViolation(err) {
			return "", repository.ErrDuplicateEmail
		}
		return "", err
	}

	u.ID = id
	return id, nil
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return u, err
}

func (r *SQLiteRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return u, err
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return u, err
}

func (r *SQLiteRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// UpdateUser applies a partial-field merge: only non-nil patch fields
// overwrite stored values. Returns the updated document.
func (r *SQLiteRepo) UpdateUser(ctx context.Context, id string, p models.UserPatch) (*models.User, error) {
	set := []string{}
	args := []any{}
	if p.Username != nil {
		set = append(set, "username = ?")
		args = append(args, *p.Username)
	}
	if p.Email != nil {
		set = append(set, "email = ?")
		args = append(args, *p.Email)
	}
	if p.PasswordHash != nil {
		set = append(set, "password_hash = ?")
		args = append(args, *p.PasswordHash)
	}
	if p.Bio != nil {
		set = append(set, "bio = ?")
		args = append(args, *p.Bio)
	}
	if len(set) > 0 {
		args = append(args, id)
		res, err := r.conn.Exec(ctx, `UPDATE users SET `+joinSet(set)+` WHERE id = ?`, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, repository.ErrDuplicateEmail
			}
			return nil, err
		}
		if n, err := res.RowsAffected(); err != nil {
			return nil, err
		} else if n == 0 {
			return nil, repository.ErrNotFound
		}
	}

	return r.GetUserByID(ctx, id)
}

func (r *SQLiteRepo) DeleteUser(ctx context.Context, id string) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM users WHERE id = ?`, id)
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

func (r *SQLiteRepo) UserExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.conn.QueryRow(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
