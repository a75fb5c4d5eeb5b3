package sqlite

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/answerhub/answerhub/internal/db"
	"github.com/answerhub/answerhub/pkg/repository"
)

// SQLiteRepo implements the repository interfaces using the internal DB
// wrapper. Entities are stored one row per document; link sets and vote sets
// live in JSON array columns and are mutated with SQLite's JSON functions so
// every cross-reference write is a single atomic conditional UPDATE.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.QuestionRepo = (*SQLiteRepo)(nil)
var _ repository.AnswerRepo = (*SQLiteRepo)(nil)
var _ repository.LinkRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// newID mints an opaque unique document id.
func newID() string {
	return uuid.NewString()
}

// encodeSet serializes a link/vote set for storage. A nil set stores as [].
func encodeSet(s []string) string {
	if s == nil {
		s = []string{}
	}
	b, _ := json.Marshal(s)
	return string(b)
}

// decodeSet deserializes a stored link/vote set. Always returns a non-nil
// slice so views render [] instead of null.
func decodeSet(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// joinSet assembles the SET clause of a partial update.
func joinSet(clauses []string) string {
	return strings.Join(clauses, ", ")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
