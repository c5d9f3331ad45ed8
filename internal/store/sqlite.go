package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jask/scenariopanel/internal/database"
)

// SQLite stores values in the scenario_store table. The schema comes from database.RunMigrations.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM scenario_store WHERE key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "get %s", key)
	}
	return v, true, nil
}

// Put upserts value and stamps a new revision.
func (s *SQLite) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO scenario_store(key, value, revision, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
	 value=excluded.value,
	 revision=excluded.revision,
	 updated_at=excluded.updated_at;
	`, key, value, uuid.NewString(), database.Now())
	return errors.Wrapf(err, "put %s", key)
}

func (s *SQLite) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM scenario_store WHERE key = ?`, key)
	return errors.Wrapf(err, "remove %s", key)
}
