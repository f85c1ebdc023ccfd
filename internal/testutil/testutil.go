package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/leetloop/leetloop/internal/db"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection is kept so every query sees the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// MustExec runs a statement and fails the test on error.
func MustExec(t *testing.T, sqlDB *sql.DB, query string, args ...any) sql.Result {
	res, err := sqlDB.Exec(query, args...)
	require.NoError(t, err)
	return res
}
