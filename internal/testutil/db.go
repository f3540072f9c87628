package testutil

import (
	"context"
	"database/sql"
	"testing"

	"student-manager/internal/db"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// NewDB returns an in-memory SQLite bun handle with the tables for the
// given models created. A single connection keeps the in-memory database
// alive for the whole test.
func NewDB(t *testing.T, models ...interface{}) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	database := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(context.Background(), database, models...))
	return database
}

// CleanupTables removes all rows from the given tables so subtests start
// from a known state.
func CleanupTables(t *testing.T, database *bun.DB, tables ...string) {
	t.Helper()
	for _, table := range tables {
		_, err := database.ExecContext(context.Background(), "DELETE FROM "+table)
		require.NoError(t, err)
	}
}
