package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"student-manager/internal/config"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// New opens a bun handle over Postgres. An unreachable or misconfigured
// database is not fatal: the handle is still returned and every query
// fails until the configuration or the server is fixed. Callers report
// those failures; the process keeps running.
func New(cfg config.DatabaseConfig) *bun.DB {
	if !cfg.Complete() {
		slog.Error("database configuration incomplete; all operations will fail until it is corrected")
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		sslMode,
	)

	return NewWithDSN(dsn)
}

// NewWithDSN creates a database handle from a raw DSN (useful for testing).
func NewWithDSN(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.Ping(); err != nil {
		slog.Warn("database unreachable; operations will fail until it recovers", "error", err)
	} else {
		slog.Info("database connected successfully")
	}

	return db
}

func Close(db *bun.DB) {
	if db != nil {
		db.Close()
	}
}

// RunMigrations creates the tables for the given models if they do not
// exist yet. Dedicated migration tooling is deliberately out of scope.
func RunMigrations(ctx context.Context, db *bun.DB, models ...interface{}) error {
	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for model: %w", err)
		}
	}
	slog.Info("database schema ensured")
	return nil
}
