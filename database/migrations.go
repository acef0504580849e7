package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/local/*.sql
var embedMigrations embed.FS

// RunMigrations brings the shared PostgreSQL schema up to date.
func RunMigrations(db *sql.DB) error {
	return migrate(db, "postgres", "migrations/postgres")
}

// RunLocalMigrations brings the local SQLite schema up to date.
func RunLocalMigrations(db *sql.DB) error {
	return migrate(db, "sqlite3", "migrations/local")
}

func migrate(db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", dialect, err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to verify migration version: %w", err)
	}
	slog.Info("Database migrated", "dialect", dialect, "version", version)

	return nil
}
