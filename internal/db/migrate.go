package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

func gooseDialect(dialect string) (string, string, error) {
	switch dialect {
	case Postgres:
		return "postgres", "migrations/postgres", nil
	case SQLite:
		return "sqlite3", "migrations/sqlite", nil
	}
	return "", "", fmt.Errorf("unknown sql dialect %q", dialect)
}

// Migrate applies the embedded goose migrations for dialect.
func Migrate(ctx context.Context, database *sql.DB, dialect string) error {
	gd, dir, err := gooseDialect(dialect)
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect(gd); err != nil {
		return err
	}
	goose.SetLogger(goose.NopLogger())
	if err := goose.UpContext(ctx, database, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Version reports the applied migration version.
func Version(ctx context.Context, database *sql.DB, dialect string) (int64, error) {
	gd, _, err := gooseDialect(dialect)
	if err != nil {
		return 0, err
	}
	if err := goose.SetDialect(gd); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, database)
}
