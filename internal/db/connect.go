package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/Spok95/qc-tracker/internal/metrics"
)

// Dialects understood by Open and Migrate.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Open connects to the SQL backend and pings it. For sqlite the dsn is a
// file path whose directory is created on demand.
func Open(ctx context.Context, dialect, dsn string) (*sql.DB, error) {
	var driver string
	switch dialect {
	case Postgres:
		driver = "pgx"
	case SQLite:
		driver = "sqlite"
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unknown sql dialect %q", dialect)
	}

	database, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == SQLite {
		database.SetMaxOpenConns(1)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	t0 := time.Now()
	if err := database.PingContext(pctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	metrics.ObserveDBPing(time.Since(t0))
	return database, nil
}

// sqliteDSN appends the connection pragmas, keeping any query the path
// already carries.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
