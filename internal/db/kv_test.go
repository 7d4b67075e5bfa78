package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Spok95/qc-tracker/internal/db"
	"github.com/Spok95/qc-tracker/internal/store"
)

func openSQLite(t *testing.T) *db.KV {
	t.Helper()
	ctx := context.Background()
	database, err := db.Open(ctx, db.SQLite, filepath.Join(t.TempDir(), "qc.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Migrate(ctx, database, db.SQLite); err != nil {
		t.Fatal(err)
	}
	kv, err := db.NewKV(database, db.SQLite)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestSQLiteKV(t *testing.T) {
	ctx := context.Background()
	kv := openSQLite(t)

	if _, err := kv.Get(ctx, store.KeyProduction); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := kv.Set(ctx, store.KeyProduction, []byte(`[{"id":"p1"}]`)); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, store.KeyProduction, []byte(`[{"id":"p2"}]`)); err != nil {
		t.Fatal(err)
	}
	got, err := kv.Get(ctx, store.KeyProduction)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `[{"id":"p2"}]` {
		t.Fatalf("upsert did not overwrite: %s", got)
	}
	if err := kv.Delete(ctx, store.KeyProduction); err != nil {
		t.Fatal(err)
	}
	if _, err := kv.Get(ctx, store.KeyProduction); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("after delete: %v", err)
	}
	if err := kv.Ping(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, db.SQLite, filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()
	for i := 0; i < 2; i++ {
		if err := db.Migrate(ctx, database, db.SQLite); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	v, err := db.Version(ctx, database, db.SQLite)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 {
		t.Fatalf("version %d, want 2", v)
	}
}

func TestUnknownDialect(t *testing.T) {
	if _, err := db.NewKV(nil, "oracle"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := db.Open(context.Background(), "oracle", ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenSQLite_KeepsExistingQuery(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "qc.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Open(ctx, db.SQLite, path)
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	var fk, busy int
	if err := database.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if err := database.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy); err != nil {
		t.Fatal(err)
	}
	if fk != 1 || busy != 5000 {
		t.Fatalf("foreign_keys=%d busy_timeout=%d", fk, busy)
	}
}
