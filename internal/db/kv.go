package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/qc-tracker/internal/ctxutil"
	"github.com/Spok95/qc-tracker/internal/metrics"
	"github.com/Spok95/qc-tracker/internal/store"
)

// KV implements store.KV over the kv_blobs table.
type KV struct {
	db      *sql.DB
	getQ    string
	setQ    string
	deleteQ string
}

var _ store.KV = (*KV)(nil)

func NewKV(database *sql.DB, dialect string) (*KV, error) {
	switch dialect {
	case Postgres:
		return &KV{
			db:   database,
			getQ: `SELECT value::text FROM kv_blobs WHERE key = $1`,
			setQ: `INSERT INTO kv_blobs (key, value, updated_at) VALUES ($1, $2::jsonb, now())
				ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			deleteQ: `DELETE FROM kv_blobs WHERE key = $1`,
		}, nil
	case SQLite:
		return &KV{
			db:   database,
			getQ: `SELECT value FROM kv_blobs WHERE key = ?`,
			setQ: `INSERT INTO kv_blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
				ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			deleteQ: `DELETE FROM kv_blobs WHERE key = ?`,
		}, nil
	}
	return nil, fmt.Errorf("unknown sql dialect %q", dialect)
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore("get", time.Now())

	var v string
	err := k.db.QueryRowContext(ctx, k.getQ, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}
	return []byte(v), nil
}

func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore("set", time.Now())

	if _, err := k.db.ExecContext(ctx, k.setQ, key, string(value)); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (k *KV) Delete(ctx context.Context, key string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore("delete", time.Now())

	if _, err := k.db.ExecContext(ctx, k.deleteQ, key); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

func (k *KV) Ping(ctx context.Context) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	t0 := time.Now()
	if err := k.db.PingContext(ctx); err != nil {
		return err
	}
	metrics.ObserveDBPing(time.Since(t0))
	return nil
}

func (k *KV) Close() error { return k.db.Close() }
