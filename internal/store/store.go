// Package store defines the key-value persistence the repositories sit on.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for a key that was never written.
var ErrNotFound = errors.New("store: key not found")

// KV holds opaque JSON blobs under string keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Keys of the persisted collections.
const (
	KeyUsers      = "qc_tool_users"
	KeyRecords    = "qc_tool_records"
	KeyProduction = "qc_tool_production"
	// KeySessionPrefix is followed by the session id.
	KeySessionPrefix = "qc_tool_current_user:"
)

func SessionKey(id string) string { return KeySessionPrefix + id }
