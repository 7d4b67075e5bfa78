// Package repository keeps the four persisted collections as JSON blobs in a store.KV.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Spok95/qc-tracker/internal/store"
)

// collection is one JSON array under one key.
type collection[T any] struct {
	kv    store.KV
	key   string
	locks *store.KeyLocks
	// seed is returned, and persisted on the first write, while the key is absent.
	seed []T
}

func (c *collection[T]) load(ctx context.Context) ([]T, bool, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if errors.Is(err, store.ErrNotFound) {
		out := make([]T, len(c.seed))
		copy(out, c.seed)
		return out, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, true, fmt.Errorf("decode %s: %w", c.key, err)
	}
	return out, true, nil
}

func (c *collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return c.kv.Set(ctx, c.key, raw)
}

func (c *collection[T]) list(ctx context.Context) ([]T, error) {
	items, _, err := c.load(ctx)
	return items, err
}

// update runs fn on the current items under the key lock and persists the
// result. An error from fn aborts without writing.
func (c *collection[T]) update(ctx context.Context, fn func([]T) ([]T, error)) error {
	unlock := c.locks.Lock(c.key)
	defer unlock()

	items, _, err := c.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, next)
}
