package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/store"
)

// Sessions stores one blob per session id.
type Sessions struct {
	kv store.KV
}

func NewSessions(kv store.KV) *Sessions { return &Sessions{kv: kv} }

func (r *Sessions) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := r.kv.Get(ctx, store.SessionKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.Unauthorized, "session expired or logged out")
	}
	if err != nil {
		return nil, err
	}
	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (r *Sessions) Put(ctx context.Context, s *models.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.kv.Set(ctx, store.SessionKey(s.ID), raw)
}

func (r *Sessions) Delete(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, store.SessionKey(id))
}
