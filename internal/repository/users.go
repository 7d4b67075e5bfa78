package repository

import (
	"context"

	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/store"
)

type Users struct {
	c collection[models.User]
}

// NewUsers returns the user collection; seed is served until the first write.
func NewUsers(kv store.KV, locks *store.KeyLocks, seed []models.User) *Users {
	return &Users{c: collection[models.User]{kv: kv, key: store.KeyUsers, locks: locks, seed: seed}}
}

func (r *Users) List(ctx context.Context) ([]models.User, error) { return r.c.list(ctx) }

func (r *Users) Get(ctx context.Context, id string) (*models.User, error) {
	users, err := r.c.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, apperr.NotFoundf("user %s not found", id)
}

// ByTelegramID finds the user linked to a chat.
func (r *Users) ByTelegramID(ctx context.Context, chatID int64) (*models.User, error) {
	users, err := r.c.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].TelegramID != nil && *users[i].TelegramID == chatID {
			return &users[i], nil
		}
	}
	return nil, apperr.NotFoundf("no user linked to chat %d", chatID)
}

func (r *Users) Update(ctx context.Context, fn func([]models.User) ([]models.User, error)) error {
	return r.c.update(ctx, fn)
}

// Seed persists the seed list when nothing is stored yet. Reports whether it wrote.
func (r *Users) Seed(ctx context.Context) (bool, error) {
	unlock := r.c.locks.Lock(r.c.key)
	defer unlock()
	items, found, err := r.c.load(ctx)
	if err != nil || found {
		return false, err
	}
	return true, r.c.save(ctx, items)
}
