package repository

import (
	"context"

	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/store"
)

type Production struct {
	c collection[models.ProductionRecord]
}

func NewProduction(kv store.KV, locks *store.KeyLocks) *Production {
	return &Production{c: collection[models.ProductionRecord]{kv: kv, key: store.KeyProduction, locks: locks}}
}

func (r *Production) List(ctx context.Context) ([]models.ProductionRecord, error) {
	return r.c.list(ctx)
}

func (r *Production) Get(ctx context.Context, id string) (*models.ProductionRecord, error) {
	recs, err := r.c.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].ID == id {
			return &recs[i], nil
		}
	}
	return nil, apperr.NotFoundf("production entry %s not found", id)
}

func (r *Production) Update(ctx context.Context, fn func([]models.ProductionRecord) ([]models.ProductionRecord, error)) error {
	return r.c.update(ctx, fn)
}
