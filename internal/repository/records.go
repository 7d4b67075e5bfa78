package repository

import (
	"context"

	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/store"
)

type Records struct {
	c collection[models.QCRecord]
}

func NewRecords(kv store.KV, locks *store.KeyLocks) *Records {
	return &Records{c: collection[models.QCRecord]{kv: kv, key: store.KeyRecords, locks: locks}}
}

func (r *Records) List(ctx context.Context) ([]models.QCRecord, error) { return r.c.list(ctx) }

func (r *Records) Get(ctx context.Context, id string) (*models.QCRecord, error) {
	recs, err := r.c.list(ctx)
	if err != nil {
		return nil, err
	}
	if i := IndexRecord(recs, id); i >= 0 {
		return &recs[i], nil
	}
	return nil, apperr.NotFoundf("record %s not found", id)
}

func (r *Records) Update(ctx context.Context, fn func([]models.QCRecord) ([]models.QCRecord, error)) error {
	return r.c.update(ctx, fn)
}

// IndexRecord returns the position of id in recs or -1.
func IndexRecord(recs []models.QCRecord, id string) int {
	for i := range recs {
		if recs[i].ID == id {
			return i
		}
	}
	return -1
}
