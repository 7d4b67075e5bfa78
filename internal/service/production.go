package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/qc-tracker/internal/access"
	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/logging"
	"github.com/Spok95/qc-tracker/internal/metrics"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/production"
)

// ProductionInput is what a user logs. A nil Target takes the tracker
// project's catalog target; the user name comes from the user list.
type ProductionInput struct {
	UserID      string `json:"userId"`
	Date        string `json:"date"`
	ProjectName string `json:"projectName"`
	Target      *int   `json:"target,omitempty"`
	ActualCount int    `json:"actualCount"`
}

// ProductionSummary returns a user's per-day totals, newest first. An empty
// userID means the viewer.
func (s *Service) ProductionSummary(ctx context.Context, viewer *models.User, userID string) ([]production.DaySummary, error) {
	if userID == "" {
		userID = viewer.ID
	}
	if !access.CanLogProductionFor(viewer, userID) {
		return nil, apperr.Forbiddenf("you can only view your own production")
	}
	recs, err := s.Production.List(ctx)
	if err != nil {
		return nil, err
	}
	return production.DailySummary(recs, userID), nil
}

func (s *Service) ProductionBreakdown(ctx context.Context, viewer *models.User, userID, date string) ([]models.ProductionRecord, error) {
	if !access.CanLogProductionFor(viewer, userID) {
		return nil, apperr.Forbiddenf("you can only view your own production")
	}
	recs, err := s.Production.List(ctx)
	if err != nil {
		return nil, err
	}
	return production.Breakdown(recs, userID, date), nil
}

func (s *Service) LogProduction(ctx context.Context, actor *models.User, in ProductionInput) (*models.ProductionRecord, error) {
	if in.UserID == "" {
		in.UserID = actor.ID
	}
	rec := models.ProductionRecord{ID: s.newID(), CreatedAt: s.nowMillis()}
	if err := s.fillProduction(ctx, actor, &rec, in); err != nil {
		return nil, err
	}
	err := s.Production.Update(ctx, func(recs []models.ProductionRecord) ([]models.ProductionRecord, error) {
		return append(recs, rec), nil
	})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx, s.log).Info("production logged",
		zap.String("id", rec.ID),
		zap.String("user", rec.UserID),
		zap.String("project", rec.ProjectName),
		zap.Int("actual", rec.ActualCount),
	)
	return &rec, nil
}

func (s *Service) UpdateProduction(ctx context.Context, actor *models.User, id string, in ProductionInput) (*models.ProductionRecord, error) {
	today := s.Today()
	var out models.ProductionRecord
	err := s.Production.Update(ctx, func(recs []models.ProductionRecord) ([]models.ProductionRecord, error) {
		idx := indexProduction(recs, id)
		if idx < 0 {
			return nil, apperr.NotFoundf("production entry %s not found", id)
		}
		cur := recs[idx]
		if !access.CanLogProductionFor(actor, cur.UserID) || !access.CanModifyProduction(actor, cur.Date, today) {
			return nil, apperr.Forbiddenf("only admins and managers can change production from previous days")
		}
		if in.UserID == "" {
			in.UserID = cur.UserID
		}
		if !access.CanModifyProduction(actor, in.Date, today) {
			return nil, apperr.Forbiddenf("only admins and managers can move production to previous days")
		}
		if err := s.fillProduction(ctx, actor, &cur, in); err != nil {
			return nil, err
		}
		recs[idx] = cur
		out = cur
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) DeleteProduction(ctx context.Context, actor *models.User, id string) error {
	today := s.Today()
	return s.Production.Update(ctx, func(recs []models.ProductionRecord) ([]models.ProductionRecord, error) {
		idx := indexProduction(recs, id)
		if idx < 0 {
			return nil, apperr.NotFoundf("production entry %s not found", id)
		}
		cur := recs[idx]
		if !access.CanLogProductionFor(actor, cur.UserID) || !access.CanModifyProduction(actor, cur.Date, today) {
			return nil, apperr.Forbiddenf("only admins and managers can change production from previous days")
		}
		return append(recs[:idx], recs[idx+1:]...), nil
	})
}

// fillProduction applies in to rec after the ownership and count checks.
// Day restrictions belong to edits and deletes only.
func (s *Service) fillProduction(ctx context.Context, actor *models.User, rec *models.ProductionRecord, in ProductionInput) error {
	if !access.CanLogProductionFor(actor, in.UserID) {
		return apperr.Forbiddenf("you can only log production for yourself")
	}
	owner, err := s.Users.Get(ctx, in.UserID)
	if err != nil {
		return err
	}
	tp, ok := s.Catalog.TrackerProject(strings.TrimSpace(in.ProjectName))
	if !ok {
		metrics.ValidationFailures.WithLabelValues("production").Inc()
		return apperr.Invalidf("unknown tracker project %q", in.ProjectName)
	}
	rec.UserID = owner.ID
	rec.UserName = owner.Name
	rec.Date = in.Date
	rec.ProjectName = tp.Name
	rec.Target = tp.Target
	if in.Target != nil {
		rec.Target = *in.Target
	}
	rec.ActualCount = in.ActualCount
	if err := production.Validate(rec); err != nil {
		metrics.ValidationFailures.WithLabelValues("production").Inc()
		return err
	}
	return nil
}

func indexProduction(recs []models.ProductionRecord, id string) int {
	for i := range recs {
		if recs[i].ID == id {
			return i
		}
	}
	return -1
}
