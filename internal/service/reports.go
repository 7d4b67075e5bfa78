package service

import (
	"context"

	"github.com/Spok95/qc-tracker/internal/access"
	"github.com/Spok95/qc-tracker/internal/analytics"
	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/models"
)

// Dashboard builds the analytics view scoped to what viewer may see.
func (s *Service) Dashboard(ctx context.Context, viewer *models.User, f analytics.Filter) (analytics.Dashboard, error) {
	all, err := s.currentRecords(ctx)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	return analytics.Build(s.Catalog.Projects, analytics.Apply(viewer, all, f)), nil
}

// ExportRecords is ListRecords gated by the export permission.
func (s *Service) ExportRecords(ctx context.Context, actor *models.User, q RecordQuery) ([]models.QCRecord, error) {
	if !access.CanExport(actor) {
		return nil, apperr.Forbiddenf("only admins and managers can export reports")
	}
	return s.ListRecords(ctx, actor, q)
}

// AgentSummary averages a user's scored records over the last days days,
// today included.
func (s *Service) AgentSummary(ctx context.Context, u *models.User, days int) (analytics.AgentScore, error) {
	all, err := s.currentRecords(ctx)
	if err != nil {
		return analytics.AgentScore{}, err
	}
	from := s.Now().AddDate(0, 0, -(days - 1)).Format(models.DateLayout)
	var own []models.QCRecord
	for _, r := range all {
		if access.IsRecordAgent(u, &r) && r.Date >= from && r.Date <= s.Today() {
			own = append(own, r)
		}
	}
	if avgs := analytics.AgentAverages(own); len(avgs) > 0 {
		return avgs[0], nil
	}
	return analytics.AgentScore{Agent: u.Name}, nil
}

// DayAverages is the per-agent average for one date.
func (s *Service) DayAverages(ctx context.Context, date string) ([]analytics.AgentScore, error) {
	all, err := s.currentRecords(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.AgentAverages(analytics.Apply(nil, all, analytics.Filter{From: date, To: date})), nil
}

// LinkedUsers returns the users with a Telegram chat.
func (s *Service) LinkedUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.User
	for _, u := range users {
		if u.TelegramID != nil {
			out = append(out, u)
		}
	}
	return out, nil
}
