package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/qc-tracker/internal/access"
	"github.com/Spok95/qc-tracker/internal/analytics"
	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/logging"
	"github.com/Spok95/qc-tracker/internal/metrics"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/qc"
	"github.com/Spok95/qc-tracker/internal/repository"
)

// Save kinds, also used as the records_saved_total label.
const (
	SaveCreate = "create"
	SaveEdit   = "edit"
	SaveRework = "rework"
)

// RecordQuery filters the report table. Search matches agent or project
// names, case-insensitively.
type RecordQuery struct {
	Search  string
	Project string
	Agent   string
	From    string
	To      string
}

func (q RecordQuery) filter() analytics.Filter {
	f := analytics.Filter{From: q.From, To: q.To, Project: q.Project}
	if q.Agent != "" && q.Agent != "All" {
		f.Agents = []string{q.Agent}
	}
	return f
}

// ListRecords returns what viewer may see, newest first.
func (s *Service) ListRecords(ctx context.Context, viewer *models.User, q RecordQuery) ([]models.QCRecord, error) {
	all, err := s.currentRecords(ctx)
	if err != nil {
		return nil, err
	}
	recs := analytics.Apply(viewer, all, q.filter())
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		kept := recs[:0]
		for _, r := range recs {
			if strings.Contains(strings.ToLower(r.AgentName), term) ||
				strings.Contains(strings.ToLower(r.ProjectName), term) {
				kept = append(kept, r)
			}
		}
		recs = kept
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].CreatedAt > recs[j].CreatedAt })
	return recs, nil
}

func (s *Service) GetRecord(ctx context.Context, viewer *models.User, id string) (*models.QCRecord, error) {
	r, err := s.Records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanViewRecord(viewer, r) {
		return nil, apperr.Forbiddenf("you cannot view this record")
	}
	return r, nil
}

// SaveRecord creates or re-submits a record. Derived scores, the original
// score and the timestamps are always recomputed here; client values for
// them are ignored.
func (s *Service) SaveRecord(ctx context.Context, actor *models.User, in models.QCRecord) (*models.QCRecord, error) {
	if !access.CanCreateRecord(actor) {
		return nil, apperr.Forbiddenf("your role cannot submit QC audits")
	}
	if err := s.resolveAgent(ctx, &in); err != nil {
		metrics.ValidationFailures.WithLabelValues("record").Inc()
		return nil, err
	}
	if strings.TrimSpace(in.QCCheckerName) == "" {
		in.QCCheckerName = actor.Name
	}
	if err := qc.ValidateSubmission(s.Catalog, &in); err != nil {
		metrics.ValidationFailures.WithLabelValues("record").Inc()
		return nil, err
	}
	qc.Evaluate(s.Catalog, &in)

	today := s.Today()
	kind := SaveCreate
	var saved models.QCRecord
	err := s.Records.Update(ctx, func(recs []models.QCRecord) ([]models.QCRecord, error) {
		idx := -1
		if in.ID != "" {
			idx = repository.IndexRecord(recs, in.ID)
		} else {
			in.ID = s.newID()
		}

		var existing *models.QCRecord
		if idx >= 0 {
			existing = &recs[idx]
			if !access.CanEditRecord(actor, existing, today) || !access.CanEditRecord(actor, &in, today) {
				return nil, apperr.Forbiddenf("only admins and managers can edit records from previous days")
			}
			kind = SaveEdit
			if in.ReworkStatus {
				kind = SaveRework
			}
		}

		if err := qc.CheckSlot(recs, &in); err != nil {
			metrics.SlotConflicts.Inc()
			return nil, err
		}

		orig := qc.ResolveOriginalScore(&in, existing)
		in.OriginalScore = &orig
		in.UpdatedAt = s.nowMillis()
		in.AgentReviewStatus = models.ReviewPending
		in.AgentReviewNote = ""
		if existing != nil {
			in.CreatedAt = existing.CreatedAt
			recs[idx] = in
		} else {
			in.CreatedAt = in.UpdatedAt
			recs = append(recs, in)
		}
		saved = in
		return recs, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordsSaved.WithLabelValues(kind).Inc()
	logging.FromContext(ctx, s.log).Info("qc record saved",
		zap.String("id", saved.ID),
		zap.String("kind", kind),
		zap.String("agent", saved.AgentName),
		zap.String("slot", saved.TimeSlot),
		zap.Float64("avg", saved.AvgScore),
		zap.String("by", actor.ID),
	)
	s.notifier.RecordSaved(ctx, saved, kind)
	return &saved, nil
}

// currentRecords lists all records with each agent shown under the
// current name of the user it points at.
func (s *Service) currentRecords(ctx context.Context) ([]models.QCRecord, error) {
	recs, err := s.Records.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	for i := range recs {
		if n, ok := names[recs[i].AgentID]; ok && recs[i].AgentID != "" {
			recs[i].AgentName = n
		}
	}
	return recs, nil
}

// resolveAgent fills the agent id or name from the user list so records
// always carry both.
func (s *Service) resolveAgent(ctx context.Context, r *models.QCRecord) error {
	users, err := s.Users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if (r.AgentID != "" && u.ID == r.AgentID) || (r.AgentID == "" && models.SameName(u.Name, r.AgentName)) {
			if u.Role != models.Agent {
				return apperr.Invalidf("%s is not an agent", u.Name)
			}
			r.AgentID, r.AgentName = u.ID, u.Name
			return nil
		}
	}
	if r.AgentID == "" && strings.TrimSpace(r.AgentName) == "" {
		return apperr.Invalidf("agent is required")
	}
	if r.AgentID != "" {
		return apperr.Invalidf("unknown agent id %q", r.AgentID)
	}
	return apperr.Invalidf("unknown agent %q", r.AgentName)
}

func (s *Service) DeleteRecord(ctx context.Context, actor *models.User, id string) error {
	today := s.Today()
	var deleted models.QCRecord
	err := s.Records.Update(ctx, func(recs []models.QCRecord) ([]models.QCRecord, error) {
		idx := repository.IndexRecord(recs, id)
		if idx < 0 {
			return nil, apperr.NotFoundf("record %s not found", id)
		}
		if !access.CanDeleteRecord(actor, &recs[idx], today) {
			return nil, apperr.Forbiddenf("you cannot delete this record")
		}
		deleted = recs[idx]
		return append(recs[:idx], recs[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	logging.FromContext(ctx, s.log).Info("qc record deleted", zap.String("id", id), zap.String("by", actor.ID))
	s.notifier.RecordDeleted(ctx, deleted)
	return nil
}

// ReviewRecord records the audited agent's acknowledgement or dispute.
func (s *Service) ReviewRecord(ctx context.Context, actor *models.User, id string, status models.AgentReviewStatus, note string) (*models.QCRecord, error) {
	if !status.Valid() || status == models.ReviewPending {
		return nil, apperr.Invalidf("review status must be ACKNOWLEDGED or DISPUTED")
	}
	note = strings.TrimSpace(note)
	if status == models.ReviewDisputed && note == "" {
		return nil, apperr.Invalidf("please explain the dispute")
	}
	var out models.QCRecord
	err := s.Records.Update(ctx, func(recs []models.QCRecord) ([]models.QCRecord, error) {
		idx := repository.IndexRecord(recs, id)
		if idx < 0 {
			return nil, apperr.NotFoundf("record %s not found", id)
		}
		if !access.CanReviewRecord(actor, &recs[idx]) {
			return nil, apperr.Forbiddenf("only the audited agent can review this record")
		}
		recs[idx].AgentReviewStatus = status
		recs[idx].AgentReviewNote = note
		out = recs[idx]
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
