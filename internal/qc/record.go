package qc

import (
	"strings"
	"time"

	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/catalog"
	"github.com/Spok95/qc-tracker/internal/models"
)

// Evaluate recomputes every derived score field of r in place: sample scores,
// the manual score and avgScore. Manual errors, when present, define the manual
// score; a bare manual score is only taken as given when no errors are tagged.
func Evaluate(c *catalog.Catalog, r *models.QCRecord) {
	r.SubSamples = Rescore(c, r.SubSamples)

	var manual *float64
	if r.ManualEnabled {
		if len(r.ManualErrors) > 0 || r.ManualScore == nil {
			v := float64(Score(c, r.ManualErrors))
			r.ManualScore = &v
		}
		manual = r.ManualScore
	} else {
		r.ManualScore = nil
	}
	r.AvgScore, _ = Average(r.SubSamples, manual)
}

// ResolveOriginalScore applies the rework rule: a rework save inherits the
// original score of the stored record, any other save starts a new lineage.
func ResolveOriginalScore(incoming, existing *models.QCRecord) float64 {
	if existing == nil || !incoming.ReworkStatus {
		return incoming.AvgScore
	}
	return existing.OriginalOrAvg()
}

// CheckSlot rejects cand when another record already holds its evaluation slot
// for the same agent and day. The record being edited never collides with itself.
func CheckSlot(records []models.QCRecord, cand *models.QCRecord) error {
	for i := range records {
		r := &records[i]
		if r.ID == cand.ID {
			continue
		}
		if r.Date != cand.Date || r.TimeSlot != cand.TimeSlot || !sameAgent(r, cand) {
			continue
		}
		return apperr.Conflictf("%s already has an evaluation for the %s slot on %s",
			cand.AgentName, cand.TimeSlot, cand.Date)
	}
	return nil
}

func sameAgent(a, b *models.QCRecord) bool {
	if a.AgentID != "" && b.AgentID != "" {
		return a.AgentID == b.AgentID
	}
	return models.SameName(a.AgentName, b.AgentName)
}

// ValidateSubmission checks the fields an evaluator must fill before saving.
func ValidateSubmission(c *catalog.Catalog, r *models.QCRecord) error {
	if strings.TrimSpace(r.Notes) == "" {
		return apperr.Invalidf("feedback comments are mandatory")
	}
	if strings.TrimSpace(r.AgentName) == "" && r.AgentID == "" {
		return apperr.Invalidf("agent is required")
	}
	if _, err := time.Parse(models.DateLayout, r.Date); err != nil {
		return apperr.Invalidf("date must be YYYY-MM-DD, got %q", r.Date)
	}
	if !c.HasSlot(r.TimeSlot) {
		return apperr.Invalidf("unknown evaluation slot %q", r.TimeSlot)
	}
	if !c.HasProject(r.ProjectName) {
		return apperr.Invalidf("unknown project %q", r.ProjectName)
	}
	if strings.TrimSpace(r.TaskName) == "" {
		return apperr.Invalidf("task name is required")
	}
	if len(r.SubSamples) == 0 && !r.NoWork {
		return apperr.Invalidf("please generate 10%% sampling records first")
	}
	for _, s := range r.SubSamples {
		for _, id := range s.Errors {
			if _, ok := c.Error(id); !ok {
				return apperr.Invalidf("sample %s: unknown error %q", s.QCCode, id)
			}
		}
	}
	if r.ManualEnabled {
		for _, id := range r.ManualErrors {
			if _, ok := c.Error(id); !ok {
				return apperr.Invalidf("manual audit: unknown error %q", id)
			}
		}
		if m := r.ManualScore; m != nil && (*m < 0 || *m > MaxScore) {
			return apperr.Invalidf("manual score must be between 0 and 100")
		}
	}
	return nil
}
