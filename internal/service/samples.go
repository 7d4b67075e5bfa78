package service

import (
	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/qc"
)

// GenerateSamples draws the 10% sample for a code range.
func (s *Service) GenerateSamples(start, end string) ([]models.SubSampleRecord, error) {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return qc.GenerateSamples(start, end, s.rng)
}

// Draft is an unsaved scoring sheet sent by the form for live totals.
type Draft struct {
	SubSamples    []models.SubSampleRecord `json:"subSamples"`
	ManualEnabled bool                     `json:"manualEnabled"`
	ManualScore   *float64                 `json:"manualScore,omitempty"`
	ManualErrors  []string                 `json:"manualErrors"`
}

type DraftScore struct {
	SubSamples  []models.SubSampleRecord `json:"subSamples"`
	ManualScore *float64                 `json:"manualScore,omitempty"`
	AvgScore    float64                  `json:"avgScore"`
	HasData     bool                     `json:"hasData"`
}

// ScoreDraft recomputes sample and manual scores without persisting anything.
func (s *Service) ScoreDraft(d Draft) (DraftScore, error) {
	for _, smp := range d.SubSamples {
		for _, id := range smp.Errors {
			if _, ok := s.Catalog.Error(id); !ok {
				return DraftScore{}, apperr.Invalidf("sample %s: unknown error %q", smp.QCCode, id)
			}
		}
	}
	for _, id := range d.ManualErrors {
		if _, ok := s.Catalog.Error(id); !ok {
			return DraftScore{}, apperr.Invalidf("manual audit: unknown error %q", id)
		}
	}
	rec := models.QCRecord{
		SubSamples:    d.SubSamples,
		ManualEnabled: d.ManualEnabled,
		ManualScore:   d.ManualScore,
		ManualErrors:  d.ManualErrors,
	}
	qc.Evaluate(s.Catalog, &rec)
	var manual *float64
	if rec.ManualEnabled {
		manual = rec.ManualScore
	}
	_, ok := qc.Average(rec.SubSamples, manual)
	return DraftScore{
		SubSamples:  rec.SubSamples,
		ManualScore: manual,
		AvgScore:    rec.AvgScore,
		HasData:     ok,
	}, nil
}
