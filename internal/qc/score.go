package qc

import (
	"math"
	"slices"

	"github.com/Spok95/qc-tracker/internal/models"
)

const MaxScore = 100

// Weights resolves an error id to its (non-positive) weight.
type Weights interface {
	Weight(id string) int
}

// Score is 100 plus the weights of the selected errors, floored at zero.
func Score(w Weights, errorIDs []string) int {
	s := MaxScore
	for _, id := range errorIDs {
		s += w.Weight(id)
	}
	return max(0, s)
}

// ToggleError adds id to the sample or removes it if already present.
func ToggleError(w Weights, s models.SubSampleRecord, id string) models.SubSampleRecord {
	errs := slices.Clone(s.Errors)
	if i := slices.Index(errs, id); i >= 0 {
		errs = slices.Delete(errs, i, i+1)
	} else {
		errs = append(errs, id)
	}
	if errs == nil {
		errs = []string{}
	}
	s.Errors = errs
	s.NoError = len(errs) == 0
	s.Score = Score(w, errs)
	return s
}

// ClearErrors marks the sample as error free.
func ClearErrors(s models.SubSampleRecord) models.SubSampleRecord {
	s.Errors = []string{}
	s.NoError = true
	s.Score = MaxScore
	return s
}

// Rescore recomputes noError and score from the error ids, ignoring whatever the
// client sent for those fields.
func Rescore(w Weights, samples []models.SubSampleRecord) []models.SubSampleRecord {
	out := make([]models.SubSampleRecord, len(samples))
	for i, s := range samples {
		if s.Errors == nil {
			s.Errors = []string{}
		}
		s.NoError = len(s.Errors) == 0
		s.Score = Score(w, s.Errors)
		out[i] = s
	}
	return out
}

// Average is the mean of the sample scores plus the manual score when given,
// rounded to one decimal. With no data points it returns (100, false).
func Average(samples []models.SubSampleRecord, manual *float64) (float64, bool) {
	sum, n := 0.0, 0
	for _, s := range samples {
		sum += float64(s.Score)
		n++
	}
	if manual != nil {
		sum += *manual
		n++
	}
	if n == 0 {
		return MaxScore, false
	}
	return Round1(sum / float64(n)), true
}

func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
