package qc

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Spok95/qc-tracker/internal/catalog"
	"github.com/Spok95/qc-tracker/internal/models"
)

func TestScore(t *testing.T) {
	c := catalog.Default()
	cases := []struct {
		name string
		ids  []string
		want int
	}{
		{"empty", nil, 100},
		{"single", []string{"fmt1"}, 95},
		{"zero weight", []string{"adh2"}, 100},
		{"several", []string{"fmt1", "adh1", "src2"}, 80},
		{"unknown ignored", []string{"nope", "fmt2"}, 98},
		{"floored", []string{"ftl1", "ftl1", "ftl1", "ftl1", "ftl1", "ftl1", "ftl1"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(c, tc.ids); got != tc.want {
				t.Fatalf("Score(%v) = %d, want %d", tc.ids, got, tc.want)
			}
		})
	}
}

func TestToggleError_PairIsIdentity(t *testing.T) {
	c := catalog.Default()
	start := models.SubSampleRecord{QCCode: "Altrum/07", Errors: []string{"fmt2"}, NoError: false, Score: 98}

	once := ToggleError(c, start, "src1")
	if once.Score != 88 || once.NoError || len(once.Errors) != 2 {
		t.Fatalf("after first toggle: %+v", once)
	}
	twice := ToggleError(c, once, "src1")
	if diff := cmp.Diff(start, twice); diff != "" {
		t.Fatalf("toggle pair changed the sample (-want +got):\n%s", diff)
	}
	if len(start.Errors) != 1 {
		t.Fatalf("input sample was mutated: %+v", start)
	}
}

func TestToggleError_LastErrorRestoresNoError(t *testing.T) {
	c := catalog.Default()
	s := ToggleError(c, models.SubSampleRecord{QCCode: "A1", Errors: []string{}, NoError: true, Score: 100}, "fmt1")
	s = ToggleError(c, s, "fmt1")
	if !s.NoError || s.Score != 100 || s.Errors == nil || len(s.Errors) != 0 {
		t.Fatalf("want clean sample, got %+v", s)
	}
}

func TestClearErrors(t *testing.T) {
	s := ClearErrors(models.SubSampleRecord{QCCode: "A1", Errors: []string{"fmt1", "ftl1"}, Score: 80})
	want := models.SubSampleRecord{QCCode: "A1", Errors: []string{}, NoError: true, Score: 100}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestAverage(t *testing.T) {
	samples := []models.SubSampleRecord{{Score: 100}, {Score: 95}, {Score: 80}}
	manual := 70.0

	if got, ok := Average(samples, nil); !ok || got != 91.7 {
		t.Fatalf("samples only: got %v %v", got, ok)
	}
	if got, ok := Average(samples, &manual); !ok || got != 86.3 {
		t.Fatalf("with manual: got %v %v", got, ok)
	}
	if got, ok := Average(nil, &manual); !ok || got != 70 {
		t.Fatalf("manual only: got %v %v", got, ok)
	}
	if got, ok := Average(nil, nil); ok || got != 100 {
		t.Fatalf("no data: got %v %v", got, ok)
	}
}

func TestRescoreIgnoresClientScores(t *testing.T) {
	c := catalog.Default()
	in := []models.SubSampleRecord{
		{QCCode: "A1", Errors: []string{"fmt1"}, NoError: true, Score: 100},
		{QCCode: "A2", NoError: false, Score: 3},
	}
	out := Rescore(c, in)
	if out[0].Score != 95 || out[0].NoError {
		t.Fatalf("sample 0: %+v", out[0])
	}
	if out[1].Score != 100 || !out[1].NoError || out[1].Errors == nil {
		t.Fatalf("sample 1: %+v", out[1])
	}
}
