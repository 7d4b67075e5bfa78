package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/Spok95/qc-tracker/internal/catalog"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/store"
)

const today = "2024-03-10"

var (
	admin   = &models.User{ID: "u10", Name: "Admin User", Role: models.Admin}
	manager = &models.User{ID: "u1", Name: "Mohsin", Role: models.Manager}
	checker = &models.User{ID: "u3", Name: "Jimil", Role: models.QCAgent}
	jash    = &models.User{ID: "u5", Name: "Jash", Role: models.Agent}
	vivek   = &models.User{ID: "u8", Name: "Vivek", Role: models.Agent}
)

type recordingNotifier struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
}

func (n *recordingNotifier) RecordSaved(_ context.Context, r models.QCRecord, kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.saved = append(n.saved, kind+":"+r.ID)
}

func (n *recordingNotifier) RecordDeleted(_ context.Context, r models.QCRecord) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, r.ID)
}

type fixture struct {
	*Service
	clock *time.Time
	notes *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc := time.UTC
	svc := New(store.NewMemory(), catalog.Default(), nil, Config{Location: loc, SessionTTL: time.Hour})
	now := time.Date(2024, 3, 10, 11, 0, 0, 0, loc)
	f := &fixture{Service: svc, clock: &now, notes: &recordingNotifier{}}
	svc.now = func() time.Time { return *f.clock }
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	svc.rng = rand.New(rand.NewPCG(1, 2))
	svc.SetNotifier(f.notes)
	return f
}

func (f *fixture) advance(d time.Duration) { *f.clock = f.clock.Add(d) }

// submission is a valid same-day audit of Jash in the 12 PM slot.
func submission() models.QCRecord {
	return models.QCRecord{
		Date:             today,
		TimeSlot:         "12 PM",
		AgentID:          "u5",
		ProjectName:      "Altrum",
		TaskName:         "Batch A",
		Notes:            "checked",
		QCCodeRangeStart: "Altrum/01",
		QCCodeRangeEnd:   "Altrum/10",
		SubSamples: []models.SubSampleRecord{
			{QCCode: "Altrum/03", Errors: []string{"fmt1"}},
		},
	}
}

func TestToday_UsesLocation(t *testing.T) {
	f := newFixture(t)
	if got := f.Today(); got != today {
		t.Fatalf("today = %s", got)
	}
	kolkata := time.FixedZone("IST", 5*3600+1800)
	f.loc = kolkata
	*f.clock = time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	if got := f.Today(); got != "2024-03-11" {
		t.Fatalf("today in IST = %s", got)
	}
}
