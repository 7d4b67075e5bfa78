package service

import (
	"context"
	"testing"

	"github.com/Spok95/qc-tracker/internal/apperr"
)

func TestLogProduction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rec, err := f.LogProduction(ctx, jash, ProductionInput{Date: today, ProjectName: "Rex-Stand", ActualCount: 62})
	if err != nil {
		t.Fatal(err)
	}
	if rec.UserID != "u5" || rec.UserName != "Jash" || rec.Target != 31 {
		t.Fatalf("filled fields: %+v", rec)
	}
	if _, err := f.LogProduction(ctx, jash, ProductionInput{Date: today, ProjectName: "Rex-Stand", ActualCount: 63}); !apperr.Is(err, apperr.Invalid) {
		t.Fatalf("above double target: %v", err)
	}
	if _, err := f.LogProduction(ctx, jash, ProductionInput{Date: today, ProjectName: "Rex-Stand", ActualCount: -1}); !apperr.Is(err, apperr.Invalid) {
		t.Fatalf("negative: %v", err)
	}
	if _, err := f.LogProduction(ctx, jash, ProductionInput{Date: today, ProjectName: "Nope", ActualCount: 1}); !apperr.Is(err, apperr.Invalid) {
		t.Fatalf("unknown project: %v", err)
	}
	if _, err := f.LogProduction(ctx, jash, ProductionInput{UserID: "u8", Date: today, ProjectName: "Training"}); !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("logging for someone else: %v", err)
	}
	if _, err := f.LogProduction(ctx, jash, ProductionInput{Date: "2024-03-08", ProjectName: "Training", ActualCount: 2}); err != nil {
		t.Fatalf("agent backfilling a past day: %v", err)
	}
	if _, err := f.LogProduction(ctx, manager, ProductionInput{UserID: "u5", Date: "2024-03-09", ProjectName: "Training", ActualCount: 4}); err != nil {
		t.Fatalf("manager backfill: %v", err)
	}

	days, err := f.ProductionSummary(ctx, jash, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 3 || days[0].Date != today || days[0].SumQuotient != 2 {
		t.Fatalf("summary: %+v", days)
	}
	if _, err := f.ProductionSummary(ctx, jash, "u8"); !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("peeking at others: %v", err)
	}
	entries, err := f.ProductionBreakdown(ctx, manager, "u5", today)
	if err != nil || len(entries) != 1 {
		t.Fatalf("breakdown: %+v %v", entries, err)
	}
}

func TestLogProduction_TargetOverride(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	target := 40

	rec, err := f.LogProduction(ctx, manager, ProductionInput{UserID: "u5", Date: today, ProjectName: "Rex-Stand", Target: &target, ActualCount: 80})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Target != 40 {
		t.Fatalf("target = %d, want the override", rec.Target)
	}
	if _, err := f.LogProduction(ctx, jash, ProductionInput{Date: today, ProjectName: "Rex-Stand", Target: &target, ActualCount: 81}); !apperr.Is(err, apperr.Invalid) {
		t.Fatalf("ceiling follows the override: %v", err)
	}
	zero := 0
	rec, err = f.LogProduction(ctx, jash, ProductionInput{Date: today, ProjectName: "Rex-Stand", Target: &zero, ActualCount: 500})
	if err != nil || rec.Target != 0 {
		t.Fatalf("zero target has no ceiling: %+v %v", rec, err)
	}
	negative := -3
	if _, err := f.LogProduction(ctx, jash, ProductionInput{Date: today, ProjectName: "Rex-Stand", Target: &negative}); !apperr.Is(err, apperr.Invalid) {
		t.Fatalf("negative target: %v", err)
	}
}

func TestUpdateDeleteProduction_PastDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rec, err := f.LogProduction(ctx, jash, ProductionInput{Date: today, ProjectName: "Rex-Stand", ActualCount: 10})
	if err != nil {
		t.Fatal(err)
	}
	upd, err := f.UpdateProduction(ctx, jash, rec.ID, ProductionInput{Date: today, ProjectName: "Rex-Logo S", ActualCount: 20})
	if err != nil {
		t.Fatal(err)
	}
	if upd.Target != 16 || upd.CreatedAt != rec.CreatedAt {
		t.Fatalf("update: %+v", upd)
	}
	if _, err := f.UpdateProduction(ctx, jash, rec.ID, ProductionInput{Date: "2024-03-01", ProjectName: "Rex-Stand", ActualCount: 1}); !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("agent moving an entry to a past day: %v", err)
	}

	*f.clock = f.clock.AddDate(0, 0, 1)
	if _, err := f.UpdateProduction(ctx, jash, rec.ID, ProductionInput{Date: today, ProjectName: "Rex-Stand", ActualCount: 1}); !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("agent editing yesterday: %v", err)
	}
	if err := f.DeleteProduction(ctx, jash, rec.ID); !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("agent deleting yesterday: %v", err)
	}
	if err := f.DeleteProduction(ctx, manager, rec.ID); err != nil {
		t.Fatalf("manager delete: %v", err)
	}
	if err := f.DeleteProduction(ctx, manager, rec.ID); !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("second delete: %v", err)
	}
}
