package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Spok95/qc-tracker/internal/models"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sqliteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "qc.db"))
	t.Setenv("LOG_LEVEL", "error")
}

func TestMigrateAndSeed(t *testing.T) {
	sqliteEnv(t)

	out, err := runCLI(t, "migrate")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "sqlite schema at version 2") {
		t.Fatalf("migrate output: %q", out)
	}

	out, err = runCLI(t, "seed")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "initial users written") {
		t.Fatalf("first seed: %q", out)
	}
	out, err = runCLI(t, "seed")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "nothing to do") {
		t.Fatalf("second seed: %q", out)
	}
}

func TestMigrate_MemoryDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	out, err := runCLI(t, "migrate")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "has no migrations") {
		t.Fatalf("output: %q", out)
	}
}

func TestReport_EmptyTable(t *testing.T) {
	sqliteEnv(t)
	out, err := runCLI(t, "report", "--from", "2024-01-01", "--to", "2024-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(strings.ToUpper(out), "QC CHECKER") || !strings.Contains(out, "0 records") {
		t.Fatalf("report: %q", out)
	}
}

func TestReport_BadFlags(t *testing.T) {
	sqliteEnv(t)
	if _, err := runCLI(t, "report", "--from", "2024-02-01", "--to", "2024-01-01"); err == nil {
		t.Fatal("reversed range should fail")
	}
	if _, err := runCLI(t, "report", "--format", "pdf"); err == nil {
		t.Fatal("unknown format should fail")
	}
}

func TestReportQuery_Defaults(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	q, err := reportQuery(now, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if q.From != "2024-03-04" || q.To != "2024-03-10" {
		t.Fatalf("defaults = %+v", q)
	}
}

func TestWriteReport_Table(t *testing.T) {
	recs := []models.QCRecord{
		{Date: "2024-03-10", TimeSlot: "12 PM", AgentName: "Jash", ProjectName: "Altrum", QCCheckerName: "Jimil", AvgScore: 95},
		{Date: "2024-03-10", TimeSlot: "3 PM", AgentName: "Vivek", ProjectName: "Mfund", QCCheckerName: "Jimil", NoWork: true},
	}
	var buf bytes.Buffer
	if err := writeReport(&buf, "table", recs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Jash", "95", "N/A", "2 records, 1 scored, average 95.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}
