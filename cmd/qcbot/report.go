package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Spok95/qc-tracker/internal/analytics"
	"github.com/Spok95/qc-tracker/internal/export"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/service"
)

// reportActor is who the CLI acts as when reading records.
var reportActor = &models.User{ID: "cli", Name: "qcbot", Role: models.Admin}

var reportColumns = []string{"Date", "Time Slot", "Agent", "Project", "QC Checker", "Score", "Original Score", "Rework"}

func newReportCommand(ctx *commandContext) *cobra.Command {
	var from, to, format, out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print or export QC records for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, kv, err := ctx.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer kv.Close()

			q, err := reportQuery(svc.Now(), from, to)
			if err != nil {
				return err
			}
			recs, err := svc.ExportRecords(cmd.Context(), reportActor, q)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return writeReport(w, format, recs)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD (default: 6 days ago)")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&format, "format", "table", "table, csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func reportQuery(now time.Time, from, to string) (service.RecordQuery, error) {
	if to == "" {
		to = now.Format(models.DateLayout)
	}
	if from == "" {
		from = now.AddDate(0, 0, -6).Format(models.DateLayout)
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			return service.RecordQuery{}, fmt.Errorf("bad date %q: want YYYY-MM-DD", d)
		}
	}
	if from > to {
		return service.RecordQuery{}, fmt.Errorf("--from %s is after --to %s", from, to)
	}
	return service.RecordQuery{From: from, To: to}, nil
}

func writeReport(w io.Writer, format string, recs []models.QCRecord) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, recs)
	case "xlsx":
		return export.WriteXLSX(w, recs)
	case "table", "":
		rows := make([][]string, 0, len(recs))
		for _, r := range recs {
			rows = append(rows, export.Row(r)[:len(reportColumns)])
		}
		fmt.Fprintln(w, renderTable(reportColumns, rows, map[int]bool{5: true, 6: true}))
		k := analytics.ComputeKPIs(recs)
		fmt.Fprintf(w, "%d records, %d scored, average %.1f%%\n", len(recs), k.ScoredRecords, k.AvgScore)
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
