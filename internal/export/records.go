// Package export renders QC records as CSV and XLSX reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/qc-tracker/internal/models"
)

var Header = []string{"Date", "Time Slot", "Agent", "Project", "QC Checker", "Score", "Original Score", "Rework", "Task", "Notes"}

var SampleHeader = []string{"Date", "Agent", "Project", "Task", "QC Code", "Errors", "Score"}

// Row is one report line; no-work records have no score.
func Row(r models.QCRecord) []string {
	score, orig := "N/A", "N/A"
	if !r.NoWork {
		score = formatScore(r.AvgScore)
		orig = formatScore(r.OriginalOrAvg())
	}
	rework := "No"
	if r.ReworkStatus {
		rework = "Yes"
	}
	return []string{r.Date, r.TimeSlot, r.AgentName, r.ProjectName, r.QCCheckerName, score, orig, rework, r.TaskName, r.Notes}
}

func formatScore(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteCSV writes the header and one quoted row per record.
func WriteCSV(w io.Writer, recs []models.QCRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write(Row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Sheets is the XLSX layout: the report plus one row per inspected sample.
func Sheets(recs []models.QCRecord) []SheetSpec {
	report := SheetSpec{Title: "Report", Header: Header}
	samples := SheetSpec{Title: "Samples", Header: SampleHeader}
	for _, r := range recs {
		report.Rows = append(report.Rows, Row(r))
		for _, s := range r.SubSamples {
			samples.Rows = append(samples.Rows, []string{
				r.Date, r.AgentName, r.ProjectName, r.TaskName, s.QCCode, strings.Join(s.Errors, ", "), strconv.Itoa(s.Score),
			})
		}
	}
	return []SheetSpec{report, samples}
}

func WriteXLSX(w io.Writer, recs []models.QCRecord) error {
	return WriteWorkbook(w, Sheets(recs))
}

// Filename is QC_Report_<unix-ms>.<ext>.
func Filename(now time.Time, ext string) string {
	return fmt.Sprintf("QC_Report_%d.%s", now.UnixMilli(), ext)
}
