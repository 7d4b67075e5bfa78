package production

import (
	"sort"
	"strings"
	"time"

	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/models"
)

// Validate enforces 0 <= actual <= 2*target. Target-less projects have no ceiling.
func Validate(p *models.ProductionRecord) error {
	if _, err := time.Parse(models.DateLayout, p.Date); err != nil {
		return apperr.Invalidf("date must be YYYY-MM-DD, got %q", p.Date)
	}
	if strings.TrimSpace(p.ProjectName) == "" {
		return apperr.Invalidf("project is required")
	}
	if p.Target < 0 {
		return apperr.Invalidf("target cannot be negative")
	}
	if p.ActualCount < 0 {
		return apperr.Invalidf("production cannot be negative")
	}
	if limit := p.Target * 2; p.Target > 0 && p.ActualCount > limit {
		return apperr.Invalidf("production count (%d) cannot exceed double the target (%d)", p.ActualCount, limit)
	}
	return nil
}

type DaySummary struct {
	Date        string  `json:"date"`
	TotalTarget int     `json:"totalTarget"`
	TotalActual int     `json:"totalActual"`
	EntryCount  int     `json:"entryCount"`
	SumQuotient float64 `json:"sumQuotient"`
}

// Accuracy is totalActual/totalTarget, 0 when there was no target.
func (d DaySummary) Accuracy() float64 {
	if d.TotalTarget <= 0 {
		return 0
	}
	return float64(d.TotalActual) / float64(d.TotalTarget)
}

// DailySummary groups a user's entries by date, newest day first.
func DailySummary(records []models.ProductionRecord, userID string) []DaySummary {
	byDate := map[string]*DaySummary{}
	for _, r := range records {
		if r.UserID != userID {
			continue
		}
		d, ok := byDate[r.Date]
		if !ok {
			d = &DaySummary{Date: r.Date}
			byDate[r.Date] = d
		}
		d.TotalTarget += r.Target
		d.TotalActual += r.ActualCount
		d.EntryCount++
		d.SumQuotient += r.Quotient()
	}
	out := make([]DaySummary, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// Breakdown lists one user's entries for a day, newest first.
func Breakdown(records []models.ProductionRecord, userID, date string) []models.ProductionRecord {
	var out []models.ProductionRecord
	for _, r := range records {
		if r.UserID == userID && r.Date == date {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}
