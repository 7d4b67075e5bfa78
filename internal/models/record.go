package models

import "time"

// DateLayout is the calendar-day format used for every record date.
const DateLayout = "2006-01-02"

type QCError struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Weight   int    `json:"weight" yaml:"weight"`
}

type SubSampleRecord struct {
	QCCode  string   `json:"qcCode"`
	Errors  []string `json:"errors"`
	NoError bool     `json:"noError"`
	Score   int      `json:"score"`
}

type AgentReviewStatus string

const (
	ReviewPending      AgentReviewStatus = "PENDING"
	ReviewAcknowledged AgentReviewStatus = "ACKNOWLEDGED"
	ReviewDisputed     AgentReviewStatus = "DISPUTED"
)

func (s AgentReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewAcknowledged, ReviewDisputed:
		return true
	}
	return false
}

// QCRecord is one audited task.
type QCRecord struct {
	ID                string            `json:"id"`
	Date              string            `json:"date"`
	TimeSlot          string            `json:"timeSlot"`
	TLName            string            `json:"tlName"`
	AgentID           string            `json:"agentId,omitempty"`
	AgentName         string            `json:"agentName"`
	ManagerName       string            `json:"managerName"`
	QCCheckerName     string            `json:"qcCheckerName"`
	ProjectName       string            `json:"projectName"`
	TaskName          string            `json:"taskName"`
	ReworkStatus      bool              `json:"reworkStatus"`
	NoWork            bool              `json:"noWork"`
	NoAttachment      bool              `json:"noAttachment"`
	Notes             string            `json:"notes"`
	QCCodeRangeStart  string            `json:"qcCodeRangeStart"`
	QCCodeRangeEnd    string            `json:"qcCodeRangeEnd"`
	SubSamples        []SubSampleRecord `json:"subSamples"`
	ManualEnabled     bool              `json:"manualEnabled"`
	ManualScore       *float64          `json:"manualScore,omitempty"`
	ManualErrors      []string          `json:"manualErrors,omitempty"`
	ManualNotes       string            `json:"manualNotes,omitempty"`
	AvgScore          float64           `json:"avgScore"`
	OriginalScore     *float64          `json:"originalScore,omitempty"`
	CreatedAt         int64             `json:"createdAt"`
	UpdatedAt         int64             `json:"updatedAt,omitempty"`
	AgentReviewStatus AgentReviewStatus `json:"agentReviewStatus"`
	AgentReviewNote   string            `json:"agentReviewNote,omitempty"`
}

// Day parses Date; records with a malformed date report ok=false.
func (r *QCRecord) Day() (time.Time, bool) {
	t, err := time.Parse(DateLayout, r.Date)
	return t, err == nil
}

// OriginalOrAvg is the score this record contributes as the start of a rework lineage.
func (r *QCRecord) OriginalOrAvg() float64 {
	if r.OriginalScore != nil {
		return *r.OriginalScore
	}
	return r.AvgScore
}
