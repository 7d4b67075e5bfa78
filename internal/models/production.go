package models

type TrackerProject struct {
	Name   string `json:"name" yaml:"name"`
	Target int    `json:"target" yaml:"target"`
}

type ProductionRecord struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Date        string `json:"date"`
	ProjectName string `json:"projectName"`
	Target      int    `json:"target"`
	ActualCount int    `json:"actualCount"`
	CreatedAt   int64  `json:"createdAt"`
}

// Quotient is actual/target, or 0 for target-less entries such as training.
func (p ProductionRecord) Quotient() float64 {
	if p.Target <= 0 {
		return 0
	}
	return float64(p.ActualCount) / float64(p.Target)
}
