// Package analytics computes the dashboard figures over QC records.
package analytics

import (
	"sort"
	"strings"

	"github.com/Spok95/qc-tracker/internal/access"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/qc"
)

// Filter narrows the record set. Empty fields match everything; dates are
// inclusive YYYY-MM-DD strings.
type Filter struct {
	From    string
	To      string
	Agents  []string
	Project string
}

// Apply returns the records viewer may see that match f.
func Apply(viewer *models.User, records []models.QCRecord, f Filter) []models.QCRecord {
	agents := make(map[string]bool, len(f.Agents))
	for _, a := range f.Agents {
		agents[a] = true
	}
	var out []models.QCRecord
	for _, r := range records {
		if viewer != nil && !access.CanViewRecord(viewer, &r) {
			continue
		}
		if f.From != "" && r.Date < f.From {
			continue
		}
		if f.To != "" && r.Date > f.To {
			continue
		}
		if len(agents) > 0 && !agents[r.AgentName] && !agents[r.AgentID] {
			continue
		}
		if f.Project != "" && f.Project != "All" && r.ProjectName != f.Project {
			continue
		}
		out = append(out, r)
	}
	return out
}

type KPIs struct {
	AvgScore       float64 `json:"avgScore"`
	ScoredRecords  int     `json:"scoredRecords"`
	ActiveProjects int     `json:"activeProjects"`
	ActiveAgents   int     `json:"activeAgents"`
}

// ComputeKPIs ignores no-work records for the average but counts them as activity.
func ComputeKPIs(records []models.QCRecord) KPIs {
	var k KPIs
	projects, agents := map[string]bool{}, map[string]bool{}
	var scores []float64
	for _, r := range records {
		projects[r.ProjectName] = true
		agents[agentKey(&r)] = true
		if !r.NoWork {
			scores = append(scores, r.AvgScore)
		}
	}
	k.AvgScore = mean(scores)
	k.ScoredRecords = len(scores)
	k.ActiveProjects = len(projects)
	k.ActiveAgents = len(agents)
	return k
}

type TrendPoint struct {
	Date   string             `json:"date"`
	Scores map[string]float64 `json:"scores"`
}

// Trend gives, per date, each agent's mean score of that day.
func Trend(records []models.QCRecord) []TrendPoint {
	names := agentNames(records)
	byDate := map[string]map[string][]float64{}
	for _, r := range records {
		if r.NoWork {
			continue
		}
		m, ok := byDate[r.Date]
		if !ok {
			m = map[string][]float64{}
			byDate[r.Date] = m
		}
		k := agentKey(&r)
		m[k] = append(m[k], r.AvgScore)
	}
	out := make([]TrendPoint, 0, len(byDate))
	for d, m := range byDate {
		p := TrendPoint{Date: d, Scores: make(map[string]float64, len(m))}
		for k, xs := range m {
			p.Scores[names[k]] = mean(xs)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

type ProjectStat struct {
	ProjectName  string  `json:"projectName"`
	ActiveAgents int     `json:"activeAgents"`
	AvgScore     float64 `json:"avgScore"`
}

// ProjectStats reports every catalog project, including idle ones.
func ProjectStats(projects []string, records []models.QCRecord) []ProjectStat {
	out := make([]ProjectStat, 0, len(projects))
	for _, p := range projects {
		agents := map[string]bool{}
		var scores []float64
		for _, r := range records {
			if r.ProjectName != p {
				continue
			}
			agents[agentKey(&r)] = true
			if !r.NoWork {
				scores = append(scores, r.AvgScore)
			}
		}
		out = append(out, ProjectStat{ProjectName: p, ActiveAgents: len(agents), AvgScore: mean(scores)})
	}
	return out
}

type AgentProjectScore struct {
	Agent   string  `json:"agent"`
	Project string  `json:"project"`
	Score   float64 `json:"score"`
}

// AgentProjectPerformance averages each agent per project, best first.
func AgentProjectPerformance(records []models.QCRecord) []AgentProjectScore {
	type key struct{ agent, project string }
	names := agentNames(records)
	acc := map[key][]float64{}
	for _, r := range records {
		if r.NoWork {
			continue
		}
		k := key{agentKey(&r), r.ProjectName}
		acc[k] = append(acc[k], r.AvgScore)
	}
	out := make([]AgentProjectScore, 0, len(acc))
	for k, xs := range acc {
		out = append(out, AgentProjectScore{Agent: names[k.agent], Project: k.project, Score: mean(xs)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Agent != out[j].Agent {
			return out[i].Agent < out[j].Agent
		}
		return out[i].Project < out[j].Project
	})
	return out
}

type AgentScore struct {
	Agent string  `json:"agent"`
	Score float64 `json:"score"`
	Count int     `json:"count"`
}

// AgentAverages averages each agent over the scored records, best first.
func AgentAverages(records []models.QCRecord) []AgentScore {
	names := agentNames(records)
	acc := map[string][]float64{}
	for _, r := range records {
		if r.NoWork {
			continue
		}
		k := agentKey(&r)
		acc[k] = append(acc[k], r.AvgScore)
	}
	out := make([]AgentScore, 0, len(acc))
	for k, xs := range acc {
		out = append(out, AgentScore{Agent: names[k], Score: mean(xs), Count: len(xs)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Agent < out[j].Agent
	})
	return out
}

type Dashboard struct {
	KPIs        KPIs                `json:"kpis"`
	Trend       []TrendPoint        `json:"trend"`
	Projects    []ProjectStat       `json:"projects"`
	Performance []AgentProjectScore `json:"performance"`
}

func Build(projects []string, records []models.QCRecord) Dashboard {
	return Dashboard{
		KPIs:        ComputeKPIs(records),
		Trend:       Trend(records),
		Projects:    ProjectStats(projects, records),
		Performance: AgentProjectPerformance(records),
	}
}

// agentKey identifies the agent of r by id; records without one fall back
// to the normalised name.
func agentKey(r *models.QCRecord) string {
	if r.AgentID != "" {
		return "id:" + r.AgentID
	}
	return "name:" + strings.ToLower(strings.TrimSpace(r.AgentName))
}

// agentNames maps each agent key to the name on its newest record.
func agentNames(records []models.QCRecord) map[string]string {
	names := make(map[string]string)
	newest := make(map[string]int64)
	for _, r := range records {
		k := agentKey(&r)
		if ts, ok := newest[k]; !ok || r.CreatedAt >= ts {
			names[k] = r.AgentName
			newest[k] = r.CreatedAt
		}
	}
	return names
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return qc.Round1(sum / float64(len(xs)))
}
