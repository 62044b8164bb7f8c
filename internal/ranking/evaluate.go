package ranking

import (
	"sort"
	"strings"

	"github.com/spigell/skillmatch/internal/matcher"
	"github.com/spigell/skillmatch/internal/portal"
)

const topJobSkills = 15

// PairEvaluation compares a stored score with the score the matcher yields now.
type PairEvaluation struct {
	JobID           string  `json:"job_id"`
	JobTitle        string  `json:"job_title"`
	CandidateID     string  `json:"candidate_id"`
	CandidateName   string  `json:"candidate_name"`
	Status          string  `json:"status"`
	StoredScore     int     `json:"original_score"`
	Score           int     `json:"recomputed_score"`
	ExactMatches    int     `json:"exact_matches"`
	SemanticMatches int     `json:"semantic_matches"`
	MissingSkills   int     `json:"missing_skills"`
	Coverage        float64 `json:"coverage_percentage"`
}

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type Summary struct {
	Pairs           int     `json:"pairs"`
	AvgStoredScore  float64 `json:"avg_original_score"`
	AvgScore        float64 `json:"avg_recomputed_score"`
	AvgCoverage     float64 `json:"avg_coverage_percentage"`
	AvgAbsScoreDiff float64 `json:"avg_abs_score_diff"`
	Changed         int     `json:"changed_scores"`
}

type Report struct {
	Summary   Summary          `json:"summary"`
	TopSkills []SkillCount     `json:"top_job_skills"`
	Pairs     []PairEvaluation `json:"pairs"`
}

// Evaluate recomputes score and details for every stored pair.
func Evaluate(m *matcher.Matcher, pairs []portal.ScoredPair) *Report {
	report := &Report{
		Pairs:     make([]PairEvaluation, 0, len(pairs)),
		TopSkills: []SkillCount{},
	}
	if len(pairs) == 0 {
		return report
	}

	skills := make(map[string]int)
	var stored, score, coverage, diff float64

	for _, p := range pairs {
		res := m.Details(p.JobSkills, p.CandidateSkills)
		ev := PairEvaluation{
			JobID:           p.JobID,
			JobTitle:        p.JobTitle,
			CandidateID:     p.CandidateID,
			CandidateName:   p.CandidateName,
			Status:          p.Status,
			StoredScore:     p.StoredScore,
			Score:           res.Score,
			ExactMatches:    res.Breakdown.ExactMatches,
			SemanticMatches: res.Breakdown.SemanticMatches,
			MissingSkills:   res.Breakdown.MissingSkills,
			Coverage:        res.CoveragePercentage,
		}
		report.Pairs = append(report.Pairs, ev)

		stored += float64(ev.StoredScore)
		score += float64(ev.Score)
		coverage += ev.Coverage
		if ev.Score != ev.StoredScore {
			report.Summary.Changed++
			diff += float64(abs(ev.Score - ev.StoredScore))
		}

		for _, s := range strings.Split(p.JobSkills, ",") {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				skills[s]++
			}
		}
	}

	n := float64(len(pairs))
	report.Summary.Pairs = len(pairs)
	report.Summary.AvgStoredScore = stored / n
	report.Summary.AvgScore = score / n
	report.Summary.AvgCoverage = coverage / n
	report.Summary.AvgAbsScoreDiff = diff / n
	report.TopSkills = topSkills(skills, topJobSkills)

	return report
}

func topSkills(counts map[string]int, limit int) []SkillCount {
	out := make([]SkillCount, 0, len(counts))
	for skill, count := range counts {
		out = append(out, SkillCount{Skill: skill, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
