package matcher

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MatchTypeSemantic marks a required skill satisfied through an alias or a
// substring rather than an exact match.
const MatchTypeSemantic = "semantic"

// SemanticMatch pairs a required skill with the candidate skill that covers it.
type SemanticMatch struct {
	Required  string `json:"required"`
	Candidate string `json:"candidate"`
	MatchType string `json:"match_type"`
}

// Breakdown counts the outcome of every required skill.
type Breakdown struct {
	ExactMatches       int     `json:"exact_matches"`
	SemanticMatches    int     `json:"semantic_matches"`
	MissingSkills      int     `json:"missing_skills"`
	CoveragePercentage float64 `json:"coverage_percentage"`
}

// Analysis is informational only and may be absent.
type Analysis struct {
	JobKeyTerms       []KeyTerm `json:"job_key_terms"`
	CandidateKeyTerms []KeyTerm `json:"candidate_key_terms"`
	Similarity        float64   `json:"tfidf_similarity"`
}

// Result is the compatibility breakdown returned by Details. It is never
// modified after construction.
type Result struct {
	Score                    int             `json:"score"`
	Matched                  []string        `json:"matched"`
	Missing                  []string        `json:"missing"`
	SemanticMatches          []SemanticMatch `json:"semantic_matches"`
	TotalRequired            int             `json:"total_required"`
	CoveragePercentage       float64         `json:"coverage_percentage"`
	Breakdown                Breakdown       `json:"match_breakdown"`
	Analysis                 *Analysis       `json:"semantic_analysis,omitempty"`
	JobSkillsProcessed       string          `json:"job_skills_processed"`
	CandidateSkillsProcessed string          `json:"candidate_skills_processed"`
}

// Details builds the skill level breakdown of candidateSkills against
// jobSkills. Score is always Matcher.Score; coverage is left unrounded.
func (m *Matcher) Details(jobSkills, candidateSkills string) *Result {
	return m.ForJob(jobSkills).Details(candidateSkills)
}

// Details is Matcher.Details for the prepared job.
func (j *JobScorer) Details(candidateSkills string) *Result {
	m := j.m
	required := splitPieces(j.jobSkills)
	res := &Result{
		Matched:                  []string{},
		Missing:                  []string{},
		SemanticMatches:          []SemanticMatch{},
		TotalRequired:            len(required),
		JobSkillsProcessed:       j.jobText,
		CandidateSkillsProcessed: m.normalizer.Normalize(candidateSkills),
	}

	if strings.TrimSpace(j.jobSkills) == "" || strings.TrimSpace(candidateSkills) == "" {
		res.Missing = append(res.Missing, required...)
		res.Breakdown = Breakdown{MissingSkills: len(res.Missing)}
		return res
	}

	res.Score = j.Score(candidateSkills)

	candidates := lowerPieces(splitPieces(candidateSkills))
	for _, req := range required {
		if m.matchExact(req, candidates) {
			res.Matched = append(res.Matched, req)
			continue
		}
		if cand, ok := m.matchSemantic(req, candidates); ok {
			res.SemanticMatches = append(res.SemanticMatches, SemanticMatch{
				Required:  req,
				Candidate: cand,
				MatchType: MatchTypeSemantic,
			})
			continue
		}
		res.Missing = append(res.Missing, req)
	}

	if len(required) > 0 {
		res.CoveragePercentage = float64(len(res.Matched)+len(res.SemanticMatches)) / float64(len(required)) * 100
	}
	res.Breakdown = Breakdown{
		ExactMatches:       len(res.Matched),
		SemanticMatches:    len(res.SemanticMatches),
		MissingSkills:      len(res.Missing),
		CoveragePercentage: res.CoveragePercentage,
	}

	analysis, err := m.analyze(res.JobSkillsProcessed, res.CandidateSkillsProcessed, res.Score)
	if err != nil {
		m.logger.Debug("key terms unavailable", zap.Error(err))
	} else {
		res.Analysis = analysis
	}

	return res
}

func (m *Matcher) matchExact(required string, candidates []string) bool {
	lower := strings.ToLower(required)
	for _, cand := range candidates {
		if cand == lower {
			return true
		}
	}
	return false
}

// matchSemantic returns the first candidate that contains or is contained by
// the required skill, either raw or after alias resolution.
func (m *Matcher) matchSemantic(required string, candidates []string) (string, bool) {
	lower := strings.ToLower(required)
	canonical := m.aliases.Resolve(lower)
	for _, cand := range candidates {
		candCanonical := m.aliases.Resolve(cand)
		if strings.Contains(lower, cand) || strings.Contains(cand, lower) ||
			strings.Contains(canonical, candCanonical) || strings.Contains(candCanonical, canonical) {
			return cand, true
		}
	}
	return "", false
}

func (m *Matcher) analyze(jobText, candidateText string, score int) (a *Analysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("key terms panicked: %v", r)
		}
	}()

	if jobText == "" || candidateText == "" {
		return nil, fmt.Errorf("nothing to analyze")
	}

	matrix, err := m.vectorizer.FitTransform([]string{jobText, candidateText})
	if err != nil {
		return nil, err
	}

	return &Analysis{
		JobKeyTerms:       matrix.TopTerms(0, m.keyTerms),
		CandidateKeyTerms: matrix.TopTerms(1, m.keyTerms),
		Similarity:        float64(score) / 100,
	}, nil
}
