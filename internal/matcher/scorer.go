package matcher

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Scorer computes a 0..100 compatibility score of candidate skills against
// job skills.
type Scorer interface {
	Name() string
	Score(jobSkills, candidateSkills string) (int, error)
}

// VectorScorer scores by cosine similarity of TF-IDF vectors built over the
// two normalized skill texts.
type VectorScorer struct {
	normalizer *Normalizer
	vectorizer *Vectorizer
}

func NewVectorScorer(normalizer *Normalizer, vectorizer *Vectorizer) *VectorScorer {
	return &VectorScorer{normalizer: normalizer, vectorizer: vectorizer}
}

func (s *VectorScorer) Name() string { return "tfidf_cosine" }

func (s *VectorScorer) Score(jobSkills, candidateSkills string) (int, error) {
	return s.scoreNormalized(s.normalizer.Normalize(jobSkills), s.normalizer.Normalize(candidateSkills))
}

// scoreNormalized works on texts already passed through the Normalizer.
func (s *VectorScorer) scoreNormalized(jobText, candidateText string) (int, error) {
	if jobText == "" || candidateText == "" {
		return 0, nil
	}

	matrix, err := s.vectorizer.FitTransform([]string{jobText, candidateText})
	if err != nil {
		return 0, err
	}

	sim, err := matrix.Cosine(0, 1)
	if err != nil {
		return 0, err
	}

	return toPercent(sim), nil
}

// toPercent scales a similarity to [0,100], rounding half to even.
func toPercent(sim float64) int {
	pct := math.Max(0, math.Min(100, sim*100))
	return int(math.RoundToEven(pct))
}

// LexicalScorer scores by exact and substring matches of comma separated
// skills. It is the fallback when vectorization fails.
type LexicalScorer struct{}

func NewLexicalScorer() *LexicalScorer { return &LexicalScorer{} }

func (s *LexicalScorer) Name() string { return "lexical" }

// Score never returns an error. The percentage is truncated, not rounded.
func (s *LexicalScorer) Score(jobSkills, candidateSkills string) (int, error) {
	if strings.TrimSpace(jobSkills) == "" || strings.TrimSpace(candidateSkills) == "" {
		return 0, nil
	}

	jobPieces := lowerPieces(splitPieces(jobSkills))
	candidatePieces := lowerPieces(splitPieces(candidateSkills))
	if len(jobPieces) == 0 {
		return 0, nil
	}

	candidateSet := make(map[string]struct{}, len(candidatePieces))
	for _, p := range candidatePieces {
		candidateSet[p] = struct{}{}
	}
	exact := make(map[string]struct{})
	for _, p := range jobPieces {
		if _, ok := candidateSet[p]; ok {
			exact[p] = struct{}{}
		}
	}

	partial := 0.0
	for _, job := range jobPieces {
		if _, ok := exact[job]; ok {
			continue
		}
		for _, cand := range candidatePieces {
			if _, ok := exact[cand]; ok {
				continue
			}
			if (strings.Contains(cand, job) || strings.Contains(job, cand)) && utf8.RuneCountInString(job) > 2 {
				partial += 0.5
				break
			}
		}
	}

	compat := (float64(len(exact)) + partial) / float64(len(jobPieces)) * 100
	return min(int(compat), 100), nil
}

// splitPieces splits on commas and trims, dropping empty pieces. Stray commas
// never count as required skills: "Python, , SQL" has two job pieces, not
// three, so the lexical score and the detail coverage are taken over the
// non-empty pieces only. A kept empty piece would be contained in every
// candidate piece and earn a partial or semantic match for nothing.
func splitPieces(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func lowerPieces(pieces []string) []string {
	out := make([]string, len(pieces))
	for i, p := range pieces {
		out[i] = strings.ToLower(p)
	}
	return out
}
