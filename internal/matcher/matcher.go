// Package matcher scores how well a candidate's skills cover a job's required
// skills and explains the score skill by skill.
package matcher

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const defaultKeyTerms = 5

// Options configures a Matcher.
type Options struct {
	// MaxFeatures caps the TF-IDF vocabulary. Zero selects 1000.
	MaxFeatures int
	// KeyTerms is the number of key terms reported per side by Details. Zero
	// selects 5.
	KeyTerms int
	// Aliases extends or overrides the built-in alias table.
	Aliases map[string]string
	Logger  *zap.Logger
}

// Matcher is the scoring entry point. It tries the vector scorer first and
// falls back to the lexical scorer on any failure, so Score always yields a
// value in [0,100]. A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	aliases    *AliasTable
	normalizer *Normalizer
	vectorizer *Vectorizer
	primary    *VectorScorer
	fallback   Scorer
	keyTerms   int
	logger     *zap.Logger
}

func New(opts Options) *Matcher {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	keyTerms := opts.KeyTerms
	if keyTerms <= 0 {
		keyTerms = defaultKeyTerms
	}

	aliases := NewAliasTable(opts.Aliases)
	normalizer := NewNormalizer(aliases)
	vectorizer := NewVectorizer(opts.MaxFeatures)

	return &Matcher{
		aliases:    aliases,
		normalizer: normalizer,
		vectorizer: vectorizer,
		primary:    NewVectorScorer(normalizer, vectorizer),
		fallback:   NewLexicalScorer(),
		keyTerms:   keyTerms,
		logger:     logger,
	}
}

func (m *Matcher) Aliases() *AliasTable { return m.aliases }

// Normalize exposes the normalized text used for vectorization.
func (m *Matcher) Normalize(text string) string {
	return m.normalizer.Normalize(text)
}

// Score returns the headline compatibility score of candidateSkills against
// jobSkills.
func (m *Matcher) Score(jobSkills, candidateSkills string) int {
	return m.ForJob(jobSkills).Score(candidateSkills)
}

// JobScorer scores many candidates against one job, normalizing the job side
// once.
type JobScorer struct {
	m         *Matcher
	jobSkills string
	jobText   string
}

// ForJob prepares a JobScorer for jobSkills.
func (m *Matcher) ForJob(jobSkills string) *JobScorer {
	return &JobScorer{
		m:         m,
		jobSkills: jobSkills,
		jobText:   m.normalizer.Normalize(jobSkills),
	}
}

func (j *JobScorer) JobSkills() string { return j.jobSkills }

// Score returns the same value as Matcher.Score(jobSkills, candidateSkills).
func (j *JobScorer) Score(candidateSkills string) int {
	if strings.TrimSpace(j.jobSkills) == "" || strings.TrimSpace(candidateSkills) == "" {
		return 0
	}

	score, err := j.vectorScore(candidateSkills)
	if err == nil {
		return score
	}

	fallback, ferr := j.m.fallback.Score(j.jobSkills, candidateSkills)
	j.m.logger.Debug("vector scoring failed, using fallback",
		zap.String("scorer", j.m.fallback.Name()),
		zap.Int("score", fallback),
		zap.Error(err),
	)
	if ferr != nil {
		j.m.logger.Debug("fallback scoring failed", zap.Error(ferr))
		return 0
	}
	return clampScore(fallback)
}

func (j *JobScorer) vectorScore(candidateSkills string) (score int, err error) {
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, fmt.Errorf("vector scorer panicked: %v", r)
		}
	}()

	score, err = j.m.primary.scoreNormalized(j.jobText, j.m.normalizer.Normalize(candidateSkills))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", j.m.primary.Name(), err)
	}
	return clampScore(score), nil
}

func clampScore(score int) int {
	return max(0, min(100, score))
}
