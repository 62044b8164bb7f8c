package matcher

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	defaultMaxFeatures = 1000
	defaultNgramMax    = 2
)

var (
	// ErrEmptyVocabulary is returned when no term survives tokenization and
	// stop word removal.
	ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words or no tokens")
	// ErrNonFinite is returned when a weight or a similarity is NaN or infinite.
	ErrNonFinite = errors.New("non-finite value in tf-idf computation")
	// ErrNoDocuments is returned by FitTransform on an empty corpus.
	ErrNoDocuments = errors.New("no documents to vectorize")
)

var termPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+#.]*`)

// Vectorizer builds a TF-IDF term space over a small corpus. The zero value is
// not usable; use NewVectorizer.
type Vectorizer struct {
	maxFeatures int
	ngramMax    int
	stopWords   map[string]struct{}
}

// NewVectorizer returns a unigram+bigram vectorizer keeping at most
// maxFeatures terms. A non-positive maxFeatures selects the default of 1000.
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = defaultMaxFeatures
	}
	return &Vectorizer{
		maxFeatures: maxFeatures,
		ngramMax:    defaultNgramMax,
		stopWords:   englishStopWords,
	}
}

// Matrix holds one L2-normalised TF-IDF row per document over Terms.
type Matrix struct {
	Terms []string
	Rows  [][]float64
}

// analyze lowercases doc, extracts terms, drops stop words and emits the
// n-grams of the remaining tokens.
func (v *Vectorizer) analyze(doc string) []string {
	raw := termPattern.FindAllString(strings.ToLower(doc), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := v.stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	grams := make([]string, 0, len(tokens)*v.ngramMax)
	grams = append(grams, tokens...)
	for n := 2; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// FitTransform learns the vocabulary of docs and returns their weighted rows.
// Weights are raw counts times the smoothed idf ln((1+n)/(1+df))+1.
func (v *Vectorizer) FitTransform(docs []string) (*Matrix, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	counts := make([]map[string]int, len(docs))
	totals := make(map[string]int)
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, gram := range v.analyze(doc) {
			counts[i][gram]++
			totals[gram]++
		}
		for gram := range counts[i] {
			df[gram]++
		}
	}

	if len(totals) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	if len(terms) > v.maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if totals[terms[i]] != totals[terms[j]] {
				return totals[terms[i]] > totals[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	rows := make([][]float64, len(docs))
	for i := range docs {
		row := make([]float64, len(terms))
		var norm float64
		for j, term := range terms {
			tf := counts[i][term]
			if tf == 0 {
				continue
			}
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			w := float64(tf) * idf
			row[j] = w
			norm += w * w
		}
		norm = math.Sqrt(norm)
		if math.IsNaN(norm) || math.IsInf(norm, 0) {
			return nil, ErrNonFinite
		}
		if norm > 0 {
			for j := range row {
				row[j] /= norm
			}
		}
		rows[i] = row
	}

	return &Matrix{Terms: terms, Rows: rows}, nil
}

// Cosine returns the cosine similarity of rows a and b of m. A zero row gives 0.
func (m *Matrix) Cosine(a, b int) (float64, error) {
	ra, rb := m.Rows[a], m.Rows[b]
	var dot, na, nb float64
	for j := range ra {
		dot += ra[j] * rb[j]
		na += ra[j] * ra[j]
		nb += rb[j] * rb[j]
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0, ErrNonFinite
	}
	return sim, nil
}

// KeyTerm is a term and its weight in one document.
type KeyTerm struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// TopTerms returns up to limit positive-weight terms of row, heaviest first.
func (m *Matrix) TopTerms(row, limit int) []KeyTerm {
	if limit <= 0 {
		return nil
	}
	out := make([]KeyTerm, 0, limit)
	for j, w := range m.Rows[row] {
		if w > 0 {
			out = append(out, KeyTerm{Term: m.Terms[j], Weight: w})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
