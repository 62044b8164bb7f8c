package matcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorizerAnalyze(t *testing.T) {
	t.Parallel()

	v := NewVectorizer(0)
	grams := v.analyze("Python and C++ with c# the .NET")

	assert.Equal(t, []string{
		"python", "c++", "c#", "net",
		"python c++", "c++ c#", "c# net",
	}, grams)
}

func TestVectorizerFitTransform(t *testing.T) {
	t.Parallel()

	m, err := NewVectorizer(0).FitTransform([]string{"python sql", "python java"})
	require.NoError(t, err)

	assert.Equal(t, []string{"java", "python", "python java", "python sql", "sql"}, m.Terms)
	require.Len(t, m.Rows, 2)

	for _, row := range m.Rows {
		var norm float64
		for _, w := range row {
			norm += w * w
		}
		assert.InDelta(t, 1.0, norm, 1e-9)
	}

	// Shared "python" has idf 1, the others 1+ln(3/2).
	idf := 1 + math.Log(1.5)
	expected := 1 / (1 + 2*idf*idf)

	sim, err := m.Cosine(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, expected, sim, 1e-9)
}

func TestVectorizerEmptyVocabulary(t *testing.T) {
	t.Parallel()

	_, err := NewVectorizer(0).FitTransform([]string{"the and", "of go"})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)

	_, err = NewVectorizer(0).FitTransform(nil)
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestVectorizerMaxFeatures(t *testing.T) {
	t.Parallel()

	m, err := NewVectorizer(2).FitTransform([]string{"alpha alpha beta", "alpha gamma"})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "alpha alpha"}, m.Terms)
}

func TestCosineZeroRow(t *testing.T) {
	t.Parallel()

	m, err := NewVectorizer(0).FitTransform([]string{"rust", "the"})
	require.NoError(t, err)

	sim, err := m.Cosine(0, 1)
	require.NoError(t, err)
	assert.Zero(t, sim)
}

func TestTopTerms(t *testing.T) {
	t.Parallel()

	m, err := NewVectorizer(0).FitTransform([]string{"python python sql docker", "python"})
	require.NoError(t, err)

	top := m.TopTerms(0, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "python", top[0].Term, "repeated term weighs most")
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Weight, top[i].Weight)
	}

	assert.Nil(t, m.TopTerms(0, 0))
	assert.Len(t, m.TopTerms(1, 5), 1)
}
