package matcher

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestScoreEmptyInput(t *testing.T) {
	t.Parallel()

	m := New(Options{})
	for _, x := range []string{"", "  ", "Python", "Python, SQL", "!!!"} {
		assert.Zero(t, m.Score("", x))
		assert.Zero(t, m.Score(x, ""))
		assert.Zero(t, m.Score(x, " \n "))
	}
}

func TestScoreSelfMatch(t *testing.T) {
	t.Parallel()

	m := New(Options{})
	for _, skills := range []string{
		"Python, SQL",
		"Docker, Kubernetes, AWS, Python",
		"C++, C#, .NET, Rust",
		"Go",
	} {
		assert.GreaterOrEqual(t, m.Score(skills, skills), 90, skills)
	}
}

func TestScoreDisjointSkills(t *testing.T) {
	t.Parallel()

	m := New(Options{})
	assert.Zero(t, m.Score("Figma, Adobe Photoshop, UI Design", "Python, JavaScript, SQL"))
}

func TestScoreFallsBackOnEmptyVocabulary(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	m := New(Options{Logger: zap.New(core)})

	// "go" and "the" are stop words, so the vector space is empty.
	assert.Equal(t, 100, m.Score("Go", "Go"))
	assert.Equal(t, 50, m.Score("The, And", "The"))

	entries := logs.FilterMessage("vector scoring failed, using fallback").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "lexical", entries[0].ContextMap()["scorer"])
}

func TestScoreRange(t *testing.T) {
	t.Parallel()

	m := New(Options{MaxFeatures: 5})
	inputs := []string{
		"🙂🙂🙂", "++++", "....", "####", "C++, C#, .NET", "a,b,c,d,e,f,g",
		strings.Repeat("kubernetes docker ", 300),
		"日本語, 中文", "\x00\x01\x02", "js;ts|py\nml\rai", ",,,,", "the of and",
	}

	for _, job := range inputs {
		for _, cand := range inputs {
			score := m.Score(job, cand)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}

func TestScoreCustomAlias(t *testing.T) {
	t.Parallel()

	plain := New(Options{})
	aliased := New(Options{Aliases: map[string]string{"golang": "go language"}})

	assert.Less(t, plain.Score("Go Language", "Golang"), aliased.Score("Go Language", "Golang"))
	assert.Equal(t, 100, aliased.Score("Go Language", "Golang"))
}

func TestJobScorerMatchesScore(t *testing.T) {
	t.Parallel()

	m := New(Options{})
	job := "Docker, Kubernetes, AWS, Python"
	js := m.ForJob(job)

	assert.Equal(t, job, js.JobSkills())
	for _, cand := range []string{"Docker, Python, Linux", "", "Go", "k8s, aws", "Figma"} {
		assert.Equal(t, m.Score(job, cand), js.Score(cand), cand)
		assert.Equal(t, m.Details(job, cand), js.Details(cand), cand)
	}
}

func TestMatcherConcurrentUse(t *testing.T) {
	t.Parallel()

	m := New(Options{})
	want := m.Score("Python, SQL", "Python, SQL, Java")

	var wg sync.WaitGroup
	results := make([]int, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.Score("Python, SQL", "Python, SQL, Java")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
