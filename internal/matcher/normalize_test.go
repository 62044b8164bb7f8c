package matcher

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(NewAliasTable(nil))

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "empty", input: "", expect: ""},
		{name: "only delimiters", input: "  ,;| \n", expect: ""},
		{name: "only punctuation", input: "!!!, ???", expect: ""},
		{
			name:   "aliases and tech tokens",
			input:  "JS, React.js; C++ | C#\nNode.js",
			expect: "javascript react c++ c# nodejs",
		},
		{name: "punctuation becomes space", input: "Machine-Learning!!", expect: "machine learning"},
		{name: "duplicates kept", input: "Python, Python", expect: "python python"},
		{name: "alias needs whole piece", input: "js frameworks", expect: "js frameworks"},
		{name: "whitespace collapsed", input: "  deep    learning  ", expect: "deep learning"},
		{name: "ci/cd alias survives split", input: "CI/CD", expect: "continuous integration continuous deployment"},
		{name: "non ascii stripped", input: "Résumé, Go", expect: "r sum go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, n.Normalize(tt.input))
		})
	}
}

func TestTokensCharset(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(NewAliasTable(map[string]string{"Golang": "  Go Language "}))
	allowed := regexp.MustCompile(`^[a-z0-9+#. ]+$`)

	inputs := []string{
		"Golang, K8S; Ünïcödé | 🙂 rocket\r\n.NET, ASP.NET Core",
		"SQL\tServer, C/C++, Objective-C",
	}
	for _, in := range inputs {
		for _, tok := range n.Tokens(in) {
			assert.NotEmpty(t, tok)
			assert.Regexp(t, allowed, tok)
		}
	}

	assert.Equal(t, []string{"go language"}, n.Tokens("golang"))
}

func TestAliasTable(t *testing.T) {
	t.Parallel()

	table := NewAliasTable(map[string]string{
		" TF ":  "TensorFlow",
		"js":    "ecmascript",
		"empty": "  ",
	})

	assert.Equal(t, "tensorflow", table.Resolve("tf"))
	assert.Equal(t, "ecmascript", table.Resolve("js"), "overrides win over defaults")
	assert.Equal(t, "kubernetes", table.Resolve("k8s"))
	assert.Equal(t, "empty", table.Resolve("empty"))
	assert.Equal(t, "rust", table.Resolve("rust"))

	entries := table.Entries()
	entries["k8s"] = "changed"
	assert.Equal(t, "kubernetes", table.Resolve("k8s"), "entries must be a copy")

	keys := table.Keys()
	assert.Len(t, keys, table.Len())
	assert.IsNonDecreasing(t, keys)

	var nilTable *AliasTable
	assert.Equal(t, "js", nilTable.Resolve("js"))
	assert.Zero(t, nilTable.Len())
}
