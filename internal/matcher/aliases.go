package matcher

import (
	"sort"
	"strings"
)

// defaultAliases maps informal skill spellings to the phrase used for scoring.
var defaultAliases = map[string]string{
	"js":         "javascript",
	"ts":         "typescript",
	"py":         "python",
	"ml":         "machine learning",
	"ai":         "artificial intelligence",
	"db":         "database",
	"sql":        "structured query language",
	"nosql":      "non relational database",
	"api":        "application programming interface",
	"ui":         "user interface",
	"ux":         "user experience",
	"css3":       "css",
	"html5":      "html",
	"es6":        "javascript",
	"react.js":   "react",
	"reactjs":    "react",
	"vue.js":     "vue",
	"node.js":    "nodejs",
	"express.js": "express",
	"mongodb":    "mongo database",
	"postgresql": "postgres",
	"mysql":      "my sql database",
	"aws":        "amazon web services",
	"gcp":        "google cloud platform",
	"k8s":        "kubernetes",
	"docker":     "containerization",
	"ci/cd":      "continuous integration continuous deployment",
	"devops":     "development operations",
	"frontend":   "front end development",
	"backend":    "back end development",
	"fullstack":  "full stack development",
}

// AliasTable resolves a whole skill piece to its canonical phrase.
// It is never modified after NewAliasTable returns.
type AliasTable struct {
	entries map[string]string
}

// NewAliasTable merges the built-in aliases with overrides. Keys and values are
// lowercased and trimmed; entries with an empty side are ignored.
func NewAliasTable(overrides map[string]string) *AliasTable {
	entries := make(map[string]string, len(defaultAliases)+len(overrides))
	add := func(from, to string) {
		from = strings.ToLower(strings.TrimSpace(from))
		to = strings.ToLower(strings.TrimSpace(to))
		if from == "" || to == "" {
			return
		}
		entries[from] = to
	}

	for from, to := range defaultAliases {
		add(from, to)
	}
	for from, to := range overrides {
		add(from, to)
	}

	return &AliasTable{entries: entries}
}

// Resolve returns the canonical phrase for skill, or skill itself when the
// table has no exact entry for it.
func (t *AliasTable) Resolve(skill string) string {
	if t == nil {
		return skill
	}
	if canonical, ok := t.entries[skill]; ok {
		return canonical
	}
	return skill
}

func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the table, keyed by alias.
func (t *AliasTable) Entries() map[string]string {
	out := make(map[string]string, t.Len())
	if t == nil {
		return out
	}
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// Keys returns the aliases in lexical order.
func (t *AliasTable) Keys() []string {
	keys := make([]string, 0, t.Len())
	if t == nil {
		return keys
	}
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
