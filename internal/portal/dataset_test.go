package portal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDataset(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `{
		"jobs": [{"id": "j1", "title": "Backend Engineer", "skills": "Go, PostgreSQL, Docker"}],
		"candidates": [{"id": "c1", "name": "Sam", "email": "sam@example.com", "skills": "Go, Docker"}]
	}`)

	ds, err := LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, ds.Jobs, 1)
	require.Len(t, ds.Candidates, 1)
	assert.Equal(t, "Go, PostgreSQL, Docker", ds.Jobs[0].Skills)
}

func TestLoadDatasetInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"missing title":  `{"jobs": [{"id": "j1", "skills": "Go"}]}`,
		"bad email":      `{"candidates": [{"id": "c1", "name": "Sam", "email": "nope"}]}`,
		"duplicate job":  `{"jobs": [{"id": "j1", "title": "A"}, {"id": "j1", "title": "B"}]}`,
		"duplicate cand": `{"candidates": [{"id": "c1", "name": "A"}, {"id": "c1", "name": "B"}]}`,
		"not json":       `jobs:`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadDataset(writeFile(t, content))
			assert.Error(t, err)
		})
	}

	_, err := LoadDataset(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
