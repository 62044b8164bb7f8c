package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/skillmatch/internal/portal"
)

func TestJobsCommandListsStoredJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skillmatch.db")
	withConfig(t, map[string]any{"store.path": path})

	ctx := context.Background()
	store, err := portal.Open(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	err = store.Import(ctx, &portal.Dataset{Jobs: []*portal.Job{
		{ID: "j2", Title: "Designer", Skills: "Figma"},
		{ID: "j1", Title: "Backend", Company: "Acme", Skills: "Go, SQL"},
	}})
	store.Close()
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	var out bytes.Buffer
	jobsCmd.SetOut(&out)
	t.Cleanup(func() { jobsCmd.SetOut(nil) })

	jobsCmd.Run(jobsCmd, nil)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two jobs, got %q", out.String())
	}
	if !strings.HasPrefix(lines[1], "j1") || !strings.HasSuffix(lines[1], "Go, SQL") {
		t.Fatalf("unexpected first job line: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "j2") {
		t.Fatalf("expected jobs ordered by id, got %q", lines[2])
	}
}

func TestAliasesCommandPrintsEffectiveTable(t *testing.T) {
	withConfig(t, map[string]any{"matcher.aliases": map[string]any{"golang": "go"}})

	var out bytes.Buffer
	aliasesCmd.SetOut(&out)
	t.Cleanup(func() { aliasesCmd.SetOut(nil) })

	aliasesCmd.Run(aliasesCmd, nil)

	rows := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			t.Fatalf("malformed alias row: %q", line)
		}
		rows[fields[0]] = strings.Join(fields[1:], " ")
	}

	if rows["golang"] != "go" {
		t.Fatalf("configured alias missing, got %q", rows["golang"])
	}
	if rows["k8s"] != "kubernetes" {
		t.Fatalf("built-in alias missing, got %q", rows["k8s"])
	}
	if rows["ci/cd"] != "continuous integration continuous deployment" {
		t.Fatalf("multi-word canonical phrase broken, got %q", rows["ci/cd"])
	}
}
