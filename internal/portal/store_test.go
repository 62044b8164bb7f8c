package portal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "skillmatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreJobsAndCandidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.Import(ctx, &Dataset{
		Jobs: []*Job{
			{ID: "j2", Title: "Designer", Skills: "Figma"},
			{ID: "j1", Title: "Backend", Company: "Acme", Skills: "Go, SQL"},
		},
		Candidates: []*Candidate{{ID: "c1", Name: "Sam", Skills: "Go"}},
	}))

	job, err := s.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, &Job{ID: "j1", Title: "Backend", Company: "Acme", Skills: "Go, SQL"}, job)

	_, err = s.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	job.Skills = "Go, SQL, Docker"
	require.NoError(t, s.SaveJob(ctx, job))

	jobs, err := s.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "j1", jobs[0].ID)
	assert.Equal(t, "Go, SQL, Docker", jobs[0].Skills)

	require.NoError(t, s.SaveCandidate(ctx, &Candidate{ID: "c0", Name: "Alex", Skills: "Rust"}))
	candidates, err := s.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "c0", candidates[0].ID)
}

func TestStoreApplications(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)

	job := &Job{ID: "j1", Title: "Backend", Skills: "Go, SQL"}
	sam := &Candidate{ID: "c1", Name: "Sam", Skills: "Go"}
	alex := &Candidate{ID: "c2", Name: "Alex", Skills: "Go, SQL"}
	require.NoError(t, s.Import(ctx, &Dataset{Jobs: []*Job{job}, Candidates: []*Candidate{sam, alex}}))

	first := &Application{JobID: "j1", Candidate: sam, Score: 50, AppliedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.SaveApplication(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, StatusPending, first.Status)

	require.NoError(t, s.SaveApplication(ctx, &Application{JobID: "j1", Candidate: alex, Score: 100, Status: StatusAccepted}))

	// Rescoring keeps the original id.
	again := &Application{JobID: "j1", Candidate: sam, Score: 55, Status: StatusRejected}
	require.NoError(t, s.SaveApplication(ctx, again))
	assert.Equal(t, first.ID, again.ID)

	apps, err := s.ListApplications(ctx, "j1")
	require.NoError(t, err)
	require.Equal(t, 2, apps.Len())
	assert.Equal(t, "c2", apps.Items[0].Candidate.ID)
	assert.Equal(t, 55, apps.Items[1].Score)
	assert.Equal(t, StatusRejected, apps.Items[1].Status)
	assert.Equal(t, 2024, apps.Items[1].AppliedAt.Year())

	pairs, err := s.ListScoredPairs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "c2", pairs[0].CandidateID, "newest first")
	assert.Equal(t, "Go, SQL", pairs[0].JobSkills)

	pairs, err = s.ListScoredPairs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, pairs, 1)

	assert.Error(t, s.SaveApplication(ctx, &Application{JobID: "j1"}))

	err = s.SaveApplication(ctx, &Application{JobID: "j1", Candidate: sam, Score: 90, Status: "hired"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown status "hired"`)

	apps, err = s.ListApplications(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, apps.FindByCandidateID("c1").Status, "rejected save leaves the row untouched")
}
