package ranking

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/spigell/skillmatch/internal/matcher"
	"github.com/spigell/skillmatch/internal/portal"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRank(t *testing.T) {
	m := matcher.New(matcher.Options{})
	job := &portal.Job{ID: "j1", Title: "Backend", Skills: "Python, SQL"}
	candidates := []*portal.Candidate{
		{ID: "c3", Name: "Designer", Skills: "Figma, Photoshop"},
		{ID: "c1", Name: "Full match", Skills: "Python, SQL"},
		nil,
		{ID: "c2", Name: "Superset", Skills: "Python, SQL, Java"},
	}

	apps, err := Rank(context.Background(), m, job, candidates, 2, DefaultThresholds)
	require.NoError(t, err)
	require.Equal(t, 3, apps.Len())

	ids := make([]string, 0, apps.Len())
	for _, app := range apps.Items {
		ids = append(ids, app.Candidate.ID)
		assert.Equal(t, "j1", app.JobID)
		require.NotNil(t, app.Result)
		assert.Equal(t, app.Score, app.Result.Score)
		assert.Equal(t, m.Score(job.Skills, app.Candidate.Skills), app.Score)
	}
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids)

	assert.Equal(t, portal.StatusAccepted, apps.Items[0].Status)
	assert.Equal(t, portal.StatusRejected, apps.Items[2].Status)
	assert.Zero(t, apps.Items[2].Score)
}

func TestRankMatchesSequentialScores(t *testing.T) {
	m := matcher.New(matcher.Options{})
	job := &portal.Job{ID: "j1", Title: "Platform", Skills: "Docker, Kubernetes, AWS, Python"}

	var candidates []*portal.Candidate
	pool := []string{"Docker, Python, Linux", "k8s, aws", "Go", "", "Terraform, AWS", "python"}
	for i := 0; i < 60; i++ {
		candidates = append(candidates, &portal.Candidate{
			ID:     fmt.Sprintf("c%02d", i),
			Name:   "n",
			Skills: pool[i%len(pool)],
		})
	}

	for _, concurrency := range []int{0, 1, 8} {
		apps, err := Rank(context.Background(), m, job, candidates, concurrency, DefaultThresholds)
		require.NoError(t, err)
		require.Equal(t, len(candidates), apps.Len())
		for _, app := range apps.Items {
			assert.Equal(t, m.Score(job.Skills, app.Candidate.Skills), app.Score)
		}
	}
}

func TestRankCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Rank(ctx, matcher.New(matcher.Options{}), &portal.Job{ID: "j1"},
		[]*portal.Candidate{{ID: "c1", Skills: "Go"}}, 1, DefaultThresholds)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRankRequiresJob(t *testing.T) {
	_, err := Rank(context.Background(), matcher.New(matcher.Options{}), nil, nil, 1, DefaultThresholds)
	assert.Error(t, err)

	_, err = Rank(context.Background(), nil, &portal.Job{ID: "j1"}, nil, 1, DefaultThresholds)
	assert.Error(t, err)
}
