// Package ranking scores every candidate of a job and evaluates stored scores
// against the current matcher.
package ranking

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/spigell/skillmatch/internal/matcher"
	"github.com/spigell/skillmatch/internal/portal"
)

// Thresholds used to suggest a status for fresh applications.
type Thresholds struct {
	Accept int
	Reject int
}

var DefaultThresholds = Thresholds{Accept: 80, Reject: 60}

// Rank scores candidates against job on at most concurrency goroutines and
// returns one pending application per candidate, best score first. Each
// application carries the detailed breakdown. A non-positive concurrency
// selects GOMAXPROCS.
func Rank(ctx context.Context, m *matcher.Matcher, job *portal.Job, candidates []*portal.Candidate, concurrency int, th Thresholds) (*portal.Applications, error) {
	if m == nil {
		return nil, errors.New("matcher is required")
	}
	if job == nil {
		return nil, errors.New("job is required")
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	js := m.ForJob(job.Skills)
	items := make([]*portal.Application, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, c := range candidates {
		if c == nil {
			continue
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			res := js.Details(c.Skills)
			items[i] = &portal.Application{
				JobID:     job.ID,
				Candidate: c,
				Score:     res.Score,
				Status:    portal.SuggestStatus(res.Score, th.Accept, th.Reject),
				Result:    res,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	apps := &portal.Applications{Items: make([]*portal.Application, 0, len(items))}
	for _, app := range items {
		if app != nil {
			apps.Items = append(apps.Items, app)
		}
	}
	apps.SortByScore()

	return apps, nil
}
