package filtering

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/portal"
)

const rescoreFlagSetMsg = "rescore flag is set"

// ApplicationLister returns the applications already stored for a job.
type ApplicationLister interface {
	ListApplications(ctx context.Context, jobID string) (*portal.Applications, error)
}

type appliedHistoryFilter struct {
	store  ApplicationLister
	jobID  string
	ignore bool
	logger *zap.Logger
}

// NewAppliedHistory creates a filter that removes candidates already holding a
// stored application for jobID. With ignore set nothing is removed and stored
// scores are overwritten on save.
func NewAppliedHistory(store ApplicationLister, jobID string, ignore bool, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &appliedHistoryFilter{store: store, jobID: jobID, ignore: ignore, logger: logger}
}

func (f *appliedHistoryFilter) Name() string { return "applied_history" }

func (f *appliedHistoryFilter) Disable(string) {}

func (f *appliedHistoryFilter) IsEnabled() bool { return true }

func (f *appliedHistoryFilter) Validate() error {
	if f.store == nil {
		return errors.New("application store is required")
	}
	return nil
}

func (f *appliedHistoryFilter) Apply(ctx context.Context, apps *portal.Applications) (*portal.Applications, Step, error) {
	initial := apps.Len()
	if f.ignore {
		f.logger.Info("keeping already scored candidates", zap.String("reason", rescoreFlagSetMsg))
		return apps, newStep(initial, apps), nil
	}

	stored, err := f.store.ListApplications(ctx, f.jobID)
	if err != nil {
		return apps, Step{}, fmt.Errorf("list stored applications: %w", err)
	}

	ids := make([]string, 0, stored.Len())
	for _, app := range stored.Items {
		ids = append(ids, app.GetStringField(portal.CandidateIDField))
	}

	excluded := apps.Exclude(portal.CandidateIDField, ids)
	if len(excluded) > 0 {
		f.logger.Info("excluding candidates with stored applications",
			zap.String("job_id", f.jobID),
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", apps.Len()),
		)
	}

	return apps, newStep(initial, apps), nil
}

func (f *appliedHistoryFilter) Status() Status {
	s := Status{Name: f.Name(), Enabled: true}
	if f.ignore {
		s.Reason = rescoreFlagSetMsg
	}
	return s
}
