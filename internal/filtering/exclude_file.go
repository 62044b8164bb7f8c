package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/portal"
)

type excludeFileFilter struct {
	path   string
	jobID  string
	logger *zap.Logger
}

// NewExcludeFile creates a filter that removes candidates listed in the
// exclude file for jobID.
func NewExcludeFile(path, jobID string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &excludeFileFilter{path: path, jobID: jobID, logger: logger}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, apps *portal.Applications) (*portal.Applications, Step, error) {
	initial := apps.Len()
	if f.path == "" {
		return apps, newStep(initial, apps), nil
	}

	excluded, err := portal.GetExcludedCandidatesFromFile(f.path)
	if err != nil {
		return apps, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	removed := apps.Exclude(portal.CandidateIDField, excluded.CandidatesIDs(f.jobID))
	if len(removed) > 0 {
		f.logger.Debug("excluding candidates listed in exclude file",
			zap.String("exclude_file", f.path),
			zap.Strings("excluded_candidates", removed),
		)
	}

	return apps, newStep(initial, apps), nil
}
