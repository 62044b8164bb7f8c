package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/portal"
)

type minimumScoreFilter struct {
	minimum int
	enabled bool
	reason  string
	logger  *zap.Logger
}

// NewMinimumScore creates a filter that drops applications scoring under
// minimum. A zero minimum disables it.
func NewMinimumScore(minimum int, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &minimumScoreFilter{minimum: minimum, enabled: true, logger: logger}
	if minimum == 0 {
		f.Disable("minimum score is not set")
	}
	return f
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *minimumScoreFilter) IsEnabled() bool { return f.enabled }

func (f *minimumScoreFilter) Validate() error {
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum score must be within [0,100], got %d", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, apps *portal.Applications) (*portal.Applications, Step, error) {
	initial := apps.Len()
	excluded := apps.ExcludeBelow(f.minimum)
	if len(excluded) > 0 {
		f.logger.Debug("excluding candidates under minimum score",
			zap.Int("minimum_score", f.minimum),
			zap.Strings("excluded_candidates", excluded),
		)
	}
	return apps, newStep(initial, apps), nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"minimum_score": strconv.Itoa(f.minimum)},
	}
}
