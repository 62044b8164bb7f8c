package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/portal"
)

// Filter represents a single filtering step applied to ranked applications.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, apps *portal.Applications) (*portal.Applications, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

func newStep(initial int, apps *portal.Applications) Step {
	return Step{Initial: initial, Dropped: initial - apps.Len(), Left: apps.Len()}
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Filtering runs an ordered chain of filters.
type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Filtering {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filtering{steps: steps, logger: logger}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func (f *Filtering) DisableByName(name, reason string) {
	for _, step := range f.steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// RunFilters validates every enabled filter, then applies them in order.
func (f *Filtering) RunFilters(ctx context.Context, apps *portal.Applications) (*portal.Applications, error) {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range f.steps {
		if !step.IsEnabled() {
			f.logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, apps)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		f.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		apps = next
	}

	return apps, nil
}

// Describe returns status entries for the configured filters.
func (f *Filtering) Describe() []Status {
	statuses := make([]Status, 0, len(f.steps))
	for _, step := range f.steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
