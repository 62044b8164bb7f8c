package filtering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/portal"
)

type aiReviewFilter struct {
	enabled bool
	reason  string
	config  *AIReviewConfig
	deps    *AIReviewDeps
}

type AIReviewDeps struct {
	Logger      *zap.Logger
	Reviewer    ai.Reviewer
	Job         *portal.Job
	ExcludeFile string
}

type AIReviewConfig struct {
	Enabled         bool
	Provider        string
	Model           string
	MinimumFitScore float64
}

// NewAIReview creates the AI review step. Applications the reviewer rejects
// are dropped and appended to the exclude file; failed reviews are kept with
// the error attached.
func NewAIReview(cfg *AIReviewConfig, deps *AIReviewDeps) Filter {
	if cfg == nil {
		cfg = &AIReviewConfig{}
	}
	return &aiReviewFilter{
		enabled: cfg.Enabled,
		config:  cfg,
		deps:    deps,
	}
}

func (f *aiReviewFilter) Name() string { return "ai_review" }

func (f *aiReviewFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *aiReviewFilter) IsEnabled() bool { return f.enabled }

func (f *aiReviewFilter) Validate() error {
	if f.deps == nil || f.deps.Reviewer == nil {
		return errors.New("reviewer is not initialized: filter is not usable")
	}
	if f.deps.Job == nil {
		return errors.New("job is required for ai review")
	}
	if f.deps.Logger == nil {
		f.deps.Logger = zap.NewNop()
	}
	return nil
}

func (f *aiReviewFilter) Apply(ctx context.Context, apps *portal.Applications) (*portal.Applications, Step, error) {
	initial := apps.Len()
	log := f.deps.Logger
	approved := make([]*portal.Application, 0, initial)
	rejected := &portal.Applications{}

	for _, app := range apps.Items {
		if err := ctx.Err(); err != nil {
			return apps, Step{}, err
		}

		fields := logger.ScoreFields(app.JobID, app.GetStringField(portal.CandidateIDField), app.Score)

		assessment, err := f.deps.Reviewer.Evaluate(ctx, f.deps.Job, app)
		if err != nil {
			log.Warn("AI evaluation failed", append(fields, zap.Error(err))...)
			app.AI = &portal.AIAssessment{Error: err.Error()}
			approved = append(approved, app)
			continue
		}

		app.AI = assessment.ToPortal()
		if !app.AI.Fit {
			log.Info("candidate rejected by AI reviewer", append(fields,
				zap.Float64("ai_score", assessment.Score),
				zap.String("reason", assessment.Reason),
			)...)
			rejected.Items = append(rejected.Items, app)
			continue
		}

		log.Info("candidate approved by AI reviewer", append(fields, zap.Float64("ai_score", assessment.Score))...)
		approved = append(approved, app)
	}

	apps.Items = approved

	if err := f.appendToExcludeFile(rejected); err != nil {
		log.Warn("failed to append rejected candidates to exclude file", zap.Error(err))
	}

	log.Info("AI review completed",
		zap.Int("initial_candidates", initial),
		zap.Int("approved_candidates", len(approved)),
	)

	return apps, newStep(initial, apps), nil
}

func (f *aiReviewFilter) appendToExcludeFile(rejected *portal.Applications) error {
	path := strings.TrimSpace(f.deps.ExcludeFile)
	if path == "" || rejected.Len() == 0 {
		return nil
	}

	excluded, err := portal.GetExcludedCandidatesFromFile(path)
	if err != nil {
		return fmt.Errorf("load excluded candidates: %w", err)
	}

	for _, app := range rejected.Items {
		single := &portal.Applications{Items: []*portal.Application{app}}
		excluded.Append(single.ToExcluded(portal.ExcludeActorAI, app.AI.Reason))
	}

	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("write excluded candidates: %w", err)
	}

	f.deps.Logger.Info("rejected candidates appended to exclude file",
		zap.Int("count", rejected.Len()),
		zap.String("exclude_file", path),
	)

	return nil
}

func (f *aiReviewFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{
			"provider":          f.config.Provider,
			"model":             f.config.Model,
			"minimum_fit_score": strconv.FormatFloat(f.config.MinimumFitScore, 'f', 2, 64),
		},
	}
}
