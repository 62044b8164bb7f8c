package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/ai/gemini"
	"github.com/spigell/skillmatch/internal/filtering"
	"github.com/spigell/skillmatch/internal/portal"
	"github.com/spigell/skillmatch/internal/ranking"
	"github.com/spigell/skillmatch/internal/secrets"
)

const (
	PromptYes                 = "Yes, save scores"
	PromptNo                  = "No"
	PromptBack                = "back"
	PromptReportByStatus      = "Report by status"
	PromptManualMode          = "Show candidate details in manual mode"
	PromptAppendToExcludeFile = "Append all candidates to exclude file"
	PromptApplicationsToFile  = "Dump applications to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Save scores?",
	Items: []string{PromptYes, PromptNo, PromptReportByStatus, PromptManualMode, PromptApplicationsToFile},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank stored candidates for a job, filter them and save their scores",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().String("job-id", "", "id of the stored job to rank candidates for")
	rankCmd.Flags().BoolP("rescore", "f", false, "score candidates again even if they already have a stored application")
	rankCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before saving scores")
	rankCmd.Flags().StringP("exclude-file", "e", "", "special file with candidates to exclude. Default is unset.")
	rankCmd.Flags().Int("minimum-score", 0, "drop candidates scoring under this value")
	rankCmd.Flags().StringSlice("disable-filter", nil, "names of optional filters to skip (minimum_score, ai_review)")

	rankCmd.MarkFlagRequired("job-id")

	viper.BindPFlag("rank.exclude-file", rankCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("rank.minimum-score", rankCmd.Flags().Lookup("minimum-score"))
}

func rank(cmd *cobra.Command) {
	ctx := context.Background()
	config, logger := setup()

	logger.Info("starting the skillmatch ranking", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store := openStore(ctx, config, logger)
	defer store.Close()

	jobID, _ := cmd.Flags().GetString("job-id")
	job, err := store.GetJob(ctx, jobID)
	if err != nil {
		logger.Fatal("getting the job", zap.Error(err), zap.String("hint", "import a dataset first"))
	}

	candidates, err := store.ListCandidates(ctx)
	if err != nil {
		logger.Fatal("listing candidates", zap.Error(err))
	}

	if len(candidates) == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates found"))
		return
	}

	m := newMatcher(config, logger)
	thresholds := ranking.Thresholds{Accept: config.Rank.AcceptScore, Reject: config.Rank.RejectScore}

	apps, err := ranking.Rank(ctx, m, job, candidates, config.Rank.Concurrency, thresholds)
	if err != nil {
		logger.Fatal("ranking candidates", zap.Error(err))
	}

	logger.Info("candidates ranked", zap.String("job_id", job.ID), zap.Int("count", apps.Len()))

	filters := prepareFilters(ctx, cmd, store, config, job, logger)

	apps, err = filters.RunFilters(ctx, apps)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if apps.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")

	for {
		action := PromptYes
		if !autoApprove {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of applications", zap.Int("count", apps.Len()))

		if err := handleAction(ctx, action, store, logger, config, apps); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, store *portal.Store, logger *zap.Logger, config *Config, apps *portal.Applications) error {
	switch action {
	case PromptYes:
		if err := save(ctx, store, logger, apps); err != nil {
			return err
		}
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptManualMode:
		return manualMode(logger, config, apps)
	case PromptReportByStatus:
		pretty, _ := json.MarshalIndent(apps.ReportByStatus(), "", "  ")
		logger.Info(string(pretty), zap.Int("applications count", apps.Len()))
		return nil
	case PromptApplicationsToFile:
		filename, err := apps.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func save(ctx context.Context, store *portal.Store, logger *zap.Logger, apps *portal.Applications) error {
	for _, app := range apps.Items {
		if err := store.SaveApplication(ctx, app); err != nil {
			return err
		}

		logger.Debug("application saved",
			zap.String("candidate_id", app.Candidate.ID),
			zap.Int("compatibility_score", app.Score),
			zap.String("status", app.Status),
		)
	}

	logger.Info("successfully saved applications", zap.Int("count", apps.Len()))
	return nil
}

func manualMode(logger *zap.Logger, config *Config, apps *portal.Applications) error {
	for {
		items := make([]string, 0, apps.Len()+2)

		for _, app := range apps.Items {
			label := fmt.Sprintf("%s %s / %d / %s",
				app.Candidate.ID, app.Candidate.Name, app.Score, app.Status,
			)

			items = append(items, label)
		}

		excludeFile := config.Rank.ExcludeFile
		if excludeFile != "" && apps.Len() != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		switch selected {
		case PromptBack:
			return nil
		case PromptAppendToExcludeFile:
			jobID := apps.Items[0].JobID
			excluded, err := portal.GetExcludedCandidatesFromFile(excludeFile)
			if err != nil {
				return err
			}

			excluded.Append(apps.ToExcluded(portal.ExcludeActorUser, ""))

			if err = excluded.ToFile(excludeFile); err != nil {
				return err
			}

			logger.Info("appended to exclude file", zap.String("filename", excludeFile))

			apps.Exclude(portal.CandidateIDField, excluded.CandidatesIDs(jobID))
		default:
			candidateID := strings.Split(selected, " ")[0]

			app := apps.FindByCandidateID(candidateID)
			if app == nil {
				return fmt.Errorf("there is no such candidate id %s", candidateID)
			}

			pretty, _ := json.MarshalIndent(app, "", "  ")
			logger.Info(string(pretty), zap.String("candidate_id", candidateID))
		}
	}
}

func newAIReviewer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Reviewer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return newGeminiReviewer(generator, cfg, logger), nil
}

// newGeminiReviewer applies the reviewer settings of cfg on top of generator.
func newGeminiReviewer(generator gemini.ContentGenerator, cfg *AIConfig, logger *zap.Logger) *gemini.Reviewer {
	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	maxLogLength := 0
	if cfg.Gemini != nil {
		maxLogLength = cfg.Gemini.MaxLogLength
	}

	reviewerLogger := logger.With(zap.Float64("minimum_fit_score", minScore))

	reviewer := gemini.NewReviewer(generator, minScore, maxLogLength, reviewerLogger)
	reviewer.SetPromptOverrides(promptOverrides(cfg.Prompt))

	return reviewer
}

func promptOverrides(cfg *PromptConfig) gemini.PromptOverrides {
	if cfg == nil {
		return gemini.PromptOverrides{}
	}

	return gemini.PromptOverrides{
		ExtraCriteria:     cfg.ExtraCriteria,
		DealBreakers:      cfg.DealBreakers,
		CustomKeywords:    cfg.Keywords,
		Tone:              cfg.Tone,
		RegionConstraints: cfg.Region,
		UserInstructions:  cfg.Instructions,
	}
}

func prepareFilters(ctx context.Context, cmd *cobra.Command, store *portal.Store, config *Config, job *portal.Job, logger *zap.Logger) *filtering.Filtering {
	rescore, _ := cmd.Flags().GetBool("rescore")

	steps := []filtering.Filter{
		filtering.NewExcludeFile(config.Rank.ExcludeFile, job.ID, logger),
		filtering.NewAppliedHistory(store, job.ID, rescore, logger),
		filtering.NewMinimumScore(config.Rank.MinimumScore, logger),
		prepareAIFilter(ctx, config, job, logger),
	}

	filters := filtering.New(steps, logger)

	disabled, _ := cmd.Flags().GetStringSlice("disable-filter")
	for _, name := range disabled {
		filters.DisableByName(strings.TrimSpace(name), "disabled by --disable-filter")
	}

	for _, status := range filters.Describe() {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return filters
}

func prepareAIFilter(ctx context.Context, config *Config, job *portal.Job, logger *zap.Logger) filtering.Filter {
	cfg := config.AI
	if cfg == nil || !cfg.Enabled {
		return filtering.NewAIReview(&filtering.AIReviewConfig{Enabled: false}, nil)
	}

	aiConfig := &filtering.AIReviewConfig{
		Enabled:         cfg.Enabled,
		Provider:        cfg.Provider,
		Model:           cfg.Gemini.Model,
		MinimumFitScore: cfg.MinimumFitScore,
	}

	reviewer, err := newAIReviewer(ctx, cfg, logger)
	if err != nil {
		logger.Warn("skipping AI filter", zap.Error(err))
		filter := filtering.NewAIReview(aiConfig, nil)
		filter.Disable(err.Error())
		return filter
	}

	return filtering.NewAIReview(aiConfig, &filtering.AIReviewDeps{
		Logger:      logger.Named("ai_review"),
		Reviewer:    reviewer,
		Job:         job,
		ExcludeFile: config.Rank.ExcludeFile,
	})
}
