package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ranking"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Recompute stored scores and print an evaluation report as JSON",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		config, logger := setup()

		limit, _ := cmd.Flags().GetInt("limit")

		store := openStore(ctx, config, logger)
		defer store.Close()

		pairs, err := store.ListScoredPairs(ctx, limit)
		if err != nil {
			logger.Fatal("listing scored applications", zap.Error(err))
		}

		if len(pairs) == 0 {
			logger.Info("nothing to evaluate", zap.String("reason", "no stored applications"))
			return
		}

		report := ranking.Evaluate(newMatcher(config, logger), pairs)
		logger.Info("evaluation completed",
			zap.Int("pairs", report.Summary.Pairs),
			zap.Int("changed_scores", report.Summary.Changed),
		)

		if err := printJSON(cmd, report); err != nil {
			logger.Fatal("printing report", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().IntP("limit", "l", 20, "number of most recent applications to evaluate, 0 for all")
}
