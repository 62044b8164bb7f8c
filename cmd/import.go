package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/portal"
)

var importCmd = &cobra.Command{
	Use:   "import <dataset.json>",
	Short: "Load jobs and candidates from a JSON dataset into the store",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()
		config, logger := setup()

		ds, err := portal.LoadDataset(args[0])
		if err != nil {
			logger.Fatal("loading dataset", zap.Error(err))
		}

		store := openStore(ctx, config, logger)
		defer store.Close()

		if err := store.Import(ctx, ds); err != nil {
			logger.Fatal("importing dataset", zap.Error(err))
		}

		logger.Info("dataset imported",
			zap.String("file", args[0]),
			zap.Int("jobs", len(ds.Jobs)),
			zap.Int("candidates", len(ds.Candidates)),
		)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func openStore(ctx context.Context, config *Config, logger *zap.Logger) *portal.Store {
	store, err := portal.Open(ctx, config.Store.Path)
	if err != nil {
		logger.Fatal("opening store", zap.Error(err), zap.String("path", config.Store.Path))
	}
	logger.Debug("store opened", zap.String("path", config.Store.Path))
	return store
}
