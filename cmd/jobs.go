package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List stored jobs with their required skills",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		config, logger := setup()

		store := openStore(ctx, config, logger)
		defer store.Close()

		jobs, err := store.ListJobs(ctx)
		if err != nil {
			logger.Fatal("listing jobs", zap.Error(err))
		}

		if len(jobs) == 0 {
			logger.Info("no jobs found", zap.String("hint", "import a dataset first"))
			return
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tSKILLS")
		for _, job := range jobs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", job.ID, job.Title, job.Company, job.Skills)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}
