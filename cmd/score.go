package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:     "score",
	Short:   "Print the compatibility score (0-100) of candidate skills against job skills",
	Example: `  skillmatch score --job "Python, SQL" --candidate "Python, SQL, Java"`,
	Run: func(cmd *cobra.Command, _ []string) {
		config, logger := setup()
		job, candidate := skillFlags(cmd)

		score := newMatcher(config, logger).Score(job, candidate)
		logger.Debug("scored skills", zap.String("job", job), zap.String("candidate", candidate), zap.Int("score", score))

		fmt.Fprintln(cmd.OutOrStdout(), score)
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details",
	Short: "Print the skill by skill breakdown of a score as JSON",
	Run: func(cmd *cobra.Command, _ []string) {
		config, logger := setup()
		job, candidate := skillFlags(cmd)

		res := newMatcher(config, logger).Details(job, candidate)
		if err := printJSON(cmd, res); err != nil {
			logger.Fatal("printing details", zap.Error(err))
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{scoreCmd, detailsCmd} {
		c.Flags().String("job", "", "comma separated skills required by the job")
		c.Flags().String("candidate", "", "comma separated skills of the candidate")
		rootCmd.AddCommand(c)
	}
}

func skillFlags(cmd *cobra.Command) (string, string) {
	job, _ := cmd.Flags().GetString("job")
	candidate, _ := cmd.Flags().GetString("candidate")
	return job, candidate
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
