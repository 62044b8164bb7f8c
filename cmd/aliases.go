package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Print the effective skill alias table",
	Run: func(cmd *cobra.Command, _ []string) {
		config, logger := setup()
		table := newMatcher(config, logger).Aliases()
		entries := table.Entries()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ALIAS\tCANONICAL")
		for _, alias := range table.Keys() {
			fmt.Fprintf(w, "%s\t%s\n", alias, entries[alias])
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(aliasesCmd)
}
