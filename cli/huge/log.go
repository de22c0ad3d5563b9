package main

import "github.com/spf13/cobra"

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show a list of revisions",
	Long: "Prints a list of all the commits that exist in the repository, newest first. " +
		"Run 'huge fetch' first to get up-to-date coverage information.",
	Run: runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) {
	r := openRepository()

	rendered, err := r.Log()
	if err != nil {
		failf("%s", err)
	}
	if rendered != "" {
		output(rendered)
	}
}
