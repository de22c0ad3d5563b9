package main

import "github.com/spf13/cobra"

var resetCmd = &cobra.Command{
	Use:   "reset <path>...",
	Short: "Unmark a file for committing",
	Long: "Opposite of 'huge add'. The file(s) in the workspace will not be added, changed " +
		"or deleted when 'huge commit' is executed. A single '.' clears everything staged.",
	Args: cobra.MinimumNArgs(1),
	Run:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) {
	r := openRepository()

	if err := r.Stage.Reset(args); err != nil {
		failf("%s", err)
	}
}
