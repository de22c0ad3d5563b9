package main

import "github.com/spf13/cobra"

var commitMessage string

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Store a new revision",
	Long: "Copy the changed files into the huge repository locally. The changes can then be " +
		"sent to one or more remotes using 'huge push', or retrieved back locally if any " +
		"changes want to be undone.",
	Run: runCommit,
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message")
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) {
	r := openRepository()

	if _, err := r.Commit(commitMessage, newReporter()); err != nil {
		failf("%s", err)
	}
}
