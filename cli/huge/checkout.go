package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/huge-vcs/huge"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <commit> [file]...",
	Short: "Swap the workspace files with another revision stored locally",
	Long: "If every changed file already has the target commit's content and every deleted " +
		"file is one the target commit lists, huge replaces the workspace with the commit's " +
		"files and sets it as the active commit. Otherwise huge refuses and does nothing.",
	Args: cobra.MinimumNArgs(1),
	Run:  runCheckout,
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
}

func runCheckout(cmd *cobra.Command, args []string) {
	r := openRepository()
	commitID, files := args[0], args[1:]

	if len(files) > 0 {
		if err := r.CheckoutFiles(commitID, files); err != nil {
			reportMissingBlobs(err, commitID)
			failf("%s", err)
		}
		return
	}

	if err := r.Checkout(commitID, newReporter()); err != nil {
		reportMissingBlobs(err, commitID)
		exitIfWorkspaceDirty(err)
	}
}

func reportMissingBlobs(err error, commitID string) {
	if errors.Is(err, huge.ErrMissingBlobs) {
		failf("%s", err)
	}
}
