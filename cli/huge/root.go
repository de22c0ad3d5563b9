package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/huge-vcs/huge"
	"github.com/huge-vcs/huge/internal/progress"
	"github.com/huge-vcs/huge/repo"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "huge",
	Short:         "Handling huge files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug-level logging")
}

// Execute runs the root command, reporting the process's exit status.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		failf("%s", err)
		return 1
	}
	return 0
}

// openRepository opens the huge repository rooted at the current
// directory, failing the process with the same wording as the
// reference implementation's require_repository decorator when there
// is none.
func openRepository() *repo.Repository {
	cwd, err := os.Getwd()
	if err != nil {
		failf("%s", err)
	}
	r, err := repo.Open(cwd)
	if err != nil {
		fail("Not a .huge repository, or you are not in the root level of it")
	}
	if verbose {
		r.Log.SetLevel(logrus.DebugLevel)
	}
	return r
}

func newReporter() progress.Reporter {
	return progress.NewTerminal(os.Stdout, os.Stdout.Fd())
}

// exitIfWorkspaceDirty reports the checkout-refused message the
// reference implementation uses, leaving every other error to the
// caller.
func exitIfWorkspaceDirty(err error) {
	if err == nil {
		return
	}
	if isWorkspaceDirty(err) {
		fail("Workspace has changes. Aborted.")
	}
	failf("%s", err)
}

func isWorkspaceDirty(err error) bool {
	return errors.Is(err, huge.ErrWorkspaceDirty)
}
