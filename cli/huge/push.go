package main

import (
	"github.com/spf13/cobra"
)

var pushRemotes []string

var pushCmd = &cobra.Command{
	Use:   "push [commit]...",
	Short: "Send commits to a remote repository",
	Long: "Sends commit metadata (same as 'huge fetch') plus the blobs needed to represent " +
		"the given commits, or the current commit if none is named, to the named remotes, " +
		"or every remote if none is named.",
	Run: runPush,
}

func init() {
	pushCmd.Flags().StringSliceVarP(&pushRemotes, "remote", "r", nil, "remote id(s) to push to")
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) {
	r := openRepository()

	// Synchronize metadata first so the remotes we are about to push to
	// already know about any commits they are missing.
	if err := r.Fetch(); err != nil {
		failf("%s", err)
	}

	commitIDs := args
	if len(commitIDs) == 0 {
		current, err := r.CurrentCommitID()
		if err != nil {
			failf("%s", err)
		}
		if current == "" {
			fail("Nothing to push")
		}
		commitIDs = []string{current}
	}

	remoteIDs := pushRemotes
	if len(remoteIDs) == 0 {
		infos, err := r.Remotes.List()
		if err != nil {
			failf("%s", err)
		}
		for _, info := range infos {
			remoteIDs = append(remoteIDs, info.ID)
		}
	}
	if len(remoteIDs) == 0 {
		fail("No remotes found")
	}

	if err := r.Push(commitIDs, remoteIDs, newReporter()); err != nil {
		failf("%s", err)
	}
}
