package main

import "github.com/spf13/cobra"

var pullRemotes []string

var pullCmd = &cobra.Command{
	Use:   "pull <commit>...",
	Short: "Pull one or more commits from a remote",
	Long:  "Downloads the actual blobs for the named commits from the given remotes, or every known remote if none is named.",
	Args:  cobra.MinimumNArgs(1),
	Run:   runPull,
}

func init() {
	pullCmd.Flags().StringSliceVarP(&pullRemotes, "remote", "r", nil, "remote id(s) to pull from")
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) {
	r := openRepository()

	remoteIDs := pullRemotes
	if len(remoteIDs) == 0 {
		infos, err := r.Remotes.List()
		if err != nil {
			failf("%s", err)
		}
		for _, info := range infos {
			remoteIDs = append(remoteIDs, info.ID)
		}
	}

	if err := r.Pull(args, remoteIDs, newReporter()); err != nil {
		failf("%s", err)
	}
}
