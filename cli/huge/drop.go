package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/huge-vcs/huge"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop <commit>...",
	Short: "Deletes files in a commit",
	Long: "WARNING: this can permanently delete data.\n\n" +
		"Removes the blobs a commit points at from the local repository; the commit " +
		"directory itself is kept. The files can be retrieved again with 'huge pull' as " +
		"long as some remote still has them.\n\n" +
		"Runs a fetch first to reduce the risk of losing data, unless -f/--force is given.",
	Args: cobra.MinimumNArgs(1),
	Run:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip the coverage check")
	rootCmd.AddCommand(dropCmd)
}

func runDrop(cmd *cobra.Command, args []string) {
	r := openRepository()

	if !dropForce {
		if err := r.Fetch(); err != nil {
			failf("%s", err)
		}
	}

	if _, err := r.Drop(args, dropForce); err != nil {
		if errors.Is(err, huge.ErrDropBlocked) {
			fail("The total coverage of the commits are less than 200%, meaning we could loose data.\n" +
				"If you really want to continue, run the command with --force.")
		}
		failf("%s", err)
	}
}
