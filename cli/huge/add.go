package main

import (
	"github.com/spf13/cobra"

	"github.com/huge-vcs/huge/internal/layout"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Mark file(s) for committing",
	Long: "Files are marked to be committed next time a 'huge commit' is executed.\n\n" +
		"This is not the same as 'git add': no file contents are captured here, only the " +
		"path is marked so it is taken into the next commit.",
	Args: cobra.MinimumNArgs(1),
	Run:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	r := openRepository()

	ign, err := r.Ignore()
	if err != nil {
		failf("%s", err)
	}
	if err := r.Stage.Add(r.Root, layout.HugeDir, args, ign); err != nil {
		failf("%s", err)
	}
}
