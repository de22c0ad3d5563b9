package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/huge-vcs/huge/internal/layout"
	"github.com/huge-vcs/huge/repo"
)

var cloneCmd = &cobra.Command{
	Use:   "clone <address>",
	Short: "Clone from a remote repository",
	Long: "Retrieves all the metadata from the remote repository without downloading any of " +
		"the actual files. Use 'huge log' to find a revision of interest, 'huge pull " +
		"<commit>' to download its files, then 'huge checkout <commit>' to place them in " +
		"the workspace.\n\n" +
		"Valid addresses are:\n" +
		"  /home/login/repository\n" +
		"  login@server:/home/login/repository\n" +
		"  login@server:repository",
	Args: cobra.ExactArgs(1),
	Run:  runClone,
}

func init() {
	rootCmd.AddCommand(cloneCmd)
}

func runClone(cmd *cobra.Command, args []string) {
	cwd, err := os.Getwd()
	if err != nil {
		failf("%s", err)
	}
	if layout.IsRepository(cwd) {
		fail("Huge already initialized")
	}

	r, err := repo.Clone(cwd, args[0])
	if err != nil {
		failf("Invalid remote: %s. Skipped. (%s)", args[0], err)
	}
	if verbose {
		r.Log.SetLevel(logrus.DebugLevel)
	}
}
