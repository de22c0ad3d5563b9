package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var remotesCmd = &cobra.Command{
	Use:   "remotes",
	Short: "List remotes",
	Long:  "These are the servers or other local folders that huge synchronizes data with.",
	Run:   runRemotes,
}

var remoteAddCmd = &cobra.Command{
	Use:   "remote-add <address>",
	Short: "Add a remote",
	Long: "This remote will be synchronized with whenever 'huge fetch', 'huge pull' or " +
		"'huge push' is run.",
	Args: cobra.ExactArgs(1),
	Run:  runRemoteAdd,
}

func init() {
	rootCmd.AddCommand(remotesCmd)
	rootCmd.AddCommand(remoteAddCmd)
}

func runRemotes(cmd *cobra.Command, args []string) {
	r := openRepository()

	infos, err := r.Remotes.List()
	if err != nil {
		failf("%s", err)
	}

	for _, info := range infos {
		stamp := strings.Repeat(" ", 16)
		if !info.LastCoverageUpdate.IsZero() {
			stamp = info.LastCoverageUpdate.Local().Format("2006-01-02 15:04")
		}
		output(strings.Join([]string{info.ID, stamp, info.Address}, " "))
	}
}

func runRemoteAdd(cmd *cobra.Command, args []string) {
	r := openRepository()

	if _, err := r.Remotes.Add(args[0]); err != nil {
		failf("%s", err)
	}
}
