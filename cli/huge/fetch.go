package main

import "github.com/spf13/cobra"

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch metadata from and to remotes",
	Long: "Reconciles commit metadata with every enabled remote; does not transfer any " +
		"actual blobs. Run this before 'huge pull'.",
	Run: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) {
	r := openRepository()

	if err := r.Fetch(); err != nil {
		failf("%s", err)
	}
}
