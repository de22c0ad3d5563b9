package main

import "github.com/spf13/cobra"

var sendCmd = &cobra.Command{
	Use:   "send <address>",
	Short: "Send repository to another server or folder",
	Long: "Opposite of clone: bootstraps a repository at address from this one. Does not " +
		"send the files themselves, only the metadata. Follow up with 'huge push' to send " +
		"the actual blobs.",
	Args: cobra.ExactArgs(1),
	Run:  runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) {
	r := openRepository()

	if err := r.Send(args[0]); err != nil {
		failf("%s", err)
	}
}
