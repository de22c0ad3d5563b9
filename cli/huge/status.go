package main

import "github.com/spf13/cobra"

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show status between workspace files and the active commit",
	Long: "A = File has been added by user\n" +
		"C = File has been changed by user\n" +
		"D = File has been deleted by user\n\n" +
		"Doing a 'huge commit' will take these changes and store them in a new revision.",
	Run: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	r := openRepository()

	status, err := r.ComputeStatus(newReporter())
	if err != nil {
		failf("%s", err)
	}

	if rendered := status.Render(); rendered != "" {
		output(rendered)
	}
}
