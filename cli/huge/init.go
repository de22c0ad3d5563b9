package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/huge-vcs/huge"
	"github.com/huge-vcs/huge/repo"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize current folder with a .huge folder",
	Long:  "A folder named .huge and a default .hugeignore file will be created, without touching any other files.",
	Run:   runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	cwd, err := os.Getwd()
	if err != nil {
		failf("%s", err)
	}

	r, err := repo.Init(cwd)
	if err != nil {
		if errors.Is(err, huge.ErrAlreadyInitialised) {
			fail("Huge already initialized")
		}
		failf("%s", err)
	}
	if verbose {
		r.Log.SetLevel(logrus.DebugLevel)
	}
}
