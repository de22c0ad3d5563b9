package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// output writes a line of normal command output to stdout.
func output(line string) {
	fmt.Println(line)
}

// fail prints msg to stderr in red and exits the process with status 1,
// grounded on go-git's examples/common.go CheckIfError.
func fail(msg string) {
	color.New(color.FgRed).Fprintln(os.Stderr, msg)
	os.Exit(1)
}

// failf is fail with Printf-style formatting.
func failf(format string, args ...interface{}) {
	fail(fmt.Sprintf(format, args...))
}
