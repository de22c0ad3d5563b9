// Command huge and its supporting packages implement a distributed,
// content-addressed version-control system for large binary files.
// See package repo for the repository façade and package cli/huge for
// the command-line entry point.
package huge
