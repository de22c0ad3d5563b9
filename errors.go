// Package huge collects the error kinds shared across the repository,
// replication, and command-line layers, grounded on go-git's
// plumbing-level sentinel errors (e.g. plumbing.ErrObjectNotFound).
package huge

import "errors"

// Sentinel errors identifying the fatal failure kinds a caller may
// need to distinguish. Fetch logs a per-peer failure and goes on to the
// next peer; push and pull return the first per-peer failure and do not
// try the remaining peers.
var (
	ErrNotARepository     = errors.New("not a huge repository")
	ErrAlreadyInitialised = errors.New("already initialised")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrIdentityMismatch   = errors.New("peer repository identity mismatch")
	ErrCommitNotFound     = errors.New("commit not found")
	ErrWorkspaceDirty     = errors.New("workspace has changes. aborted")
	ErrMissingBlobs       = errors.New("missing one or more files locally")
	ErrTransportFailure   = errors.New("transport failure")
	ErrCorruptPeerData    = errors.New("corrupt peer data")
	ErrDropBlocked        = errors.New("coverage insufficient to drop")
)
