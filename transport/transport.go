// Package transport abstracts the two capabilities replication needs
// from a peer repository: listing what it has, and moving commit
// directories and blobs to and from it. Two implementations exist: a
// local-path transport for peers reachable as a directory, and a
// remote-shell (SSH) transport for login@host:path peers. Grounded on
// go-git's plumbing/transport split between an endpoint-addressed
// interface and per-scheme implementations.
package transport

import (
	"fmt"

	"github.com/huge-vcs/huge/address"
	"github.com/huge-vcs/huge/content"
	"github.com/huge-vcs/huge/internal/progress"
)

// BatchSize bounds how many blob digests SSH.FetchBlobs/SendBlobs move
// per remote tar invocation, keeping remote command lines and
// in-flight session count to a sane length.
const BatchSize = 500

// Transport is a connection to a single peer repository.
type Transport interface {
	// CreateSkeleton lays down the peer's .huge directory tree
	// (commits/, storage/, remotes/) if it does not already exist, so
	// that a send to a brand-new peer has somewhere to write.
	CreateSkeleton() error

	// Identity returns the peer's repository identity token.
	Identity() (string, error)

	// SendIdentity writes id as the peer's repository identity token;
	// used only when bootstrapping a peer via clone/send.
	SendIdentity(id string) error

	// ListCommits returns the commit ids present in the peer's commits/
	// directory.
	ListCommits() ([]string, error)

	// ListBlobs returns the digests present in the peer's storage/
	// directory.
	ListBlobs() ([]string, error)

	// FetchCommit copies a commit directory from the peer into
	// destCommitsDir/<id>, which must not already exist.
	FetchCommit(id string, destCommitsDir string) error

	// SendCommit copies a local commit directory into the peer's
	// commits/<id>, which must not already exist there.
	SendCommit(id string, srcCommitsDir string) error

	// FetchBlobs downloads digests from the peer's storage directly
	// into store, skipping any digest store already has.
	FetchBlobs(digests []string, store *content.Store, reporter progress.Reporter) error

	// SendBlobs uploads digests from store to the peer's storage,
	// skipping any digest the peer already has.
	SendBlobs(digests []string, store *content.Store, reporter progress.Reporter) error

	// ListRemoteIDs returns the remote-registry entry ids present in
	// the peer's remotes/ directory.
	ListRemoteIDs() ([]string, error)

	// FetchRemoteEntry copies one remote-registry entry from the peer
	// into destRemotesDir/<id>.
	FetchRemoteEntry(id string, destRemotesDir string) error

	// SendRemoteEntry copies one local remote-registry entry to the
	// peer's remotes/<id>.
	SendRemoteEntry(id string, srcRemotesDir string) error

	// Close releases any resources (network connections) held open by
	// the transport.
	Close() error
}

// Dial opens a Transport to addr. Local addresses are served directly
// off the filesystem; remote-shell addresses are served over SSH.
func Dial(addr address.Address) (Transport, error) {
	switch addr.Kind {
	case address.Local:
		return NewLocal(addr.Path), nil
	case address.RemoteShell:
		return DialSSH(addr)
	default:
		return nil, fmt.Errorf("unknown address kind: %v", addr.Kind)
	}
}

// batches splits names into chunks of at most BatchSize.
func batches(names []string) [][]string {
	if len(names) == 0 {
		return nil
	}
	var out [][]string
	for len(names) > 0 {
		n := BatchSize
		if n > len(names) {
			n = len(names)
		}
		out = append(out, names[:n])
		names = names[n:]
	}
	return out
}
