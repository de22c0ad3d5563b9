package repo

import (
	"fmt"
	"path/filepath"

	"github.com/huge-vcs/huge/address"
	"github.com/huge-vcs/huge/internal/layout"
	"github.com/huge-vcs/huge/transport"
)

// Clone bootstraps a brand-new repository at ./<basename(peerAddress)>,
// seeded with the peer's identity and remote registry (but not its
// commits or blobs), registers the peer itself as a remote, then runs
// a full fetch to pull in history.
func Clone(into string, peerAddress string) (*Repository, error) {
	addr, err := address.Parse(peerAddress)
	if err != nil {
		return nil, fmt.Errorf("parse peer address: %w", err)
	}

	dest := filepath.Join(into, filepath.Base(filepath.Clean(addr.Path)))
	if layout.IsRepository(dest) {
		return nil, fmt.Errorf("destination already a repository: %s", dest)
	}
	if err := layout.CreateSkeleton(dest); err != nil {
		return nil, fmt.Errorf("create repository skeleton: %w", err)
	}

	tr, err := transport.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("dial peer: %w", err)
	}
	defer tr.Close()

	peerID, err := tr.Identity()
	if err != nil {
		return nil, fmt.Errorf("read peer identity: %w", err)
	}
	p := layout.New(dest)
	if err := writeIdentity(p, peerID); err != nil {
		return nil, err
	}

	remoteIDs, err := tr.ListRemoteIDs()
	if err != nil {
		return nil, fmt.Errorf("list peer remotes: %w", err)
	}
	for _, id := range remoteIDs {
		if err := tr.FetchRemoteEntry(id, p.RemotesDir()); err != nil {
			return nil, fmt.Errorf("fetch remote entry %s: %w", id, err)
		}
	}

	repository := newRepository(dest)
	if _, err := repository.Remotes.Add(peerAddress); err != nil {
		return nil, fmt.Errorf("register source peer: %w", err)
	}

	if err := repository.Fetch(); err != nil {
		return nil, fmt.Errorf("initial fetch: %w", err)
	}
	return repository, nil
}
