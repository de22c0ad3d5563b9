package repo

import (
	"fmt"
	"os"

	"github.com/huge-vcs/huge/address"
	"github.com/huge-vcs/huge/internal/layout"
	"github.com/huge-vcs/huge/transport"
)

func writeIdentity(p layout.Paths, id string) error {
	return os.WriteFile(p.IDFile(), []byte(id), 0o644)
}

// Send is the inverse of Clone: it creates a repository skeleton on
// peerAddress, uploads our identity, remote registry and commits, adds
// the peer to our own remote list, and finishes with a fetch so blob
// coverage reconciles both ways.
func (r *Repository) Send(peerAddress string) error {
	addr, err := address.Parse(peerAddress)
	if err != nil {
		return fmt.Errorf("parse peer address: %w", err)
	}

	tr, err := transport.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial peer: %w", err)
	}
	defer tr.Close()

	if err := tr.CreateSkeleton(); err != nil {
		return fmt.Errorf("create peer skeleton: %w", err)
	}

	ownID, err := r.ID()
	if err != nil {
		return fmt.Errorf("read local identity: %w", err)
	}
	if err := tr.SendIdentity(ownID); err != nil {
		return fmt.Errorf("send identity: %w", err)
	}

	remoteIDs, err := r.Remotes.List()
	if err != nil {
		return fmt.Errorf("list local remotes: %w", err)
	}
	for _, info := range remoteIDs {
		if err := tr.SendRemoteEntry(info.ID, r.Paths.RemotesDir()); err != nil {
			return fmt.Errorf("send remote entry %s: %w", info.ID, err)
		}
	}

	commitIDs, err := r.Commits.IDs()
	if err != nil {
		return fmt.Errorf("list local commits: %w", err)
	}
	for _, id := range commitIDs {
		if err := tr.SendCommit(id, r.Paths.CommitsDir()); err != nil {
			return fmt.Errorf("send commit %s: %w", id, err)
		}
	}

	if _, err := r.Remotes.Add(peerAddress); err != nil {
		return fmt.Errorf("register peer: %w", err)
	}

	return r.Fetch()
}
