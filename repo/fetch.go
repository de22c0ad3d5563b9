package repo

import (
	"fmt"

	"github.com/huge-vcs/huge"
	"github.com/huge-vcs/huge/address"
	"github.com/huge-vcs/huge/transport"
)

// Fetch reconciles commit metadata with every enabled peer: commits
// present only on one side are copied to the other, and each peer's
// cached content-store inventory is refreshed. A peer that cannot be
// reached or whose identity mismatches is logged and skipped, never
// fatal to the overall operation.
func (r *Repository) Fetch() error {
	ownID, err := r.ID()
	if err != nil {
		return fmt.Errorf("read local identity: %w", err)
	}

	infos, err := r.Remotes.List()
	if err != nil {
		return fmt.Errorf("list remotes: %w", err)
	}

	for _, info := range infos {
		if err := r.fetchOne(ownID, info.ID, info.Address); err != nil {
			r.Log.WithError(err).WithField("remote", info.Address).Warn("fetch: skipping peer")
		}
	}
	return nil
}

func (r *Repository) fetchOne(ownID, remoteID, rawAddress string) error {
	addr, err := address.Parse(rawAddress)
	if err != nil {
		return fmt.Errorf("%w: %s", huge.ErrInvalidAddress, rawAddress)
	}

	tr, err := transport.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", rawAddress, err)
	}
	defer tr.Close()

	peerID, err := tr.Identity()
	if err != nil {
		return fmt.Errorf("read peer identity: %w", err)
	}
	if peerID != ownID {
		return fmt.Errorf("%w: peer %s reports %s, expected %s", huge.ErrIdentityMismatch, rawAddress, peerID, ownID)
	}

	peerCommits, err := tr.ListCommits()
	if err != nil {
		return fmt.Errorf("list peer commits: %w", err)
	}
	localCommits, err := r.Commits.IDs()
	if err != nil {
		return fmt.Errorf("list local commits: %w", err)
	}

	peerSet := toSet(peerCommits)
	localSet := toSet(localCommits)

	for id := range peerSet {
		if _, ok := localSet[id]; !ok {
			if err := tr.FetchCommit(id, r.Paths.CommitsDir()); err != nil {
				return fmt.Errorf("fetch commit %s: %w", id, err)
			}
		}
	}
	for id := range localSet {
		if _, ok := peerSet[id]; !ok {
			if err := tr.SendCommit(id, r.Paths.CommitsDir()); err != nil {
				return fmt.Errorf("send commit %s: %w", id, err)
			}
		}
	}

	peerBlobs, err := tr.ListBlobs()
	if err != nil {
		return fmt.Errorf("list peer blobs: %w", err)
	}
	if err := r.Remotes.WriteCoverage(remoteID, peerBlobs); err != nil {
		return fmt.Errorf("write coverage snapshot: %w", err)
	}
	return nil
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item] = struct{}{}
	}
	return out
}
