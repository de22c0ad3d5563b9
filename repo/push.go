package repo

import (
	"fmt"

	"github.com/huge-vcs/huge/address"
	"github.com/huge-vcs/huge/internal/progress"
	"github.com/huge-vcs/huge/transport"
)

// Push uploads to the named remotes whatever blobs they are missing
// from the union of digests across commitIDs.
func (r *Repository) Push(commitIDs []string, remoteIDs []string, reporter progress.Reporter) error {
	digests, err := r.unionDigests(commitIDs)
	if err != nil {
		return err
	}

	for _, remoteID := range remoteIDs {
		info, err := r.Remotes.Get(remoteID)
		if err != nil {
			return fmt.Errorf("lookup remote %s: %w", remoteID, err)
		}

		addr, err := address.Parse(info.Address)
		if err != nil {
			return fmt.Errorf("parse address for remote %s: %w", remoteID, err)
		}
		tr, err := transport.Dial(addr)
		if err != nil {
			return fmt.Errorf("dial remote %s: %w", remoteID, err)
		}

		r.Log.WithField("remote", info.Address).Infof("pushing up to %d file(s) to %s", len(digests), info.Address)

		if err := tr.SendBlobs(digests, r.Store, reporter); err != nil {
			tr.Close()
			return fmt.Errorf("send blobs to remote %s: %w", remoteID, err)
		}

		peerBlobs, err := tr.ListBlobs()
		tr.Close()
		if err != nil {
			return fmt.Errorf("list blobs on remote %s after push: %w", remoteID, err)
		}
		if err := r.Remotes.WriteCoverage(remoteID, peerBlobs); err != nil {
			return fmt.Errorf("write coverage for remote %s: %w", remoteID, err)
		}
	}
	return nil
}

func (r *Repository) unionDigests(commitIDs []string) ([]string, error) {
	seen := map[string]struct{}{}
	var digests []string
	for _, id := range commitIDs {
		c, err := r.Commits.Load(id)
		if err != nil {
			return nil, fmt.Errorf("load commit %s: %w", id, err)
		}
		for _, d := range c.Digests() {
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				digests = append(digests, d)
			}
		}
	}
	return digests, nil
}
