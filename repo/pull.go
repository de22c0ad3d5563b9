package repo

import (
	"fmt"

	"github.com/huge-vcs/huge"
	"github.com/huge-vcs/huge/address"
	"github.com/huge-vcs/huge/internal/progress"
	"github.com/huge-vcs/huge/transport"
)

// Pull downloads whatever blobs from the union of commitIDs' digests
// are not yet present locally, trying each named remote in turn and
// stopping as soon as nothing more is needed. Transfers land directly
// in the content store, which writes to a temporary file and renames
// into place, so a pull interrupted mid-transfer never leaves a
// partial blob visible under its digest name.
func (r *Repository) Pull(commitIDs []string, remoteIDs []string, reporter progress.Reporter) error {
	digests, err := r.unionDigests(commitIDs)
	if err != nil {
		return err
	}

	needs := map[string]struct{}{}
	for _, d := range digests {
		if !r.Store.Contains(d) {
			needs[d] = struct{}{}
		}
	}

	for _, remoteID := range remoteIDs {
		if len(needs) == 0 {
			break
		}

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

		r.Log.WithField("remote", info.Address).Infof("fetching from %s", info.Address)

		peerBlobs, err := tr.ListBlobs()
		if err != nil {
			tr.Close()
			return fmt.Errorf("list blobs on remote %s: %w", remoteID, err)
		}
		peerSet := toSet(peerBlobs)

		var want []string
		for d := range needs {
			if _, ok := peerSet[d]; ok {
				want = append(want, d)
			}
		}

		if len(want) > 0 {
			r.Log.WithField("remote", info.Address).Infof("fetching %d file(s) from %s", len(want), info.Address)
			if err := tr.FetchBlobs(want, r.Store, reporter); err != nil {
				tr.Close()
				return fmt.Errorf("fetch blobs from remote %s: %w", remoteID, err)
			}
			for _, d := range want {
				delete(needs, d)
			}
		}
		tr.Close()
	}

	if len(needs) > 0 {
		return fmt.Errorf("%w: %d digest(s) unavailable from any named remote", huge.ErrMissingBlobs, len(needs))
	}
	return nil
}
