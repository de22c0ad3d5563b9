package repo

import (
	"fmt"

	"github.com/huge-vcs/huge"
	"github.com/huge-vcs/huge/commitgraph"
	"github.com/huge-vcs/huge/coverage"
)

// Drop removes the blobs uniquely referenced by commitIDs from local
// storage, refusing any commit that is not sufficiently redundant
// elsewhere unless force is set.
func (r *Repository) Drop(commitIDs []string, force bool) ([]string, error) {
	commits, err := r.Commits.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load commits: %w", err)
	}

	byID := map[string]*commitgraph.Commit{}
	for _, c := range commits {
		byID[c.ID] = c
	}
	for _, id := range commitIDs {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%s: %w", id, huge.ErrCommitNotFound)
		}
	}

	if !force {
		digests, err := r.Store.List()
		if err != nil {
			return nil, fmt.Errorf("list local blobs: %w", err)
		}
		available := map[string]struct{}{}
		for _, d := range digests {
			available[d] = struct{}{}
		}

		var infos []coverage.Info
		for _, id := range commitIDs {
			c := byID[id]
			local := localCoverage(c, available)

			analysis, err := coverage.Analyze(c, r.Store, r.Remotes)
			if err != nil {
				return nil, fmt.Errorf("analyze coverage for %s: %w", id, err)
			}
			infos = append(infos, coverage.Info{
				CommitID:      id,
				LocalCoverage: local,
				TotalCoverage: analysis.Coverage(),
			})
		}

		droppable := coverage.FilterDroppable(commitIDs, infos)
		if len(droppable) != len(commitIDs) {
			return nil, fmt.Errorf("%w: insufficient redundancy for one or more named commits", huge.ErrDropBlocked)
		}
	}

	removable := coverage.RemovableBlobs(commitIDs, commits)
	for _, digest := range removable {
		if err := r.Store.Remove(digest); err != nil {
			return nil, fmt.Errorf("remove blob %s: %w", digest, err)
		}
	}
	return removable, nil
}
