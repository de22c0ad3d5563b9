// Package coverage implements the replication-health analyser: the
// per-peer availability breakdown for a commit, the floor+bonus
// coverage number computed from it, and the redundancy check that
// gates drop. Grounded on the reference huge.repo.coverage and
// huge.repo.drop modules.
package coverage

import (
	"fmt"
	"sort"

	"github.com/huge-vcs/huge/commitgraph"
	"github.com/huge-vcs/huge/content"
	"github.com/huge-vcs/huge/remote"
)

// RepositoryCoverage is one peer's availability breakdown for a single
// commit's digests. Address "." denotes the local repository.
type RepositoryCoverage struct {
	Address          string
	Available        bool
	FilesAvailable   map[string]struct{}
	FilesUnavailable map[string]struct{}
}

// Coverage is this peer's own fraction of the commit's digests it can
// produce, 1.0 when the commit has no files at all.
func (r RepositoryCoverage) Coverage() float64 {
	total := len(r.FilesAvailable) + len(r.FilesUnavailable)
	if total == 0 {
		return 1
	}
	return float64(len(r.FilesAvailable)) / float64(total)
}

// Analysis is the coverage breakdown for a commit across every known
// peer plus the local repository.
type Analysis struct {
	Repositories []RepositoryCoverage
}

// Coverage computes the commit coverage number: the minimum digest
// count across peers ("floor"), plus the mean of how far each digest
// exceeds that floor, capped at 1 per digest ("bonus").
func (a Analysis) Coverage() float64 {
	required := map[string]struct{}{}
	for _, repo := range a.Repositories {
		for d := range repo.FilesAvailable {
			required[d] = struct{}{}
		}
		for d := range repo.FilesUnavailable {
			required[d] = struct{}{}
		}
	}
	if len(required) == 0 {
		return 1
	}

	counts := make(map[string]int, len(required))
	for d := range required {
		counts[d] = 0
	}
	for _, repo := range a.Repositories {
		for d := range repo.FilesAvailable {
			counts[d]++
		}
	}

	floor := -1
	for _, c := range counts {
		if floor == -1 || c < floor {
			floor = c
		}
	}

	var bonusSum float64
	for _, c := range counts {
		extra := c - floor
		if extra > 1 {
			extra = 1
		}
		bonusSum += float64(extra)
	}

	return float64(floor) + bonusSum/float64(len(counts))
}

// Analyze computes the coverage breakdown for commit across every
// registered remote plus the local content store. Callers should have
// run fetch recently so that remotes' cached coverage snapshots are
// current.
func Analyze(commit *commitgraph.Commit, store *content.Store, registry *remote.Registry) (Analysis, error) {
	commitDigests := map[string]struct{}{}
	for _, d := range commit.Digests() {
		commitDigests[d] = struct{}{}
	}

	infos, err := registry.List()
	if err != nil {
		return Analysis{}, fmt.Errorf("list remotes: %w", err)
	}

	var repos []RepositoryCoverage
	for _, info := range infos {
		peerDigests, err := registry.Coverage(info.ID) // map[digest]struct{}, keys only
		if err != nil {
			return Analysis{}, fmt.Errorf("read coverage for remote %s: %w", info.ID, err)
		}

		if len(peerDigests) == 0 {
			repos = append(repos, RepositoryCoverage{
				Address:          info.Address,
				Available:        false,
				FilesAvailable:   map[string]struct{}{},
				FilesUnavailable: cloneSet(commitDigests),
			})
			continue
		}

		available := map[string]struct{}{}
		for d := range commitDigests {
			if _, ok := peerDigests[d]; ok {
				available[d] = struct{}{}
			}
		}
		repos = append(repos, RepositoryCoverage{
			Address:          info.Address,
			Available:        true,
			FilesAvailable:   available,
			FilesUnavailable: setDifference(commitDigests, available),
		})
	}

	localAvailable := map[string]struct{}{}
	for d := range commitDigests {
		if store.Contains(d) {
			localAvailable[d] = struct{}{}
		}
	}
	repos = append(repos, RepositoryCoverage{
		Address:          ".",
		Available:        true,
		FilesAvailable:   localAvailable,
		FilesUnavailable: setDifference(commitDigests, localAvailable),
	})

	return Analysis{Repositories: repos}, nil
}

func cloneSet(s map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func setDifference(a, b map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// Info bundles a commit's local fraction and full analysed coverage,
// the two numbers drop compares to decide redundancy.
type Info struct {
	CommitID      string
	LocalCoverage float64 // this repository's own fraction of the commit's digests
	TotalCoverage float64 // the full Analysis coverage number across all peers
}

// redundancyThreshold is how much coverage must exist beyond what this
// repository alone holds before a commit's blobs may be dropped: the
// difference between total and local coverage must reach 1.0, i.e. at
// least one additional full copy exists elsewhere.
const redundancyThreshold = 1.0

// Droppable reports whether a commit has enough coverage elsewhere
// that its blobs may safely be removed from local storage.
func (i Info) Droppable() bool {
	return i.TotalCoverage-i.LocalCoverage >= redundancyThreshold
}

// FilterDroppable returns the subset of infos (restricted to
// commitIDs) that satisfy Droppable.
func FilterDroppable(commitIDs []string, infos []Info) []Info {
	wanted := map[string]struct{}{}
	for _, id := range commitIDs {
		wanted[id] = struct{}{}
	}

	var out []Info
	for _, info := range infos {
		if _, ok := wanted[info.CommitID]; !ok {
			continue
		}
		if info.Droppable() {
			out = append(out, info)
		}
	}
	return out
}

// RemovableBlobs computes the digest set eligible for physical
// deletion when dropping commitIDs: digests referenced only by the
// named commits, not by any other commit.
func RemovableBlobs(commitIDs []string, commits []*commitgraph.Commit) []string {
	named := map[string]struct{}{}
	for _, id := range commitIDs {
		named[id] = struct{}{}
	}

	toDrop := map[string]struct{}{}
	referencedElsewhere := map[string]struct{}{}

	for _, c := range commits {
		target := toDrop
		if _, ok := named[c.ID]; !ok {
			target = referencedElsewhere
		}
		for _, d := range c.Digests() {
			target[d] = struct{}{}
		}
	}

	out := make([]string, 0, len(toDrop))
	for d := range toDrop {
		if _, ok := referencedElsewhere[d]; !ok {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}
