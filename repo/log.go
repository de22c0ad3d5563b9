package repo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/huge-vcs/huge/commitgraph"
	"github.com/huge-vcs/huge/coverage"
)

// CommitInfo bundles a commit with the presentation data log rendering
// needs: which branch point it descends from and its coverage figures.
type CommitInfo struct {
	Commit        *commitgraph.Commit
	Branch        string
	LocalCoverage float64
	TotalCoverage float64
}

// CommitInfos loads every commit, oldest first, alongside its branch
// point and coverage figures.
func (r *Repository) CommitInfos() ([]CommitInfo, error) {
	commits, err := r.Commits.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load commits: %w", err)
	}

	graph := commitgraph.BuildGraph(commits)

	available := map[string]struct{}{}
	digests, err := r.Store.List()
	if err != nil {
		return nil, fmt.Errorf("list local blobs: %w", err)
	}
	for _, d := range digests {
		available[d] = struct{}{}
	}

	infos := make([]CommitInfo, 0, len(commits))
	for _, c := range commits {
		local := localCoverage(c, available)

		analysis, err := coverage.Analyze(c, r.Store, r.Remotes)
		if err != nil {
			return nil, fmt.Errorf("analyze coverage for %s: %w", c.ID, err)
		}

		branch := graph.BranchOf(c.ID)
		infos = append(infos, CommitInfo{
			Commit:        c,
			Branch:        branch,
			LocalCoverage: local,
			TotalCoverage: analysis.Coverage(),
		})
	}

	return infos, nil
}

func localCoverage(c *commitgraph.Commit, available map[string]struct{}) float64 {
	digests := c.Digests()
	if len(digests) == 0 {
		return 1
	}
	have := 0
	for _, d := range digests {
		if _, ok := available[d]; ok {
			have++
		}
	}
	return float64(have) / float64(len(digests))
}

// Render formats a CommitInfo the way the log command prints one line per
// commit: "<id> <local-datetime> B=<branch> L=<n>% R=<n>% <message?>".
func (ci CommitInfo) Render() string {
	fields := []string{
		ci.Commit.ID,
		ci.Commit.Timestamp.Local().Format("2006-01-02 15:04"),
		"B=" + ci.Branch,
		fmt.Sprintf("L=%d%% R=%d%%", int(ci.LocalCoverage*100), int(ci.TotalCoverage*100)),
	}
	if msg := strings.TrimSpace(ci.Commit.Message); msg != "" {
		fields = append(fields, msg)
	}
	return strings.Join(fields, " ")
}

// Log renders every commit, most recent first.
func (r *Repository) Log() (string, error) {
	infos, err := r.CommitInfos()
	if err != nil {
		return "", err
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].Commit.Timestamp.After(infos[j].Commit.Timestamp)
	})

	lines := make([]string, 0, len(infos))
	for _, ci := range infos {
		lines = append(lines, ci.Render())
	}
	return strings.Join(lines, "\n"), nil
}
