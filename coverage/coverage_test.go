package coverage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huge-vcs/huge/commitgraph"
)

func set(items ...string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, i := range items {
		out[i] = struct{}{}
	}
	return out
}

func TestCoverageCalculationLessThanOne(t *testing.T) {
	a := Analysis{Repositories: []RepositoryCoverage{
		{Address: "x", Available: true, FilesAvailable: set("a", "b"), FilesUnavailable: set("c")},
		{Address: "y", Available: true, FilesAvailable: set("a", "b"), FilesUnavailable: set("c", "d")},
	}}
	require.Equal(t, 0.5, a.Coverage())
}

func TestCoverageCalculationOneRepoBacked(t *testing.T) {
	a := Analysis{Repositories: []RepositoryCoverage{
		{Address: "x", Available: true, FilesAvailable: set("a", "b", "c", "d")},
		{Address: "y", Available: true, FilesAvailable: set("a", "b"), FilesUnavailable: set("c", "d")},
	}}
	require.Equal(t, 1.5, a.Coverage())
}

func TestCoverageCalculationDistributed(t *testing.T) {
	a := Analysis{Repositories: []RepositoryCoverage{
		{Address: "x", Available: true, FilesAvailable: set("a", "b"), FilesUnavailable: set("c", "d")},
		{Address: "y", Available: true, FilesAvailable: set("c", "d"), FilesUnavailable: set("a", "b")},
	}}
	require.Equal(t, 1.0, a.Coverage())
}

func TestCoverageCalculationDataloss(t *testing.T) {
	a := Analysis{Repositories: []RepositoryCoverage{
		{Address: "x", Available: true, FilesUnavailable: set("a", "b", "c", "d")},
		{Address: "y", Available: true, FilesAvailable: set("c", "d"), FilesUnavailable: set("a", "b")},
	}}
	require.Equal(t, 0.5, a.Coverage())
}

func TestCoverageCalculationDoubleCoverage(t *testing.T) {
	a := Analysis{Repositories: []RepositoryCoverage{
		{Address: "x", Available: true, FilesAvailable: set("a", "b", "c", "d")},
		{Address: "y", Available: true, FilesAvailable: set("a", "b", "c", "d")},
		{Address: "z", Available: true, FilesAvailable: set("a"), FilesUnavailable: set("b", "c", "d")},
	}}
	require.Equal(t, 2.25, a.Coverage())
}

func TestEmptyAnalysisCoverageIsOne(t *testing.T) {
	a := Analysis{Repositories: []RepositoryCoverage{
		{Address: "x", Available: true},
	}}
	require.Equal(t, 1.0, a.Coverage())
}

func TestDroppableRequiresOneFullExtraCopy(t *testing.T) {
	require.True(t, Info{CommitID: "c1", LocalCoverage: 1.0, TotalCoverage: 2.0}.Droppable())
	require.True(t, Info{CommitID: "c1", LocalCoverage: 0.5, TotalCoverage: 1.5}.Droppable())
	require.False(t, Info{CommitID: "c1", LocalCoverage: 1.0, TotalCoverage: 1.5}.Droppable())
}

func TestFilterDroppableRestrictsToNamedCommits(t *testing.T) {
	infos := []Info{
		{CommitID: "c1", LocalCoverage: 1.0, TotalCoverage: 2.0},
		{CommitID: "c2", LocalCoverage: 1.0, TotalCoverage: 1.0},
	}
	got := FilterDroppable([]string{"c1", "c2"}, infos)
	require.Len(t, got, 1)
	require.Equal(t, "c1", got[0].CommitID)
}

func TestRemovableBlobsKeepsDigestsReferencedElsewhere(t *testing.T) {
	commits := []*commitgraph.Commit{
		{ID: "c1", Files: map[string]string{"a.bin": "digest-a", "b.bin": "digest-b"}},
		{ID: "c2", Files: map[string]string{"b.bin": "digest-b", "c.bin": "digest-c"}},
	}

	got := RemovableBlobs([]string{"c1"}, commits)
	require.Equal(t, []string{"digest-a"}, got)
}
