package repo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huge-vcs/huge"
)

func TestDropRefusesWithoutRedundancy(t *testing.T) {
	r := newTestRepo(t)
	commitID := commitOneFile(t, r, "a.txt", "hello", "first")

	_, err := r.Drop([]string{commitID}, false)
	require.ErrorIs(t, err, huge.ErrDropBlocked)
}

func TestDropForceRemovesBlobs(t *testing.T) {
	r := newTestRepo(t)
	commitID := commitOneFile(t, r, "a.txt", "hello", "first")
	commit, err := r.Commits.Load(commitID)
	require.NoError(t, err)

	removed, err := r.Drop([]string{commitID}, true)
	require.NoError(t, err)
	require.ElementsMatch(t, commit.Digests(), removed)

	for _, digest := range commit.Digests() {
		require.False(t, r.Store.Contains(digest))
	}
}

func TestDropKeepsBlobsReferencedByOtherCommits(t *testing.T) {
	r := newTestRepo(t)
	first := commitOneFile(t, r, "a.txt", "hello", "first")
	commitOneFile(t, r, "b.txt", "world", "second")

	removed, err := r.Drop([]string{first}, true)
	require.NoError(t, err)

	firstCommit, err := r.Commits.Load(first)
	require.NoError(t, err)
	for _, digest := range firstCommit.Digests() {
		require.True(t, r.Store.Contains(digest), "digest %s still referenced by later commit, must not be removed", digest)
		require.NotContains(t, removed, digest)
	}
}
