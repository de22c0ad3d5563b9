package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huge-vcs/huge/internal/progress"
)

func commitOneFile(t *testing.T, r *Repository, rel, content, message string) string {
	t.Helper()
	writeWorkspaceFile(t, r.Root, rel, content)
	ign := mustIgnore(t, r)
	require.NoError(t, r.Stage.Add(r.Root, ".huge", []string{rel}, ign))
	c, err := r.Commit(message, progress.NoOp{})
	require.NoError(t, err)
	return c.ID
}

func TestFetchReconcilesCommitsAndCoverage(t *testing.T) {
	a := newTestRepo(t)
	b := newTestRepo(t)

	// Give both repositories the same identity, as fetch requires.
	id, err := a.ID()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(b.Paths.IDFile(), []byte(id), 0o644))

	commitID := commitOneFile(t, a, "a.txt", "hello", "first")

	_, err = a.Remotes.Add(b.Root)
	require.NoError(t, err)

	require.NoError(t, a.Fetch())

	require.True(t, b.Commits.Exists(commitID))

	infos, err := a.Remotes.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.False(t, infos[0].LastCoverageUpdate.IsZero())
}

func TestPushThenPullTransfersBlobs(t *testing.T) {
	a := newTestRepo(t)
	b := newTestRepo(t)

	id, err := a.ID()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(b.Paths.IDFile(), []byte(id), 0o644))

	commitID := commitOneFile(t, a, "a.txt", "hello", "first")

	remoteID, err := a.Remotes.Add(b.Root)
	require.NoError(t, err)
	require.NoError(t, a.Fetch())

	require.NoError(t, a.Push([]string{commitID}, []string{remoteID}, progress.NoOp{}))

	commit, err := a.Commits.Load(commitID)
	require.NoError(t, err)
	for _, digest := range commit.Digests() {
		require.True(t, b.Store.Contains(digest))
	}

	// Now pull it back into a fresh third repository.
	c := newTestRepo(t)
	require.NoError(t, os.WriteFile(c.Paths.IDFile(), []byte(id), 0o644))
	cRemoteID, err := c.Remotes.Add(b.Root)
	require.NoError(t, err)
	require.NoError(t, c.Fetch())

	require.NoError(t, c.Pull([]string{commitID}, []string{cRemoteID}, progress.NoOp{}))
	for _, digest := range commit.Digests() {
		require.True(t, c.Store.Contains(digest))
	}
}

func TestCloneSeedsIdentityAndRemotesWithoutBlobs(t *testing.T) {
	source := newTestRepo(t)
	commitOneFile(t, source, "a.txt", "hello", "first")

	into := t.TempDir()
	cloned, err := Clone(into, source.Root)
	require.NoError(t, err)

	sourceID, err := source.ID()
	require.NoError(t, err)
	clonedID, err := cloned.ID()
	require.NoError(t, err)
	require.Equal(t, sourceID, clonedID)

	commits, err := cloned.Commits.IDs()
	require.NoError(t, err)
	require.NotEmpty(t, commits) // the fetch at the end of Clone brought commits in

	infos, err := cloned.Remotes.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, source.Root, infos[0].Address)

	require.Equal(t, filepath.Join(into, filepath.Base(source.Root)), cloned.Root)
}

func TestSendUploadsHistoryToFreshPeer(t *testing.T) {
	source := newTestRepo(t)
	commitID := commitOneFile(t, source, "a.txt", "hello", "first")

	peerRoot := t.TempDir()
	require.NoError(t, source.Send(peerRoot))

	peer, err := Open(peerRoot)
	require.NoError(t, err)
	require.True(t, peer.Commits.Exists(commitID))

	infos, err := source.Remotes.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, peerRoot, infos[0].Address)
}
