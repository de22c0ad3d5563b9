package transport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huge-vcs/huge/content"
	"github.com/huge-vcs/huge/internal/layout"
)

func newPeerRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, layout.CreateSkeleton(root))
	return root
}

func TestLocalListAndFetchBlobs(t *testing.T) {
	peerRoot := newPeerRepo(t)
	peerStore := content.New(layout.New(peerRoot).StorageDir())
	require.NoError(t, peerStore.InsertReader(strings.NewReader("payload"), "deadbeefdeadbeefdeadbeefdeadbeef"))

	localRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(localRoot, "storage"), 0o755))
	localStore := content.New(filepath.Join(localRoot, "storage"))

	tr := NewLocal(peerRoot)

	blobs, err := tr.ListBlobs()
	require.NoError(t, err)
	require.Equal(t, []string{"deadbeefdeadbeefdeadbeefdeadbeef"}, blobs)

	require.NoError(t, tr.FetchBlobs(blobs, localStore, nil))
	require.True(t, localStore.Contains("deadbeefdeadbeefdeadbeefdeadbeef"))
}

func TestLocalSendBlobs(t *testing.T) {
	localRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(localRoot, "storage"), 0o755))
	localStore := content.New(filepath.Join(localRoot, "storage"))
	require.NoError(t, localStore.InsertReader(strings.NewReader("payload"), "deadbeefdeadbeefdeadbeefdeadbeef"))

	peerRoot := newPeerRepo(t)
	tr := NewLocal(peerRoot)

	require.NoError(t, tr.SendBlobs([]string{"deadbeefdeadbeefdeadbeefdeadbeef"}, localStore, nil))

	peerBlobs, err := tr.ListBlobs()
	require.NoError(t, err)
	require.Equal(t, []string{"deadbeefdeadbeefdeadbeefdeadbeef"}, peerBlobs)
}

func TestLocalFetchAndSendCommit(t *testing.T) {
	peerRoot := newPeerRepo(t)
	commitDir := filepath.Join(layout.New(peerRoot).CommitsDir(), "c1")
	require.NoError(t, os.MkdirAll(commitDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(commitDir, "files"), []byte("deadbeefdeadbeefdeadbeefdeadbeef\ta.bin\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(commitDir, "timestamp"), []byte("2026-01-01T00:00:00Z"), 0o644))

	localRoot := t.TempDir()
	destCommitsDir := filepath.Join(localRoot, "commits")
	require.NoError(t, os.MkdirAll(destCommitsDir, 0o755))

	tr := NewLocal(peerRoot)
	require.NoError(t, tr.FetchCommit("c1", destCommitsDir))

	data, err := os.ReadFile(filepath.Join(destCommitsDir, "c1", "files"))
	require.NoError(t, err)
	require.Equal(t, "deadbeefdeadbeefdeadbeefdeadbeef\ta.bin\n", string(data))

	// Send it onward to a third peer.
	thirdRoot := newPeerRepo(t)
	tr2 := NewLocal(thirdRoot)
	require.NoError(t, tr2.SendCommit("c1", destCommitsDir))

	commits, err := tr2.ListCommits()
	require.NoError(t, err)
	require.Equal(t, []string{"c1"}, commits)
}
