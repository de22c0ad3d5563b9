package commitgraph

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	c := &Commit{
		ID: NewID(),
		Files: map[string]string{
			"a/b.txt": "11111111111111111111111111111111",
			"c.txt":   "22222222222222222222222222222222",
		},
		Parents:   nil,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Message:   "first commit",
	}

	require.NoError(t, store.Create(c))
	require.True(t, store.Exists(c.ID))

	loaded, err := store.Load(c.ID)
	require.NoError(t, err)
	require.Equal(t, c.Files, loaded.Files)
	require.Empty(t, loaded.Parents)
	require.Equal(t, c.Message, loaded.Message)
	require.True(t, c.Timestamp.Equal(loaded.Timestamp))
}

func TestCreateIsSortedOnDisk(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	id := NewID()
	c := &Commit{
		ID: id,
		Files: map[string]string{
			"z.txt": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			"a.txt": "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		},
	}
	require.NoError(t, store.Create(c))

	data, err := os.ReadFile(filepath.Join(dir, id, "files"))
	require.NoError(t, err)
	require.Equal(t,
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\tz.txt\nbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb\ta.txt\n",
		string(data),
	)
}

func TestEmptyCommitYieldsNoFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	c := &Commit{ID: NewID(), Files: map[string]string{}}
	require.NoError(t, store.Create(c))

	loaded, err := store.Load(c.ID)
	require.NoError(t, err)
	require.Empty(t, loaded.Files)
	require.Empty(t, loaded.Digests())
}

func TestGraphHeadsAndBranches(t *testing.T) {
	root := &Commit{ID: "root"}
	mid := &Commit{ID: "mid", Parents: []string{"root"}}
	left := &Commit{ID: "left", Parents: []string{"mid"}}
	right := &Commit{ID: "right", Parents: []string{"mid"}}

	g := BuildGraph([]*Commit{root, mid, left, right})

	heads := g.Heads()
	require.Len(t, heads, 2)

	branches := g.Branches()
	require.Len(t, branches, 1)
	require.Equal(t, "mid", branches[0].ID)

	require.Equal(t, "mid", g.BranchOf("left"))
	require.Equal(t, "mid", g.BranchOf("right"))
	require.Equal(t, "", g.BranchOf("root"))
}
