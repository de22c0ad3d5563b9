package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huge-vcs/huge/internal/ignore"
	"github.com/huge-vcs/huge/internal/progress"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	root := t.TempDir()
	r, err := Init(root)
	require.NoError(t, err)
	return r
}

func writeWorkspaceFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestInitThenOpen(t *testing.T) {
	root := t.TempDir()
	r1, err := Init(root)
	require.NoError(t, err)
	id1, err := r1.ID()
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	r2, err := Open(root)
	require.NoError(t, err)
	id2, err := r2.ID()
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	_, err = Init(root)
	require.Error(t, err)
}

func TestCommitPipelineCreatesBlobAndAdvancesCurrent(t *testing.T) {
	r := newTestRepo(t)
	writeWorkspaceFile(t, r.Root, "a.txt", "hello")

	require.NoError(t, r.Stage.Add(r.Root, ".huge", []string{"a.txt"}, mustIgnore(t, r)))

	commit, err := r.Commit("first", progress.NoOp{})
	require.NoError(t, err)
	require.NotEmpty(t, commit.ID)
	require.Contains(t, commit.Files, "a.txt")

	current, err := r.CurrentCommitID()
	require.NoError(t, err)
	require.Equal(t, commit.ID, current)

	require.True(t, r.Store.Contains(commit.Files["a.txt"]))

	staged, err := r.Stage.Paths()
	require.NoError(t, err)
	require.Empty(t, staged)
}

func TestCommitInheritsUnstagedFilesFromParent(t *testing.T) {
	r := newTestRepo(t)
	writeWorkspaceFile(t, r.Root, "a.txt", "hello")
	ign := mustIgnore(t, r)
	require.NoError(t, r.Stage.Add(r.Root, ".huge", []string{"a.txt"}, ign))
	first, err := r.Commit("first", progress.NoOp{})
	require.NoError(t, err)

	writeWorkspaceFile(t, r.Root, "b.txt", "world")
	require.NoError(t, r.Stage.Add(r.Root, ".huge", []string{"b.txt"}, ign))
	second, err := r.Commit("second", progress.NoOp{})
	require.NoError(t, err)

	require.Equal(t, first.Files["a.txt"], second.Files["a.txt"])
	require.Contains(t, second.Files, "b.txt")
	require.Equal(t, []string{first.ID}, second.Parents)
}

func TestStatusGroupsStagedAndUnstagedChanges(t *testing.T) {
	r := newTestRepo(t)
	writeWorkspaceFile(t, r.Root, "a.txt", "hello")
	writeWorkspaceFile(t, r.Root, "b.txt", "world")
	ign := mustIgnore(t, r)
	require.NoError(t, r.Stage.Add(r.Root, ".huge", []string{"a.txt"}, ign))

	status, err := r.ComputeStatus(progress.NoOp{})
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt"}, status.Staged.Added)
	require.Equal(t, []string{".hugeignore", "b.txt"}, status.Unstaged.Added)

	rendered := status.Render()
	require.Contains(t, rendered, "Staged for commit:")
	require.Contains(t, rendered, "  A a.txt")
	require.Contains(t, rendered, "Not staged for commit:")
	require.Contains(t, rendered, "  A b.txt")
}

func TestCheckoutRefusesDirtyWorkspace(t *testing.T) {
	r := newTestRepo(t)
	ign := mustIgnore(t, r)
	writeWorkspaceFile(t, r.Root, "a.txt", "one")
	require.NoError(t, r.Stage.Add(r.Root, ".huge", []string{"a.txt"}, ign))
	first, err := r.Commit("first", progress.NoOp{})
	require.NoError(t, err)

	writeWorkspaceFile(t, r.Root, "a.txt", "two")
	require.NoError(t, r.Stage.Add(r.Root, ".huge", []string{"a.txt"}, ign))
	_, err = r.Commit("second", progress.NoOp{})
	require.NoError(t, err)

	require.NoError(t, r.Checkout(first.ID, progress.NoOp{}))
	data, err := os.ReadFile(filepath.Join(r.Root, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "one", string(data))

	writeWorkspaceFile(t, r.Root, "a.txt", "dirty")
	err = r.Checkout(first.ID, progress.NoOp{})
	require.Error(t, err)
}

func mustIgnore(t *testing.T, r *Repository) ignore.List {
	t.Helper()
	ign, err := r.Ignore()
	require.NoError(t, err)
	return ign
}
