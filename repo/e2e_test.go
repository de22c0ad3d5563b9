package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huge-vcs/huge"
	"github.com/huge-vcs/huge/internal/progress"
)

func TestScenarioInitThenStatusShowsIgnoreFile(t *testing.T) {
	r := newTestRepo(t)

	status, err := r.ComputeStatus(progress.NoOp{})
	require.NoError(t, err)
	require.Equal(t, "Not staged for commit:\n  A .hugeignore\n", status.Render()+"\n")
}

func TestScenarioCheckoutPreviousRefusesDirtyThenSucceedsAfterRevert(t *testing.T) {
	r := newTestRepo(t)
	ign := mustIgnore(t, r)

	writeWorkspaceFile(t, r.Root, "first_file.txt", "Content")
	require.NoError(t, r.Stage.Add(r.Root, ".huge", []string{"first_file.txt"}, ign))
	first, err := r.Commit("first", progress.NoOp{})
	require.NoError(t, err)

	writeWorkspaceFile(t, r.Root, "first_file.txt", "Content Changed")
	require.NoError(t, r.Stage.Add(r.Root, ".huge", []string{"first_file.txt"}, ign))
	second, err := r.Commit("second", progress.NoOp{})
	require.NoError(t, err)

	require.NoError(t, r.Checkout(first.ID, progress.NoOp{}))
	data, err := os.ReadFile(filepath.Join(r.Root, "first_file.txt"))
	require.NoError(t, err)
	require.Equal(t, "Content", string(data))

	writeWorkspaceFile(t, r.Root, "first_file.txt", "dirty edit")
	err = r.Checkout(second.ID, progress.NoOp{})
	require.ErrorIs(t, err, huge.ErrWorkspaceDirty)

	writeWorkspaceFile(t, r.Root, "first_file.txt", "Content")
	require.NoError(t, r.Checkout(second.ID, progress.NoOp{}))
	data, err = os.ReadFile(filepath.Join(r.Root, "first_file.txt"))
	require.NoError(t, err)
	require.Equal(t, "Content Changed", string(data))
}

func TestScenarioIgnoreExcludesMatchingPathFromAdd(t *testing.T) {
	r := newTestRepo(t)

	writeWorkspaceFile(t, r.Root, "first_file.txt", "one")
	writeWorkspaceFile(t, r.Root, "second_file.txt", "two")
	require.NoError(t, os.WriteFile(r.Paths.IgnoreFile(), []byte(`.*second.*`+"\n"), 0o644))

	ign := mustIgnore(t, r)
	require.NoError(t, r.Stage.Add(r.Root, ".huge", []string{"first_file.txt", ".hugeignore", "second_file.txt"}, ign))

	status, err := r.ComputeStatus(progress.NoOp{})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"first_file.txt", ".hugeignore"}, status.Staged.Added)
	require.NotContains(t, status.Staged.Added, "second_file.txt")
	require.Empty(t, status.Unstaged.Added)
}

func TestScenarioCheckoutWithoutBlobsFailsThenSucceedsAfterPull(t *testing.T) {
	origin := newTestRepo(t)
	commitID := commitOneFile(t, origin, "payload.bin", "origin bytes", "only commit")

	cloned, err := Clone(t.TempDir(), origin.Root)
	require.NoError(t, err)

	commits, err := cloned.Log()
	require.NoError(t, err)
	require.Contains(t, commits, commitID)

	err = cloned.Checkout(commitID, progress.NoOp{})
	require.ErrorIs(t, err, huge.ErrMissingBlobs)
	require.Contains(t, err.Error(), "huge pull "+commitID)

	remoteIDs, err := cloned.Remotes.List()
	require.NoError(t, err)
	require.Len(t, remoteIDs, 1)

	require.NoError(t, cloned.Pull([]string{commitID}, []string{remoteIDs[0].ID}, progress.NoOp{}))
	require.NoError(t, cloned.Checkout(commitID, progress.NoOp{}))

	data, err := os.ReadFile(filepath.Join(cloned.Root, "payload.bin"))
	require.NoError(t, err)
	require.Equal(t, "origin bytes", string(data))
}
