package stage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huge-vcs/huge/internal/ignore"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestHashWorkspaceExcludesHugeDirAndSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "Content")
	writeFile(t, filepath.Join(root, ".huge", "id"), "should not appear")
	require.NoError(t, os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "link.txt")))

	got, err := HashWorkspace(root, ".huge", ignore.Empty, nil)
	require.NoError(t, err)
	require.Contains(t, got, "a.txt")
	require.NotContains(t, got, ".huge/id")
	require.NotContains(t, got, "link.txt")
}

func TestHashWorkspaceDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "Content")
	writeFile(t, filepath.Join(root, "b", "c.txt"), "Content")

	first, err := HashWorkspace(root, ".huge", ignore.Empty, nil)
	require.NoError(t, err)
	second, err := HashWorkspace(root, ".huge", ignore.Empty, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, first["a.txt"], first["b/c.txt"]) // same bytes, same digest
}

func TestHashWorkspaceRespectsIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "first_file.txt"), "keep")
	writeFile(t, filepath.Join(root, "second_file.txt"), "skip")

	ign, err := ignore.Compile(strings.NewReader(".*second.*\n"))
	require.NoError(t, err)

	got, err := HashWorkspace(root, ".huge", ign, nil)
	require.NoError(t, err)
	require.Contains(t, got, "first_file.txt")
	require.NotContains(t, got, "second_file.txt")
}

func TestComputeDiff(t *testing.T) {
	workspace := map[string]string{
		"new.txt":       "n",
		"changed.txt":   "new-digest",
		"unchanged.txt": "same",
	}
	commit := map[string]string{
		"changed.txt":   "old-digest",
		"unchanged.txt": "same",
		"deleted.txt":   "gone",
	}

	d := Compute(workspace, commit)
	require.Equal(t, map[string]string{"new.txt": "n"}, d.New)
	require.Equal(t, map[string]string{"changed.txt": "new-digest"}, d.Changed)
	require.Equal(t, map[string]string{"unchanged.txt": "same"}, d.Unchanged)
	require.Contains(t, d.Deleted, "deleted.txt")
}

func TestStageAddAndReset(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "folder", "a.txt"), "a")
	writeFile(t, filepath.Join(root, "folder", "b.txt"), "b")
	writeFile(t, filepath.Join(root, "top.txt"), "t")

	s := New(filepath.Join(root, ".huge-stage"))

	require.NoError(t, s.Add(root, ".huge", []string{"folder", "top.txt"}, ignore.Empty))

	paths, err := s.Paths()
	require.NoError(t, err)
	require.Contains(t, paths, "folder/a.txt")
	require.Contains(t, paths, "folder/b.txt")
	require.Contains(t, paths, "top.txt")

	// add(P); reset(P) removes the stage file entirely.
	require.NoError(t, s.Reset([]string{"folder", "top.txt"}))
	_, err = os.Stat(filepath.Join(root, ".huge-stage"))
	require.True(t, os.IsNotExist(err))
}

func TestStageResetPrefixRemovesSubtree(t *testing.T) {
	root := t.TempDir()
	s := New(filepath.Join(root, ".huge-stage"))

	require.NoError(t, s.write(map[string]struct{}{
		"folder/a.txt":  {},
		"folder/b.txt":  {},
		"folder2/a.txt": {},
		"other.txt":     {},
	}))

	require.NoError(t, s.Reset([]string{"folder"}))

	paths, err := s.Paths()
	require.NoError(t, err)
	require.NotContains(t, paths, "folder/a.txt")
	require.NotContains(t, paths, "folder/b.txt")
	require.Contains(t, paths, "folder2/a.txt")
	require.Contains(t, paths, "other.txt")
}

func TestStageResetDot(t *testing.T) {
	root := t.TempDir()
	s := New(filepath.Join(root, ".huge-stage"))
	require.NoError(t, s.write(map[string]struct{}{"a.txt": {}}))
	require.NoError(t, s.Reset([]string{"."}))

	_, err := os.Stat(filepath.Join(root, ".huge-stage"))
	require.True(t, os.IsNotExist(err))
}
