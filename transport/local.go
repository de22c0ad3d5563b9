package transport

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huge-vcs/huge/content"
	"github.com/huge-vcs/huge/internal/layout"
	"github.com/huge-vcs/huge/internal/progress"
)

// Local is a Transport to a peer repository reachable as a plain path
// on this machine, e.g. a second disk or a mounted share.
type Local struct {
	paths layout.Paths
}

// NewLocal returns a Transport rooted at a peer repository's root
// directory.
func NewLocal(root string) *Local {
	return &Local{paths: layout.New(root)}
}

func (l *Local) CreateSkeleton() error {
	for _, dir := range []string{l.paths.Huge(), l.paths.CommitsDir(), l.paths.StorageDir(), l.paths.RemotesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func (l *Local) Identity() (string, error) {
	b, err := os.ReadFile(l.paths.IDFile())
	if err != nil {
		return "", fmt.Errorf("read peer identity: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (l *Local) SendIdentity(id string) error {
	return os.WriteFile(l.paths.IDFile(), []byte(id), 0o644)
}

func (l *Local) ListRemoteIDs() ([]string, error) {
	return listDirNames(l.paths.RemotesDir())
}

func (l *Local) FetchRemoteEntry(id string, destRemotesDir string) error {
	return copyDirTree(l.paths.RemoteDir(id), filepath.Join(destRemotesDir, id))
}

func (l *Local) SendRemoteEntry(id string, srcRemotesDir string) error {
	return copyDirTree(filepath.Join(srcRemotesDir, id), l.paths.RemoteDir(id))
}

func (l *Local) ListCommits() ([]string, error) {
	return listDirNames(l.paths.CommitsDir())
}

func (l *Local) ListBlobs() ([]string, error) {
	return listDirNames(l.paths.StorageDir())
}

func listDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, nil
}

func (l *Local) FetchCommit(id string, destCommitsDir string) error {
	return copyDirTree(l.paths.CommitDir(id), filepath.Join(destCommitsDir, id))
}

func (l *Local) SendCommit(id string, srcCommitsDir string) error {
	return copyDirTree(filepath.Join(srcCommitsDir, id), l.paths.CommitDir(id))
}

func copyDirTree(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	tmp := dst + ".tmp"
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func (l *Local) FetchBlobs(digests []string, store *content.Store, reporter progress.Reporter) error {
	if reporter == nil {
		reporter = progress.NoOp{}
	}
	for i, d := range digests {
		if store.Contains(d) {
			continue
		}
		if err := store.Insert(l.paths.BlobPath(d), d); err != nil {
			return fmt.Errorf("fetch blob %s: %w", d, err)
		}
		reporter.Transferring("fetch", i+1, len(digests))
	}
	reporter.Done()
	return nil
}

func (l *Local) SendBlobs(digests []string, store *content.Store, reporter progress.Reporter) error {
	if reporter == nil {
		reporter = progress.NoOp{}
	}
	peer := content.New(l.paths.StorageDir())
	for i, d := range digests {
		if peer.Contains(d) {
			continue
		}
		f, err := store.Open(d)
		if err != nil {
			return fmt.Errorf("open local blob %s: %w", d, err)
		}
		err = peer.InsertReader(f, d)
		f.Close()
		if err != nil {
			return fmt.Errorf("send blob %s: %w", d, err)
		}
		reporter.Transferring("send", i+1, len(digests))
	}
	reporter.Done()
	return nil
}

func (l *Local) Close() error { return nil }
