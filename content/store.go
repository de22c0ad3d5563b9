// Package content implements the content-addressed blob store: a flat
// directory of files named by the lowercase hex digest of their bytes.
package content

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"

	"github.com/huge-vcs/huge/internal/digest"
)

// Store is a content-addressed blob directory. No naming collision is
// possible by construction: a file's name is its own digest.
type Store struct {
	fs  billy.Filesystem
	dir string
}

// New returns a Store rooted at dir, which must already exist.
func New(dir string) *Store {
	return &Store{fs: osfs.New(filepath.Dir(dir)), dir: filepath.Base(dir)}
}

// Contains reports whether a blob with the given digest exists.
func (s *Store) Contains(digest string) bool {
	info, err := s.fs.Stat(filepath.Join(s.dir, digest))
	return err == nil && !info.IsDir()
}

// List returns the digests of every blob currently stored.
func (s *Store) List() ([]string, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// Insert copies the file at srcPath into the store under digest,
// idempotently: if digest already exists this is a no-op. The copy is
// crash-safe — it writes to a temporary file on the same device and
// renames into place, so a partial write can never present as a complete
// blob, mirroring go-git's loose-object write path in
// storage/filesystem/object.go.
func (s *Store) Insert(srcPath, digest string) error {
	if s.Contains(digest) {
		return nil
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer src.Close()

	return s.insertReader(src, digest)
}

// InsertReader behaves like Insert but reads from an already-open reader
// instead of a path; used when content arrives over a transport rather
// than from the workspace.
func (s *Store) InsertReader(r io.Reader, digest string) error {
	if s.Contains(digest) {
		return nil
	}
	return s.insertReader(r, digest)
}

func (s *Store) insertReader(r io.Reader, digest string) error {
	tmpName := filepath.Join(s.dir, ".tmp-"+uuid.NewString())
	tmp, err := s.fs.Create(tmpName)
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("copy blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close temp blob: %w", err)
	}

	if err := s.fs.Rename(tmpName, filepath.Join(s.dir, digest)); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("rename temp blob into place: %w", err)
	}
	return nil
}

// Remove deletes the blob with the given digest. Used only by drop, after
// the coverage invariant has been checked.
func (s *Store) Remove(digest string) error {
	err := s.fs.Remove(filepath.Join(s.dir, digest))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Open opens the blob with the given digest for reading.
func (s *Store) Open(digest string) (billy.File, error) {
	return s.fs.Open(filepath.Join(s.dir, digest))
}

// Dir returns the absolute directory the store is rooted at.
func (s *Store) Dir() string {
	return filepath.Join(s.fs.Root(), s.dir)
}

// VerifyDigest recomputes the digest of the file at path and reports
// whether it equals want. No command of the CLI calls it.
func VerifyDigest(path, want string) (bool, error) {
	got, err := digest.File(path)
	if err != nil {
		return false, err
	}
	return got == want, nil
}
