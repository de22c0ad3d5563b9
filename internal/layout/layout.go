// Package layout defines the canonical locations within a huge repository
// directory and the helpers for creating and recognising one.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// HugeDir is the special directory where huge's metadata lives.
const HugeDir = ".huge"

// IgnoreFile is the name of the ignore-list file at the repository root.
const IgnoreFile = ".hugeignore"

const (
	idFile      = "id"
	currentFile = "current"
	stageFile   = "stage"
	commitsDir  = "commits"
	storageDir  = "storage"
	remotesDir  = "remotes"
)

// Paths resolves the canonical on-disk locations for a repository rooted at
// root.
type Paths struct {
	Root string
}

// New returns a Paths rooted at root.
func New(root string) Paths { return Paths{Root: root} }

func (p Paths) Huge() string        { return filepath.Join(p.Root, HugeDir) }
func (p Paths) IDFile() string      { return filepath.Join(p.Huge(), idFile) }
func (p Paths) CurrentFile() string { return filepath.Join(p.Huge(), currentFile) }
func (p Paths) StageFile() string   { return filepath.Join(p.Huge(), stageFile) }
func (p Paths) CommitsDir() string  { return filepath.Join(p.Huge(), commitsDir) }
func (p Paths) StorageDir() string  { return filepath.Join(p.Huge(), storageDir) }
func (p Paths) RemotesDir() string  { return filepath.Join(p.Huge(), remotesDir) }
func (p Paths) IgnoreFile() string  { return filepath.Join(p.Root, IgnoreFile) }

func (p Paths) CommitDir(id string) string { return filepath.Join(p.CommitsDir(), id) }
func (p Paths) RemoteDir(id string) string { return filepath.Join(p.RemotesDir(), id) }
func (p Paths) BlobPath(digest string) string {
	return filepath.Join(p.StorageDir(), digest)
}

// IsRepository reports whether root already contains a huge repository
// skeleton.
func IsRepository(root string) bool {
	p := New(root)
	for _, dir := range []string{p.Huge(), p.CommitsDir(), p.StorageDir(), p.RemotesDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return false
		}
	}
	info, err := os.Stat(p.IDFile())
	return err == nil && !info.IsDir()
}

// NewID returns a fresh 32-hex opaque token, used for repository identity
// and remote ids (commit ids come from commitgraph.NewID).
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

const defaultIgnore = `# Files that should be ignored.
# Use regular expressions.
# Examples:
#   .*\.dat$   <-- Ignore any paths that end with ".dat"
#   my_folder/ignore_this_file.txt$
#   .*/ignore.txt$  <-- Ignore all paths ending with "/ignore.txt"
#   top/.*  <-- Ignore top-level "top" folder
\.huge/.*
.*~$
`

// Create lays down a fresh repository skeleton rooted at root: it must not
// already exist. It writes the identity file, an empty current-commit
// pointer, and a default ignore file.
func Create(root string) error {
	p := New(root)
	if IsRepository(root) {
		return fmt.Errorf("already initialised: %s", p.Huge())
	}

	for _, dir := range []string{p.Huge(), p.CommitsDir(), p.StorageDir(), p.RemotesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(p.CurrentFile(), nil, 0o644); err != nil {
		return fmt.Errorf("write current: %w", err)
	}

	if err := os.WriteFile(p.IDFile(), []byte(NewID()), 0o644); err != nil {
		return fmt.Errorf("write id: %w", err)
	}

	if err := os.WriteFile(p.IgnoreFile(), []byte(defaultIgnore), 0o644); err != nil {
		return fmt.Errorf("write ignore file: %w", err)
	}

	return nil
}

// CreateSkeleton creates only the .huge directory tree (no id, no current
// pointer, no ignore file); used by clone/send before the identity and
// remotes are seeded from a peer.
func CreateSkeleton(root string) error {
	p := New(root)
	for _, dir := range []string{p.Huge(), p.CommitsDir(), p.StorageDir(), p.RemotesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// ReadID reads the repository identity at root.
func ReadID(root string) (string, error) {
	b, err := os.ReadFile(New(root).IDFile())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
