// Package repo is the orchestration façade: it wires internal/layout,
// content, commitgraph, stage, remote, coverage, address and transport
// into the operations a caller (the CLI) invokes. Grounded on go-git's
// top-level Repository/Worktree split — one struct per concern, the
// façade owning them and exposing one method per operation.
package repo

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/huge-vcs/huge"
	"github.com/huge-vcs/huge/commitgraph"
	"github.com/huge-vcs/huge/content"
	"github.com/huge-vcs/huge/internal/ignore"
	"github.com/huge-vcs/huge/internal/layout"
	"github.com/huge-vcs/huge/internal/progress"
	"github.com/huge-vcs/huge/remote"
	"github.com/huge-vcs/huge/stage"
)

// Repository is an open huge repository rooted at a directory.
type Repository struct {
	Root    string
	Paths   layout.Paths
	Store   *content.Store
	Commits *commitgraph.Store
	Remotes *remote.Registry
	Stage   *stage.Stage
	Log     *logrus.Logger
}

// Open opens an existing repository rooted at root.
func Open(root string) (*Repository, error) {
	if !layout.IsRepository(root) {
		return nil, fmt.Errorf("%s: %w", root, huge.ErrNotARepository)
	}
	return newRepository(root), nil
}

// Init creates a fresh repository rooted at root and opens it.
func Init(root string) (*Repository, error) {
	if layout.IsRepository(root) {
		return nil, fmt.Errorf("%s: %w", root, huge.ErrAlreadyInitialised)
	}
	if err := layout.Create(root); err != nil {
		return nil, err
	}
	return newRepository(root), nil
}

func newRepository(root string) *Repository {
	p := layout.New(root)
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	return &Repository{
		Root:    root,
		Paths:   p,
		Store:   content.New(p.StorageDir()),
		Commits: commitgraph.New(p.CommitsDir()),
		Remotes: remote.New(p.RemotesDir()),
		Stage:   stage.New(p.StageFile()),
		Log:     logger,
	}
}

// ID returns the repository's identity token.
func (r *Repository) ID() (string, error) {
	return layout.ReadID(r.Root)
}

// CurrentCommitID returns the active commit id, or "" if none.
func (r *Repository) CurrentCommitID() (string, error) {
	b, err := os.ReadFile(r.Paths.CurrentFile())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// setCurrentCommitID overwrites the current-commit pointer.
func (r *Repository) setCurrentCommitID(id string) error {
	return os.WriteFile(r.Paths.CurrentFile(), []byte(id), 0o644)
}

// CurrentCommit loads the active commit, or nil if none is set.
func (r *Repository) CurrentCommit() (*commitgraph.Commit, error) {
	id, err := r.CurrentCommitID()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return r.Commits.Load(id)
}

// Ignore loads the repository's ignore list.
func (r *Repository) Ignore() (ignore.List, error) {
	return ignore.Load(r.Paths.IgnoreFile())
}

// HashWorkspace hashes the workspace, consulting the ignore list.
func (r *Repository) HashWorkspace(reporter progress.Reporter) (map[string]string, error) {
	ign, err := r.Ignore()
	if err != nil {
		return nil, err
	}
	return stage.HashWorkspace(r.Root, layout.HugeDir, ign, reporter)
}
