package repo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/huge-vcs/huge"
	"github.com/huge-vcs/huge/internal/progress"
)

// Checkout switches the workspace to id, refusing if the workspace has a
// changed file whose (digest, path) entry is not in the target commit's
// file set, or a deleted file whose path the target commit does not list.
func (r *Repository) Checkout(id string, reporter progress.Reporter) error {
	target, err := r.Commits.Load(id)
	if err != nil {
		return fmt.Errorf("%s: %w", id, huge.ErrCommitNotFound)
	}

	diff, err := r.Diff(reporter)
	if err != nil {
		return err
	}
	for path, digest := range diff.Changed {
		if target.Files[path] != digest {
			return huge.ErrWorkspaceDirty
		}
	}
	for path := range diff.Deleted {
		if _, ok := target.Files[path]; !ok {
			return huge.ErrWorkspaceDirty
		}
	}

	if missing := r.missingDigests(target); len(missing) > 0 {
		return fmt.Errorf("%w: run 'huge pull %s' to retrieve the missing files", huge.ErrMissingBlobs, id)
	}

	prior, err := r.CurrentCommit()
	if err != nil {
		return err
	}
	if prior != nil {
		for path := range prior.Files {
			if _, ok := target.Files[path]; ok {
				continue
			}
			if err := r.removeWorkspaceFile(path); err != nil {
				return err
			}
		}
	}

	for path, digest := range target.Files {
		if err := r.materialize(path, digest); err != nil {
			return err
		}
	}

	return r.setCurrentCommitID(target.ID)
}

// CheckoutFiles overlays only the named paths from id onto the
// workspace, without moving the current-commit pointer.
func (r *Repository) CheckoutFiles(id string, paths []string) error {
	target, err := r.Commits.Load(id)
	if err != nil {
		return fmt.Errorf("%s: %w", id, huge.ErrCommitNotFound)
	}

	for _, p := range paths {
		normalized := filepath.ToSlash(filepath.Clean(p))
		if _, ok := target.Files[normalized]; !ok {
			return fmt.Errorf("%s not in commit %s: %w", normalized, id, huge.ErrCommitNotFound)
		}
	}

	if missing := r.missingDigests(target); len(missing) > 0 {
		return fmt.Errorf("%w: run 'huge pull %s' to retrieve the missing files", huge.ErrMissingBlobs, id)
	}

	for _, p := range paths {
		normalized := filepath.ToSlash(filepath.Clean(p))
		if err := r.materialize(normalized, target.Files[normalized]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) missingDigests(c interface{ Digests() []string }) []string {
	var missing []string
	for _, d := range c.Digests() {
		if !r.Store.Contains(d) {
			missing = append(missing, d)
		}
	}
	return missing
}

func (r *Repository) materialize(path, digest string) error {
	dest := filepath.Join(r.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create parent dirs for %s: %w", path, err)
	}

	src, err := r.Store.Open(digest)
	if err != nil {
		return fmt.Errorf("open blob %s: %w", digest, err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

func (r *Repository) removeWorkspaceFile(path string) error {
	full := filepath.Join(r.Root, filepath.FromSlash(path))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	// Remove now-empty ancestor directories, stopping at the repo root.
	dir := filepath.Dir(full)
	for dir != r.Root && len(dir) > len(r.Root) {
		if err := os.Remove(dir); err != nil {
			break // not empty, or already gone
		}
		dir = filepath.Dir(dir)
	}
	return nil
}
