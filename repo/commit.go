package repo

import (
	"fmt"
	"path/filepath"

	"github.com/huge-vcs/huge/commitgraph"
	"github.com/huge-vcs/huge/internal/progress"
	"github.com/huge-vcs/huge/stage"
)

// Commit assembles and writes a new commit from the staged set plus
// inherited unchanged entries, per the commit pipeline: hash the
// workspace, diff against the active commit, copy staged blobs into
// the content store, write the new files/parents/timestamp/message,
// repoint current, and truncate the stage.
func (r *Repository) Commit(message string, reporter progress.Reporter) (*commitgraph.Commit, error) {
	workspace, err := r.HashWorkspace(reporter)
	if err != nil {
		return nil, fmt.Errorf("hash workspace: %w", err)
	}

	prior, err := r.CurrentCommit()
	if err != nil {
		return nil, fmt.Errorf("load current commit: %w", err)
	}
	priorFiles := map[string]string{}
	var parents []string
	if prior != nil {
		priorFiles = prior.Files
		parents = []string{prior.ID}
	}

	staged, err := r.Stage.Paths()
	if err != nil {
		return nil, fmt.Errorf("read stage: %w", err)
	}

	files := map[string]string{}
	for path, digest := range workspace {
		if _, isStaged := staged[path]; !isStaged {
			continue
		}
		if err := r.Store.Insert(joinWorkspacePath(r.Root, path), digest); err != nil {
			return nil, fmt.Errorf("store %s: %w", path, err)
		}
		files[path] = digest
	}
	for path, digest := range priorFiles {
		if _, isStaged := staged[path]; isStaged {
			continue // staged-but-absent paths are deleted by omission
		}
		files[path] = digest
	}

	commit := &commitgraph.Commit{
		ID:      commitgraph.NewID(),
		Files:   files,
		Parents: parents,
		Message: message,
	}
	if err := r.Commits.Create(commit); err != nil {
		return nil, fmt.Errorf("create commit: %w", err)
	}

	if err := r.setCurrentCommitID(commit.ID); err != nil {
		return nil, fmt.Errorf("update current pointer: %w", err)
	}
	if err := r.Stage.Reset([]string{"."}); err != nil {
		return nil, fmt.Errorf("truncate stage: %w", err)
	}

	return commit, nil
}

func joinWorkspacePath(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// Diff computes the workspace/commit diff against the active commit.
func (r *Repository) Diff(reporter progress.Reporter) (stage.Diff, error) {
	workspace, err := r.HashWorkspace(reporter)
	if err != nil {
		return stage.Diff{}, err
	}
	prior, err := r.CurrentCommit()
	if err != nil {
		return stage.Diff{}, err
	}
	priorFiles := map[string]string{}
	if prior != nil {
		priorFiles = prior.Files
	}
	return stage.Compute(workspace, priorFiles), nil
}
