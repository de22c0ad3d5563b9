package repo

import (
	"sort"
	"strings"

	"github.com/huge-vcs/huge/internal/progress"
)

// Status is the rendered workspace/commit comparison: an optional
// current-commit id, plus staged and not-staged change groups.
type Status struct {
	CommitID string
	Staged   ChangeGroup
	Unstaged ChangeGroup
}

// ChangeGroup holds path lists classified by kind, each sorted.
type ChangeGroup struct {
	Added   []string
	Changed []string
	Deleted []string
}

func (g ChangeGroup) empty() bool {
	return len(g.Added) == 0 && len(g.Changed) == 0 && len(g.Deleted) == 0
}

// ComputeStatus diffs the workspace against the active commit and splits
// the result into staged / not-staged groups using the current stage set.
func (r *Repository) ComputeStatus(reporter progress.Reporter) (Status, error) {
	diff, err := r.Diff(reporter)
	if err != nil {
		return Status{}, err
	}
	staged, err := r.Stage.Paths()
	if err != nil {
		return Status{}, err
	}
	commitID, err := r.CurrentCommitID()
	if err != nil {
		return Status{}, err
	}

	st := Status{CommitID: commitID}
	classify := func(path string, isNew, isChanged, isDeleted bool) {
		group := &st.Unstaged
		if _, ok := staged[path]; ok {
			group = &st.Staged
		}
		switch {
		case isNew:
			group.Added = append(group.Added, path)
		case isChanged:
			group.Changed = append(group.Changed, path)
		case isDeleted:
			group.Deleted = append(group.Deleted, path)
		}
	}

	for path := range diff.New {
		classify(path, true, false, false)
	}
	for path := range diff.Changed {
		classify(path, false, true, false)
	}
	for path := range diff.Deleted {
		classify(path, false, false, true)
	}

	sort.Strings(st.Staged.Added)
	sort.Strings(st.Staged.Changed)
	sort.Strings(st.Staged.Deleted)
	sort.Strings(st.Unstaged.Added)
	sort.Strings(st.Unstaged.Changed)
	sort.Strings(st.Unstaged.Deleted)

	return st, nil
}

// Render formats a Status the way the command-line status output does:
// an optional "Commit: <id>" line, then "Staged for commit:"/"Not staged
// for commit:" sections each listing A/C/D lines in that order.
func (s Status) Render() string {
	var lines []string
	if s.CommitID != "" {
		lines = append(lines, "Commit: "+s.CommitID)
	}

	if !s.Staged.empty() {
		lines = append(lines, "Staged for commit:")
		lines = appendGroup(lines, s.Staged)
	}

	if !s.Unstaged.empty() {
		if !s.Staged.empty() {
			lines = append(lines, "")
		}
		lines = append(lines, "Not staged for commit:")
		lines = appendGroup(lines, s.Unstaged)
	}

	return strings.Join(lines, "\n")
}

func appendGroup(lines []string, g ChangeGroup) []string {
	for _, p := range g.Added {
		lines = append(lines, "  A "+p)
	}
	for _, p := range g.Changed {
		lines = append(lines, "  C "+p)
	}
	for _, p := range g.Deleted {
		lines = append(lines, "  D "+p)
	}
	return lines
}
