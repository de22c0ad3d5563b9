// Package stage implements workspace hashing, the workspace/commit diff,
// and the staged-paths set (add/reset), grounded on go-git's
// diffCommitWithStaging (worktree_status.go) for the diff shape and the
// reference huge.repo.stage module for exact semantics.
package stage

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/huge-vcs/huge/internal/digest"
	"github.com/huge-vcs/huge/internal/ignore"
	"github.com/huge-vcs/huge/internal/progress"
)

// walk mirrors filepath.Walk over a billy.Filesystem: fn is called with
// the slash-separated path relative to fs's root for every entry under
// dir, depth-first, skipping a subtree when fn returns filepath.SkipDir.
func walk(fs billy.Filesystem, dir string, fn func(relSlash string, info os.FileInfo) error) error {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, info := range entries {
		rel := filepath.Join(dir, info.Name())
		relSlash := filepath.ToSlash(rel)

		err := fn(relSlash, info)
		if err == filepath.SkipDir {
			continue
		}
		if err != nil {
			return err
		}

		if info.IsDir() {
			if err := walk(fs, rel, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// HashWorkspace walks root, hashing every regular file not under
// hugeDirName and not matched by ign, reporting progress as it goes.
// Symlinks are refused, per spec §4.1.
func HashWorkspace(root, hugeDirName string, ign ignore.List, reporter progress.Reporter) (map[string]string, error) {
	if reporter == nil {
		reporter = progress.NoOp{}
	}

	fs := osfs.New(root)
	result := make(map[string]string)
	var bytesDone int64
	var filesDone int

	err := walk(fs, ".", func(relSlash string, info os.FileInfo) error {
		if info.IsDir() {
			if relSlash == hugeDirName {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		if ign.Match(relSlash) {
			return nil
		}

		f, openErr := fs.Open(relSlash)
		if openErr != nil {
			return openErr
		}
		sum, hashErr := digest.Reader(f, func(n int64) {
			bytesDone += n
			reporter.Hashing(bytesDone, filesDone)
		})
		f.Close()
		if hashErr != nil {
			return hashErr
		}

		result[relSlash] = sum
		filesDone++
		reporter.Hashing(bytesDone, filesDone)
		return nil
	})
	reporter.Done()
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Diff is the four-way classification of a workspace against a commit's
// files map.
type Diff struct {
	New       map[string]string
	Changed   map[string]string
	Deleted   map[string]struct{}
	Unchanged map[string]string
}

// Compute compares workspace (path->digest) against commitFiles.
func Compute(workspace, commitFiles map[string]string) Diff {
	d := Diff{
		New:       map[string]string{},
		Changed:   map[string]string{},
		Deleted:   map[string]struct{}{},
		Unchanged: map[string]string{},
	}

	for path, sum := range workspace {
		if prior, ok := commitFiles[path]; ok {
			if prior == sum {
				d.Unchanged[path] = sum
			} else {
				d.Changed[path] = sum
			}
		} else {
			d.New[path] = sum
		}
	}

	for path := range commitFiles {
		if _, ok := workspace[path]; !ok {
			d.Deleted[path] = struct{}{}
		}
	}

	return d
}

// Stage is the staged-paths file: paths marked for inclusion in the next
// commit.
type Stage struct {
	path string
}

// New returns a Stage backed by the file at path (the repository's
// .huge/stage).
func New(path string) *Stage { return &Stage{path: path} }

// Paths returns the current staged set, normalised.
func (s *Stage) Paths() (map[string]struct{}, error) {
	out := map[string]struct{}{}
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			out[filepath.ToSlash(filepath.Clean(line))] = struct{}{}
		}
	}
	return out, scanner.Err()
}

func (s *Stage) write(paths map[string]struct{}) error {
	if len(paths) == 0 {
		err := os.Remove(s.path)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var b strings.Builder
	for _, p := range sorted {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return os.WriteFile(s.path, []byte(b.String()), 0o644)
}

// Add expands directory arguments by walking root, filters through ign,
// and appends the resulting paths to the stage file, deduplicating.
// Directory-only arguments whose subtrees are entirely ignored contribute
// nothing.
func (s *Stage) Add(root string, hugeDirName string, args []string, ign ignore.List) error {
	existing, err := s.Paths()
	if err != nil {
		return err
	}

	fs := osfs.New(root)

	for _, arg := range args {
		relArg := filepath.ToSlash(filepath.Clean(arg))
		info, err := fs.Stat(relArg)
		if err != nil {
			return err
		}

		if info.IsDir() {
			err := walk(fs, relArg, func(relSlash string, info os.FileInfo) error {
				if info.IsDir() {
					if relSlash == hugeDirName {
						return filepath.SkipDir
					}
					return nil
				}
				if !info.Mode().IsRegular() {
					return nil
				}
				if ign.Match(relSlash) {
					return nil
				}
				existing[relSlash] = struct{}{}
				return nil
			})
			if err != nil {
				return err
			}
			continue
		}

		if ign.Match(relArg) {
			continue
		}
		existing[relArg] = struct{}{}
	}

	return s.write(existing)
}

// Reset removes paths from the staged set. A literal "." clears everything.
// Removing a path also removes everything staged under it (directory-prefix
// removal), matching the reference implementation's unmark_as_staged.
func (s *Stage) Reset(paths []string) error {
	existing, err := s.Paths()
	if err != nil {
		return err
	}

	for _, raw := range paths {
		p := filepath.ToSlash(filepath.Clean(raw))
		if p == "." {
			existing = map[string]struct{}{}
			break
		}
		prefix := p + "/"
		for staged := range existing {
			if staged == p || strings.HasPrefix(staged, prefix) {
				delete(existing, staged)
			}
		}
	}

	return s.write(existing)
}
