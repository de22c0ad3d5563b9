// Package commitgraph implements the commit store: immutable, per-commit
// directories holding files/parents/timestamp/message, plus DAG traversal
// (heads, branches) over the id-keyed graph they form.
//
// Edges are stored only by id, never by pointer — the graph is a mapping
// from id to node, traversed by lookup, the same shape go-git's
// plumbing/object/commitgraph walkers use for topological traversal.
package commitgraph

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/google/uuid"
)

// Commit is the immutable value read from (or about to be written to) a
// commit directory. Its Files and Parents fully define the tree it
// represents; nothing else is stored.
type Commit struct {
	ID        string
	Files     map[string]string // normalised path -> digest
	Parents   []string
	Timestamp time.Time
	Message   string
}

// NewID returns a fresh 32-hex commit identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Store is the directory of commit directories keyed by commit id.
type Store struct {
	dir string
}

// New returns a Store rooted at dir (the repository's commits/ directory).
func New(dir string) *Store { return &Store{dir: dir} }

// Dir returns a particular commit's directory.
func (s *Store) Dir(id string) string { return filepath.Join(s.dir, id) }

// Exists reports whether a commit directory exists for id.
func (s *Store) Exists(id string) bool {
	info, err := os.Stat(s.Dir(id))
	return err == nil && info.IsDir()
}

// IDs lists every commit id present in the store.
func (s *Store) IDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// Load reads a single commit by id.
func (s *Store) Load(id string) (*Commit, error) {
	if !s.Exists(id) {
		return nil, fmt.Errorf("commit not found: %s", id)
	}

	dir := s.Dir(id)
	c := &Commit{ID: id, Files: map[string]string{}}

	filesData, err := os.ReadFile(filepath.Join(dir, "files"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read files: %w", err)
	}
	scanner := bufio.NewScanner(strings.NewReader(string(filesData)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed files line in commit %s: %q", id, line)
		}
		c.Files[filepath.ToSlash(filepath.Clean(parts[1]))] = parts[0]
	}

	parentsData, err := os.ReadFile(filepath.Join(dir, "parents"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read parents: %w", err)
	}
	for _, line := range strings.Split(string(parentsData), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			c.Parents = append(c.Parents, line)
		}
	}

	tsData, err := os.ReadFile(filepath.Join(dir, "timestamp"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read timestamp: %w", err)
	}
	if len(tsData) > 0 {
		ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(tsData)))
		if err != nil {
			ts, err = time.Parse(time.RFC3339, strings.TrimSpace(string(tsData)))
			if err != nil {
				return nil, fmt.Errorf("parse timestamp: %w", err)
			}
		}
		c.Timestamp = ts
	}

	msgData, err := os.ReadFile(filepath.Join(dir, "message"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read message: %w", err)
	}
	c.Message = string(msgData)

	return c, nil
}

// LoadAll loads every commit in the store, sorted oldest-first by
// timestamp (ties broken by id for determinism).
func (s *Store) LoadAll() ([]*Commit, error) {
	ids, err := s.IDs()
	if err != nil {
		return nil, err
	}
	commits := make([]*Commit, 0, len(ids))
	for _, id := range ids {
		c, err := s.Load(id)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	sort.Slice(commits, func(i, j int) bool {
		if !commits[i].Timestamp.Equal(commits[j].Timestamp) {
			return commits[i].Timestamp.Before(commits[j].Timestamp)
		}
		return commits[i].ID < commits[j].ID
	})
	return commits, nil
}

// Create writes a brand-new commit directory. Callers assemble Files,
// Parents, Timestamp and Message beforehand; Create does not validate
// against any prior commit — that is the commit pipeline's job.
func (s *Store) Create(c *Commit) error {
	dir := s.Dir(c.ID)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Errorf("create commit dir: %w", err)
	}

	sorted := treeset.NewWithStringComparator()
	for path, digest := range c.Files {
		sorted.Add(fmt.Sprintf("%s\t%s", digest, path))
	}

	var b strings.Builder
	for _, line := range sorted.Values() {
		b.WriteString(line.(string))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(filepath.Join(dir, "files"), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write files: %w", err)
	}

	var pb strings.Builder
	for _, parent := range c.Parents {
		pb.WriteString(parent)
		pb.WriteByte('\n')
	}
	if err := os.WriteFile(filepath.Join(dir, "parents"), []byte(pb.String()), 0o644); err != nil {
		return fmt.Errorf("write parents: %w", err)
	}

	ts := c.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	if err := os.WriteFile(filepath.Join(dir, "timestamp"), []byte(ts.UTC().Format(time.RFC3339Nano)), 0o644); err != nil {
		return fmt.Errorf("write timestamp: %w", err)
	}

	if strings.TrimSpace(c.Message) != "" {
		if err := os.WriteFile(filepath.Join(dir, "message"), []byte(c.Message), 0o644); err != nil {
			return fmt.Errorf("write message: %w", err)
		}
	}

	return nil
}

// Digests returns the set of digests referenced by a commit's files.
func (c *Commit) Digests() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(c.Files))
	for _, d := range c.Files {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}
