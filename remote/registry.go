// Package remote implements the registry of known peers: one directory
// per remote, holding its address, optional disabled marker, and the
// list of blob digests last fetched from it. Grounded on the reference
// huge.repo.remote module and go-git's config.RemoteConfig for the
// named-remote-record shape.
package remote

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/huge-vcs/huge/internal/layout"
)

// Info describes a registered remote.
type Info struct {
	ID                 string
	Address            string
	LastCoverageUpdate time.Time // zero if the coverage file has never been written
}

// Registry is the set of remotes known to a repository.
type Registry struct {
	dir string
}

// New returns a Registry rooted at dir (the repository's remotes/ directory).
func New(dir string) *Registry { return &Registry{dir: dir} }

func (r *Registry) addressFile(id string) string  { return filepath.Join(r.dir, id, "address") }
func (r *Registry) disabledFile(id string) string { return filepath.Join(r.dir, id, "disabled") }
func (r *Registry) coverageFile(id string) string { return filepath.Join(r.dir, id, "coverage") }

// Add registers address, unless a non-disabled remote with the exact
// same address string already exists, in which case it is a silent
// no-op, matching the reference implementation.
func (r *Registry) Add(address string) (string, error) {
	address = strings.TrimSpace(address)

	existing, err := r.List()
	if err != nil {
		return "", err
	}
	for _, info := range existing {
		if info.Address == address {
			return info.ID, nil
		}
	}

	id := layout.NewID()
	if err := os.Mkdir(filepath.Join(r.dir, id), 0o755); err != nil {
		return "", fmt.Errorf("create remote dir: %w", err)
	}
	if err := os.WriteFile(r.addressFile(id), []byte(address+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write address: %w", err)
	}
	return id, nil
}

// List returns every enabled remote, i.e. every remote directory
// without a disabled marker file.
func (r *Registry) List() ([]Info, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id := e.Name()

		if _, err := os.Stat(r.disabledFile(id)); err == nil {
			continue
		}

		addrData, err := os.ReadFile(r.addressFile(id))
		if err != nil {
			return nil, fmt.Errorf("read address for remote %s: %w", id, err)
		}

		var mtime time.Time
		if st, err := os.Stat(r.coverageFile(id)); err == nil {
			mtime = st.ModTime()
		}

		out = append(out, Info{
			ID:                 id,
			Address:            strings.TrimSpace(string(addrData)),
			LastCoverageUpdate: mtime,
		})
	}
	return out, nil
}

// Get returns a single remote's Info by id.
func (r *Registry) Get(id string) (Info, error) {
	infos, err := r.List()
	if err != nil {
		return Info{}, err
	}
	for _, info := range infos {
		if info.ID == id {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("remote not found: %s", id)
}

// Disable marks a remote as disabled, hiding it from List without
// deleting its recorded coverage history.
func (r *Registry) Disable(id string) error {
	return os.WriteFile(r.disabledFile(id), nil, 0o644)
}

// Coverage reads the last-fetched content-store digest inventory cached
// for a remote: one digest per line, no values — a snapshot of what
// that peer's storage/ directory held as of the last fetch.
func (r *Registry) Coverage(id string) (map[string]struct{}, error) {
	f, err := os.Open(r.coverageFile(id))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, err
	}
	defer f.Close()

	out := map[string]struct{}{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			out[line] = struct{}{}
		}
	}
	return out, scanner.Err()
}

// WriteCoverage replaces the cached digest inventory for a remote,
// updating its last-coverage-update timestamp as a side effect of the
// file write.
func (r *Registry) WriteCoverage(id string, digests []string) error {
	sorted := append([]string(nil), digests...)
	sort.Strings(sorted)

	var b strings.Builder
	for _, digest := range sorted {
		b.WriteString(digest)
		b.WriteByte('\n')
	}
	return os.WriteFile(r.coverageFile(id), []byte(b.String()), 0o644)
}
