// Package address parses remote addresses into a local path or a
// remote-shell (SSH) endpoint, grounded on go-git's internal/url
// SCP-like regex and the reference huge.repo.address module.
package address

import (
	"fmt"
	"os/user"
	"regexp"
	"strings"
)

// scpLike matches "[user@]host:path", the same shape ssh and scp accept
// on their command line.
var scpLike = regexp.MustCompile(`^(?:(?P<user>[^@\s]+)@)?(?P<host>[^:\s]+):(?P<path>.+)$`)

// Kind distinguishes the two address forms.
type Kind int

const (
	// Local is a path on the machine running huge.
	Local Kind = iota
	// RemoteShell is a path on another machine, reached over SSH.
	RemoteShell
)

// Address is a parsed remote address: either a local path or a
// login@host:path remote-shell endpoint.
type Address struct {
	Kind  Kind
	Path  string // Local: the path itself. RemoteShell: the remote path.
	Login string // RemoteShell only.
	Host  string // RemoteShell only.
}

// String renders the address back to its canonical textual form.
func (a Address) String() string {
	if a.Kind == Local {
		return a.Path
	}
	return fmt.Sprintf("%s@%s:%s", a.Login, a.Host, a.Path)
}

// Parse classifies a raw address string. A string matching the
// login@host:path (or host:path) SCP-like shape is a RemoteShell
// address; anything else is treated as a Local path, matching the
// reference implementation's fallback-to-path behaviour.
func Parse(raw string) (Address, error) {
	trimmed := strings.TrimSpace(raw)

	m := scpLike.FindStringSubmatch(trimmed)
	if m == nil {
		return Address{Kind: Local, Path: trimmed}, nil
	}

	login := strings.TrimSpace(m[1])
	host := strings.TrimSpace(m[2])
	path := strings.TrimSpace(m[3])

	if login == "" {
		u, err := user.Current()
		if err != nil {
			return Address{}, fmt.Errorf("resolve current user: %w", err)
		}
		login = u.Username
	}

	return Address{Kind: RemoteShell, Login: login, Host: host, Path: path}, nil
}
