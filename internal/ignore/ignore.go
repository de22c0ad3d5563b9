// Package ignore compiles and applies the line-oriented regular-expression
// ignore list consulted during workspace hashing and staging.
package ignore

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
)

// List is a compiled ignore list: a path is ignored if any pattern matches
// it in full (not as a substring).
type List struct {
	patterns []*regexp.Regexp
}

// Empty is a List that ignores nothing.
var Empty = List{}

// Compile parses one pattern per non-blank, non-comment line. A "#"
// anywhere on a line introduces a comment that runs to end of line, as in
// the reference implementation's get_ignore_patterns.
func Compile(r io.Reader) (List, error) {
	var list List
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		re, err := regexp.Compile(`^(?:` + line + `)$`)
		if err != nil {
			return List{}, err
		}
		list.patterns = append(list.patterns, re)
	}
	if err := scanner.Err(); err != nil {
		return List{}, err
	}
	return list, nil
}

// Load reads and compiles the ignore file at path. A missing file yields
// Empty, not an error.
func Load(path string) (List, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty, nil
		}
		return List{}, err
	}
	defer f.Close()
	return Compile(f)
}

// Match reports whether path is matched by any pattern in the list. A
// pattern matches only if it matches the whole path (Compile anchors each
// pattern at both ends), not merely a prefix of it or somewhere inside it.
func (l List) Match(path string) bool {
	for _, re := range l.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (l List) Len() int { return len(l.patterns) }
