// Package shellfs walks the securely-rooted libexec/sysconf trees that
// back the namespace: listing a container's children, filtering
// executables by PATHEXT, and rejecting any child-name join that would
// escape the root.
package shellfs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ncsh/ncsh/internal/invariant"
	"github.com/ncsh/ncsh/internal/shellerr"
)

// Root anchors a securely-rooted tree: every Join is checked to remain
// at or below Base.
type Root struct {
	Base string
}

// NewRoot resolves base to a clean absolute path so later joins compare
// cleanly. Symlinks in base are not resolved.
func NewRoot(base string) (Root, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return Root{}, shellerr.IOFailure("resolving root path", err)
	}
	return Root{Base: filepath.Clean(abs)}, nil
}

// Join appends name to r and rejects the result if it would escape the
// root: the filepath-merge with the child name must not resolve outside
// the securely-rooted base.
func (r Root) Join(name string) (string, error) {
	invariant.Precondition(name != "", "shellfs: empty child name")
	joined := filepath.Clean(filepath.Join(r.Base, name))
	rel, err := filepath.Rel(r.Base, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", shellerr.New(shellerr.KindAboveRoot, "path escapes root: "+name)
	}
	return joined, nil
}

// Listing is the contents of one container directory, already split
// into the two child-name categories the resolver consumes.
type Listing struct {
	Containers []string
	Commands   []string
}

// ListContainer reads dirPath (a container's libexec path) and returns
// its sub-container and command child names, each sorted. pathext is
// the suffix list ParsePathext split from $PATHEXT; a command name has
// the first case-insensitively matching suffix stripped before being
// returned.
func ListContainer(dirPath string, pathext []string) (Listing, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return Listing{}, shellerr.IOFailure("listing container "+dirPath, err)
	}

	var out Listing
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		switch {
		case e.IsDir():
			out.Containers = append(out.Containers, name)
		case isExecutableMode(info.Mode()):
			out.Commands = append(out.Commands, stripPathext(name, pathext))
		}
	}
	sort.Strings(out.Containers)
	sort.Strings(out.Commands)
	return out, nil
}

func stripPathext(name string, pathext []string) string {
	for _, suf := range pathext {
		if suf == "" {
			continue
		}
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(suf)) {
			return name[:len(name)-len(suf)]
		}
	}
	return name
}

func isExecutableMode(mode os.FileMode) bool {
	if !mode.IsRegular() {
		return false
	}
	return mode.Perm()&0o111 != 0
}

// ParsePathext splits the $PATHEXT environment value on ';', dropping
// empty elements.
func ParsePathext(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
