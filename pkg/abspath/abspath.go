// Package abspath provides an immutable absolute-path value type and
// two scoped operation views over it: File for paths denoting files
// and Dir for paths denoting directories. Path arithmetic is handled
// by pkg/abspath/pathsyntax; primitive I/O is delegated to the
// pkg/abspath/filesystem collaborator.
package abspath

import (
	"strings"

	"github.com/arthur-debert/abspath/pkg/abspath/errors"
	"github.com/arthur-debert/abspath/pkg/abspath/filesystem"
	"github.com/arthur-debert/abspath/pkg/abspath/pathsyntax"
)

// AbsolutePath is a normalized, always-rooted path string. The zero
// value is invalid; construct via New or MustNew. Values are immutable:
// every deriving operation returns a new value.
type AbsolutePath struct {
	raw string
}

// New parses and normalizes raw into an AbsolutePath. It fails with
// MALFORMED_PATH when raw has no recognized root, and propagates
// normalization failures (ROOT_BOUNDARY, SEPARATOR_CONFLICT).
func New(raw string) (AbsolutePath, error) {
	if !pathsyntax.HasRoot(raw) {
		return AbsolutePath{}, errors.Newf(errors.ErrMalformedPath,
			"path %q has no recognized root", raw)
	}
	norm, err := pathsyntax.Normalize(raw)
	if err != nil {
		return AbsolutePath{}, err
	}
	return AbsolutePath{raw: norm}, nil
}

// MustNew is New, panicking on error. For constants and tests.
func MustNew(raw string) AbsolutePath {
	p, err := New(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the normalized path string.
func (p AbsolutePath) String() string {
	return p.raw
}

// IsZero reports whether p is the invalid zero value.
func (p AbsolutePath) IsZero() bool {
	return p.raw == ""
}

// Root returns the root prefix ("/" or a drive root such as "C:").
func (p AbsolutePath) Root() string {
	root, _ := pathsyntax.GetRoot(p.raw)
	return root
}

// IsWindows reports whether p carries a Windows drive root.
func (p AbsolutePath) IsWindows() bool {
	return pathsyntax.IsWindowsRoot(p.Root())
}

// Separator returns the separator character used by p.
func (p AbsolutePath) Separator() rune {
	if p.IsWindows() {
		return pathsyntax.WindowsSeparator
	}
	return pathsyntax.UnixSeparator
}

// IsRoot reports whether p denotes its own root ("/" or "C:\").
func (p AbsolutePath) IsRoot() bool {
	trimmed := strings.TrimRight(p.raw, string(pathsyntax.WindowsSeparator))
	return pathsyntax.IsUnixRoot(p.raw) || pathsyntax.IsWindowsRoot(trimmed)
}

// Name returns the last path component, or "" for a root.
func (p AbsolutePath) Name() string {
	if p.IsRoot() {
		return ""
	}
	idx := strings.LastIndexAny(p.raw, "/\\")
	return p.raw[idx+1:]
}

// Parent returns the parent directory of p. The second return is false
// when p is itself a root.
func (p AbsolutePath) Parent() (AbsolutePath, bool) {
	if p.IsRoot() {
		return AbsolutePath{}, false
	}
	idx := strings.LastIndexAny(p.raw, "/\\")
	parent := p.raw[:idx]
	if parent == "" {
		parent = string(pathsyntax.UnixSeparator)
	}
	pp, err := New(parent)
	if err != nil {
		return AbsolutePath{}, false
	}
	return pp, true
}

// Combine appends a non-rooted fragment to p and normalizes the
// result. A rooted fragment fails with MALFORMED_PATH; a fragment
// whose ".." segments would resolve past the root fails with
// ROOT_BOUNDARY.
func (p AbsolutePath) Combine(other string) (AbsolutePath, error) {
	joined, err := pathsyntax.Combine(p.raw, other)
	if err != nil {
		return AbsolutePath{}, err
	}
	return New(joined)
}

// ConcatRaw appends suffix to the raw string and renormalizes. Used
// for extension-preserving renames ("/a/b" + ".bak").
func (p AbsolutePath) ConcatRaw(suffix string) (AbsolutePath, error) {
	return New(p.raw + suffix)
}

// RelativeTo returns p expressed relative to base.
func (p AbsolutePath) RelativeTo(base AbsolutePath) (string, error) {
	return pathsyntax.RelativeTo(base.raw, p.raw)
}

// Key returns the canonical comparison key: the raw string, lower-cased
// when p carries a Windows root (Windows-rooted paths compare
// case-insensitively).
func (p AbsolutePath) Key() string {
	if p.IsWindows() {
		return strings.ToLower(p.raw)
	}
	return p.raw
}

// Equal reports path equality under the root kind's case rule.
func (p AbsolutePath) Equal(other AbsolutePath) bool {
	return p.Key() == other.Key()
}

// Less orders paths by comparison key.
func (p AbsolutePath) Less(other AbsolutePath) bool {
	return p.Key() < other.Key()
}

// IsAncestorOf reports whether other sits strictly below p.
func (p AbsolutePath) IsAncestorOf(other AbsolutePath) bool {
	pk, ok := p.Key(), other.Key()
	if !strings.HasPrefix(ok, pk) || len(ok) == len(pk) {
		return false
	}
	if p.IsRoot() {
		return true
	}
	c := ok[len(pk)]
	return c == byte(pathsyntax.UnixSeparator) || c == byte(pathsyntax.WindowsSeparator)
}

// File returns the file-operation view of p on the process-default
// filesystem.
func (p AbsolutePath) File() File {
	return p.FileOn(DefaultFileSystem())
}

// FileOn returns the file-operation view of p on an explicit
// filesystem collaborator.
func (p AbsolutePath) FileOn(fsys filesystem.FileSystem) File {
	return File{path: p, fs: fsys, cfg: CurrentDefaults()}
}

// Dir returns the directory-operation view of p on the process-default
// filesystem.
func (p AbsolutePath) Dir() Dir {
	return p.DirOn(DefaultFileSystem())
}

// DirOn returns the directory-operation view of p on an explicit
// filesystem collaborator.
func (p AbsolutePath) DirOn(fsys filesystem.FileSystem) Dir {
	return Dir{path: p, fs: fsys}
}
