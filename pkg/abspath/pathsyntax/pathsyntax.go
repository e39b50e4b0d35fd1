// Package pathsyntax implements the string-level path algebra underneath
// the AbsolutePath type: root recognition, separator handling, segment
// normalization, combining, and relative-path computation.
//
// All functions here are pure; nothing in this package touches the
// filesystem. Two root forms are recognized: a Windows drive root
// ("C:") and the Unix root ("/"). A path carries one consistent
// separator for its whole length once normalized.
package pathsyntax

import (
	"runtime"
	"strings"

	"github.com/arthur-debert/abspath/pkg/abspath/errors"
)

const (
	// UnixSeparator is the forward-slash separator.
	UnixSeparator = '/'
	// WindowsSeparator is the backslash separator.
	WindowsSeparator = '\\'
)

// DefaultSeparator returns the separator of the host platform.
func DefaultSeparator() rune {
	if runtime.GOOS == "windows" {
		return WindowsSeparator
	}
	return UnixSeparator
}

// IsWindowsRoot reports whether s is exactly a drive root such as "C:".
func IsWindowsRoot(s string) bool {
	if len(s) != 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsUnixRoot reports whether s is exactly the Unix root "/".
func IsUnixRoot(s string) bool {
	return s == string(UnixSeparator)
}

// GetRoot returns the root prefix of path and whether one is present.
// A Unix root is one character, a Windows root two.
func GetRoot(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	if path[0] == byte(UnixSeparator) {
		return string(UnixSeparator), true
	}
	if len(path) >= 2 && IsWindowsRoot(path[:2]) {
		return path[:2], true
	}
	return "", false
}

// HasRoot reports whether path starts with a recognized root.
func HasRoot(path string) bool {
	_, ok := GetRoot(path)
	return ok
}

// effectiveSeparator resolves the separator to use for a path with the
// given root. An explicit separator (non-zero) must be compatible with
// the root kind; zero means infer from the root, falling back to the
// platform default for rootless paths.
func effectiveSeparator(root string, sep rune) (rune, error) {
	switch {
	case IsWindowsRoot(root):
		if sep != 0 && sep != WindowsSeparator {
			return 0, errors.Newf(errors.ErrSeparatorConflict,
				"separator %q is not valid for Windows root %q", string(sep), root)
		}
		return WindowsSeparator, nil
	case IsUnixRoot(root):
		if sep != 0 && sep != UnixSeparator {
			return 0, errors.Newf(errors.ErrSeparatorConflict,
				"separator %q is not valid for Unix root", string(sep))
		}
		return UnixSeparator, nil
	default:
		if sep != 0 {
			return sep, nil
		}
		return DefaultSeparator(), nil
	}
}

func isSeparator(c byte) bool {
	return c == byte(UnixSeparator) || c == byte(WindowsSeparator)
}

// splitSegments splits s on both separator characters, discarding
// empty segments.
func splitSegments(s string) []string {
	var segs []string
	start := -1
	for i := 0; i < len(s); i++ {
		if isSeparator(s[i]) {
			if start >= 0 {
				segs = append(segs, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		segs = append(segs, s[start:])
	}
	return segs
}

func trimTrailingSeparators(s string) string {
	for len(s) > 0 && isSeparator(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}

// Normalize canonicalizes path using the separator inferred from its
// root kind (platform default when rootless). See NormalizeTo.
func Normalize(path string) (string, error) {
	return NormalizeTo(path, 0)
}

// NormalizeTo canonicalizes path: one separator convention, no "."
// segments, and no resolvable ".." segments. A ".." that would resolve
// past an established root fails with ROOT_BOUNDARY rather than being
// silently clamped. A rootless path may keep a leading run of ".."
// segments, since there is no boundary to cancel them against.
//
// sep may be zero to infer the separator; an explicit separator that
// conflicts with the root kind fails with SEPARATOR_CONFLICT.
func NormalizeTo(path string, sep rune) (string, error) {
	root, hasRoot := GetRoot(path)
	eff, err := effectiveSeparator(root, sep)
	if err != nil {
		return "", err
	}

	segs := splitSegments(path[len(root):])
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		switch seg {
		case ".":
			// redundant
		case "..":
			if n := len(out); n > 0 && out[n-1] != ".." {
				out = out[:n-1]
				break
			}
			if hasRoot {
				return "", errors.Newf(errors.ErrRootBoundary,
					"path %q resolves above its root %q", path, root)
			}
			out = append(out, "..")
		default:
			out = append(out, seg)
		}
	}

	return CombineTo(root, strings.Join(out, string(eff)), eff)
}

// Combine joins left and right using the separator inferred from
// left's root kind. See CombineTo.
func Combine(left, right string) (string, error) {
	return CombineTo(left, right, 0)
}

// CombineTo joins two path fragments. right must not itself be rooted.
// Trailing separators are trimmed from both sides, except that a bare
// Unix root is kept intact. An empty right joined onto a bare Windows
// root yields the root followed by a separator ("C:" -> "C:\").
func CombineTo(left, right string, sep rune) (string, error) {
	if HasRoot(right) {
		return "", errors.Newf(errors.ErrMalformedPath,
			"combine: right-hand path %q must not be rooted", right)
	}
	leftRoot, _ := GetRoot(left)
	eff, err := effectiveSeparator(leftRoot, sep)
	if err != nil {
		return "", err
	}

	if !IsUnixRoot(left) {
		left = trimTrailingSeparators(left)
	}
	right = trimTrailingSeparators(right)

	if left == "" {
		return right, nil
	}
	if right == "" {
		if IsWindowsRoot(left) {
			return left + string(WindowsSeparator), nil
		}
		return left, nil
	}
	if IsWindowsRoot(left) {
		return left + string(WindowsSeparator) + right, nil
	}
	if IsUnixRoot(left) {
		return left + right, nil
	}
	return left + string(eff) + right, nil
}

// RelativeTo computes the relative path from base to dest. Both inputs
// are normalized first and must be absolute and share the same root;
// Windows roots compare case-insensitively. The result is a run of
// ".." segments (one per unmatched trailing base segment) followed by
// the unmatched dest segments. Computing a path relative to a bare
// Windows root is not supported.
func RelativeTo(base, dest string) (string, error) {
	normBase, err := Normalize(base)
	if err != nil {
		return "", err
	}
	normDest, err := Normalize(dest)
	if err != nil {
		return "", err
	}

	baseRoot, baseRooted := GetRoot(normBase)
	destRoot, destRooted := GetRoot(normDest)
	if !baseRooted || !destRooted {
		return "", errors.Newf(errors.ErrMalformedPath,
			"relative path requires absolute paths, got %q and %q", base, dest)
	}
	if !sameRoot(baseRoot, destRoot) {
		return "", errors.Newf(errors.ErrSeparatorConflict,
			"cannot relate %q to %q: roots differ", base, dest)
	}
	if IsWindowsRoot(trimTrailingSeparators(normBase)) {
		return "", errors.Newf(errors.ErrMalformedPath,
			"relative path from Windows root %q is not supported", baseRoot)
	}

	sep := rune(UnixSeparator)
	fold := false
	if IsWindowsRoot(baseRoot) {
		sep = WindowsSeparator
		fold = true
	}

	baseSegs := splitSegments(normBase[len(baseRoot):])
	destSegs := splitSegments(normDest[len(destRoot):])

	common := 0
	for common < len(baseSegs) && common < len(destSegs) {
		if !segmentsEqual(baseSegs[common], destSegs[common], fold) {
			break
		}
		common++
	}

	parts := make([]string, 0, len(baseSegs)-common+len(destSegs)-common)
	for i := common; i < len(baseSegs); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, destSegs[common:]...)
	return strings.Join(parts, string(sep)), nil
}

func sameRoot(a, b string) bool {
	if IsWindowsRoot(a) && IsWindowsRoot(b) {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func segmentsEqual(a, b string, fold bool) bool {
	if fold {
		return strings.EqualFold(a, b)
	}
	return a == b
}
