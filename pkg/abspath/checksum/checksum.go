// Package checksum computes the 128-bit content digests used as
// change-detection fingerprints for files and directory trees. The
// digest is MD5, rendered as lower-case hex; it is a fingerprint, not
// a security primitive.
package checksum

import (
	"crypto/md5"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/arthur-debert/abspath/pkg/abspath/errors"
	"github.com/arthur-debert/abspath/pkg/abspath/filesystem"
)

// Entry names one file of a file-set digest. RelPath is the
// forward-slash-normalized path relative to the hash base; it is part
// of the digest input, so two trees with identical relative structure
// and content hash identically regardless of host separator convention.
type Entry struct {
	RelPath string
	Path    string
}

// File streams the content of a single file through the digest.
func File(fsys filesystem.FileSystem, path string) (string, error) {
	hash := md5.New()
	if err := writeFileContent(hash, fsys, path); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// FileSet digests a set of files as the ordered concatenation of
// (relative-path bytes, content bytes) per entry. Entries are
// deduplicated by relative path and sorted in ordinal order first, so
// the result is invariant to the iteration order of the input.
func FileSet(fsys filesystem.FileSystem, entries []Entry) (string, error) {
	seen := make(map[string]struct{}, len(entries))
	ordered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.RelPath]; dup {
			continue
		}
		seen[entry.RelPath] = struct{}{}
		ordered = append(ordered, entry)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].RelPath < ordered[j].RelPath
	})

	hash := md5.New()
	for _, entry := range ordered {
		if _, err := hash.Write([]byte(entry.RelPath)); err != nil {
			return "", errors.Wrapf(err, errors.ErrHashFailed,
				"failed to digest path %q", entry.RelPath)
		}
		if err := writeFileContent(hash, fsys, entry.Path); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// writeFileContent streams one file into w, holding a single open read
// handle at a time.
func writeFileContent(w io.Writer, fsys filesystem.FileSystem, path string) error {
	file, err := fsys.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, errors.ErrFileNotFound,
				"cannot hash missing file %q", path)
		}
		return errors.Wrapf(err, errors.ErrHashFailed,
			"failed to open %q for hashing", path)
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := io.Copy(w, file); err != nil {
		return errors.Wrapf(err, errors.ErrHashFailed,
			"failed to hash content of %q", path)
	}
	return nil
}
