// Package filesystem provides the primitive file-system access layer
// consumed by the file and directory operation views. It is a thin
// synchronous wrapper over an afero.Fs, so production code runs against
// the OS filesystem and tests against an in-memory one.
package filesystem

import (
	"io"
	"io/fs"
	"time"
)

// FileSystem is the set of primitive operations the operation views
// delegate to. Implementations perform no path normalization; callers
// pass already-normalized absolute paths.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	Exists(name string) (bool, error)
	Open(name string) (io.ReadCloser, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	AppendFile(name string, data []byte, perm fs.FileMode) error
	Remove(name string) error
	RemoveAll(name string) error
	MkdirAll(path string, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
	CopyFile(src, dst string) error

	// ListFiles and ListDirs return the base names of the immediate
	// entries of dir that match the wildcard pattern, sorted
	// lexicographically.
	ListFiles(dir, pattern string) ([]string, error)
	ListDirs(dir, pattern string) ([]string, error)

	Chtimes(name string, mtime time.Time) error
	Chmod(name string, mode fs.FileMode) error
}
