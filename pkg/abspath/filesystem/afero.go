package filesystem

import (
	"io"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/spf13/afero"
)

// aferoFS implements FileSystem on top of an afero.Fs.
type aferoFS struct {
	fs afero.Fs
}

// New wraps an existing afero.Fs.
func New(fsys afero.Fs) FileSystem {
	return &aferoFS{fs: fsys}
}

// NewOS returns a FileSystem backed by the operating system.
func NewOS() FileSystem {
	return &aferoFS{fs: afero.NewOsFs()}
}

// NewMemory returns an in-memory FileSystem, used by tests.
func NewMemory() FileSystem {
	return &aferoFS{fs: afero.NewMemMapFs()}
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *aferoFS) Exists(name string) (bool, error) {
	return afero.Exists(a.fs, name)
}

func (a *aferoFS) Open(name string) (io.ReadCloser, error) {
	return a.fs.Open(name)
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	info, err := a.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(a.fs, name)
}

func (a *aferoFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(a.fs, name, data, perm)
}

func (a *aferoFS) AppendFile(name string, data []byte, perm fs.FileMode) error {
	f, err := a.fs.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (a *aferoFS) Remove(name string) error {
	return a.fs.Remove(name)
}

func (a *aferoFS) RemoveAll(name string) error {
	return a.fs.RemoveAll(name)
}

func (a *aferoFS) MkdirAll(path string, perm fs.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFS) Rename(oldpath, newpath string) error {
	return a.fs.Rename(oldpath, newpath)
}

func (a *aferoFS) CopyFile(src, dst string) error {
	info, err := a.fs.Stat(src)
	if err != nil {
		return err
	}
	in, err := a.fs.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := a.fs.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (a *aferoFS) ListFiles(dir, pattern string) ([]string, error) {
	return a.list(dir, pattern, false)
}

func (a *aferoFS) ListDirs(dir, pattern string) ([]string, error) {
	return a.list(dir, pattern, true)
}

// list returns matching base names; afero.ReadDir already sorts entries
// by name.
func (a *aferoFS) list(dir, pattern string, wantDirs bool) ([]string, error) {
	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() != wantDirs {
			continue
		}
		matched, err := path.Match(pattern, entry.Name())
		if err != nil {
			return nil, err
		}
		if matched {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (a *aferoFS) Chtimes(name string, mtime time.Time) error {
	return a.fs.Chtimes(name, mtime, mtime)
}

func (a *aferoFS) Chmod(name string, mode fs.FileMode) error {
	return a.fs.Chmod(name, mode)
}
