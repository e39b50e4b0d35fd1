package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/abspath/pkg/abspath/errors"
	"github.com/arthur-debert/abspath/pkg/abspath/filesystem"
)

func TestFile(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/a.txt", []byte("hello world"), 0o644))

	sum, err := File(fsys, "/a.txt")
	require.NoError(t, err)
	// md5("hello world")
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", sum)
}

func TestFile_Missing(t *testing.T) {
	fsys := filesystem.NewMemory()

	_, err := File(fsys, "/nope.txt")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}

func TestFileSet_OrderInvariant(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/r/a.txt", []byte("alpha"), 0o644))
	require.NoError(t, fsys.WriteFile("/r/b.txt", []byte("beta"), 0o644))

	forward := []Entry{
		{RelPath: "a.txt", Path: "/r/a.txt"},
		{RelPath: "b.txt", Path: "/r/b.txt"},
	}
	backward := []Entry{
		{RelPath: "b.txt", Path: "/r/b.txt"},
		{RelPath: "a.txt", Path: "/r/a.txt"},
	}

	h1, err := FileSet(fsys, forward)
	require.NoError(t, err)
	h2, err := FileSet(fsys, backward)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestFileSet_DuplicatesIgnored(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/r/a.txt", []byte("alpha"), 0o644))

	once, err := FileSet(fsys, []Entry{{RelPath: "a.txt", Path: "/r/a.txt"}})
	require.NoError(t, err)
	twice, err := FileSet(fsys, []Entry{
		{RelPath: "a.txt", Path: "/r/a.txt"},
		{RelPath: "a.txt", Path: "/r/a.txt"},
	})
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestFileSet_SensitiveToContentAndPath(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/r/a.txt", []byte("alpha"), 0o644))
	require.NoError(t, fsys.WriteFile("/r/b.txt", []byte("alpha"), 0o644))
	require.NoError(t, fsys.WriteFile("/r/c.txt", []byte("gamma"), 0o644))

	base, err := FileSet(fsys, []Entry{{RelPath: "a.txt", Path: "/r/a.txt"}})
	require.NoError(t, err)

	// same content under a different relative path changes the digest
	renamed, err := FileSet(fsys, []Entry{{RelPath: "b.txt", Path: "/r/b.txt"}})
	require.NoError(t, err)
	assert.NotEqual(t, base, renamed)

	// different content under the same entry shape changes the digest
	changed, err := FileSet(fsys, []Entry{{RelPath: "a.txt", Path: "/r/c.txt"}})
	require.NoError(t, err)
	assert.NotEqual(t, base, changed)
}

func TestFileSet_Empty(t *testing.T) {
	fsys := filesystem.NewMemory()

	sum, err := FileSet(fsys, nil)
	require.NoError(t, err)
	// md5 of the empty input
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", sum)
}

func TestFileSet_MissingEntry(t *testing.T) {
	fsys := filesystem.NewMemory()

	_, err := FileSet(fsys, []Entry{{RelPath: "a.txt", Path: "/r/a.txt"}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}
