package filesystem

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteFile(t *testing.T) {
	fsys := NewMemory()

	require.NoError(t, fsys.WriteFile("/data/a.txt", []byte("hello"), 0o644))

	data, err := fsys.ReadFile("/data/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	exists, err := fsys.Exists("/data/a.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReadFile_RejectsDirectory(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/data/sub", 0o755))

	_, err := fsys.ReadFile("/data/sub")
	assert.Error(t, err)
}

func TestAppendFile(t *testing.T) {
	fsys := NewMemory()

	require.NoError(t, fsys.AppendFile("/log.txt", []byte("one\n"), 0o644))
	require.NoError(t, fsys.AppendFile("/log.txt", []byte("two\n"), 0o644))

	data, err := fsys.ReadFile("/log.txt")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestCopyFile(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.WriteFile("/src.txt", []byte("payload"), 0o644))

	require.NoError(t, fsys.CopyFile("/src.txt", "/dst.txt"))

	data, err := fsys.ReadFile("/dst.txt")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	// source remains readable after the copy
	src, err := fsys.Open("/src.txt")
	require.NoError(t, err)
	content, err := io.ReadAll(src)
	require.NoError(t, err)
	require.NoError(t, src.Close())
	assert.Equal(t, "payload", string(content))
}

func TestListFilesAndDirs(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.WriteFile("/root/b.txt", nil, 0o644))
	require.NoError(t, fsys.WriteFile("/root/a.txt", nil, 0o644))
	require.NoError(t, fsys.WriteFile("/root/c.md", nil, 0o644))
	require.NoError(t, fsys.MkdirAll("/root/sub", 0o755))
	require.NoError(t, fsys.MkdirAll("/root/zeta", 0o755))

	files, err := fsys.ListFiles("/root", "*")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.md"}, files)

	txt, err := fsys.ListFiles("/root", "*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, txt)

	dirs, err := fsys.ListDirs("/root", "*")
	require.NoError(t, err)
	assert.Equal(t, []string{"sub", "zeta"}, dirs)
}

func TestListFiles_MissingDir(t *testing.T) {
	fsys := NewMemory()
	_, err := fsys.ListFiles("/nowhere", "*")
	assert.Error(t, err)
}

func TestRename(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.WriteFile("/old.txt", []byte("x"), 0o644))

	require.NoError(t, fsys.Rename("/old.txt", "/new.txt"))

	exists, err := fsys.Exists("/old.txt")
	require.NoError(t, err)
	assert.False(t, exists)
	data, err := fsys.ReadFile("/new.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestChtimes(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.WriteFile("/a.txt", nil, 0o644))

	stamp := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fsys.Chtimes("/a.txt", stamp))

	info, err := fsys.Stat("/a.txt")
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stamp))
}

func TestRemoveAll(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.WriteFile("/tree/deep/leaf.txt", []byte("x"), 0o644))

	require.NoError(t, fsys.RemoveAll("/tree"))

	exists, err := fsys.Exists("/tree/deep/leaf.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}
