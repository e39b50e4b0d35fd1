package abspath

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/arthur-debert/abspath/pkg/abspath/errors"
	"github.com/arthur-debert/abspath/pkg/abspath/filesystem"
)

func memFile(t *testing.T, path string) (File, filesystem.FileSystem) {
	t.Helper()
	fsys := filesystem.NewMemory()
	return MustNew(path).FileOn(fsys), fsys
}

func TestFile_ExistsAndTouch(t *testing.T) {
	f, _ := memFile(t, "/work/a.txt")
	assert.False(t, f.Exists())

	require.NoError(t, f.Touch())
	assert.True(t, f.Exists())

	// touching again only refreshes the timestamp
	stamp := time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.TouchAt(stamp))
	data, err := f.ReadBytes()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFile_ExistsIsFalseForDirectory(t *testing.T) {
	f, fsys := memFile(t, "/work")
	require.NoError(t, fsys.MkdirAll("/work", 0o755))
	assert.False(t, f.Exists())
}

func TestFile_ReadMissing(t *testing.T) {
	f, _ := memFile(t, "/gone.txt")

	_, err := f.ReadBytes()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))

	_, err = f.ReadText()
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))

	_, err = f.Hash()
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}

func TestFile_WriteTextNormalizesEOF(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"adds terminator", "hello", "hello\n"},
		{"collapses extras", "hello\n\n\n", "hello\n"},
		{"keeps crlf style", "a\r\nb\r\n\r\n", "a\r\nb\r\n"},
		{"empty content", "", "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := memFile(t, "/t.txt")
			require.NoError(t, f.WriteText(tt.in))
			got, err := f.ReadText()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFile_WriteTextVerbatimWhenEOFOff(t *testing.T) {
	f, _ := memFile(t, "/t.txt")
	f = f.WithEOFLineBreak(false)

	require.NoError(t, f.WriteText("no terminator"))
	got, err := f.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "no terminator", got)
}

func TestFile_WriteAndReadLines(t *testing.T) {
	f, _ := memFile(t, "/lines.txt")
	f = f.WithLineBreak(LineBreakUnix)

	require.NoError(t, f.WriteLines([]string{"one", "two", "three"}))

	raw, err := f.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", raw)

	lines, err := f.ReadLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestFile_ReadLinesHandlesCRLF(t *testing.T) {
	f, _ := memFile(t, "/crlf.txt")
	require.NoError(t, f.WriteBytes([]byte("a\r\nb\r\nc")))

	lines, err := f.ReadLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestFile_ReadLinesEmptyFile(t *testing.T) {
	f, _ := memFile(t, "/empty.txt")
	require.NoError(t, f.WriteBytes(nil))

	lines, err := f.ReadLines()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestFile_WriteLinesWindowsTerminator(t *testing.T) {
	f, _ := memFile(t, "/w.txt")
	f = f.WithLineBreak(LineBreakWindows)

	require.NoError(t, f.WriteLines([]string{"a", "b"}))
	raw, err := f.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb\r\n", raw)
}

func TestFile_WithEncoding_Latin1RoundTrip(t *testing.T) {
	f, _ := memFile(t, "/latin.txt")
	f = f.WithEncoding(charmap.ISO8859_1).WithEOFLineBreak(false)

	require.NoError(t, f.WriteText("café"))

	// on disk the accented rune is a single Latin-1 byte, not UTF-8
	raw, err := f.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, raw)

	got, err := f.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "café", got)

	// the undecorated view sees the raw Latin-1 bytes as mojibake
	plain, err := f.WithEncoding(nil).ReadText()
	require.NoError(t, err)
	assert.NotEqual(t, "café", plain)
}

func TestFile_WithEncoding_UTF16Lines(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	f, _ := memFile(t, "/wide.txt")
	f = f.WithEncoding(enc).WithLineBreak(LineBreakUnix)

	require.NoError(t, f.WriteLines([]string{"alpha", "beta"}))

	lines, err := f.ReadLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, lines)

	// two bytes per code unit plus the BOM
	raw, err := f.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, 2+2*len("alpha\nbeta\n"), len(raw))
	assert.Equal(t, []byte{0xFF, 0xFE}, raw[:2])
}

func TestFile_AppendText(t *testing.T) {
	f, _ := memFile(t, "/log.txt")
	f = f.WithLineBreak(LineBreakUnix)

	require.NoError(t, f.AppendText("start"))
	require.NoError(t, f.AppendLines([]string{"one", "two"}))

	raw, err := f.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "startone\ntwo\n", raw)
}

func TestFile_UpdateText(t *testing.T) {
	f, _ := memFile(t, "/conf.txt")
	require.NoError(t, f.WriteText("value=1"))

	err := f.UpdateText(func(s string) string {
		return strings.ReplaceAll(s, "value=1", "value=2")
	})
	require.NoError(t, err)

	got, err := f.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "value=2\n", got)
}

func TestFile_Remove(t *testing.T) {
	f, _ := memFile(t, "/x.txt")
	require.NoError(t, f.WriteText("x"))

	require.NoError(t, f.Remove())
	assert.False(t, f.Exists())

	// removing again is a no-op
	require.NoError(t, f.Remove())
}

func TestFile_Hash(t *testing.T) {
	f, _ := memFile(t, "/payload.bin")
	require.NoError(t, f.WriteBytes([]byte("hello world")))

	sum, err := f.Hash()
	require.NoError(t, err)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", sum)
}

func TestFile_HasExtension(t *testing.T) {
	f, _ := memFile(t, "/docs/Report.TXT")

	assert.True(t, f.HasExtension(".txt"))
	assert.True(t, f.HasExtension("txt"))
	assert.True(t, f.HasExtension(".md", "txt"))
	assert.False(t, f.HasExtension(".md", ".rst"))
}

func TestFile_WithExtension(t *testing.T) {
	f, _ := memFile(t, "/docs/report.txt")

	p, ok := f.WithExtension(".md")
	require.True(t, ok)
	assert.Equal(t, "/docs/report.md", p.String())

	p, ok = f.WithExtension("")
	require.True(t, ok)
	assert.Equal(t, "/docs/report", p.String())

	dotfile := MustNew("/docs/.gitignore").FileOn(filesystem.NewMemory())
	p, ok = dotfile.WithExtension(".bak")
	require.True(t, ok)
	assert.Equal(t, "/docs/.gitignore.bak", p.String())
}

func TestFile_CopyAndMove(t *testing.T) {
	fsys := filesystem.NewMemory()
	src := MustNew("/a/src.txt").FileOn(fsys)
	require.NoError(t, src.WriteText("content"))

	copied, err := src.Copy(MustNew("/b/copy.txt"), Fail)
	require.NoError(t, err)
	assert.Equal(t, "/b/copy.txt", copied.String())
	assert.True(t, src.Exists())
	assert.True(t, copied.FileOn(fsys).Exists())

	moved, err := src.Move(MustNew("/b/moved.txt"), Fail)
	require.NoError(t, err)
	assert.Equal(t, "/b/moved.txt", moved.String())
	assert.False(t, src.Exists())
	assert.True(t, moved.FileOn(fsys).Exists())
}

func TestFile_TransferPolicyMatrix(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		policy     ExistsPolicy
		srcTime    time.Time
		dstTime    time.Time
		wantErr    errors.ErrorCode
		wantPath   string
		wantTarget string
	}{
		{
			name:    "fail on existing target",
			policy:  Fail,
			srcTime: older, dstTime: older,
			wantErr: errors.ErrAlreadyExists,
		},
		{
			name:    "skip returns source and keeps target",
			policy:  MergeAndSkip,
			srcTime: older, dstTime: older,
			wantPath:   "/a/src.txt",
			wantTarget: "old",
		},
		{
			name:    "overwrite replaces target",
			policy:  MergeAndOverwrite,
			srcTime: older, dstTime: newer,
			wantPath:   "/b/dst.txt",
			wantTarget: "new",
		},
		{
			name:    "if-newer replaces stale target",
			policy:  MergeAndOverwriteIfNewer,
			srcTime: newer, dstTime: older,
			wantPath:   "/b/dst.txt",
			wantTarget: "new",
		},
		{
			name:    "if-newer declines and returns target",
			policy:  MergeAndOverwriteIfNewer,
			srcTime: older, dstTime: newer,
			wantPath:   "/b/dst.txt",
			wantTarget: "old",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := filesystem.NewMemory()
			src := MustNew("/a/src.txt").FileOn(fsys)
			dst := MustNew("/b/dst.txt")
			require.NoError(t, src.WriteText("new"))
			require.NoError(t, fsys.Chtimes(src.Path().String(), tt.srcTime))
			require.NoError(t, dst.FileOn(fsys).WriteText("old"))
			require.NoError(t, fsys.Chtimes(dst.String(), tt.dstTime))

			got, err := src.Copy(dst, tt.policy)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, got.String())

			content, err := dst.FileOn(fsys).ReadText()
			require.NoError(t, err)
			assert.Equal(t, tt.wantTarget+"\n", content)
		})
	}
}

func TestFile_MoveSkipKeepsSource(t *testing.T) {
	fsys := filesystem.NewMemory()
	src := MustNew("/a/src.txt").FileOn(fsys)
	dst := MustNew("/b/dst.txt")
	require.NoError(t, src.WriteText("mine"))
	require.NoError(t, dst.FileOn(fsys).WriteText("theirs"))

	got, err := src.Move(dst, MergeAndSkip)
	require.NoError(t, err)
	assert.Equal(t, src.Path().String(), got.String())
	assert.True(t, src.Exists(), "skipped move must leave the source in place")

	content, err := dst.FileOn(fsys).ReadText()
	require.NoError(t, err)
	assert.Equal(t, "theirs\n", content)
}

func TestFile_CopyToAndMoveTo(t *testing.T) {
	fsys := filesystem.NewMemory()
	src := MustNew("/a/name.txt").FileOn(fsys)
	require.NoError(t, src.WriteText("x"))

	copied, err := src.CopyTo(MustNew("/pool"), Fail)
	require.NoError(t, err)
	assert.Equal(t, "/pool/name.txt", copied.String())

	moved, err := src.MoveTo(MustNew("/archive"), Fail)
	require.NoError(t, err)
	assert.Equal(t, "/archive/name.txt", moved.String())
	assert.False(t, src.Exists())
}

func TestFile_Rename(t *testing.T) {
	fsys := filesystem.NewMemory()
	src := MustNew("/docs/draft.txt").FileOn(fsys)
	require.NoError(t, src.WriteText("x"))

	renamed, err := src.Rename("final.txt", Fail)
	require.NoError(t, err)
	assert.Equal(t, "/docs/final.txt", renamed.String())

	again, err := renamed.FileOn(fsys).RenameWith(strings.ToUpper, Fail)
	require.NoError(t, err)
	assert.Equal(t, "/docs/FINAL.TXT", again.String())
}

func TestFile_RenameWithoutExtension(t *testing.T) {
	fsys := filesystem.NewMemory()
	src := MustNew("/docs/report.txt").FileOn(fsys)
	require.NoError(t, src.WriteText("x"))

	renamed, err := src.RenameWithoutExtension("summary", Fail)
	require.NoError(t, err)
	assert.Equal(t, "/docs/summary.txt", renamed.String())
}

func TestFile_FindParent(t *testing.T) {
	fsys := filesystem.NewMemory()
	f := MustNew("/proj/src/pkg/main.go").FileOn(fsys)
	require.NoError(t, f.WriteText("package main"))
	marker := MustNew("/proj/go.mod").FileOn(fsys)
	require.NoError(t, marker.WriteText("module proj"))

	hasMarker := func(p AbsolutePath) bool {
		return p.DirOn(fsys).ContainsFile("go.mod", false)
	}

	found, ok := f.FindParent(hasMarker)
	require.True(t, ok)
	assert.Equal(t, "/proj", found.String())

	// a missing file never yields a parent
	ghost := MustNew("/proj/ghost.go").FileOn(fsys)
	_, ok = ghost.FindParent(hasMarker)
	assert.False(t, ok)

	_, ok = f.FindParent(func(AbsolutePath) bool { return false })
	assert.False(t, ok)
}
