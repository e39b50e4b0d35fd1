package abspath

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/abspath/pkg/abspath/filesystem"
)

func TestNewTestLogger_CapturesOperationEvents(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf, 2))
	defer SetLogger(DefaultLogger())

	fsys := filesystem.NewMemory()
	f := MustNew("/audit/x.txt").FileOn(fsys)
	require.NoError(t, f.WriteText("x"))
	require.NoError(t, f.Remove())

	out := buf.String()
	assert.Contains(t, out, "removed file")
	assert.Contains(t, out, "/audit/x.txt")
	assert.Contains(t, out, "lib=abspath")
}

func TestNewTestLogger_Verbosity(t *testing.T) {
	var quiet bytes.Buffer
	SetLogger(NewTestLogger(&quiet, 0))
	defer SetLogger(DefaultLogger())

	fsys := filesystem.NewMemory()
	f := MustNew("/q.txt").FileOn(fsys)
	require.NoError(t, f.WriteText("x"))
	require.NoError(t, f.Remove())

	// verbosity 0 is warn level; debug events are suppressed
	assert.Empty(t, quiet.String())
}

func TestLogLevelFromString(t *testing.T) {
	level, err := LogLevelFromString("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = LogLevelFromString("shouting")
	assert.Error(t, err)
}
