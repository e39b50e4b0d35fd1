package abspath

import (
	"runtime"

	"golang.org/x/text/encoding"

	"github.com/arthur-debert/abspath/pkg/abspath/filesystem"
)

// LineBreak selects the line terminator used when joining lines.
type LineBreak int

const (
	// LineBreakNative uses the host platform's terminator.
	LineBreakNative LineBreak = iota
	// LineBreakUnix uses "\n".
	LineBreakUnix
	// LineBreakWindows uses "\r\n".
	LineBreakWindows
)

// Terminator returns the terminator string for lb.
func (lb LineBreak) Terminator() string {
	switch lb {
	case LineBreakUnix:
		return "\n"
	case LineBreakWindows:
		return "\r\n"
	default:
		if runtime.GOOS == "windows" {
			return "\r\n"
		}
		return "\n"
	}
}

// Defaults holds the process-wide default values read by file
// operations at call time. A nil Encoding means UTF-8 pass-through.
type Defaults struct {
	Encoding     encoding.Encoding
	LineBreak    LineBreak
	EOFLineBreak bool
}

var (
	currentDefaults = Defaults{LineBreak: LineBreakNative, EOFLineBreak: true}
	defaultFS       = filesystem.NewOS()
)

// CurrentDefaults returns the process-wide defaults.
func CurrentDefaults() Defaults {
	return currentDefaults
}

// SetDefaults replaces the process-wide defaults. Not safe for
// concurrent use; intended as one-time startup configuration.
func SetDefaults(d Defaults) {
	currentDefaults = d
}

// DefaultFileSystem returns the filesystem collaborator used by the
// File() and Dir() convenience views.
func DefaultFileSystem() filesystem.FileSystem {
	return defaultFS
}

// SetDefaultFileSystem replaces the default collaborator. Same
// startup-only caveat as SetDefaults.
func SetDefaultFileSystem(fsys filesystem.FileSystem) {
	defaultFS = fsys
}
