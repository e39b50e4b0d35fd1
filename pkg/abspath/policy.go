package abspath

import (
	"time"

	"github.com/arthur-debert/abspath/pkg/abspath/errors"
)

// ExistsPolicy directs move and copy operations when their target
// already exists. It is a bitset over two independent axes: the
// directory axis (fail or merge) and the file axis (fail, skip,
// overwrite, or overwrite-if-newer). Exactly one bit per axis must be
// set when a policy is used.
type ExistsPolicy uint8

const (
	// DirFail raises ALREADY_EXISTS when a target directory pre-exists.
	DirFail ExistsPolicy = 1 << iota
	// DirMerge proceeds into a pre-existing target directory.
	DirMerge
	// FileFail raises ALREADY_EXISTS when a target file pre-exists.
	FileFail
	// FileSkip silently skips an item whose target pre-exists.
	FileSkip
	// FileOverwrite replaces a pre-existing target unconditionally.
	FileOverwrite
	// FileOverwriteIfNewer replaces a pre-existing target only when its
	// last-write time (UTC) is strictly earlier than the source's.
	FileOverwriteIfNewer
)

// Composite presets.
const (
	Fail                     = DirFail | FileFail
	MergeAndSkip             = DirMerge | FileSkip
	MergeAndOverwrite        = DirMerge | FileOverwrite
	MergeAndOverwriteIfNewer = DirMerge | FileOverwriteIfNewer
)

const (
	dirBits  = DirFail | DirMerge
	fileBits = FileFail | FileSkip | FileOverwrite | FileOverwriteIfNewer
)

func bitCount(p ExistsPolicy) int {
	n := 0
	for p != 0 {
		p &= p - 1
		n++
	}
	return n
}

// Validate checks that exactly one bit is set on each axis.
func (p ExistsPolicy) Validate() error {
	if bitCount(p&dirBits) != 1 {
		return errors.Newf(errors.ErrInvalidPolicy,
			"policy %08b must carry exactly one directory bit", uint8(p))
	}
	if bitCount(p&fileBits) != 1 {
		return errors.Newf(errors.ErrInvalidPolicy,
			"policy %08b must carry exactly one file bit", uint8(p))
	}
	return nil
}

// Has reports whether all bits of flag are set.
func (p ExistsPolicy) Has(flag ExistsPolicy) bool {
	return p&flag == flag
}

// decideFile evaluates the file axis for an existing target. proceed
// is false when the operation should be skipped without error; the
// times are only consulted for FileOverwriteIfNewer.
func (p ExistsPolicy) decideFile(target string, srcTime, dstTime time.Time) (bool, error) {
	switch {
	case p.Has(FileFail):
		return false, errors.Newf(errors.ErrAlreadyExists, "target %q already exists", target)
	case p.Has(FileSkip):
		return false, nil
	case p.Has(FileOverwrite):
		return true, nil
	case p.Has(FileOverwriteIfNewer):
		return dstTime.UTC().Before(srcTime.UTC()), nil
	default:
		return false, errors.Newf(errors.ErrInvalidPolicy,
			"policy %08b carries no file bit", uint8(p))
	}
}

// decideDir evaluates the directory axis for an existing target.
func (p ExistsPolicy) decideDir(target string) error {
	if p.Has(DirMerge) {
		return nil
	}
	return errors.Newf(errors.ErrAlreadyExists, "directory %q already exists", target)
}
