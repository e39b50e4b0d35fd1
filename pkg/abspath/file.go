package abspath

import (
	"strings"
	"time"

	"golang.org/x/text/encoding"

	"github.com/arthur-debert/abspath/pkg/abspath/checksum"
	"github.com/arthur-debert/abspath/pkg/abspath/errors"
	"github.com/arthur-debert/abspath/pkg/abspath/filesystem"
)

// File is the operation view over a path assumed to denote a file. It
// is a cheap projection: it holds the path value and collaborator
// references, never the reverse. The With* methods derive a view with
// adjusted text settings without touching the process defaults.
type File struct {
	path AbsolutePath
	fs   filesystem.FileSystem
	cfg  Defaults
}

// Path returns the underlying path value.
func (f File) Path() AbsolutePath {
	return f.path
}

// Name returns the file name component.
func (f File) Name() string {
	return f.path.Name()
}

// WithEncoding derives a view using enc for text decoding and encoding.
func (f File) WithEncoding(enc encoding.Encoding) File {
	f.cfg.Encoding = enc
	return f
}

// WithLineBreak derives a view using lb when joining lines.
func (f File) WithLineBreak(lb LineBreak) File {
	f.cfg.LineBreak = lb
	return f
}

// WithEOFLineBreak derives a view with end-of-file line-break
// normalization switched on or off.
func (f File) WithEOFLineBreak(on bool) File {
	f.cfg.EOFLineBreak = on
	return f
}

// Exists reports whether the path denotes an existing file. It never
// fails; lookup errors read as absence.
func (f File) Exists() bool {
	info, err := f.fs.Stat(f.path.String())
	return err == nil && !info.IsDir()
}

// Touch creates the file if absent and stamps its last-write time with
// the current time. Missing parents are created unless WithoutParents
// is given.
func (f File) Touch(opts ...Option) error {
	return f.TouchAt(time.Now(), opts...)
}

// TouchAt is Touch with an explicit timestamp.
func (f File) TouchAt(t time.Time, opts ...Option) error {
	o := buildOptions(opts)
	if o.createParents {
		if err := ensureParent(f.fs, f.path); err != nil {
			return err
		}
	}
	if !f.Exists() {
		if err := f.fs.WriteFile(f.path.String(), nil, 0o644); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to create %q", f.path)
		}
	}
	if err := f.fs.Chtimes(f.path.String(), t); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to set time on %q", f.path)
	}
	return nil
}

// Remove deletes the file, clearing a read-only attribute first. A
// missing file is a no-op.
func (f File) Remove() error {
	if !f.Exists() {
		return nil
	}
	clearReadOnly(f.fs, f.path.String())
	if err := f.fs.Remove(f.path.String()); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %q", f.path)
	}
	logger.Debug().Str("path", f.path.String()).Msg("removed file")
	return nil
}

// ReadBytes returns the raw content. Fails with FILE_NOT_FOUND when
// the file is absent.
func (f File) ReadBytes() ([]byte, error) {
	if !f.Exists() {
		return nil, errors.Newf(errors.ErrFileNotFound, "file %q does not exist", f.path)
	}
	data, err := f.fs.ReadFile(f.path.String())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %q", f.path)
	}
	return data, nil
}

// ReadText returns the decoded content.
func (f File) ReadText() (string, error) {
	data, err := f.ReadBytes()
	if err != nil {
		return "", err
	}
	return f.decode(data)
}

// ReadLines returns the decoded content split into lines. Both CRLF
// and LF terminators are recognized; a trailing terminator does not
// produce a final empty line.
func (f File) ReadLines() ([]string, error) {
	text, err := f.ReadText()
	if err != nil {
		return nil, err
	}
	if text == "" {
		return []string{}, nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// WriteBytes writes raw content, creating missing parents.
func (f File) WriteBytes(data []byte) error {
	if err := ensureParent(f.fs, f.path); err != nil {
		return err
	}
	if err := f.fs.WriteFile(f.path.String(), data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %q", f.path)
	}
	return nil
}

// WriteText writes content. When end-of-file normalization is on (the
// default), existing trailing line terminators are stripped and exactly
// one terminator is appended, matching whichever style (CRLF vs LF) the
// content already uses, defaulting to LF.
func (f File) WriteText(content string) error {
	if f.cfg.EOFLineBreak {
		term := "\n"
		if strings.Contains(content, "\r\n") {
			term = "\r\n"
		}
		content = strings.TrimRight(content, "\r\n") + term
	}
	return f.writeVerbatim(content)
}

// WriteLines joins lines with the view's line terminator and writes
// the result verbatim. When end-of-file normalization is on, one
// trailing terminator is appended.
func (f File) WriteLines(lines []string) error {
	term := f.cfg.LineBreak.Terminator()
	joined := strings.Join(lines, term)
	if f.cfg.EOFLineBreak && len(lines) > 0 {
		joined += term
	}
	return f.writeVerbatim(joined)
}

// AppendText appends text without any terminator normalization,
// creating missing parents.
func (f File) AppendText(text string) error {
	data, err := f.encode(text)
	if err != nil {
		return err
	}
	if err := ensureParent(f.fs, f.path); err != nil {
		return err
	}
	if err := f.fs.AppendFile(f.path.String(), data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to append to %q", f.path)
	}
	return nil
}

// AppendLines appends each line followed by the view's terminator.
func (f File) AppendLines(lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	term := f.cfg.LineBreak.Terminator()
	return f.AppendText(strings.Join(lines, term) + term)
}

// UpdateText reads the current text, applies transform, and writes the
// result back. Read-modify-write; not atomic.
func (f File) UpdateText(transform func(string) string) error {
	text, err := f.ReadText()
	if err != nil {
		return err
	}
	return f.WriteText(transform(text))
}

// Hash streams the file content through the 128-bit digest and returns
// lower-case hex. Fails with FILE_NOT_FOUND when the file is absent.
func (f File) Hash() (string, error) {
	if !f.Exists() {
		return "", errors.Newf(errors.ErrFileNotFound, "cannot hash missing file %q", f.path)
	}
	return checksum.File(f.fs, f.path.String())
}

// HasExtension reports whether the file name ends with any of the
// candidate extensions, case-insensitively. A leading dot is optional.
func (f File) HasExtension(ext string, alternatives ...string) bool {
	name := strings.ToLower(f.path.Name())
	for _, candidate := range append([]string{ext}, alternatives...) {
		c := strings.ToLower(candidate)
		if !strings.HasPrefix(c, ".") {
			c = "." + c
		}
		if strings.HasSuffix(name, c) {
			return true
		}
	}
	return false
}

// WithExtension returns the sibling path with the extension changed.
// The second return is false when the path has no parent.
func (f File) WithExtension(ext string) (AbsolutePath, bool) {
	parent, ok := f.path.Parent()
	if !ok {
		return AbsolutePath{}, false
	}
	stem, _ := splitExt(f.path.Name())
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	sibling, err := parent.Combine(stem + ext)
	if err != nil {
		return AbsolutePath{}, false
	}
	return sibling, true
}

// Move moves the file to target, resolving an existing target via the
// file bits of policy. On a skipped move the original path is
// returned; when overwrite-if-newer declines, the target path is
// returned and nothing is written.
func (f File) Move(target AbsolutePath, policy ExistsPolicy, opts ...Option) (AbsolutePath, error) {
	return f.transfer(target, policy, true, opts)
}

// Copy copies the file to target under the same conflict rules as Move.
func (f File) Copy(target AbsolutePath, policy ExistsPolicy, opts ...Option) (AbsolutePath, error) {
	return f.transfer(target, policy, false, opts)
}

// MoveTo moves the file into targetDir, keeping its name.
func (f File) MoveTo(targetDir AbsolutePath, policy ExistsPolicy, opts ...Option) (AbsolutePath, error) {
	target, err := targetDir.Combine(f.path.Name())
	if err != nil {
		return AbsolutePath{}, err
	}
	return f.Move(target, policy, opts...)
}

// CopyTo copies the file into targetDir, keeping its name.
func (f File) CopyTo(targetDir AbsolutePath, policy ExistsPolicy, opts ...Option) (AbsolutePath, error) {
	target, err := targetDir.Combine(f.path.Name())
	if err != nil {
		return AbsolutePath{}, err
	}
	return f.Copy(target, policy, opts...)
}

// Rename moves the file within its parent directory.
func (f File) Rename(newName string, policy ExistsPolicy, opts ...Option) (AbsolutePath, error) {
	parent, ok := f.path.Parent()
	if !ok {
		return AbsolutePath{}, errors.Newf(errors.ErrMalformedPath,
			"path %q has no parent to rename within", f.path)
	}
	target, err := parent.Combine(newName)
	if err != nil {
		return AbsolutePath{}, err
	}
	return f.Move(target, policy, opts...)
}

// RenameWith renames using a function of the current name.
func (f File) RenameWith(nameFn func(name string) string, policy ExistsPolicy, opts ...Option) (AbsolutePath, error) {
	return f.Rename(nameFn(f.path.Name()), policy, opts...)
}

// RenameWithoutExtension renames the stem, re-appending the original
// extension.
func (f File) RenameWithoutExtension(newStem string, policy ExistsPolicy, opts ...Option) (AbsolutePath, error) {
	_, ext := splitExt(f.path.Name())
	return f.Rename(newStem+ext, policy, opts...)
}

// FindParent walks the ancestors of the path, nearest first, until
// pred holds. It returns false when the file itself does not exist or
// no ancestor matches; reaching the root terminates the walk.
func (f File) FindParent(pred func(AbsolutePath) bool) (AbsolutePath, bool) {
	if !f.Exists() {
		return AbsolutePath{}, false
	}
	return walkAncestors(f.path, pred, false)
}

// FindParentOrSelf is FindParent, but the path itself is tested first.
func (f File) FindParentOrSelf(pred func(AbsolutePath) bool) (AbsolutePath, bool) {
	if !f.Exists() {
		return AbsolutePath{}, false
	}
	return walkAncestors(f.path, pred, true)
}

func (f File) transfer(target AbsolutePath, policy ExistsPolicy, move bool, opts []Option) (AbsolutePath, error) {
	o := buildOptions(opts)
	if err := policy.Validate(); err != nil {
		return AbsolutePath{}, err
	}
	targetView := target.FileOn(f.fs)
	if targetView.Exists() {
		proceed, err := fileConflict(f.fs, policy, f.path, target)
		if err != nil {
			return AbsolutePath{}, err
		}
		if !proceed {
			if policy.Has(FileSkip) {
				return f.path, nil
			}
			return target, nil
		}
		if move {
			if err := targetView.Remove(); err != nil {
				return AbsolutePath{}, err
			}
		}
	}
	if o.createParents {
		if err := ensureParent(f.fs, target); err != nil {
			return AbsolutePath{}, err
		}
	}
	op := "copy"
	if move {
		op = "move"
	}
	var err error
	if move {
		err = f.fs.Rename(f.path.String(), target.String())
	} else {
		err = f.fs.CopyFile(f.path.String(), target.String())
	}
	if err != nil {
		return AbsolutePath{}, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to %s %q to %q", op, f.path, target)
	}
	logger.Debug().Str("src", f.path.String()).Str("dst", target.String()).Msg(op)
	return target, nil
}

func (f File) decode(data []byte) (string, error) {
	if f.cfg.Encoding == nil {
		return string(data), nil
	}
	out, err := f.cfg.Encoding.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to decode %q", f.path)
	}
	return string(out), nil
}

func (f File) encode(text string) ([]byte, error) {
	if f.cfg.Encoding == nil {
		return []byte(text), nil
	}
	out, err := f.cfg.Encoding.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to encode for %q", f.path)
	}
	return out, nil
}

func (f File) writeVerbatim(content string) error {
	data, err := f.encode(content)
	if err != nil {
		return err
	}
	return f.WriteBytes(data)
}

// fileConflict evaluates the file policy bits for an existing target.
// Modification times are only consulted for overwrite-if-newer.
func fileConflict(fsys filesystem.FileSystem, policy ExistsPolicy, src, dst AbsolutePath) (bool, error) {
	var srcTime, dstTime time.Time
	if policy.Has(FileOverwriteIfNewer) {
		srcInfo, err := fsys.Stat(src.String())
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrFileNotFound, "source %q does not exist", src)
		}
		dstInfo, err := fsys.Stat(dst.String())
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %q", dst)
		}
		srcTime, dstTime = srcInfo.ModTime(), dstInfo.ModTime()
	}
	return policy.decideFile(dst.String(), srcTime, dstTime)
}

func ensureParent(fsys filesystem.FileSystem, p AbsolutePath) error {
	parent, ok := p.Parent()
	if !ok {
		return nil
	}
	if err := fsys.MkdirAll(parent.String(), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to create parents of %q", p)
	}
	return nil
}

// clearReadOnly restores the owner-write bit so a subsequent delete
// succeeds. Lookup failures are ignored; the delete will surface them.
func clearReadOnly(fsys filesystem.FileSystem, path string) {
	info, err := fsys.Stat(path)
	if err != nil {
		return
	}
	if info.Mode().Perm()&0o200 == 0 {
		_ = fsys.Chmod(path, info.Mode().Perm()|0o200)
	}
}

// splitExt splits a file name into stem and extension (including the
// dot). A leading dot alone is not an extension.
func splitExt(name string) (string, string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}

// walkAncestors tests pred against the path (when includeSelf) and
// each ancestor up to and including the root.
func walkAncestors(p AbsolutePath, pred func(AbsolutePath) bool, includeSelf bool) (AbsolutePath, bool) {
	if includeSelf && pred(p) {
		return p, true
	}
	cur, ok := p.Parent()
	for ok {
		if pred(cur) {
			return cur, true
		}
		cur, ok = cur.Parent()
	}
	return AbsolutePath{}, false
}
