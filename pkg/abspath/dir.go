package abspath

import (
	stderrors "errors"
	"io/fs"
	"path"
	"strings"

	"github.com/gammazero/toposort"

	"github.com/arthur-debert/abspath/pkg/abspath/checksum"
	"github.com/arthur-debert/abspath/pkg/abspath/errors"
	"github.com/arthur-debert/abspath/pkg/abspath/filesystem"
)

// Attributes is the attribute mask used to filter directory listings.
type Attributes uint8

const (
	// AttrReadOnly matches entries without an owner-write bit.
	AttrReadOnly Attributes = 1 << iota
	// AttrHidden matches dot-prefixed entries.
	AttrHidden
)

// Dir is the operation view over a path assumed to denote a directory.
// Like File, it is a cheap projection holding only the path value and
// the collaborator reference.
type Dir struct {
	path AbsolutePath
	fs   filesystem.FileSystem
}

// Path returns the underlying path value.
func (d Dir) Path() AbsolutePath {
	return d.path
}

// Name returns the directory name component.
func (d Dir) Name() string {
	return d.path.Name()
}

// Exists reports whether the path denotes an existing directory. It
// never fails; lookup errors read as absence.
func (d Dir) Exists() bool {
	info, err := d.fs.Stat(d.path.String())
	return err == nil && info.IsDir()
}

// Create creates the directory and any missing parents. Idempotent.
func (d Dir) Create() error {
	if err := d.fs.MkdirAll(d.path.String(), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to create %q", d.path)
	}
	return nil
}

// Remove deletes the directory tree. Read-only attributes on contained
// files are cleared first; a missing directory is a no-op.
func (d Dir) Remove() error {
	if !d.Exists() {
		return nil
	}
	files, err := d.listFiles("*", unboundedDepth, 0)
	if err != nil {
		return err
	}
	for _, f := range files {
		clearReadOnly(d.fs, f.String())
	}
	if err := d.fs.RemoveAll(d.path.String()); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %q", d.path)
	}
	logger.Debug().Str("path", d.path.String()).Msg("removed directory")
	return nil
}

// CleanAndRecreate removes the directory tree and creates it empty.
func (d Dir) CleanAndRecreate() error {
	if err := d.Remove(); err != nil {
		return err
	}
	return d.Create()
}

// unboundedDepth marks an internal traversal without a depth limit.
const unboundedDepth = -1

// Files lists files up to depth directory levels below the path.
// depth is the number of levels to descend: 0 yields an empty result,
// 1 the immediate files only. Within each level, entries are sorted
// lexicographically by full path; same-level files come before the
// depth-first descent into subdirectories.
func (d Dir) Files(pattern string, depth int, attrs Attributes) ([]AbsolutePath, error) {
	if depth < 0 {
		return nil, errors.Newf(errors.ErrInvalidPolicy, "depth must be non-negative, got %d", depth)
	}
	if depth == 0 {
		return []AbsolutePath{}, nil
	}
	return d.listFiles(pattern, depth, attrs)
}

func (d Dir) listFiles(pattern string, depth int, attrs Attributes) ([]AbsolutePath, error) {
	type frame struct {
		dir   AbsolutePath
		depth int
	}
	stack := []frame{{d.path, depth}}
	var out []AbsolutePath
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		names, err := d.fs.ListFiles(fr.dir.String(), pattern)
		if err != nil {
			return nil, wrapListErr(err, fr.dir)
		}
		for _, name := range names {
			child, err := fr.dir.Combine(name)
			if err != nil {
				return nil, err
			}
			ok, err := matchAttributes(d.fs, child, name, attrs)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, child)
			}
		}

		if fr.depth == 1 {
			continue
		}
		next := fr.depth - 1
		if fr.depth < 0 {
			next = fr.depth
		}
		subs, err := d.fs.ListDirs(fr.dir.String(), "*")
		if err != nil {
			return nil, wrapListErr(err, fr.dir)
		}
		// push reversed so the first subdirectory is processed first
		for i := len(subs) - 1; i >= 0; i-- {
			child, err := fr.dir.Combine(subs[i])
			if err != nil {
				return nil, err
			}
			stack = append(stack, frame{child, next})
		}
	}
	return out, nil
}

// Dirs returns a fresh breadth-first traversal of subdirectories:
// all matching directories of the current frontier are yielded
// (sorted), then the whole frontier advances one level. Each call
// starts a new traversal.
func (d Dir) Dirs(pattern string, depth int, attrs Attributes) *DirIter {
	it := newDirIter(d, pattern, depth, attrs)
	if depth < 0 {
		it.err = errors.Newf(errors.ErrInvalidPolicy, "depth must be non-negative, got %d", depth)
	}
	return it
}

// DirIter is a lazy level-frontier iterator over subdirectories.
type DirIter struct {
	fs       filesystem.FileSystem
	pattern  string
	attrs    Attributes
	depth    int
	frontier []AbsolutePath
	pending  []AbsolutePath
	err      error
}

func newDirIter(d Dir, pattern string, depth int, attrs Attributes) *DirIter {
	return &DirIter{
		fs:       d.fs,
		pattern:  pattern,
		attrs:    attrs,
		depth:    depth,
		frontier: []AbsolutePath{d.path},
	}
}

// Next yields the next directory. It returns false when the traversal
// is exhausted or failed; check Err afterwards.
func (it *DirIter) Next() (AbsolutePath, bool) {
	for len(it.pending) == 0 && it.err == nil && it.depth != 0 && len(it.frontier) > 0 {
		it.advance()
	}
	if it.err != nil || len(it.pending) == 0 {
		return AbsolutePath{}, false
	}
	next := it.pending[0]
	it.pending = it.pending[1:]
	return next, true
}

// Err returns the first traversal failure, if any.
func (it *DirIter) Err() error {
	return it.err
}

// Collect drains the iterator into a slice.
func (it *DirIter) Collect() ([]AbsolutePath, error) {
	var out []AbsolutePath
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, p)
	}
	if it.err != nil {
		return nil, it.err
	}
	return out, nil
}

// advance scans the whole frontier, queueing matches and building the
// next frontier from every subdirectory (the pattern filters what is
// yielded, not what is traversed).
func (it *DirIter) advance() {
	var next []AbsolutePath
	for _, dir := range it.frontier {
		names, err := it.fs.ListDirs(dir.String(), "*")
		if err != nil {
			it.err = wrapListErr(err, dir)
			return
		}
		for _, name := range names {
			child, err := dir.Combine(name)
			if err != nil {
				it.err = err
				return
			}
			next = append(next, child)
			matched, err := path.Match(it.pattern, name)
			if err != nil {
				it.err = errors.Wrapf(err, errors.ErrInvalidPolicy, "bad pattern %q", it.pattern)
				return
			}
			if !matched {
				continue
			}
			ok, err := matchAttributes(it.fs, child, name, it.attrs)
			if err != nil {
				it.err = err
				return
			}
			if ok {
				it.pending = append(it.pending, child)
			}
		}
	}
	it.frontier = next
	if it.depth > 0 {
		it.depth--
	}
}

// ContainsFile reports whether any file below the path matches
// pattern. Existence-style query: never fails.
func (d Dir) ContainsFile(pattern string, recursive bool) bool {
	depth := 1
	if recursive {
		depth = unboundedDepth
	}
	files, err := d.listFiles(pattern, depth, 0)
	return err == nil && len(files) > 0
}

// ContainsDir reports whether any subdirectory matches pattern.
func (d Dir) ContainsDir(pattern string, recursive bool) bool {
	depth := 1
	if recursive {
		depth = unboundedDepth
	}
	it := newDirIter(d, pattern, depth, 0)
	_, ok := it.Next()
	return ok
}

// Hash digests every file below the path (filtered by include, which
// may be nil) into one aggregate fingerprint. Fails with DIR_NOT_FOUND
// when the directory is absent.
func (d Dir) Hash(include func(AbsolutePath) bool) (string, error) {
	if !d.Exists() {
		return "", errors.Newf(errors.ErrDirNotFound, "directory %q does not exist", d.path)
	}
	files, err := d.listFiles("*", unboundedDepth, 0)
	if err != nil {
		return "", err
	}
	if include != nil {
		kept := files[:0]
		for _, f := range files {
			if include(f) {
				kept = append(kept, f)
			}
		}
		files = kept
	}
	return FileSetHash(d.fs, files, d.path)
}

// FileSetHash digests the given files with paths taken relative to
// this directory.
func (d Dir) FileSetHash(paths []AbsolutePath) (string, error) {
	return FileSetHash(d.fs, paths, d.path)
}

// FileSetHash digests a set of files as (relative path, content)
// pairs. Paths are deduplicated and sorted on a forward-slash
// representation relative to base, so the digest is independent of
// input order and host separator convention. Fails with
// FILE_NOT_FOUND when any listed file is missing.
func FileSetHash(fsys filesystem.FileSystem, paths []AbsolutePath, base AbsolutePath) (string, error) {
	entries := make([]checksum.Entry, 0, len(paths))
	for _, p := range paths {
		view := p.FileOn(fsys)
		if !view.Exists() {
			return "", errors.Newf(errors.ErrFileNotFound, "cannot hash missing file %q", p)
		}
		rel, err := p.RelativeTo(base)
		if err != nil {
			return "", err
		}
		entries = append(entries, checksum.Entry{
			RelPath: strings.ReplaceAll(rel, "\\", "/"),
			Path:    p.String(),
		})
	}
	return checksum.FileSet(fsys, entries)
}

// Copy recursively mirrors the directory into target, applying the
// per-item policy at every level. Exclusion predicates (ExcludeFiles,
// ExcludeDirs) prune the walk before recursing.
func (d Dir) Copy(target AbsolutePath, policy ExistsPolicy, opts ...Option) error {
	return d.mirror(target, policy, false, opts)
}

// Move is Copy followed by removal of the now-empty source tree; with
// WithDeleteRemaining the source is removed even when skipped files
// remain.
func (d Dir) Move(target AbsolutePath, policy ExistsPolicy, opts ...Option) error {
	return d.mirror(target, policy, true, opts)
}

// Rename moves the directory within its parent.
func (d Dir) Rename(newName string, policy ExistsPolicy, opts ...Option) error {
	parent, ok := d.path.Parent()
	if !ok {
		return errors.Newf(errors.ErrMalformedPath,
			"path %q has no parent to rename within", d.path)
	}
	target, err := parent.Combine(newName)
	if err != nil {
		return err
	}
	return d.Move(target, policy, opts...)
}

// RenameWith renames using a function of the current name.
func (d Dir) RenameWith(nameFn func(name string) string, policy ExistsPolicy, opts ...Option) error {
	return d.Rename(nameFn(d.path.Name()), policy, opts...)
}

// FindParentOrSelf walks from the path itself upward until pred holds.
// Returns false when the directory does not exist or nothing matches.
func (d Dir) FindParentOrSelf(pred func(AbsolutePath) bool) (AbsolutePath, bool) {
	if !d.Exists() {
		return AbsolutePath{}, false
	}
	return walkAncestors(d.path, pred, true)
}

type stepKind int

const (
	stepMkdir stepKind = iota
	stepTransfer
)

type planStep struct {
	kind stepKind
	src  AbsolutePath
	dst  AbsolutePath
}

func (d Dir) mirror(target AbsolutePath, policy ExistsPolicy, move bool, opts []Option) error {
	o := buildOptions(opts)
	if err := policy.Validate(); err != nil {
		return err
	}
	if !d.Exists() {
		return errors.Newf(errors.ErrDirNotFound, "directory %q does not exist", d.path)
	}
	if target.Equal(d.path) || d.path.IsAncestorOf(target) {
		return errors.Newf(errors.ErrInvalidTarget,
			"target %q is inside source %q", target, d.path)
	}
	if target.DirOn(d.fs).Exists() {
		if err := policy.decideDir(target.String()); err != nil {
			return err
		}
	} else if o.createParents {
		if err := ensureParent(d.fs, target); err != nil {
			return err
		}
	} else if parent, ok := target.Parent(); ok && !parent.DirOn(d.fs).Exists() {
		return errors.Newf(errors.ErrDirNotFound,
			"parent of %q does not exist", target)
	}

	steps, err := d.buildPlan(target, o)
	if err != nil {
		return err
	}
	for _, step := range steps {
		switch step.kind {
		case stepMkdir:
			if step.dst.DirOn(d.fs).Exists() {
				if err := policy.decideDir(step.dst.String()); err != nil {
					return err
				}
				continue
			}
			if err := d.fs.MkdirAll(step.dst.String(), 0o755); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to create %q", step.dst)
			}
		case stepTransfer:
			src := step.src.FileOn(d.fs)
			if _, err := src.transfer(step.dst, policy, move, []Option{WithoutParents()}); err != nil {
				return err
			}
		}
	}

	if !move {
		return nil
	}
	if o.deleteRemaining {
		return d.Remove()
	}
	d.removeEmptyTree()
	return nil
}

// buildPlan walks the source tree into mkdir and transfer steps, then
// orders them topologically so every directory is created before the
// entries inside it.
func (d Dir) buildPlan(target AbsolutePath, o opOptions) ([]planStep, error) {
	steps := map[string]planStep{target.String(): {kind: stepMkdir, src: d.path, dst: target}}
	var edges []toposort.Edge

	type pair struct{ src, dst AbsolutePath }
	stack := []pair{{d.path, target}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		files, err := d.fs.ListFiles(cur.src.String(), "*")
		if err != nil {
			return nil, wrapListErr(err, cur.src)
		}
		for _, name := range files {
			srcChild, err := cur.src.Combine(name)
			if err != nil {
				return nil, err
			}
			if o.excludeFile != nil && o.excludeFile(srcChild) {
				continue
			}
			dstChild, err := cur.dst.Combine(name)
			if err != nil {
				return nil, err
			}
			steps[dstChild.String()] = planStep{kind: stepTransfer, src: srcChild, dst: dstChild}
			edges = append(edges, toposort.Edge{cur.dst.String(), dstChild.String()})
		}

		subs, err := d.fs.ListDirs(cur.src.String(), "*")
		if err != nil {
			return nil, wrapListErr(err, cur.src)
		}
		for _, name := range subs {
			srcChild, err := cur.src.Combine(name)
			if err != nil {
				return nil, err
			}
			if o.excludeDir != nil && o.excludeDir(srcChild) {
				continue
			}
			dstChild, err := cur.dst.Combine(name)
			if err != nil {
				return nil, err
			}
			steps[dstChild.String()] = planStep{kind: stepMkdir, src: srcChild, dst: dstChild}
			edges = append(edges, toposort.Edge{cur.dst.String(), dstChild.String()})
			stack = append(stack, pair{srcChild, dstChild})
		}
	}

	if len(edges) == 0 {
		return []planStep{steps[target.String()]}, nil
	}
	sortedIDs, err := toposort.Toposort(edges)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidTarget, "copy plan for %q is cyclic", target)
	}
	ordered := make([]planStep, 0, len(steps))
	for _, idVal := range sortedIDs {
		id, ok := idVal.(string)
		if !ok {
			continue
		}
		if step, exists := steps[id]; exists {
			ordered = append(ordered, step)
		}
	}
	return ordered, nil
}

// removeEmptyTree deletes source directories bottom-up after a move.
// Directories still holding skipped or excluded entries are left in
// place (Remove on a non-empty directory fails and is ignored).
func (d Dir) removeEmptyTree() {
	dirs := []AbsolutePath{d.path}
	for i := 0; i < len(dirs); i++ {
		subs, err := d.fs.ListDirs(dirs[i].String(), "*")
		if err != nil {
			continue
		}
		for _, name := range subs {
			child, err := dirs[i].Combine(name)
			if err != nil {
				continue
			}
			dirs = append(dirs, child)
		}
	}
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = d.fs.Remove(dirs[i].String())
	}
}

func matchAttributes(fsys filesystem.FileSystem, p AbsolutePath, name string, attrs Attributes) (bool, error) {
	if attrs == 0 {
		return true, nil
	}
	if attrs&AttrHidden != 0 && !strings.HasPrefix(name, ".") {
		return false, nil
	}
	if attrs&AttrReadOnly != 0 {
		info, err := fsys.Stat(p.String())
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %q", p)
		}
		if info.Mode().Perm()&0o200 != 0 {
			return false, nil
		}
	}
	return true, nil
}

func wrapListErr(err error, dir AbsolutePath) error {
	if stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrDirNotFound, "directory %q does not exist", dir)
	}
	return errors.Wrapf(err, errors.ErrFileAccess, "failed to list %q", dir)
}
