package abspath

// Option tunes a move, copy, or touch operation.
type Option func(*opOptions)

type opOptions struct {
	createParents   bool
	deleteRemaining bool
	excludeFile     func(AbsolutePath) bool
	excludeDir      func(AbsolutePath) bool
}

func buildOptions(opts []Option) opOptions {
	o := opOptions{createParents: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithoutParents disables the implicit creation of missing parent
// directories (on by default).
func WithoutParents() Option {
	return func(o *opOptions) { o.createParents = false }
}

// WithDeleteRemaining forces removal of the source tree after a
// directory move, even when skipped files remain in it.
func WithDeleteRemaining() Option {
	return func(o *opOptions) { o.deleteRemaining = true }
}

// ExcludeFiles skips files matching the predicate during a directory
// copy or move.
func ExcludeFiles(pred func(AbsolutePath) bool) Option {
	return func(o *opOptions) { o.excludeFile = pred }
}

// ExcludeDirs skips whole subtrees whose directory matches the
// predicate during a directory copy or move.
func ExcludeDirs(pred func(AbsolutePath) bool) Option {
	return func(o *opOptions) { o.excludeDir = pred }
}
