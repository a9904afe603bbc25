package port

// FileStream is a pull-based sequence of file paths.
type FileStream interface {
	Next() (string, bool)

	// Skipped reports how many directories were not traversed so far.
	Skipped() int
}

type WalkOptions struct {
	Pattern  string
	MaxDepth int
	Includes []string
	Excludes []string

	// OnSkip is called for every directory that is not traversed. reason is
	// a short human readable cause.
	OnSkip func(path, reason string, err error)
}

type FileWalker interface {
	Walk(root string, opts WalkOptions) FileStream
}
