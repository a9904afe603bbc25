package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"drvx/internal/port"
)

// DefaultMaxDepth is used when the caller does not pick a depth.
const DefaultMaxDepth = 20

// Walker lists files below a root directory without following symlinks,
// never visiting the same directory twice and never descending deeper than
// maxDepth levels.
type Walker struct {
	pattern  string
	maxDepth int
	includes []string
	excludes []string
	onSkip   func(Skip)
}

// NewWalker creates a walker. pattern is matched against file base names
// ("" or "*" keeps everything). includes and excludes are doublestar
// patterns matched against paths relative to the walk root; an exclude that
// matches "dir/" prunes that directory.
func NewWalker(pattern string, maxDepth int, includes, excludes []string) *Walker {
	if pattern == "" {
		pattern = "*"
	}
	return &Walker{
		pattern:  pattern,
		maxDepth: maxDepth,
		includes: includes,
		excludes: excludes,
	}
}

// OnSkip registers a callback invoked for every directory the walker does
// not traverse. It is purely diagnostic.
func (w *Walker) OnSkip(fn func(Skip)) *Walker {
	w.onSkip = fn
	return w
}

// MaxDepth returns the configured depth bound.
func (w *Walker) MaxDepth() int {
	return w.maxDepth
}

type frame struct {
	dir   string
	depth int
}

// Iterator is a pull-based sequence of file paths produced by Walk. It is
// not safe for concurrent use.
type Iterator struct {
	w       *Walker
	root    string
	stack   []frame
	visited map[string]struct{}
	pending []string
	skipped int
}

// Walk starts a walk at root. Nothing is read until Next is called.
func (w *Walker) Walk(root string) *Iterator {
	it := &Iterator{
		w:       w,
		visited: make(map[string]struct{}),
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		it.skip(Skip{Path: root, Reason: SkipProbeFailed, Outcome: classify(err), Err: err})
		return it
	}
	it.root = abs
	it.stack = append(it.stack, frame{dir: abs, depth: 0})
	return it
}

// Collect drains a fresh walk of root into a slice.
func (w *Walker) Collect(root string) []string {
	var files []string
	it := w.Walk(root)
	for {
		path, ok := it.Next()
		if !ok {
			return files
		}
		files = append(files, path)
	}
}

// Next returns the next file path. Each call either hands out a file
// already read from the current directory or reads the next directory on
// the stack. It returns false once the walk is exhausted.
func (it *Iterator) Next() (string, bool) {
	for {
		if len(it.pending) > 0 {
			path := it.pending[0]
			it.pending = it.pending[1:]
			return path, true
		}
		if len(it.stack) == 0 {
			return "", false
		}
		top := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		it.visit(top)
	}
}

// Skipped reports how many directories have been skipped so far.
func (it *Iterator) Skipped() int {
	return it.skipped
}

// Root returns the absolute root of the walk.
func (it *Iterator) Root() string {
	return it.root
}

func (it *Iterator) skip(s Skip) {
	it.skipped++
	if it.w.onSkip != nil {
		it.w.onSkip(s)
	}
}

func (it *Iterator) visit(f frame) {
	if f.depth > it.w.maxDepth {
		it.skip(Skip{Path: f.dir, Reason: SkipDepth, Outcome: Ok})
		return
	}

	info, outcome, err := lstat(f.dir)
	if outcome != Ok {
		it.skip(Skip{Path: f.dir, Reason: SkipProbeFailed, Outcome: outcome, Err: err})
		return
	}
	if info.Mode()&os.ModeSymlink != 0 {
		it.skip(Skip{Path: f.dir, Reason: SkipSymlink, Outcome: Ok})
		return
	}
	if !info.IsDir() {
		it.skip(Skip{Path: f.dir, Reason: SkipProbeFailed, Outcome: Other, Err: fmt.Errorf("not a directory: %s", f.dir)})
		return
	}

	canon, outcome, err := canonical(f.dir)
	if outcome != Ok {
		it.skip(Skip{Path: f.dir, Reason: SkipProbeFailed, Outcome: outcome, Err: err})
		return
	}
	if _, seen := it.visited[canon]; seen {
		it.skip(Skip{Path: f.dir, Reason: SkipVisited, Outcome: Ok})
		return
	}
	it.visited[canon] = struct{}{}

	entries, outcome, err := readDir(f.dir)
	if outcome != Ok {
		it.skip(Skip{Path: f.dir, Reason: SkipProbeFailed, Outcome: outcome, Err: err})
		return
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(f.dir, entry.Name())
		if entry.IsDir() || (entry.Type()&os.ModeSymlink != 0 && pointsToDir(path)) {
			subdirs = append(subdirs, path)
			continue
		}
		if it.keepFile(entry.Name(), path) {
			it.pending = append(it.pending, path)
		}
	}

	if f.depth+1 > it.w.maxDepth {
		return
	}
	for _, dir := range subdirs {
		if it.excludedDir(dir) {
			it.skip(Skip{Path: dir, Reason: SkipExcluded, Outcome: Ok})
			continue
		}
		it.stack = append(it.stack, frame{dir: dir, depth: f.depth + 1})
	}
}

// pointsToDir reports whether a symlink resolves to a directory. Such links
// are pushed like directories so the skip is visible to OnSkip.
func pointsToDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (it *Iterator) keepFile(name, path string) bool {
	if matched, err := doublestar.Match(it.w.pattern, name); err != nil || !matched {
		return false
	}
	if len(it.w.includes) == 0 && len(it.w.excludes) == 0 {
		return true
	}
	rel, err := filepath.Rel(it.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if len(it.w.includes) > 0 && !matchAny(it.w.includes, rel) {
		return false
	}
	return !matchAny(it.w.excludes, rel)
}

func (it *Iterator) excludedDir(dir string) bool {
	if len(it.w.excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(it.root, dir)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return matchAny(it.w.excludes, rel+"/") || matchAny(it.w.excludes, rel)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// ValidPattern reports whether pattern is a well-formed glob.
func ValidPattern(pattern string) bool {
	return doublestar.ValidatePattern(pattern)
}

var _ port.FileWalker = TreeWalker{}

// TreeWalker adapts Walker to port.FileWalker.
type TreeWalker struct{}

func (TreeWalker) Walk(root string, opts port.WalkOptions) port.FileStream {
	w := NewWalker(opts.Pattern, opts.MaxDepth, opts.Includes, opts.Excludes)
	if opts.OnSkip != nil {
		w.OnSkip(func(s Skip) {
			reason := s.Reason.String()
			if s.Err != nil {
				reason = s.Outcome.String()
			}
			opts.OnSkip(s.Path, reason, s.Err)
		})
	}
	return w.Walk(root)
}
