package fs

import (
	"errors"
	"os"
	"path/filepath"
)

// Outcome classifies the result of a single filesystem probe.
type Outcome int

const (
	Ok Outcome = iota
	PermissionDenied
	NotFound
	Other
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case PermissionDenied:
		return "permission denied"
	case NotFound:
		return "not found"
	default:
		return "error"
	}
}

// classify maps an error from the os package onto an Outcome.
func classify(err error) Outcome {
	switch {
	case err == nil:
		return Ok
	case errors.Is(err, os.ErrPermission):
		return PermissionDenied
	case errors.Is(err, os.ErrNotExist):
		return NotFound
	default:
		return Other
	}
}

// SkipReason tells an OnSkip callback why a directory was not traversed.
type SkipReason int

const (
	SkipProbeFailed SkipReason = iota
	SkipSymlink
	SkipVisited
	SkipDepth
	SkipExcluded
)

func (r SkipReason) String() string {
	switch r {
	case SkipProbeFailed:
		return "probe failed"
	case SkipSymlink:
		return "symlink"
	case SkipVisited:
		return "already visited"
	case SkipDepth:
		return "beyond max depth"
	case SkipExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// Skip describes a directory the walker declined to traverse.
type Skip struct {
	Path    string
	Reason  SkipReason
	Outcome Outcome
	Err     error
}

// lstat returns the entry's own metadata without following a trailing symlink.
func lstat(path string) (os.FileInfo, Outcome, error) {
	info, err := os.Lstat(path)
	return info, classify(err), err
}

// canonical returns the absolute, symlink-free form of path.
func canonical(path string) (string, Outcome, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", classify(err), err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", classify(err), err
	}
	return filepath.Clean(resolved), Ok, nil
}

// readDirFn is replaced in tests to simulate unreadable directories.
var readDirFn = os.ReadDir

// readDir lists a directory once. Entries come back sorted by name.
func readDir(path string) ([]os.DirEntry, Outcome, error) {
	entries, err := readDirFn(path)
	if err != nil {
		return nil, classify(err), err
	}
	return entries, Ok, nil
}
