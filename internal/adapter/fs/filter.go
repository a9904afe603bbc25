package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// Source is anything that yields file paths one at a time.
type Source interface {
	Next() (string, bool)
}

// NormalizeExt turns "txt" or ".txt" into ".txt". An empty string stays
// empty, meaning no filter.
func NormalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// MatchExt reports whether path has extension ext, ignoring case.
func MatchExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// ExtFilter passes through only the paths whose extension matches.
type ExtFilter struct {
	src Source
	ext string
}

// FilterExt wraps src. With an empty ext it returns src unchanged.
func FilterExt(src Source, ext string) Source {
	ext = NormalizeExt(ext)
	if ext == "" {
		return src
	}
	return &ExtFilter{src: src, ext: ext}
}

func (f *ExtFilter) Next() (string, bool) {
	for {
		path, ok := f.src.Next()
		if !ok {
			return "", false
		}
		if MatchExt(path, f.ext) {
			return path, true
		}
	}
}

// IsDir reports whether path exists and is a directory, following symlinks.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Exists reports whether anything exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Resolve returns the canonical form of an existing directory.
func Resolve(dir string) (string, error) {
	canon, _, err := canonical(dir)
	return canon, err
}
