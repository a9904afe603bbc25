package fs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drvx/internal/port"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0644))
	}
}

func relSorted(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		require.True(t, filepath.IsAbs(p), "expected absolute path, got %s", p)
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestWalk_DepthBound(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "top.txt", "b/mid.txt", "b/c/file.txt")

	got := relSorted(t, root, NewWalker("*", 1, nil, nil).Collect(root))
	assert.Equal(t, []string{"b/mid.txt", "top.txt"}, got)

	got = relSorted(t, root, NewWalker("*", 2, nil, nil).Collect(root))
	assert.Equal(t, []string{"b/c/file.txt", "b/mid.txt", "top.txt"}, got)
}

func TestWalk_DepthZeroListsRootOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/b.txt")

	got := relSorted(t, root, NewWalker("*", 0, nil, nil).Collect(root))
	assert.Equal(t, []string{"a.txt"}, got)
}

func TestWalk_NegativeDepthYieldsNothing(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt")

	assert.Empty(t, NewWalker("*", -1, nil, nil).Collect(root))
}

func TestWalk_SymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/b/deep.txt", "a/top.txt")
	require.NoError(t, os.Symlink(root, filepath.Join(root, "a", "b", "loop")))

	var skips []Skip
	w := NewWalker("*", DefaultMaxDepth, nil, nil).OnSkip(func(s Skip) {
		skips = append(skips, s)
	})

	got := relSorted(t, root, w.Collect(root))
	assert.Equal(t, []string{"a/b/deep.txt", "a/top.txt"}, got)

	require.Len(t, skips, 1)
	assert.Equal(t, SkipSymlink, skips[0].Reason)
	assert.Equal(t, filepath.Join(root, "a", "b", "loop"), skips[0].Path)
}

func TestWalk_FileSymlinkIsListed(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "real.txt")
	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))

	got := relSorted(t, root, NewWalker("*", DefaultMaxDepth, nil, nil).Collect(root))
	assert.Equal(t, []string{"link.txt", "real.txt"}, got)
}

func TestWalk_CompleteOnCleanTree(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"1.txt",
		"x/2.go",
		"x/y/3.md",
		"x/y/z/4",
		"p/q/5.txt",
		"p/6.txt",
	}
	writeTree(t, root, files...)

	got := relSorted(t, root, NewWalker("", DefaultMaxDepth, nil, nil).Collect(root))
	want := append([]string(nil), files...)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestWalk_UnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	writeTree(t, root, "locked/secret.txt", "open/a.txt", "open/deeper/b.txt", "c.txt")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	var skips []Skip
	w := NewWalker("*", DefaultMaxDepth, nil, nil).OnSkip(func(s Skip) {
		skips = append(skips, s)
	})

	got := relSorted(t, root, w.Collect(root))
	assert.Equal(t, []string{"c.txt", "open/a.txt", "open/deeper/b.txt"}, got)

	require.Len(t, skips, 1)
	assert.Equal(t, locked, skips[0].Path)
	assert.Equal(t, PermissionDenied, skips[0].Outcome)
}

func denyReadDir(t *testing.T, denied ...string) {
	t.Helper()
	orig := readDirFn
	readDirFn = func(path string) ([]os.DirEntry, error) {
		for _, d := range denied {
			if path == d {
				return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrPermission}
			}
		}
		return orig(path)
	}
	t.Cleanup(func() { readDirFn = orig })
}

func TestWalk_DeniedDirectoryKeepsSiblings(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a/one.txt", "a/inner/two.txt",
		"locked/secret.txt", "locked/sub/more.txt",
		"z/three.txt", "z/deep/er/four.txt",
		"top.txt",
	)
	locked := filepath.Join(root, "locked")
	denyReadDir(t, locked, filepath.Join(root, "z", "deep", "er"))

	var skips []Skip
	w := NewWalker("*", DefaultMaxDepth, nil, nil).OnSkip(func(s Skip) {
		skips = append(skips, s)
	})

	got := relSorted(t, root, w.Collect(root))
	assert.Equal(t, []string{"a/inner/two.txt", "a/one.txt", "top.txt", "z/three.txt"}, got)

	require.Len(t, skips, 2)
	for _, s := range skips {
		assert.Equal(t, SkipProbeFailed, s.Reason)
		assert.Equal(t, PermissionDenied, s.Outcome)
		assert.ErrorIs(t, s.Err, os.ErrPermission)
	}
	assert.ElementsMatch(t, []string{locked, filepath.Join(root, "z", "deep", "er")}, []string{skips[0].Path, skips[1].Path})
}

func TestWalk_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "b/c.txt", "b/d/e.txt")

	w := NewWalker("*", DefaultMaxDepth, nil, nil)
	first := relSorted(t, root, w.Collect(root))
	second := relSorted(t, root, w.Collect(root))
	assert.Equal(t, first, second)
}

func TestWalk_PatternMatchesBaseName(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.log", "b.txt", "sub/c.log")

	got := relSorted(t, root, NewWalker("*.log", DefaultMaxDepth, nil, nil).Collect(root))
	assert.Equal(t, []string{"a.log", "sub/c.log"}, got)
}

func TestWalk_ExcludesPruneDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "keep.txt", "node_modules/pkg/index.js", "src/main.go", "src/main.min.js")

	var skips []Skip
	w := NewWalker("*", DefaultMaxDepth, nil, []string{"**/node_modules/**", "**/*.min.js"}).OnSkip(func(s Skip) {
		skips = append(skips, s)
	})

	got := relSorted(t, root, w.Collect(root))
	assert.Equal(t, []string{"keep.txt", "src/main.go"}, got)
	require.Len(t, skips, 1)
	assert.Equal(t, SkipExcluded, skips[0].Reason)
}

func TestWalk_Includes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "docs/a.md", "src/b.go", "c.md")

	got := relSorted(t, root, NewWalker("*", DefaultMaxDepth, []string{"docs/**"}, nil).Collect(root))
	assert.Equal(t, []string{"docs/a.md"}, got)
}

func TestWalk_EarlyStop(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "b.txt", "c/d.txt")

	it := NewWalker("*", DefaultMaxDepth, nil, nil).Walk(root)
	first, ok := it.Next()
	require.True(t, ok)
	assert.FileExists(t, first)
	// The subdirectory has not been read yet.
	assert.Len(t, it.stack, 1)
}

func TestWalk_MissingRoot(t *testing.T) {
	var skips []Skip
	w := NewWalker("*", DefaultMaxDepth, nil, nil).OnSkip(func(s Skip) {
		skips = append(skips, s)
	})

	assert.Empty(t, w.Collect(filepath.Join(t.TempDir(), "missing")))
	require.Len(t, skips, 1)
	assert.Equal(t, NotFound, skips[0].Outcome)
}

func TestTreeWalker(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "locked/b.txt", "sub/c.txt")
	require.NoError(t, os.Symlink(filepath.Join(root, "sub"), filepath.Join(root, "link")))
	denyReadDir(t, filepath.Join(root, "locked"))

	reasons := map[string]string{}
	stream := TreeWalker{}.Walk(root, port.WalkOptions{
		Pattern:  "*.txt",
		MaxDepth: DefaultMaxDepth,
		OnSkip: func(path, reason string, err error) {
			reasons[filepath.Base(path)] = reason
		},
	})

	var got []string
	for {
		p, ok := stream.Next()
		if !ok {
			break
		}
		got = append(got, p)
	}
	assert.Equal(t, []string{"a.txt", "sub/c.txt"}, relSorted(t, root, got))
	assert.Equal(t, 2, stream.Skipped())
	assert.Equal(t, map[string]string{"locked": "permission denied", "link": "symlink"}, reasons)
}
