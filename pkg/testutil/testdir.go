package testutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir describes the layout of a directory. The keys of the map represent
// filenames. Each value is either a string (for the content of a regular file
// with permission 0644), or a Dir.
type Dir map[string]any

// TempDir creates a temporary directory for the duration of a test, with
// symlinks resolved, and populates it with the given layout.
func TempDir(c TempDirer, layout Dir) string {
	dir, err := filepath.EvalSymlinks(c.TempDir())
	if err != nil {
		panic(err)
	}
	ApplyDir(layout, dir)
	return dir
}

// InTempDir is like TempDir, but also changes into the directory. The working
// directory is restored when the test finishes.
func InTempDir(c TempDirer, layout Dir) string {
	dir := TempDir(c, layout)
	oldWd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	mustChdir(dir)
	c.Cleanup(func() { mustChdir(oldWd) })
	return dir
}

// ApplyDir creates the given filesystem layout under root. It panics on
// errors.
func ApplyDir(dir Dir, root string) {
	for name, file := range dir {
		path := filepath.Join(root, name)
		var err error
		switch file := file.(type) {
		case string:
			err = os.WriteFile(path, []byte(file), 0644)
		case Dir:
			err = os.MkdirAll(path, 0755)
			if err == nil {
				ApplyDir(file, path)
			}
		default:
			panic(fmt.Sprintf("file must be string or Dir, got %T", file))
		}
		if err != nil {
			panic(err)
		}
	}
}

func mustChdir(dir string) {
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
}
