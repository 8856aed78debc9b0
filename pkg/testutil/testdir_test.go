package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInTempDir(t *testing.T) {
	oldWd, _ := os.Getwd()
	var dir string
	t.Run("sub", func(t *testing.T) {
		dir = InTempDir(t, Dir{
			"a":   "content a",
			"sub": Dir{"b": "content b"},
		})
		wd, _ := os.Getwd()
		if wd != dir {
			t.Errorf("working directory %q, want %q", wd, dir)
		}
		testFileContent(t, "a", "content a")
		testFileContent(t, filepath.Join("sub", "b"), "content b")
	})
	if wd, _ := os.Getwd(); wd != oldWd {
		t.Errorf("working directory not restored: %q, want %q", wd, oldWd)
	}
}

func TestSet(t *testing.T) {
	x := 1
	t.Run("sub", func(t *testing.T) {
		Set(t, &x, 2)
		if x != 2 {
			t.Errorf("x = %d, want 2", x)
		}
	})
	if x != 1 {
		t.Errorf("x = %d after cleanup, want 1", x)
	}
}

func testFileContent(t *testing.T, name, want string) {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != want {
		t.Errorf("%s contains %q, want %q", name, data, want)
	}
}
