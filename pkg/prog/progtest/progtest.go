// Package progtest contains utilities for testing [prog.Program] instances.
package progtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/prog"
)

// Case is a test case for Test, created by ThatShell.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exitCode       int
	stdout, stderr output
}

type output struct {
	content string
	partial bool
	checked bool
}

func (o output) String() string {
	if o.partial {
		return fmt.Sprintf("text containing %q", o.content)
	}
	return fmt.Sprintf("%q", o.content)
}

func (o output) matches(s string) bool {
	if !o.checked {
		return true
	}
	if o.partial {
		return strings.Contains(s, o.content)
	}
	return s == o.content
}

// ThatShell returns a new Case with the specified CLI arguments.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "spoofax-shell --bad" writes "bad
// flag" to stderr reads like:
//
//	ThatShell("--bad").WritesStderrContaining("bad flag")
func ThatShell(args ...string) Case {
	return Case{args: append([]string{"spoofax-shell"}, args...),
		want: result{stdout: output{checked: true}, stderr: output{checked: true}}}
}

// WithStdin returns an altered Case that provides the given input to the
// program.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise
// don't have any expectations, for example:
//
//	ThatShell("--norc", "-c", "1").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program run to return
// with the given exit code.
func (c Case) ExitsWith(code int) Case {
	c.want.exitCode = code
	return c
}

// WritesStdout returns an altered Case that requires the program run to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{content: s, checked: true}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program run
// to write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{content: s, partial: true, checked: true}
	return c
}

// WritesStderr returns an altered Case that requires the program run to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{content: s, checked: true}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program run
// to write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{content: s, partial: true, checked: true}
	return c
}

// IgnoresStderr returns an altered Case that accepts any output on stderr.
func (c Case) IgnoresStderr() Case {
	c.want.stderr = output{}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			exit, stdout, stderr := Run(t, p, c.stdin, c.args...)
			if exit != c.want.exitCode {
				t.Errorf("got exit code %v, want %v", exit, c.want.exitCode)
			}
			if !c.want.stdout.matches(stdout) {
				t.Errorf("got stdout %q, want %s", stdout, c.want.stdout)
			}
			if !c.want.stderr.matches(stderr) {
				t.Errorf("got stderr %q, want %s", stderr, c.want.stderr)
			}
		})
	}
}

// Run runs a Program with the given stdin and arguments, and returns its exit
// code and output. Output goes through regular files, so programs writing a
// lot of output cannot block on a full pipe.
func Run(t *testing.T, p prog.Program, stdin string, args ...string) (exit int, stdout, stderr string) {
	t.Helper()
	dir := t.TempDir()
	files := [3]*os.File{
		create(t, filepath.Join(dir, "stdin"), stdin),
		create(t, filepath.Join(dir, "stdout"), ""),
		create(t, filepath.Join(dir, "stderr"), ""),
	}
	for _, f := range files {
		defer f.Close()
	}
	exit = prog.Run(files, args, p)
	return exit, read(t, files[1].Name()), read(t, files[2].Name())
}

func create(t *testing.T, name, content string) *os.File {
	if err := os.WriteFile(name, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func read(t *testing.T, name string) string {
	content, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}
