package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/command"
)

// This type is the interface that the line editor has to satisfy.
type editor interface {
	ReadCode(prompt string) (string, error)
	Close() error
}

type minEditor struct {
	in  *bufio.Reader
	out io.Writer
}

func newMinEditor(in io.Reader, out io.Writer) *minEditor {
	return &minEditor{bufio.NewReader(in), out}
}

func (ed *minEditor) ReadCode(prompt string) (string, error) {
	fmt.Fprint(ed.out, prompt)
	line, err := ed.in.ReadString('\n')
	if err == io.EOF && line != "" {
		// Return the unterminated last line now and io.EOF on the next call.
		err = nil
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), err
}

func (ed *minEditor) Close() error { return nil }

// A line editor with in-memory history and completion of command names. It
// always uses the stdin and stdout of the process.
type linerEditor struct {
	state *liner.State
}

func newLinerEditor(iv *command.Invoker) *linerEditor {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completer(iv))
	return &linerEditor{state}
}

func (ed *linerEditor) ReadCode(prompt string) (string, error) {
	line, err := ed.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		// Ctrl-C discards the line.
		return "", nil
	}
	if err == nil && strings.TrimSpace(line) != "" {
		ed.state.AppendHistory(line)
	}
	return line, err
}

func (ed *linerEditor) Close() error { return ed.state.Close() }

// Completes command names after the command prefix.
func completer(iv *command.Invoker) liner.Completer {
	return func(line string) []string {
		if !strings.HasPrefix(line, command.Prefix) || strings.ContainsAny(line, " \t") {
			return nil
		}
		var candidates []string
		for _, name := range iv.Names() {
			if full := command.Prefix + name; strings.HasPrefix(full, line) {
				candidates = append(candidates, full)
			}
		}
		return candidates
	}
}

// Whether the liner editor can serve the given files: liner reads the
// process's own terminal.
func canUseLiner(fds [3]*os.File, isTTY func(*os.File) bool) bool {
	return fds[0].Fd() == os.Stdin.Fd() && fds[1].Fd() == os.Stdout.Fd() &&
		isTTY(fds[0]) && isTTY(fds[1])
}
