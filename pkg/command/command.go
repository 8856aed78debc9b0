// Package command implements the shell's named commands and the invoker that
// dispatches input lines to them.
package command

import (
	"strings"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
)

// Command is a shell command.
type Command interface {
	// Description returns a one-line description shown by help.
	Description() string
	// Usage returns a synopsis of the arguments, such as "<file>". It may be
	// empty.
	Usage() string
	// Execute runs the command.
	Execute(args ...string) result.Result
}

// Func is a Command implemented by a function.
type Func struct {
	Desc string
	Args string
	Fn   func(args ...string) result.Result
}

// NewFunc creates a Func.
func NewFunc(desc, usage string, fn func(args ...string) result.Result) Func {
	return Func{desc, usage, fn}
}

func (f Func) Description() string { return f.Desc }

func (f Func) Usage() string { return f.Args }

func (f Func) Execute(args ...string) result.Result { return f.Fn(args...) }

// CodeCommand is a Command that takes code. The Invoker passes it the text
// after the command name as is, rather than splitting it into arguments, so
// that whitespace inside the code is kept.
type CodeCommand interface {
	Command
	ExecuteCode(code string) result.Result
}

// CodeFunc is a CodeCommand implemented by a function.
type CodeFunc struct {
	Desc string
	Args string
	Fn   func(code string) result.Result
}

// NewCodeFunc creates a CodeFunc.
func NewCodeFunc(desc, usage string, fn func(code string) result.Result) CodeFunc {
	return CodeFunc{desc, usage, fn}
}

func (f CodeFunc) Description() string { return f.Desc }

func (f CodeFunc) Usage() string { return f.Args }

// Execute runs the function on the arguments joined with single spaces.
func (f CodeFunc) Execute(args ...string) result.Result {
	return f.Fn(strings.Join(args, " "))
}

func (f CodeFunc) ExecuteCode(code string) result.Result { return f.Fn(code) }
