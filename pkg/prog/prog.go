// Package prog provides the entry point to the shell. Its subpackages
// correspond to subprograms of the shell.
package prog

// This package parses command-line flags, sets up logging and calls the
// appropriate "subprogram": the version printer, the language server, or the
// terminal interface.

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/logutil"
)

// Flags keeps command-line flags.
type Flags struct {
	Log string

	Help, Version, BuildInfo, JSON bool

	CodeInArg, CompileOnly, NoRc bool
	RC                           string

	Lang, Color string

	LSP bool
}

// Usage line of the program.
const usageLine = "spoofax-shell [flags] [script]"

func newCommand(f *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   usageLine,
		Short:                 "An interactive shell for language implementations",
		DisableFlagsInUseLine: true,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	addFlags(cmd.Flags(), f)
	return cmd
}

func addFlags(fs *pflag.FlagSet, f *Flags) {
	// Flags after the script name are arguments of the script.
	fs.SetInterspersed(false)

	fs.StringVar(&f.Log, "log", "", "a file to write debug log to")

	fs.BoolVarP(&f.Help, "help", "h", false, "show usage help and quit")
	fs.BoolVar(&f.Version, "version", false, "show version and quit")
	fs.BoolVar(&f.BuildInfo, "buildinfo", false, "show build info and quit")
	fs.BoolVar(&f.JSON, "json", false, "show output in JSON; useful with --buildinfo and --compileonly")

	fs.BoolVarP(&f.CodeInArg, "code", "c", false, "take first argument as code to execute")
	fs.BoolVarP(&f.CompileOnly, "compileonly", "n", false, "parse and analyze but do not evaluate")
	fs.BoolVar(&f.NoRc, "norc", false, "run without reading the rc file")
	fs.StringVar(&f.RC, "rc", "", "path to the rc file")

	fs.StringVarP(&f.Lang, "lang", "l", "", "language to load at startup")
	fs.StringVar(&f.Color, "color", "", "when to use colors: auto, always or never")

	fs.BoolVar(&f.LSP, "lsp", false, "run a language server on stdin and stdout")
}

func usage(out io.Writer, cmd *cobra.Command) {
	fmt.Fprintln(out, "Usage: "+usageLine)
	fmt.Fprintln(out, "Supported flags:")
	fmt.Fprint(out, cmd.Flags().FlagUsages())
}

// Run parses command-line flags and runs the first applicable subprogram. It
// returns the exit status of the program.
func Run(fds [3]*os.File, args []string, p Program) int {
	f := &Flags{}
	cmd := newCommand(f)
	cmd.SetArgs(args[1:])
	cmd.SetIn(fds[0])
	cmd.SetOut(fds[1])
	cmd.SetErr(fds[2])
	// Cobra skips RunE when --help is given; usage is printed below.
	cmd.SetHelpFunc(func(*cobra.Command, []string) {})

	var runErr error
	cmd.RunE = func(cmd *cobra.Command, positional []string) error {
		runErr = run(fds, f, positional, p)
		return nil
	}
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(fds[2], err)
		usage(fds[2], cmd)
		return 2
	}
	if f.Help {
		usage(fds[1], cmd)
		return 0
	}

	if runErr == nil {
		return 0
	}
	if msg := runErr.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	var badUsage badUsageError
	var exit exitError
	switch {
	case errors.As(runErr, &badUsage):
		usage(fds[2], cmd)
	case errors.As(runErr, &exit):
		return exit.exit
	}
	return 2
}

func run(fds [3]*os.File, f *Flags, args []string, p Program) error {
	if f.Log != "" {
		if err := logutil.SetOutputFile(f.Log); err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}
	return p.Run(fds, f, args)
}

// Composite returns a Program that tries each of the given programs,
// terminating at the first one that doesn't return ErrNotSuitable.
func Composite(programs ...Program) Program {
	return compositeProgram(programs)
}

type compositeProgram []Program

func (cp compositeProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	for _, p := range cp {
		err := p.Run(fds, f, args)
		if err != ErrNotSuitable {
			return err
		}
	}
	// If we have reached here, all subprograms have returned ErrNotSuitable
	return ErrNotSuitable
}

// ErrNotSuitable is a special error that may be returned by Program.Run, to
// signify that this Program should not be run. It is useful when a Program is
// used in Composite.
var ErrNotSuitable = errors.New("internal error: no suitable subprogram")

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It causes
// the main function to exit with the given code without printing any error
// messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }

// Program represents a subprogram.
type Program interface {
	// Run runs the subprogram.
	Run(fds [3]*os.File, f *Flags, args []string) error
}
