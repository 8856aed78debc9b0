// Spoofax-shell is an interactive shell for language implementations. It runs
// input through the stages of a loaded language (parse, analyze, transform and
// evaluate) and dispatches ":" commands such as :load and :help.
package main

import (
	"os"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/buildinfo"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang/golang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lsp"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/prog"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/shell"
)

// The languages that can be loaded.
var languages = lang.Table{
	golang.Name: golang.New,
}

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			buildinfo.Program{}, lsp.Program{Languages: languages},
			shell.Program{Languages: languages})))
}
