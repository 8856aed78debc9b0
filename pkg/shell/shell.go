// Package shell is the entry point for the terminal interface of the shell.
package shell

import (
	"fmt"
	"os"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/config"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/logutil"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/pipeline"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/prog"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram.
type Program struct {
	// Languages that can be loaded.
	Languages lang.Table
	// Files reads source files. If nil, pipeline.OSFileReader is used.
	Files pipeline.FileReader
}

func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	cleanup := initSignal(fds[2])
	defer cleanup()

	cfg := loadConfig(fds, f)
	if f.Color != "" {
		cfg.Color = f.Color
		if err := cfg.Validate(); err != nil {
			return prog.BadUsage(err.Error())
		}
	}
	language := cfg.Language
	if f.Lang != "" {
		language = f.Lang
	}
	if len(args) > 1 {
		return prog.BadUsage("too many arguments")
	}

	files := p.Files
	if files == nil {
		files = pipeline.OSFileReader{}
	}
	s := NewSession(p.Languages, files)
	d := NewDisplay(fds, cfg.Color)
	if language != "" {
		if r := s.Load(language); result.IsFailure(r) {
			result.Show(d, r)
			if len(args) > 0 {
				return prog.Exit(2)
			}
		}
	}

	if len(args) > 0 {
		return prog.Exit(Script(fds, args, s, d, &ScriptConfig{
			Cmd: f.CodeInArg, CompileOnly: f.CompileOnly, JSON: f.JSON}))
	}
	Interact(fds, s, d, &InteractConfig{Prompt: cfg.Prompt, Startup: cfg.Startup})
	return nil
}

// Reads the rc file unless --norc is given. Problems with the rc file are
// reported as warnings and the defaults are used instead.
func loadConfig(fds [3]*os.File, f *prog.Flags) *config.Config {
	if f.NoRc {
		return config.Default()
	}
	path, err := config.Path(f.RC)
	if err != nil {
		fmt.Fprintln(fds[2], "Warning:", err)
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(fds[2], "Warning:", err)
		return config.Default()
	}
	logger.Debugw("rc file", "path", path)
	return cfg
}
