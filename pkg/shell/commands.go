package shell

import (
	"errors"
	"strings"
	"unicode"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/command"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/editsvc"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/pipeline"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/ui"
)

// The commands available in every session. ResetCommands restores exactly
// these.
func (s *Session) builtins() map[string]command.Command {
	return map[string]command.Command{
		"help": command.NewFunc(
			"show all commands, or the usage of one", "[command]", s.help),
		"load": command.NewFunc(
			"load a language", "<language>", s.load),
		"languages": command.NewFunc(
			"list the languages that can be loaded", "", s.listLanguages),
		"exit": command.NewFunc(
			"end the session", "", s.exit),
	}
}

func (s *Session) help(args ...string) result.Result {
	if len(args) > 1 {
		return usageFailure("help", "[command]")
	}
	if len(args) == 1 {
		cmd, err := s.invoker.CommandFromName(args[0])
		if err != nil {
			return result.ExceptionResult{Cause: err}
		}
		return result.MessageResult{Text: describe(args[0], cmd)}
	}
	var text ui.Text
	for _, name := range s.invoker.Names() {
		cmd, err := s.invoker.CommandFromName(name)
		if err != nil {
			// Removed since Names returned.
			continue
		}
		if len(text) > 0 {
			text = text.Concat(ui.T("\n"))
		}
		text = text.Concat(describe(name, cmd))
	}
	return result.MessageResult{Text: text}
}

func describe(name string, cmd command.Command) ui.Text {
	synopsis := command.Prefix + name
	if usage := cmd.Usage(); usage != "" {
		synopsis += " " + usage
	}
	return ui.T(synopsis, ui.Bold).Concat(ui.T("\n    " + cmd.Description()))
}

func (s *Session) load(args ...string) result.Result {
	if len(args) != 1 {
		return usageFailure("load", "<language>")
	}
	return s.Load(args[0])
}

func (s *Session) listLanguages(args ...string) result.Result {
	loaded := ""
	if c := s.Composer(); c != nil {
		loaded = c.Language()
	}
	var text ui.Text
	for i, name := range s.languages.Names() {
		if i > 0 {
			text = text.Concat(ui.T("\n"))
		}
		if name == loaded {
			text = text.Concat(ui.T(name+" (loaded)", ui.FgGreen))
		} else {
			text = text.Concat(ui.T(name))
		}
	}
	return result.MessageResult{Text: text}
}

func (s *Session) exit(args ...string) result.Result {
	s.exited.Store(true)
	return result.MessageResult{}
}

// Commands added by loading a language. Commands taking code get it verbatim
// from the input line.
func languageCommands(c *pipeline.Composer, services *editsvc.Services) map[string]command.Command {
	foldAndPrint := func(p result.ParseResult) result.FailOrSuccess[result.PrintResult, result.Result] {
		return services.FoldAndPrint(p)
	}
	return map[string]command.Command{
		"parse": command.NewCodeFunc("parse code and show the term", "<code>",
			func(code string) result.Result {
				return result.Collapse(c.ParseSource(code))
			}),
		"analyze": command.NewCodeFunc("parse and analyze code and show the messages", "<code>",
			func(code string) result.Result {
				return result.Collapse(c.AnalyzeSource(code))
			}),
		"transform": command.NewCodeFunc("apply a transformation action to code", "<action> <code>",
			func(code string) result.Result {
				action, rest := cutAction(code)
				if action == "" {
					return usageFailure("transform", "<action> <code>")
				}
				return result.Collapse(c.TransformSource(action)(rest))
			}),
		"actions": command.NewFunc("list the transformation actions of the language", "",
			func(args ...string) result.Result {
				return actionList(c)
			}),
		"eval": command.NewCodeFunc("evaluate code", "<code>",
			func(code string) result.Result {
				return result.Collapse(c.EvalSource(code))
			}),
		"open": command.NewFunc("evaluate the code in a file", "<file>",
			func(args ...string) result.Result {
				if len(args) != 1 {
					return usageFailure("open", "<file>")
				}
				return result.Collapse(c.EvalFile(args[0]))
			}),
		"highlight": command.NewCodeFunc("show code with syntax highlighting", "<code>",
			func(code string) result.Result {
				return result.Collapse(services.Highlight(code))
			}),
		"format": command.NewCodeFunc("pretty-print code", "<code>",
			func(code string) result.Result {
				return result.Collapse(pipeline.Then(c.ParseSource, foldAndPrint)(code))
			}),
	}
}

// The default command once a language is loaded.
func evalCommand(c *pipeline.Composer) command.Command {
	return command.NewCodeFunc("evaluate code", "<code>", func(code string) result.Result {
		return result.Collapse(c.EvalSource(code))
	})
}

func actionList(c *pipeline.Composer) result.Result {
	var text ui.Text
	for i, a := range c.Implementation().Actions() {
		if i > 0 {
			text = text.Concat(ui.T("\n"))
		}
		text = text.Concat(ui.T(a.Name, ui.FgCyan), ui.T(": "+a.Description))
		if a.NeedsAnalysis {
			text = text.Concat(ui.T(" (needs analysis)", ui.Dim))
		}
	}
	return result.MessageResult{Text: text}
}

// Splits the action name off the code of :transform.
func cutAction(s string) (action, code string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i == -1 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}

func usageFailure(name, usage string) result.Result {
	return result.ExceptionResult{
		Cause: errors.New("usage: " + command.Prefix + name + " " + usage)}
}
