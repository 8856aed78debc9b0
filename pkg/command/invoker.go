package command

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/logutil"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
)

var logger = logutil.GetLogger("[command] ")

// Prefix marks an input line as a named command invocation.
const Prefix = ":"

// ErrNoDefault is the failure of input without Prefix when the Invoker was
// created without a default command.
var ErrNoDefault = errors.New("no default command")

var noDefault = NewFunc("", "", func(...string) result.Result {
	return result.ExceptionResult{Cause: ErrNoDefault}
})

// Invoker maps names to commands and dispatches input lines. It is safe for
// concurrent use.
type Invoker struct {
	defaults map[string]Command

	mutex    sync.RWMutex
	commands map[string]Command
	def      Command
}

// NewInvoker creates an Invoker whose commands are initially those in defaults
// and whose default command is def. The defaults map is copied; ResetCommands
// restores it. A nil def is replaced by a command that fails with
// ErrNoDefault.
func NewInvoker(defaults map[string]Command, def Command) *Invoker {
	if defaults == nil {
		defaults = map[string]Command{}
	}
	if def == nil {
		def = noDefault
	}
	return &Invoker{
		defaults: maps.Clone(defaults),
		commands: maps.Clone(defaults),
		def:      def,
	}
}

// CommandFromName returns the command bound to name, or a
// *result.CommandNotFound error.
func (iv *Invoker) CommandFromName(name string) (Command, error) {
	iv.mutex.RLock()
	defer iv.mutex.RUnlock()
	cmd, ok := iv.commands[name]
	if !ok {
		return nil, &result.CommandNotFound{Name: name}
	}
	return cmd, nil
}

// Execute dispatches one input line.
//
// A line starting with Prefix names a command: the text up to the first
// whitespace, minus the prefix, is the name, and the remaining text split on
// whitespace gives the arguments. A CodeCommand instead gets the remaining
// text unsplit, without its leading whitespace. Any other line is passed verbatim as the
// single argument of the default command. Panics in commands are converted to
// failures.
func (iv *Invoker) Execute(raw string) result.Result {
	if !strings.HasPrefix(raw, Prefix) {
		def := iv.Default()
		logger.Debugw("executing default command", "input", raw)
		return result.Catch(func() result.Result { return def.Execute(raw) })
	}
	name, rest := splitCommand(strings.TrimPrefix(raw, Prefix))
	cmd, err := iv.CommandFromName(name)
	if err != nil {
		return result.ExceptionResult{Cause: err}
	}
	if cc, ok := cmd.(CodeCommand); ok {
		logger.Debugw("executing command", "name", name, "code", rest)
		return result.Catch(func() result.Result { return cc.ExecuteCode(rest) })
	}
	args := strings.Fields(rest)
	logger.Debugw("executing command", "name", name, "args", args)
	return result.Catch(func() result.Result { return cmd.Execute(args...) })
}

// Splits s at the first run of whitespace.
func splitCommand(s string) (name, rest string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i == -1 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}

// AddCommand binds name to cmd, replacing any existing binding.
func (iv *Invoker) AddCommand(name string, cmd Command) {
	iv.mutex.Lock()
	defer iv.mutex.Unlock()
	iv.commands[name] = cmd
}

// RemoveCommand removes the binding of name, if any.
func (iv *Invoker) RemoveCommand(name string) {
	iv.mutex.Lock()
	defer iv.mutex.Unlock()
	delete(iv.commands, name)
}

// ResetCommands discards all bindings and restores the commands passed to
// NewInvoker. The default command is not changed.
func (iv *Invoker) ResetCommands() {
	iv.mutex.Lock()
	defer iv.mutex.Unlock()
	iv.commands = maps.Clone(iv.defaults)
}

// SetDefault replaces the default command. A nil cmd is ignored.
func (iv *Invoker) SetDefault(cmd Command) {
	if cmd == nil {
		return
	}
	iv.mutex.Lock()
	defer iv.mutex.Unlock()
	iv.def = cmd
}

// Default returns the default command.
func (iv *Invoker) Default() Command {
	iv.mutex.RLock()
	defer iv.mutex.RUnlock()
	return iv.def
}

// Names returns the sorted names of all bound commands.
func (iv *Invoker) Names() []string {
	iv.mutex.RLock()
	defer iv.mutex.RUnlock()
	return slices.Sorted(maps.Keys(iv.commands))
}
