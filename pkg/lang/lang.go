// Package lang defines the contract between the shell and a language
// implementation. The shell never looks inside terms or values; it only passes
// them from one stage of the implementation to the next.
package lang

import (
	"fmt"
	"sort"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/diag"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/ui"
)

// Source is a piece of code to be processed.
type Source struct {
	// Name identifies the source in diagnostics, e.g. "[tty 3]" or a file
	// name.
	Name string
	// Code is the text of the source.
	Code string
	// Path is the file the code was read from, or "" for literal input.
	Path string
}

// Term is an opaque syntax tree produced by an Implementation.
type Term any

// Value is an opaque evaluation result produced by an Implementation.
type Value any

// Severity is the severity of a Message.
type Severity int

// Possible values of Severity.
const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Message is a diagnostic produced by analysis.
type Message struct {
	diag.Ranging
	Severity Severity
	Text     string
}

// Action describes a transformation offered by a language.
type Action struct {
	Name        string
	Description string
	// NeedsAnalysis is true when the action can only be applied to analyzed
	// terms.
	NeedsAnalysis bool
}

// Implementation is a language implementation. Errors returned by its methods
// are reported as stage failures; they may be *diag.Error values to carry
// source positions.
type Implementation interface {
	// Name returns the name the language is loaded under.
	Name() string
	// Parse parses source code into a term.
	Parse(src Source) (Term, error)
	// Analyze analyzes a parsed term. Messages of Error severity make the
	// analysis fail even when err is nil.
	Analyze(parsed Term) (analyzed Term, msgs []Message, err error)
	// Actions returns the transformations that Transform accepts.
	Actions() []Action
	// Transform applies the named action to a parsed or analyzed term.
	Transform(action string, t Term) (Term, error)
	// Evaluate evaluates a parsed, analyzed or transformed term.
	Evaluate(t Term) (Value, error)
	// Style computes syntax highlighting regions for code.
	Style(code string) ([]ui.StylingRegion, error)
	// Format pretty-prints a term.
	Format(t Term) (string, error)
}

// Factory creates a fresh instance of a language implementation.
type Factory func() (Implementation, error)

// Table maps language names to factories. It is built once at process start.
type Table map[string]Factory

// Names returns the sorted names of all languages in the table.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates an instance of the named language.
func (t Table) New(name string) (Implementation, error) {
	factory, ok := t[name]
	if !ok {
		return nil, &UnknownLanguage{Name: name, Known: t.Names()}
	}
	return factory()
}

// UnknownLanguage is returned by Table.New when there is no language with the
// requested name.
type UnknownLanguage struct {
	Name  string
	Known []string
}

func (e *UnknownLanguage) Error() string {
	return fmt.Sprintf("unknown language %q; available languages: %v", e.Name, e.Known)
}

// FindAction returns the action with the given name.
func FindAction(impl Implementation, name string) (Action, bool) {
	for _, a := range impl.Actions() {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}
