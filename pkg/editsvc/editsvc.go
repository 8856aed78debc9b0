// Package editsvc provides the editor services (syntax highlighting and pretty
// printing) of the currently loaded language.
package editsvc

import (
	"sync/atomic"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
)

// Names of the services, as reported by *result.ServiceUnavailable.
const (
	Highlighting   = "Syntax Highlighting"
	PrettyPrinting = "Pretty Printing"
)

// Composer provides the pipeline stages behind the editor services. It is
// implemented by *pipeline.Composer.
type Composer interface {
	Style(code string) result.FailOrSuccess[result.StyleResult, result.Result]
	PrettyPrint(t result.TermResult) result.FailOrSuccess[result.PrintResult, result.Result]
}

// Mode is the state of the editor services.
type Mode int

const (
	// Unloaded means no language has been loaded; all services fail.
	Unloaded Mode = iota
	// Loaded means services delegate to the loaded language's composer.
	Loaded
)

func (m Mode) String() string {
	if m == Loaded {
		return "loaded"
	}
	return "unloaded"
}

type state struct {
	mode     Mode
	composer Composer
}

var unloaded = &state{mode: Unloaded}

// Services holds the editor services. The zero value is not usable; use New.
// It is safe for concurrent use; Load replaces the whole state atomically.
type Services struct {
	st atomic.Pointer[state]
}

// New creates Services in the Unloaded mode.
func New() *Services {
	s := &Services{}
	s.st.Store(unloaded)
	return s
}

// Load switches to the Loaded mode, replacing any previously loaded composer.
// A nil composer is ignored.
func (s *Services) Load(c Composer) {
	if c == nil {
		return
	}
	s.st.Store(&state{mode: Loaded, composer: c})
}

// Mode returns the current mode.
func (s *Services) Mode() Mode { return s.st.Load().mode }

// IsLoaded reports whether a language has been loaded.
func (s *Services) IsLoaded() bool { return s.Mode() == Loaded }

// Highlight computes syntax highlighting for code.
func (s *Services) Highlight(code string) result.FailOrSuccess[result.StyleResult, result.Result] {
	st := s.st.Load()
	if st.mode == Unloaded {
		return unavailable[result.StyleResult](Highlighting)
	}
	return st.composer.Style(code)
}

// FoldAndPrint pretty-prints the term carried by t.
func (s *Services) FoldAndPrint(t result.TermResult) result.FailOrSuccess[result.PrintResult, result.Result] {
	st := s.st.Load()
	if st.mode == Unloaded {
		return unavailable[result.PrintResult](PrettyPrinting)
	}
	return st.composer.PrettyPrint(t)
}

func unavailable[S any](service string) result.FailOrSuccess[S, result.Result] {
	return result.Excepted[S, result.Result](
		result.ExceptionResult{Cause: &result.ServiceUnavailable{Service: service}})
}
