// Package golang implements the "go" language: Go expressions and top-level
// declarations, type-checked with go/types and evaluated with the yaegi
// interpreter.
//
// Declarations accepted by Evaluate persist for the lifetime of the Language;
// later snippets can refer to them.
package golang

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/logutil"
)

var logger = logutil.GetLogger("[lang/go] ")

// Name is the name of the language.
const Name = "go"

// Language is the "go" language implementation.
type Language struct {
	mutex  sync.Mutex
	interp *interp.Interpreter
	// Import specs and declarations evaluated so far, as source text.
	imports []string
	decls   []string
}

var _ lang.Implementation = (*Language)(nil)

// New creates a Language writing program output to os.Stdout. It has the
// signature of a lang.Factory.
func New() (lang.Implementation, error) {
	return NewWithOutput(os.Stdout, os.Stderr)
}

// NewWithOutput creates a Language writing program output to stdout and
// stderr.
func NewWithOutput(stdout, stderr io.Writer) (*Language, error) {
	i := interp.New(interp.Options{Stdout: stdout, Stderr: stderr})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load standard library symbols: %w", err)
	}
	return &Language{interp: i}, nil
}

func (l *Language) Name() string { return Name }

// Parse parses an expression, a list of top-level declarations, or a whole
// source file starting with a package clause.
func (l *Language) Parse(src lang.Source) (lang.Term, error) {
	return parse(src, src.Code)
}

// Evaluate evaluates a tree with the interpreter. Declarations are remembered
// for the analysis of later snippets once the interpreter has accepted them.
func (l *Language) Evaluate(term lang.Term) (lang.Value, error) {
	t, err := asTree(term)
	if err != nil {
		return nil, err
	}
	var imports, decls []string
	if t.File != nil && !t.IsPackage() {
		imports, decls = declTexts(t)
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()

	v, err := l.interp.Eval(t.Code)
	if err != nil {
		return nil, err
	}
	if t.File != nil {
		l.record(imports, decls)
		return nil, nil
	}
	if !v.IsValid() || !v.CanInterface() {
		return nil, nil
	}
	return v.Interface(), nil
}

// Returns the source text of the import specs and the other declarations of
// a declaration list. Declarations of a header prepended during analysis are
// not part of the snippet and are left out.
func declTexts(t *Tree) (imports, decls []string) {
	for _, decl := range t.File.Decls {
		if t.offset(decl.Pos()) < 0 {
			continue
		}
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			for _, spec := range gd.Specs {
				imports = append(imports, t.Code[t.offset(spec.Pos()):t.offset(spec.End())])
			}
			continue
		}
		decls = append(decls, t.Code[t.offset(decl.Pos()):t.offset(decl.End())])
	}
	return imports, decls
}

// Adds declarations accepted by the interpreter to the session. Must be
// called with the mutex held.
func (l *Language) record(imports, decls []string) {
	for _, imp := range imports {
		if !slices.Contains(l.imports, imp) {
			l.imports = append(l.imports, imp)
		}
	}
	l.decls = append(l.decls, decls...)
	logger.Debugw("recorded declarations", "imports", len(l.imports), "decls", len(l.decls))
}

// Returns copies of the session imports and declarations.
func (l *Language) session() (imports, decls []string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return slices.Clone(l.imports), slices.Clone(l.decls)
}

// Format formats a tree with gofmt.
func (l *Language) Format(term lang.Term) (string, error) {
	t, err := asTree(term)
	if err != nil {
		return "", err
	}
	formatted, err := format.Source([]byte(t.Code))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(formatted), "\n"), nil
}
