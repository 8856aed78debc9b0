package golang

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/diag"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
)

// Prepended to declaration snippets to make them parse as a file.
const declHeader = "package main\n"

// Tree is a parsed Go snippet. Exactly one of Expr and File is set: Expr for
// an expression, File for a list of declarations or a whole source file.
type Tree struct {
	Src lang.Source
	// Code is the text that is evaluated for the tree. It is the same as
	// Src.Code unless the tree has been transformed.
	Code string
	Expr ast.Expr
	File *ast.File

	fset *token.FileSet
	// Length of the text prepended to Code before parsing it as a file.
	shift int

	// Set by analysis.
	Type  types.Type
	Value constant.Value
	info  *types.Info
}

// IsExpr reports whether the tree is an expression.
func (t *Tree) IsExpr() bool { return t.Expr != nil }

// IsPackage reports whether the tree is a whole source file, starting with a
// package clause.
func (t *Tree) IsPackage() bool { return t.File != nil && t.shift == 0 }

// Analyzed reports whether the tree carries type information.
func (t *Tree) Analyzed() bool { return t.info != nil }

func (t *Tree) String() string { return t.Code }

// Returns the offset of pos within Code.
func (t *Tree) offset(pos token.Pos) int {
	return t.fset.Position(pos).Offset - t.shift
}

func asTree(term lang.Term) (*Tree, error) {
	t, ok := term.(*Tree)
	if !ok {
		return nil, fmt.Errorf("not a go term: %T", term)
	}
	return t, nil
}

func parse(src lang.Source, code string) (*Tree, error) {
	fset := token.NewFileSet()
	switch firstToken(code) {
	case token.PACKAGE:
		return parseFile(fset, src, code, "")
	case token.IMPORT, token.VAR, token.CONST, token.TYPE:
		return parseFile(fset, src, code, declHeader)
	case token.FUNC:
		// Either a function declaration or a function literal.
		if t, err := parseExpr(fset, src, code); err == nil {
			return t, nil
		}
		return parseFile(fset, src, code, declHeader)
	default:
		return parseExpr(fset, src, code)
	}
}

func parseExpr(fset *token.FileSet, src lang.Source, code string) (*Tree, error) {
	expr, err := parser.ParseExprFrom(fset, src.Name, code, parser.ParseComments)
	if err != nil {
		return nil, syntaxError(src, err, 0)
	}
	return &Tree{Src: src, Code: code, Expr: expr, fset: fset}, nil
}

func parseFile(fset *token.FileSet, src lang.Source, code, header string) (*Tree, error) {
	file, err := parser.ParseFile(fset, src.Name, header+code, parser.ParseComments)
	if err != nil {
		return nil, syntaxError(src, err, len(header))
	}
	return &Tree{Src: src, Code: code, File: file, fset: fset, shift: len(header)}, nil
}

func firstToken(code string) token.Token {
	fset := token.NewFileSet()
	var s scanner.Scanner
	s.Init(fset.AddFile("", fset.Base(), len(code)), []byte(code), nil, 0)
	_, tok, _ := s.Scan()
	return tok
}

// Converts an error from go/parser into a *diag.Error. Offsets are shifted
// back by the length of any prepended header.
func syntaxError(src lang.Source, err error, shift int) error {
	var list scanner.ErrorList
	if !errors.As(err, &list) || len(list) == 0 {
		return err
	}
	msg := list[0].Msg
	if len(list) > 1 {
		msg += fmt.Sprintf(" (and %d more errors)", len(list)-1)
	}
	return &diag.Error{
		Type:    "syntax error",
		Message: msg,
		Context: *diag.NewContext(src.Name, src.Code,
			diag.PointRanging(clamp(list[0].Pos.Offset-shift, len(src.Code)))),
	}
}

func clamp(i, n int) int {
	return max(0, min(i, n))
}

// Prints an expression built or rewritten by a transformation.
func exprString(fset *token.FileSet, e ast.Expr) (string, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, e); err != nil {
		return "", err
	}
	return buf.String(), nil
}
