package golang

import (
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/diag"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
)

// Analyze type-checks a tree in the context of the declarations evaluated so
// far. Type errors in the tree are reported as messages of Error severity;
// soft errors such as unused imports as warnings. The type of an expression
// and the declared names of a declaration list are reported as info messages.
func (l *Language) Analyze(term lang.Term) (lang.Term, []lang.Message, error) {
	t, err := asTree(term)
	if err != nil {
		return nil, nil, err
	}
	imports, decls := l.session()
	c := &checker{
		fset:   token.NewFileSet(),
		info:   newInfo(),
		config: types.Config{Importer: importer.Default()},
	}
	if t.IsPackage() {
		return c.checkPackage(t)
	}
	if err := c.addSession(imports, decls); err != nil {
		return nil, nil, err
	}
	if t.IsExpr() {
		return c.checkExpr(t)
	}
	return c.checkDecls(t, imports)
}

type checker struct {
	fset   *token.FileSet
	info   *types.Info
	config types.Config
	files  []*ast.File
	// File holding the session imports only; expressions are checked in its
	// scope.
	scope *ast.File
}

func newInfo() *types.Info {
	return &types.Info{
		Types: map[ast.Expr]types.TypeAndValue{},
		Defs:  map[*ast.Ident]types.Object{},
		Uses:  map[*ast.Ident]types.Object{},
	}
}

func importHeader(imports []string) string {
	if len(imports) == 0 {
		return declHeader
	}
	return declHeader + "import (\n\t" + strings.Join(imports, "\n\t") + "\n)\n"
}

// Parses the session declarations, each as its own file sharing the session
// imports.
func (c *checker) addSession(imports, decls []string) error {
	header := importHeader(imports)
	scope, err := parser.ParseFile(c.fset, "[session]", header, 0)
	if err != nil {
		return fmt.Errorf("session imports: %w", err)
	}
	c.scope = scope
	c.files = append(c.files, scope)
	for i, decl := range decls {
		f, err := parser.ParseFile(c.fset, fmt.Sprintf("[session %d]", i+1), header+decl, 0)
		if err != nil {
			return fmt.Errorf("session declaration %d: %w", i+1, err)
		}
		c.files = append(c.files, f)
	}
	return nil
}

func (c *checker) checkExpr(t *Tree) (lang.Term, []lang.Message, error) {
	// Errors in the session itself were reported when it was built.
	c.config.Error = func(error) {}
	pkg, _ := c.config.Check("main", c.fset, c.files, c.info)

	// Reparse the expression so that its positions belong to c.fset.
	expr, err := parser.ParseExprFrom(c.fset, t.Src.Name, t.Code, 0)
	if err != nil {
		return nil, nil, syntaxError(t.Src, err, 0)
	}
	analyzed := &Tree{Src: t.Src, Code: t.Code, Expr: expr, fset: c.fset, info: c.info}
	if err := types.CheckExpr(c.fset, pkg, c.scope.Name.Pos(), expr, c.info); err != nil {
		msg := lang.Message{Severity: lang.Error, Text: err.Error()}
		var te types.Error
		if errors.As(err, &te) {
			msg.Text = te.Msg
			msg.Ranging = diag.PointRanging(clamp(analyzed.offset(te.Pos), len(t.Code)))
		}
		return analyzed, []lang.Message{msg}, nil
	}

	tv := c.info.Types[expr]
	analyzed.Type, analyzed.Value = tv.Type, tv.Value
	text := types.ExprString(expr) + ": " + typeString(tv.Type, pkg)
	if tv.Value != nil {
		text += " = " + tv.Value.ExactString()
	}
	return analyzed, []lang.Message{{
		Ranging: diag.Ranging{From: 0, To: len(t.Code)}, Severity: lang.Info, Text: text,
	}}, nil
}

func (c *checker) checkDecls(t *Tree, imports []string) (lang.Term, []lang.Message, error) {
	// Imports repeated by the snippet are left out of its header; importing a
	// package twice in one file is an error.
	var own []string
	for _, spec := range t.File.Imports {
		own = append(own, t.Code[t.offset(spec.Pos()):t.offset(spec.End())])
	}
	header := importHeader(slices.DeleteFunc(slices.Clone(imports), func(s string) bool {
		return slices.Contains(own, s)
	}))
	file, err := parser.ParseFile(c.fset, t.Src.Name, header+t.Code, parser.ParseComments)
	if err != nil {
		return nil, nil, syntaxError(t.Src, err, len(header))
	}
	analyzed := &Tree{Src: t.Src, Code: t.Code, File: file, fset: c.fset, shift: len(header), info: c.info}
	return c.checkFile(analyzed)
}

func (c *checker) checkPackage(t *Tree) (lang.Term, []lang.Message, error) {
	file, err := parser.ParseFile(c.fset, t.Src.Name, t.Code, parser.ParseComments)
	if err != nil {
		return nil, nil, syntaxError(t.Src, err, 0)
	}
	return c.checkFile(&Tree{Src: t.Src, Code: t.Code, File: file, fset: c.fset, info: c.info})
}

// Checks the files collected so far together with the file of analyzed, and
// reports errors located in the latter.
func (c *checker) checkFile(analyzed *Tree) (lang.Term, []lang.Message, error) {
	current := c.fset.File(analyzed.File.Pos())
	var msgs []lang.Message
	c.config.Error = func(err error) {
		var te types.Error
		if !errors.As(err, &te) || c.fset.File(te.Pos) != current {
			return
		}
		offset := analyzed.offset(te.Pos)
		if offset < 0 {
			// In the header.
			return
		}
		severity := lang.Error
		if te.Soft {
			severity = lang.Warning
		}
		msgs = append(msgs, lang.Message{
			Ranging: diag.PointRanging(min(offset, len(analyzed.Code))), Severity: severity, Text: te.Msg,
		})
	}
	name := analyzed.File.Name.Name
	pkg, _ := c.config.Check(name, c.fset, append(c.files, analyzed.File), c.info)

	var defs []lang.Message
	for _, decl := range analyzed.File.Decls {
		for _, id := range declaredNames(decl) {
			obj := c.info.Defs[id]
			if obj == nil || id.Name == "_" {
				continue
			}
			from := analyzed.offset(id.Pos())
			defs = append(defs, lang.Message{
				Ranging:  diag.Ranging{From: from, To: from + len(id.Name)},
				Severity: lang.Info,
				Text:     id.Name + ": " + typeString(obj.Type(), pkg),
			})
		}
	}
	return analyzed, append(msgs, defs...), nil
}

func declaredNames(decl ast.Decl) []*ast.Ident {
	switch decl := decl.(type) {
	case *ast.FuncDecl:
		if decl.Recv == nil {
			return []*ast.Ident{decl.Name}
		}
	case *ast.GenDecl:
		var ids []*ast.Ident
		for _, spec := range decl.Specs {
			switch spec := spec.(type) {
			case *ast.ValueSpec:
				ids = append(ids, spec.Names...)
			case *ast.TypeSpec:
				ids = append(ids, spec.Name)
			}
		}
		return ids
	}
	return nil
}

func typeString(t types.Type, pkg *types.Package) string {
	if t == nil {
		return "invalid type"
	}
	return types.TypeString(t, types.RelativeTo(pkg))
}
