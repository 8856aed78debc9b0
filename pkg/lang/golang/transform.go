package golang

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"math"
	"strconv"
	"strings"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
)

var actions = []lang.Action{
	{Name: "unparen", Description: "remove redundant parentheses"},
	{Name: "fold", Description: "replace constant subexpressions with their values", NeedsAnalysis: true},
}

func (l *Language) Actions() []lang.Action { return actions }

// Transform applies an action to an expression tree. The result is an
// unanalyzed tree whose Code is the printed rewritten expression.
func (l *Language) Transform(action string, term lang.Term) (lang.Term, error) {
	t, err := asTree(term)
	if err != nil {
		return nil, err
	}
	if !t.IsExpr() {
		return nil, fmt.Errorf("%s applies to expressions only", action)
	}
	var expr ast.Expr
	switch action {
	case "unparen":
		expr = unparen(t.Expr, never)
	case "fold":
		if !t.Analyzed() {
			return nil, fmt.Errorf("fold requires an analyzed term")
		}
		expr = fold(t.Expr, t.info)
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}
	code, err := exprString(t.fset, expr)
	if err != nil {
		return nil, err
	}
	return &Tree{Src: t.Src, Code: code, Expr: expr, fset: t.fset}, nil
}

func never(ast.Expr) bool { return false }

// Returns e with redundant parentheses removed. If e is parenthesized, the
// parentheses are kept only when keep reports true for the expression inside.
func unparen(e ast.Expr, keep func(ast.Expr) bool) ast.Expr {
	if p, ok := e.(*ast.ParenExpr); ok {
		inner := unparen(p.X, never)
		if keep(inner) {
			return &ast.ParenExpr{X: inner}
		}
		return inner
	}

	switch e := e.(type) {
	case *ast.BinaryExpr:
		c := *e
		prec := e.Op.Precedence()
		// Binary operators are left-associative.
		c.X = unparen(e.X, func(x ast.Expr) bool {
			b, ok := x.(*ast.BinaryExpr)
			return ok && b.Op.Precedence() < prec
		})
		c.Y = unparen(e.Y, func(y ast.Expr) bool {
			b, ok := y.(*ast.BinaryExpr)
			return ok && b.Op.Precedence() <= prec
		})
		return &c
	case *ast.UnaryExpr:
		c := *e
		c.X = unparen(e.X, isOperation)
		return &c
	case *ast.StarExpr:
		c := *e
		c.X = unparen(e.X, isOperation)
		return &c
	case *ast.CallExpr:
		c := *e
		c.Fun = unparen(e.Fun, notPrimary)
		c.Args = unparenAll(e.Args)
		return &c
	case *ast.SelectorExpr:
		c := *e
		c.X = unparen(e.X, notPrimary)
		return &c
	case *ast.IndexExpr:
		c := *e
		c.X = unparen(e.X, notPrimary)
		c.Index = unparen(e.Index, never)
		return &c
	case *ast.SliceExpr:
		c := *e
		c.X = unparen(e.X, notPrimary)
		c.Low, c.High, c.Max = unparenOpt(e.Low), unparenOpt(e.High), unparenOpt(e.Max)
		return &c
	case *ast.TypeAssertExpr:
		c := *e
		c.X = unparen(e.X, notPrimary)
		return &c
	case *ast.CompositeLit:
		c := *e
		c.Elts = unparenAll(e.Elts)
		return &c
	case *ast.KeyValueExpr:
		c := *e
		c.Value = unparen(e.Value, never)
		return &c
	}
	return e
}

func unparenAll(es []ast.Expr) []ast.Expr {
	out := make([]ast.Expr, len(es))
	for i, e := range es {
		out[i] = unparen(e, never)
	}
	return out
}

func unparenOpt(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	return unparen(e, never)
}

func isOperation(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BinaryExpr, *ast.UnaryExpr:
		return true
	}
	return false
}

// Reports whether e cannot be used as the operand of a selector, index, slice,
// type assertion or call without parentheses.
func notPrimary(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.SelectorExpr, *ast.IndexExpr, *ast.IndexListExpr,
		*ast.CallExpr, *ast.SliceExpr, *ast.TypeAssertExpr, *ast.CompositeLit:
		return false
	}
	return true
}

// Returns e with every constant subexpression replaced by a literal of its
// value. Constants of named types are left alone.
func fold(e ast.Expr, info *types.Info) ast.Expr {
	if lit := constantLiteral(e, info); lit != nil {
		return lit
	}
	switch e := e.(type) {
	case *ast.ParenExpr:
		c := *e
		c.X = fold(e.X, info)
		return &c
	case *ast.UnaryExpr:
		c := *e
		c.X = fold(e.X, info)
		return &c
	case *ast.BinaryExpr:
		c := *e
		c.X, c.Y = fold(e.X, info), fold(e.Y, info)
		return &c
	case *ast.StarExpr:
		c := *e
		c.X = fold(e.X, info)
		return &c
	case *ast.CallExpr:
		c := *e
		c.Fun = fold(e.Fun, info)
		c.Args = make([]ast.Expr, len(e.Args))
		for i, arg := range e.Args {
			c.Args[i] = fold(arg, info)
		}
		return &c
	case *ast.SelectorExpr:
		c := *e
		c.X = fold(e.X, info)
		return &c
	case *ast.IndexExpr:
		c := *e
		c.X, c.Index = fold(e.X, info), fold(e.Index, info)
		return &c
	case *ast.SliceExpr:
		c := *e
		c.X = fold(e.X, info)
		for _, p := range []*ast.Expr{&c.Low, &c.High, &c.Max} {
			if *p != nil {
				*p = fold(*p, info)
			}
		}
		return &c
	case *ast.TypeAssertExpr:
		c := *e
		c.X = fold(e.X, info)
		return &c
	case *ast.CompositeLit:
		c := *e
		c.Elts = make([]ast.Expr, len(e.Elts))
		for i, elt := range e.Elts {
			c.Elts[i] = fold(elt, info)
		}
		return &c
	case *ast.KeyValueExpr:
		c := *e
		c.Value = fold(e.Value, info)
		return &c
	}
	return e
}

func constantLiteral(e ast.Expr, info *types.Info) ast.Expr {
	tv := info.Types[e]
	if tv.Value == nil {
		return nil
	}
	switch e := e.(type) {
	case *ast.BasicLit:
		return nil
	case *ast.Ident:
		if e.Name == "true" || e.Name == "false" {
			return nil
		}
	}
	basic, ok := tv.Type.(*types.Basic)
	if !ok {
		return nil
	}
	lit := literal(tv.Value, basic)
	if lit == nil || !ownsType(e, info) {
		return lit
	}
	return &ast.CallExpr{Fun: ast.NewIdent(basic.Name()), Args: []ast.Expr{lit}}
}

// Reports whether the constant expression e has a type of its own, rather than
// one given by its context: it contains a conversion, a call of a builtin or
// a typed constant.
func ownsType(e ast.Expr, info *types.Info) bool {
	owns := false
	ast.Inspect(e, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.CallExpr:
			owns = true
		case *ast.Ident:
			if c, ok := info.Uses[n].(*types.Const); ok {
				if b, ok := c.Type().(*types.Basic); !ok || b.Info()&types.IsUntyped == 0 {
					owns = true
				}
			}
		}
		return !owns
	})
	return owns
}

// Returns a literal for v that has the same default type as t.
func literal(v constant.Value, t *types.Basic) ast.Expr {
	info := t.Info()
	switch {
	case info&types.IsBoolean != 0:
		return ast.NewIdent(strconv.FormatBool(constant.BoolVal(v)))
	case info&types.IsString != 0:
		return &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(constant.StringVal(v))}
	case t.Kind() == types.UntypedRune:
		r, ok := constant.Int64Val(v)
		if !ok || r < 0 || r > math.MaxInt32 {
			return nil
		}
		return &ast.BasicLit{Kind: token.CHAR, Value: strconv.QuoteRune(rune(r))}
	case info&types.IsInteger != 0:
		return signed(token.INT, v.ExactString())
	case info&types.IsFloat != 0:
		f, _ := constant.Float64Val(constant.ToFloat(v))
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return signed(token.FLOAT, s)
	}
	return nil
}

func signed(kind token.Token, s string) ast.Expr {
	if abs, neg := strings.CutPrefix(s, "-"); neg {
		return &ast.UnaryExpr{Op: token.SUB, X: &ast.BasicLit{Kind: kind, Value: abs}}
	}
	return &ast.BasicLit{Kind: kind, Value: s}
}
