package golang

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/diag"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/tt"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/ui"
)

func newLanguage(t *testing.T) (*Language, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	l, err := NewWithOutput(&out, &out)
	require.NoError(t, err)
	return l, &out
}

func src(code string) lang.Source { return lang.Source{Name: "[test]", Code: code} }

func mustParse(t *testing.T, l *Language, code string) *Tree {
	t.Helper()
	term, err := l.Parse(src(code))
	require.NoError(t, err, "parse %q", code)
	return term.(*Tree)
}

func mustAnalyze(t *testing.T, l *Language, code string) (*Tree, []lang.Message) {
	t.Helper()
	term, msgs, err := l.Analyze(mustParse(t, l, code))
	require.NoError(t, err)
	return term.(*Tree), msgs
}

func TestParse_Kinds(t *testing.T) {
	l, _ := newLanguage(t)
	assert.True(t, mustParse(t, l, "1 + 2").IsExpr())
	assert.True(t, mustParse(t, l, "func(x int) int { return x }(2)").IsExpr())
	assert.False(t, mustParse(t, l, "func f() int { return 1 }").IsExpr())
	assert.False(t, mustParse(t, l, "var x = 1").IsExpr())
	assert.False(t, mustParse(t, l, `import "fmt"`).IsExpr())
	pkg := mustParse(t, l, "package p\n\nconst c = 1\n")
	assert.True(t, pkg.IsPackage())
	assert.False(t, mustParse(t, l, "type T int").IsPackage())
}

func TestParse_SyntaxErrors(t *testing.T) {
	l, _ := newLanguage(t)
	for _, tc := range []struct {
		code string
		from int
	}{
		{"1 + ) 2", 4},
		{"var = 1", 4},
		{"1 +", 3},
	} {
		_, err := l.Parse(src(tc.code))
		var de *diag.Error
		require.ErrorAs(t, err, &de, "parse %q", tc.code)
		assert.Equal(t, "syntax error", de.Type)
		assert.Equal(t, "[test]", de.Context.Name)
		assert.Equal(t, tc.from, de.Context.From, "error position for %q", tc.code)
	}
}

func TestAnalyze_ExprType(t *testing.T) {
	l, _ := newLanguage(t)
	tree, msgs := mustAnalyze(t, l, "1 + 2")
	require.Len(t, msgs, 1)
	assert.Equal(t, lang.Info, msgs[0].Severity)
	assert.Equal(t, "1 + 2: untyped int = 3", msgs[0].Text)
	assert.True(t, tree.Analyzed())
	assert.Equal(t, "3", tree.Value.ExactString())

	_, msgs = mustAnalyze(t, l, `len("abc") + 1`)
	require.Len(t, msgs, 1)
	assert.Equal(t, `len("abc") + 1: int = 4`, msgs[0].Text)
}

func TestAnalyze_TypeErrors(t *testing.T) {
	l, _ := newLanguage(t)
	_, msgs := mustAnalyze(t, l, "1 + nope")
	require.Len(t, msgs, 1)
	assert.Equal(t, lang.Error, msgs[0].Severity)
	assert.Equal(t, "undefined: nope", msgs[0].Text)
	assert.Equal(t, 4, msgs[0].From)

	_, msgs = mustAnalyze(t, l, `var x int = "s"`)
	require.NotEmpty(t, msgs)
	assert.Equal(t, lang.Error, msgs[0].Severity)
	assert.Equal(t, 12, msgs[0].From)
}

func TestAnalyze_DeclaredNames(t *testing.T) {
	l, _ := newLanguage(t)
	_, msgs := mustAnalyze(t, l, "var x, y = 1, \"s\"\nfunc f() bool { return true }")
	var texts []string
	for _, msg := range msgs {
		assert.Equal(t, lang.Info, msg.Severity)
		texts = append(texts, msg.Text)
	}
	assert.Equal(t, []string{"x: int", "y: string", "f: func() bool"}, texts)
}

func TestSession(t *testing.T) {
	l, _ := newLanguage(t)
	_, err := l.Evaluate(mustParse(t, l, "func double(x int) int { return 2 * x }"))
	require.NoError(t, err)
	_, err = l.Evaluate(mustParse(t, l, "const base = 20"))
	require.NoError(t, err)

	_, msgs := mustAnalyze(t, l, "double(base + 1)")
	require.Len(t, msgs, 1)
	assert.Equal(t, "double(base + 1): int", msgs[0].Text)

	v, err := l.Evaluate(mustParse(t, l, "double(base + 1)"))
	require.NoError(t, err)
	assert.Equal(t, "42", fmt.Sprint(v))

	// Redeclaring a session name is a type error.
	_, msgs = mustAnalyze(t, l, "var base = 1")
	require.NotEmpty(t, msgs)
	assert.Equal(t, lang.Error, msgs[0].Severity)
}

// Evaluates code the way the shell does: parsed, analyzed, then evaluated.
func mustEvalAnalyzed(t *testing.T, l *Language, code string) lang.Value {
	t.Helper()
	analyzed, msgs := mustAnalyze(t, l, code)
	for _, msg := range msgs {
		require.NotEqual(t, lang.Error, msg.Severity, "analyze %q: %s", code, msg.Text)
	}
	v, err := l.Evaluate(analyzed)
	require.NoError(t, err, "evaluate %q", code)
	return v
}

func TestSession_DeclarationsAfterImport(t *testing.T) {
	l, _ := newLanguage(t)
	assert.Nil(t, mustEvalAnalyzed(t, l, `import "fmt"`))
	assert.Nil(t, mustEvalAnalyzed(t, l, "var s = fmt.Sprint(1)"))
	assert.Equal(t, "1", mustEvalAnalyzed(t, l, "s"))

	// The session import is already recorded; later declarations see it too.
	assert.Nil(t, mustEvalAnalyzed(t, l, "func twice() string { return fmt.Sprint(s, s) }"))
	assert.Nil(t, mustEvalAnalyzed(t, l, "var y = 1"))
	assert.Equal(t, "11", mustEvalAnalyzed(t, l, "twice()"))
	assert.Equal(t, 2, mustEvalAnalyzed(t, l, "y + 1"))

	imports, decls := l.session()
	assert.Equal(t, []string{`"fmt"`}, imports)
	assert.Equal(t, []string{
		"var s = fmt.Sprint(1)",
		"func twice() string { return fmt.Sprint(s, s) }",
		"var y = 1",
	}, decls)
}

func TestEvaluate(t *testing.T) {
	l, out := newLanguage(t)

	v, err := l.Evaluate(mustParse(t, l, `"a" + "b"`))
	require.NoError(t, err)
	assert.Equal(t, "ab", v)

	v, err = l.Evaluate(mustParse(t, l, `import "fmt"`))
	require.NoError(t, err)
	assert.Nil(t, v)
	_, err = l.Evaluate(mustParse(t, l, `fmt.Println("hello")`))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.String())

	_, err = l.Evaluate(mustParse(t, l, "undefinedThing"))
	assert.Error(t, err)
}

func transformed(t *testing.T, l *Language, action string, term lang.Term) string {
	t.Helper()
	result, err := l.Transform(action, term)
	require.NoError(t, err)
	return result.(*Tree).Code
}

func TestTransform_Unparen(t *testing.T) {
	l, _ := newLanguage(t)
	unparenCode := func(code string) string {
		return transformed(t, l, "unparen", mustParse(t, l, code))
	}
	tt.Test(t, tt.Fn("unparen", unparenCode), tt.Table{
		tt.Args("((1 + 2)) * (3)").Rets("(1 + 2) * 3"),
		tt.Args("(a - b) - c").Rets("a - b - c"),
		tt.Args("a - (b - c)").Rets("a - (b - c)"),
		tt.Args("(a * b) + c").Rets("a*b + c"),
		tt.Args("-(-x)").Rets("-(-x)"),
		tt.Args("f((x), (y + 1))").Rets("f(x, y+1)"),
		tt.Args("(f)(x).y").Rets("f(x).y"),
		tt.Args("(*p).x").Rets("(*p).x"),
		tt.Args("[]int{(1), (2)}[(0)]").Rets("[]int{1, 2}[0]"),
	})
}

func TestTransform_Fold(t *testing.T) {
	l, _ := newLanguage(t)
	foldCode := func(code string) string {
		analyzed, _ := mustAnalyze(t, l, code)
		return transformed(t, l, "fold", analyzed)
	}
	tt.Test(t, tt.Fn("fold", foldCode), tt.Table{
		tt.Args("(1 + 2) * 4").Rets("12"),
		tt.Args("[]int{1 + 1, 2 * 3}").Rets("[]int{2, 6}"),
		tt.Args("1.5 * 2").Rets("3.0"),
		tt.Args("'a' + 1").Rets("'b'"),
		tt.Args(`"a" + "b"`).Rets(`"ab"`),
		tt.Args("int64(2) * 3").Rets("int64(6)"),
		tt.Args("-1 - 1").Rets("-2"),
		tt.Args("1 < 2").Rets("true"),
		tt.Args("[]bool{true}").Rets("[]bool{true}"),
	})
}

func TestTransform_Errors(t *testing.T) {
	l, _ := newLanguage(t)
	_, err := l.Transform("fold", mustParse(t, l, "1 + 2"))
	assert.ErrorContains(t, err, "requires an analyzed term")
	_, err = l.Transform("unparen", mustParse(t, l, "var x = (1)"))
	assert.ErrorContains(t, err, "expressions only")
	_, err = l.Transform("nope", mustParse(t, l, "1"))
	assert.ErrorContains(t, err, `unknown action "nope"`)
	_, err = l.Transform("unparen", "not a tree")
	assert.Error(t, err)
}

func TestTransform_EvaluatesRewrittenCode(t *testing.T) {
	l, _ := newLanguage(t)
	analyzed, _ := mustAnalyze(t, l, "(2 + 3) * 2")
	folded, err := l.Transform("fold", analyzed)
	require.NoError(t, err)
	v, err := l.Evaluate(folded)
	require.NoError(t, err)
	assert.Equal(t, "10", fmt.Sprint(v))
}

func TestFormat(t *testing.T) {
	l, _ := newLanguage(t)
	format := func(code string) string {
		s, err := l.Format(mustParse(t, l, code))
		require.NoError(t, err)
		return s
	}
	tt.Test(t, tt.Fn("format", format), tt.Table{
		tt.Args("1+2").Rets("1 + 2"),
		tt.Args("func f( ) int {return 1}").Rets("func f() int { return 1 }"),
		tt.Args("var   x=1").Rets("var x = 1"),
	})
}

func TestStyle(t *testing.T) {
	l, _ := newLanguage(t)
	regions, err := l.Style(`if true { s := "x" + 12 } // c`)
	require.NoError(t, err)

	type region struct {
		from, to int
		styling  ui.Styling
	}
	var got []region
	for _, r := range regions {
		got = append(got, region{r.From, r.To, r.Styling})
	}
	assert.Equal(t, []region{
		{0, 2, ui.FgYellow},
		{3, 7, ui.FgBlue},
		{15, 18, ui.FgGreen},
		{21, 23, ui.FgMagenta},
		{26, 30, ui.FgCyan},
	}, got)
}

func TestStyle_Malformed(t *testing.T) {
	l, _ := newLanguage(t)
	regions, err := l.Style("x @ \"unterminated")
	require.NoError(t, err)
	require.NotEmpty(t, regions)
	assert.Equal(t, ui.BgRed, regions[0].Styling)
	assert.Equal(t, 2, regions[0].From)
}

func TestActions(t *testing.T) {
	l, _ := newLanguage(t)
	a, ok := lang.FindAction(l, "fold")
	assert.True(t, ok)
	assert.True(t, a.NeedsAnalysis)
	a, ok = lang.FindAction(l, "unparen")
	assert.True(t, ok)
	assert.False(t, a.NeedsAnalysis)
}
