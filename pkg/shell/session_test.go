package shell

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/diag"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang/golang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/pipeline"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/ui"
)

// A language whose terms are the source code. Parsing fails at the first "!";
// evaluation upper-cases the code.
type fakeLang struct{ name string }

func newFakeLang() (lang.Implementation, error) { return fakeLang{"fake"}, nil }

func (l fakeLang) Name() string { return l.name }

func (fakeLang) Parse(src lang.Source) (lang.Term, error) {
	if i := strings.IndexByte(src.Code, '!'); i >= 0 {
		return nil, &diag.Error{
			Type: "syntax error", Message: "unexpected !",
			Context: *diag.NewContext(src.Name, src.Code, diag.PointRanging(i))}
	}
	return src.Code, nil
}

func (fakeLang) Analyze(t lang.Term) (lang.Term, []lang.Message, error) {
	var msgs []lang.Message
	if strings.Contains(t.(string), "?") {
		msgs = append(msgs, lang.Message{Severity: lang.Error, Text: "no questions"})
	}
	return t, msgs, nil
}

func (fakeLang) Actions() []lang.Action {
	return []lang.Action{{Name: "reverse", Description: "reverse the code"}}
}

func (fakeLang) Transform(action string, t lang.Term) (lang.Term, error) {
	r := []rune(t.(string))
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r), nil
}

func (fakeLang) Evaluate(t lang.Term) (lang.Value, error) {
	return strings.ToUpper(t.(string)), nil
}

func (fakeLang) Style(code string) ([]ui.StylingRegion, error) {
	return []ui.StylingRegion{{Ranging: diag.Ranging{From: 0, To: len(code)}, Styling: ui.FgRed}}, nil
}

func (fakeLang) Format(t lang.Term) (string, error) {
	return "formatted " + t.(string), nil
}

var testLanguages = lang.Table{"fake": newFakeLang}

func newTestSession() *Session {
	return NewSession(testLanguages, pipeline.OSFileReader{})
}

func text(r result.Result) string { return result.Styled(r).String() }

func TestSession_EvaluationUnavailableBeforeLoad(t *testing.T) {
	s := newTestSession()
	r := s.Execute("abc")
	require.True(t, result.IsFailure(r))
	var su *result.ServiceUnavailable
	require.ErrorAs(t, r.(result.ExceptionResult), &su)
	assert.Equal(t, Evaluation, su.Service)
	assert.False(t, s.Services().IsLoaded())
	assert.Nil(t, s.Composer())
}

func TestSession_Help(t *testing.T) {
	s := newTestSession()
	assert.Equal(t,
		":exit\n    end the session\n"+
			":help [command]\n    show all commands, or the usage of one\n"+
			":languages\n    list the languages that can be loaded\n"+
			":load <language>\n    load a language",
		text(s.Execute(":help")))

	assert.Equal(t, ":load <language>\n    load a language", text(s.Execute(":help load")))

	r := s.Execute(":help nope")
	var notFound *result.CommandNotFound
	require.ErrorAs(t, r.(result.ExceptionResult), &notFound)
	assert.Equal(t, "nope", notFound.Name)

	assert.Equal(t, "usage: :help [command]", text(s.Execute(":help a b")))
}

func TestSession_Load(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, "usage: :load <language>", text(s.Execute(":load")))

	r := s.Execute(":load cobol")
	var unknown *lang.UnknownLanguage
	require.ErrorAs(t, r.(result.ExceptionResult), &unknown)
	assert.Equal(t, []string{"fake"}, unknown.Known)

	assert.Equal(t, "loaded fake", text(s.Execute(":load fake")))
	assert.True(t, s.Services().IsLoaded())
	assert.Equal(t, "fake", s.Composer().Language())
	assert.Equal(t,
		[]string{"actions", "analyze", "eval", "exit", "format", "help",
			"highlight", "languages", "load", "open", "parse", "transform"},
		s.Invoker().Names())
	assert.Equal(t, "fake (loaded)", text(s.Execute(":languages")))
}

func TestSession_LanguageCommands(t *testing.T) {
	s := newTestSession()
	s.Execute(":load fake")

	assert.Equal(t, `"ABC DEF"`, text(s.Execute("abc def")))
	assert.Equal(t, `"X"`, text(s.Execute(":eval x")))
	assert.Equal(t, "a   b", text(s.Execute(":parse a   b")))
	assert.Equal(t, "ab", text(s.Execute(":analyze ab")))
	assert.Equal(t, "reverse: cba", text(s.Execute(":transform reverse abc")))
	assert.Equal(t, "reverse: reverse the code", text(s.Execute(":actions")))
	assert.Equal(t, "formatted xy", text(s.Execute(":format xy")))
	assert.Equal(t, "usage: :transform <action> <code>", text(s.Execute(":transform")))
	assert.Equal(t, "usage: :open <file>", text(s.Execute(":open")))

	r := s.Execute(":highlight abc")
	sr, ok := r.(result.StyleResult)
	require.True(t, ok, "got %T", r)
	assert.Equal(t, "abc", sr.Source)
	require.Len(t, sr.Regions, 1)
	assert.Equal(t, ui.FgRed, sr.Regions[0].Styling)

	var sf *result.StageFailure
	require.ErrorAs(t, s.Execute("a!b").(result.ExceptionResult), &sf)
	assert.Equal(t, pipeline.StageParse, sf.Stage)
	require.ErrorAs(t, s.Execute("why?").(result.ExceptionResult), &sf)
	assert.Equal(t, pipeline.StageAnalyze, sf.Stage)
	require.ErrorAs(t, s.Execute(":transform nope abc").(result.ExceptionResult), &sf)
	assert.Equal(t, pipeline.StageTransform, sf.Stage)
}

func TestSession_CodeKeepsWhitespace(t *testing.T) {
	s := newTestSession()
	s.Execute(":load fake")

	assert.Equal(t, `"A  B"`, text(s.Execute(":eval a  b")))
	assert.Equal(t, text(s.Execute("a  b")), text(s.Execute(":eval   a  b")))
	assert.Equal(t, "x\n  y", text(s.Execute(":parse x\n  y")))
	assert.Equal(t, "formatted a\tb", text(s.Execute(":format a\tb")))
	assert.Equal(t, "reverse: c  ba", text(s.Execute(":transform  reverse   ab  c")))
	assert.Equal(t, "usage: :transform <action> <code>", text(s.Execute(":transform   ")))
}

func TestSession_GoDeclarationsAfterImport(t *testing.T) {
	s := NewSession(lang.Table{"go": golang.New}, pipeline.OSFileReader{})
	require.Equal(t, "loaded go", text(s.Execute(":load go")))

	for _, line := range []string{
		`import "fmt"`,
		"var s = fmt.Sprint(1)",
		`import "strings"`,
		"var y = 1",
		"func f() int { return y + len(s) }",
		"var u = strings.ToUpper(s + \"a\")",
	} {
		r := s.Execute(line)
		require.False(t, result.IsFailure(r), "%s -> %s", line, text(r))
	}

	assert.Equal(t, `"1"`, text(s.Execute("s")))
	assert.Equal(t, "2", text(s.Execute("f()")))
	assert.Equal(t, `"1A"`, text(s.Execute("u")))
	assert.Contains(t, text(s.Execute(":analyze y")), "y: int")
}

func TestSession_ReloadReplacesCommands(t *testing.T) {
	s := NewSession(lang.Table{
		"fake": newFakeLang,
		"other": func() (lang.Implementation, error) {
			return fakeLang{"other"}, nil
		},
	}, pipeline.OSFileReader{})
	s.Execute(":load fake")
	s.Invoker().AddCommand("extra", evaluationUnavailable)

	s.Execute(":load other")
	assert.Equal(t, "other", s.Composer().Language())
	_, err := s.Invoker().CommandFromName("extra")
	assert.Error(t, err)
	_, err = s.Invoker().CommandFromName("parse")
	assert.NoError(t, err)
}

func TestSession_FailingFactory(t *testing.T) {
	errBroken := errors.New("broken")
	s := NewSession(lang.Table{
		"broken": func() (lang.Implementation, error) { return nil, errBroken },
	}, pipeline.OSFileReader{})
	r := s.Execute(":load broken")
	assert.ErrorIs(t, r.(result.ExceptionResult), errBroken)
	assert.False(t, s.Services().IsLoaded())
}

func TestSession_Exit(t *testing.T) {
	s := newTestSession()
	assert.False(t, s.Exited())
	assert.Equal(t, "", text(s.Execute(":exit")))
	assert.True(t, s.Exited())
}
