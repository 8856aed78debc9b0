package command

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Records the arguments of every call.
type recorder struct {
	name  string
	calls [][]string
}

func (r *recorder) Description() string { return "records " + r.name }
func (r *recorder) Usage() string       { return "" }

func (r *recorder) Execute(args ...string) result.Result {
	r.calls = append(r.calls, args)
	return result.PrintResult{Text: r.name}
}

func TestExecute_Scenario(t *testing.T) {
	h := &recorder{name: "H"}
	d := &recorder{name: "D"}
	iv := NewInvoker(map[string]Command{"help": h}, d)

	assert.Equal(t, result.PrintResult{Text: "H"}, iv.Execute(":help"))
	iv.Execute(":help foo bar")
	assert.Equal(t, result.PrintResult{Text: "D"}, iv.Execute("2+2"))

	require.Len(t, h.calls, 2)
	assert.Empty(t, h.calls[0])
	assert.Equal(t, []string{"foo", "bar"}, h.calls[1])
	assert.Equal(t, [][]string{{"2+2"}}, d.calls)
}

func TestExecute_SplitsOnWhitespaceRuns(t *testing.T) {
	h := &recorder{name: "H"}
	iv := NewInvoker(map[string]Command{"help": h}, &recorder{})

	iv.Execute(":help\t  a   b\tc  ")
	iv.Execute(":help   ")

	assert.Equal(t, [][]string{{"a", "b", "c"}, {}}, normalize(h.calls))
}

// Turns nil argument lists into empty ones for comparison.
func normalize(calls [][]string) [][]string {
	out := make([][]string, len(calls))
	for i, c := range calls {
		out[i] = append([]string{}, c...)
	}
	return out
}

func TestExecute_CodeCommandGetsRemainder(t *testing.T) {
	var got []string
	eval := NewCodeFunc("evaluate", "<code>", func(code string) result.Result {
		got = append(got, code)
		return result.PrintResult{Text: code}
	})
	iv := NewInvoker(map[string]Command{"eval": eval}, &recorder{})

	iv.Execute(`:eval "a  b"`)
	iv.Execute(":eval\t  x\n  y  ")
	iv.Execute(":eval")
	assert.Equal(t, []string{`"a  b"`, "x\n  y  ", ""}, got)

	// Called directly, the arguments are joined with single spaces.
	assert.Equal(t, result.PrintResult{Text: "1 + 2"}, eval.Execute("1", "+", "2"))
}

func TestExecute_DefaultGetsRawInput(t *testing.T) {
	d := &recorder{name: "D"}
	iv := NewInvoker(nil, d)
	for _, in := range []string{"plain text", "  spaced  out ", "x:y", ""} {
		iv.Execute(in)
	}
	assert.Equal(t, [][]string{{"plain text"}, {"  spaced  out "}, {"x:y"}, {""}}, d.calls)
}

func TestExecute_CommandNotFound(t *testing.T) {
	d := &recorder{name: "D"}
	iv := NewInvoker(nil, d)

	for _, tc := range []struct{ in, name string }{
		{":x", "x"},
		{":x args here", "x"},
		{":", ""},
	} {
		r := iv.Execute(tc.in)
		ex, ok := r.(result.ExceptionResult)
		require.True(t, ok, "Execute(%q) -> %#v, want a failure", tc.in, r)
		var nf *result.CommandNotFound
		require.ErrorAs(t, ex, &nf)
		assert.Equal(t, tc.name, nf.Name)
		assert.Contains(t, ex.Error(), fmt.Sprintf("%q", tc.name))
	}
	assert.Empty(t, d.calls, "the default command ran for a prefixed line")
}

func TestExecute_CatchesPanics(t *testing.T) {
	boom := NewFunc("panics", "", func(...string) result.Result { panic("boom") })
	iv := NewInvoker(map[string]Command{"boom": boom}, boom)

	assert.True(t, result.IsFailure(iv.Execute(":boom")))
	assert.True(t, result.IsFailure(iv.Execute("anything")))
}

func TestNilDefault(t *testing.T) {
	iv := NewInvoker(nil, nil)
	r := iv.Execute("plain")
	ex, ok := r.(result.ExceptionResult)
	require.True(t, ok, "Execute -> %#v, want a failure", r)
	assert.ErrorIs(t, ex, ErrNoDefault)

	d := &recorder{name: "D"}
	iv.SetDefault(d)
	iv.SetDefault(nil)
	assert.Same(t, d, iv.Default())
	assert.Equal(t, result.PrintResult{Text: "D"}, iv.Execute("plain"))
}

func TestAddCommand_LastWriteWins(t *testing.T) {
	iv := NewInvoker(nil, &recorder{})
	var last *recorder
	for i := range 3 {
		last = &recorder{name: fmt.Sprint(i)}
		iv.AddCommand("c", last)
	}
	cmd, err := iv.CommandFromName("c")
	require.NoError(t, err)
	assert.Same(t, last, cmd)
}

func TestResetCommands(t *testing.T) {
	help := &recorder{name: "help"}
	def := &recorder{name: "D"}
	iv := NewInvoker(map[string]Command{"help": help}, def)

	iv.AddCommand("help", &recorder{name: "other"})
	iv.AddCommand("parse", &recorder{})
	iv.AddCommand("eval", &recorder{})
	iv.RemoveCommand("eval")
	newDef := &recorder{name: "D2"}
	iv.SetDefault(newDef)

	iv.ResetCommands()

	assert.Equal(t, []string{"help"}, iv.Names())
	cmd, err := iv.CommandFromName("help")
	require.NoError(t, err)
	assert.Same(t, help, cmd)
	assert.Same(t, newDef, iv.Default(), "reset changed the default command")
}

func TestNewInvoker_CopiesDefaults(t *testing.T) {
	defaults := map[string]Command{"help": &recorder{}}
	iv := NewInvoker(defaults, &recorder{})
	defaults["late"] = &recorder{}
	iv.ResetCommands()
	assert.Equal(t, []string{"help"}, iv.Names())
}

func TestRemoveCommand(t *testing.T) {
	iv := NewInvoker(map[string]Command{"a": &recorder{}, "b": &recorder{}}, &recorder{})
	iv.RemoveCommand("a")
	iv.RemoveCommand("missing")
	assert.Equal(t, []string{"b"}, iv.Names())
	_, err := iv.CommandFromName("a")
	assert.Error(t, err)
}

func TestInvoker_Concurrent(t *testing.T) {
	iv := NewInvoker(map[string]Command{"help": &recorder{}}, NewFunc("", "", func(...string) result.Result {
		return result.PrintResult{}
	}))
	var g errgroup.Group
	for i := range 8 {
		g.Go(func() error {
			name := fmt.Sprint("cmd", i)
			for range 100 {
				iv.AddCommand(name, NewFunc("", "", func(...string) result.Result {
					return result.PrintResult{Text: name}
				}))
				r := iv.Execute(":" + name)
				if r == (result.PrintResult{Text: name}) {
					continue
				}
				// A concurrent reset may unbind the command between the two
				// calls above.
				var nf *result.CommandNotFound
				if ex, ok := r.(result.ExceptionResult); !ok || !errors.As(ex, &nf) {
					return fmt.Errorf("Execute(:%s) -> %v", name, r)
				}
				iv.Execute("default")
				_ = iv.Names()
			}
			return nil
		})
	}
	g.Go(func() error {
		for range 50 {
			iv.ResetCommands()
		}
		return nil
	})
	assert.NoError(t, g.Wait())
}
