package pipeline

import (
	"fmt"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/diag"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/logutil"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
)

var logger = logutil.GetLogger("[pipeline] ")

// Names of the stages, as recorded in *result.StageFailure.
const (
	StageOpen      = "open"
	StageParse     = "parse"
	StageAnalyze   = "analyze"
	StageTransform = "transform"
	StageEvaluate  = "evaluate"
	StageStyle     = "style"
	StagePrint     = "pretty-print"
)

// SourceName is the name given to sources created by Composer.Source.
const SourceName = "[input]"

// Composer builds the stages of a language implementation and chains them
// into pipelines.
type Composer struct {
	impl  lang.Implementation
	files FileReader
}

// New creates a Composer for the given language implementation. Files opened
// by the Open stage are read with files.
func New(impl lang.Implementation, files FileReader) *Composer {
	return &Composer{impl, files}
}

// Language returns the name of the language implementation.
func (c *Composer) Language() string { return c.impl.Name() }

// Implementation returns the language implementation.
func (c *Composer) Implementation() lang.Implementation { return c.impl }

// Source wraps literal source text.
func (c *Composer) Source(text string) result.FailOrSuccess[result.InputResult, result.Result] {
	return result.Success[result.InputResult, result.Result](
		result.InputResult{Src: lang.Source{Name: SourceName, Code: text}})
}

// Open reads source text from a file.
func (c *Composer) Open(path string) result.FailOrSuccess[result.InputResult, result.Result] {
	return stage(StageOpen, func() (result.InputResult, error) {
		code, err := c.files.ReadFile(path)
		if err != nil {
			return result.InputResult{}, err
		}
		return result.InputResult{Src: lang.Source{Name: path, Code: code, Path: path}}, nil
	})
}

// Parse parses the input.
func (c *Composer) Parse(in result.InputResult) result.FailOrSuccess[result.ParseResult, result.Result] {
	return stage(StageParse, func() (result.ParseResult, error) {
		ast, err := c.impl.Parse(in.Src)
		if err != nil {
			return result.ParseResult{}, err
		}
		return result.ParseResult{Input: in, AST: ast}, nil
	})
}

// Analyze analyzes a parsed term. It fails if the analysis reports any
// message of Error severity.
func (c *Composer) Analyze(p result.ParseResult) result.FailOrSuccess[result.AnalyzeResult, result.Result] {
	return stage(StageAnalyze, func() (result.AnalyzeResult, error) {
		ast, msgs, err := c.impl.Analyze(p.AST)
		if err != nil {
			return result.AnalyzeResult{}, err
		}
		if err := analysisError(p.Source(), msgs); err != nil {
			return result.AnalyzeResult{}, err
		}
		return result.AnalyzeResult{Parsed: p, AST: ast, Messages: msgs}, nil
	})
}

// TransformParsed returns a stage applying the named action to a parsed term.
// It fails if the action is unknown or requires an analyzed term.
func (c *Composer) TransformParsed(action string) Func[result.ParseResult, result.TransformResult] {
	return func(p result.ParseResult) result.FailOrSuccess[result.TransformResult, result.Result] {
		return stage(StageTransform, func() (result.TransformResult, error) {
			a, err := c.action(action)
			if err != nil {
				return result.TransformResult{}, err
			}
			if a.NeedsAnalysis {
				return result.TransformResult{}, fmt.Errorf("action %q requires an analyzed term", action)
			}
			ast, err := c.impl.Transform(action, p.AST)
			if err != nil {
				return result.TransformResult{}, err
			}
			return result.TransformedFromParse(action, p, ast), nil
		})
	}
}

// TransformAnalyzed returns a stage applying the named action to an analyzed
// term. It fails if the action is unknown.
func (c *Composer) TransformAnalyzed(action string) Func[result.AnalyzeResult, result.TransformResult] {
	return func(a result.AnalyzeResult) result.FailOrSuccess[result.TransformResult, result.Result] {
		return stage(StageTransform, func() (result.TransformResult, error) {
			if _, err := c.action(action); err != nil {
				return result.TransformResult{}, err
			}
			ast, err := c.impl.Transform(action, a.AST)
			if err != nil {
				return result.TransformResult{}, err
			}
			return result.TransformedFromAnalysis(action, a, ast), nil
		})
	}
}

// Evaluate evaluates the term carried by a parse, analyze or transform result.
func (c *Composer) Evaluate(t result.TermResult) result.FailOrSuccess[result.EvaluateResult, result.Result] {
	return stage(StageEvaluate, func() (result.EvaluateResult, error) {
		v, err := c.impl.Evaluate(t.Term())
		if err != nil {
			return result.EvaluateResult{}, err
		}
		return result.EvaluateResult{
			Value:   v,
			Context: result.EvalContext{Language: c.Language(), Source: t.Source()},
		}, nil
	})
}

// Style computes syntax highlighting for source text.
func (c *Composer) Style(code string) result.FailOrSuccess[result.StyleResult, result.Result] {
	return stage(StageStyle, func() (result.StyleResult, error) {
		regions, err := c.impl.Style(code)
		if err != nil {
			return result.StyleResult{}, err
		}
		return result.StyleResult{Source: code, Regions: regions}, nil
	})
}

// PrettyPrint formats the term carried by a parse, analyze or transform
// result.
func (c *Composer) PrettyPrint(t result.TermResult) result.FailOrSuccess[result.PrintResult, result.Result] {
	return stage(StagePrint, func() (result.PrintResult, error) {
		text, err := c.impl.Format(t.Term())
		if err != nil {
			return result.PrintResult{}, err
		}
		return result.PrintResult{Text: text}, nil
	})
}

// ParseSource is Source ▸ Parse.
func (c *Composer) ParseSource(text string) result.FailOrSuccess[result.ParseResult, result.Result] {
	return Then(c.Source, c.Parse)(text)
}

// AnalyzeSource is Source ▸ Parse ▸ Analyze.
func (c *Composer) AnalyzeSource(text string) result.FailOrSuccess[result.AnalyzeResult, result.Result] {
	return Then3(c.Source, c.Parse, c.Analyze)(text)
}

// EvalSource is Source ▸ Parse ▸ Analyze ▸ Evaluate.
func (c *Composer) EvalSource(text string) result.FailOrSuccess[result.EvaluateResult, result.Result] {
	return Then(Then3(c.Source, c.Parse, c.Analyze), evaluate[result.AnalyzeResult](c))(text)
}

// EvalFile is Open ▸ Parse ▸ Analyze ▸ Evaluate.
func (c *Composer) EvalFile(path string) result.FailOrSuccess[result.EvaluateResult, result.Result] {
	return Then(Then3(c.Open, c.Parse, c.Analyze), evaluate[result.AnalyzeResult](c))(path)
}

// TransformSource is Source ▸ Parse ▸ Transform, with Analyze inserted before
// Transform when the action requires an analyzed term.
func (c *Composer) TransformSource(action string) Func[string, result.TransformResult] {
	if a, ok := lang.FindAction(c.impl, action); ok && a.NeedsAnalysis {
		return Then(Then3(c.Source, c.Parse, c.Analyze), c.TransformAnalyzed(action))
	}
	return Then3(c.Source, c.Parse, c.TransformParsed(action))
}

// PrintSource is Source ▸ Parse ▸ PrettyPrint.
func (c *Composer) PrintSource(text string) result.FailOrSuccess[result.PrintResult, result.Result] {
	return Then3(c.Source, c.Parse, printer[result.ParseResult](c))(text)
}

func evaluate[T result.TermResult](c *Composer) Func[T, result.EvaluateResult] {
	return func(t T) result.FailOrSuccess[result.EvaluateResult, result.Result] {
		return c.Evaluate(t)
	}
}

func printer[T result.TermResult](c *Composer) Func[T, result.PrintResult] {
	return func(t T) result.FailOrSuccess[result.PrintResult, result.Result] {
		return c.PrettyPrint(t)
	}
}

func (c *Composer) action(name string) (lang.Action, error) {
	a, ok := lang.FindAction(c.impl, name)
	if !ok {
		return lang.Action{}, fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

// Runs fn as the named stage. Errors returned by fn are wrapped in a
// *result.StageFailure; panics are recovered by result.Of.
func stage[S any](name string, fn func() (S, error)) result.FailOrSuccess[S, result.Result] {
	return result.Of(func() (S, error) {
		s, err := fn()
		if err != nil {
			logger.Debugw("stage failed", "stage", name, "err", err)
			return s, &result.StageFailure{Stage: name, Cause: err}
		}
		return s, nil
	})
}

// Builds the error for analysis messages of Error severity, or returns nil if
// there are none. The first error is reported with its position.
func analysisError(src lang.Source, msgs []lang.Message) error {
	var errs []lang.Message
	for _, msg := range msgs {
		if msg.Severity == lang.Error {
			errs = append(errs, msg)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	message := errs[0].Text
	if len(errs) > 1 {
		message += fmt.Sprintf(" (and %d more errors)", len(errs)-1)
	}
	return &diag.Error{
		Type:    "analysis error",
		Message: message,
		Context: *diag.NewContext(src.Name, src.Code, errs[0].Ranging),
	}
}
