// Package result defines the results produced by the shell: the artifacts of
// each pipeline stage, the output of side commands, and failures.
//
// Result is a closed set of variants. Styled reduces any of them to styled
// text, so display code never needs to know the variants; Show routes a
// result to a Display.
package result

import (
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/ui"
)

// Result is implemented by the result variants of this package only.
type Result interface {
	isResult()
}

// TermResult is implemented by results that carry a term: ParseResult,
// AnalyzeResult and TransformResult.
type TermResult interface {
	Result
	// Term returns the carried term.
	Term() lang.Term
	// Source returns the source the term was derived from.
	Source() lang.Source
}

// InputResult is the source code read at the start of a pipeline.
type InputResult struct {
	Src lang.Source
}

// ParseResult is the result of parsing an InputResult.
type ParseResult struct {
	Input InputResult
	AST   lang.Term
}

// AnalyzeResult is the result of analyzing a ParseResult.
type AnalyzeResult struct {
	Parsed   ParseResult
	AST      lang.Term
	Messages []lang.Message
}

// TransformResult is the result of applying a transformation action to a
// parsed or analyzed term.
type TransformResult struct {
	Action string
	// Input is the term the action was applied to.
	Input lang.Term
	// Analyzed is true when Input is an analyzed term.
	Analyzed bool
	AST      lang.Term
	Src      lang.Source
}

// EvaluateResult is the value of evaluating a term.
type EvaluateResult struct {
	Value   lang.Value
	Context EvalContext
}

// EvalContext describes where an evaluation happened.
type EvalContext struct {
	Language string
	Source   lang.Source
}

// StyleResult is the result of highlighting source code.
type StyleResult struct {
	Source  string
	Regions []ui.StylingRegion
}

// PrintResult is the result of pretty-printing a term.
type PrintResult struct {
	Text string
}

// MessageResult is the output of a side command, such as :help.
type MessageResult struct {
	Text ui.Text
}

// ExceptionResult wraps a failure. The cause is usually one of
// *CommandNotFound, *StageFailure, *ServiceUnavailable or *PanicError.
type ExceptionResult struct {
	Cause error
}

func (InputResult) isResult()     {}
func (ParseResult) isResult()     {}
func (AnalyzeResult) isResult()   {}
func (TransformResult) isResult() {}
func (EvaluateResult) isResult()  {}
func (StyleResult) isResult()     {}
func (PrintResult) isResult()     {}
func (MessageResult) isResult()   {}
func (ExceptionResult) isResult() {}

// Source returns the source of the parsed term.
func (r ParseResult) Source() lang.Source { return r.Input.Src }

// Term returns the parsed term.
func (r ParseResult) Term() lang.Term { return r.AST }

// Source returns the source of the analyzed term.
func (r AnalyzeResult) Source() lang.Source { return r.Parsed.Source() }

// Term returns the analyzed term.
func (r AnalyzeResult) Term() lang.Term { return r.AST }

// Source returns the source of the transformed term.
func (r TransformResult) Source() lang.Source { return r.Src }

// Term returns the transformed term.
func (r TransformResult) Term() lang.Term { return r.AST }

// TransformedFromParse builds a TransformResult for an action applied to a
// parsed term.
func TransformedFromParse(action string, parsed ParseResult, ast lang.Term) TransformResult {
	return TransformResult{Action: action, Input: parsed.AST, AST: ast, Src: parsed.Source()}
}

// TransformedFromAnalysis builds a TransformResult for an action applied to an
// analyzed term.
func TransformedFromAnalysis(action string, analyzed AnalyzeResult, ast lang.Term) TransformResult {
	return TransformResult{Action: action, Input: analyzed.AST, Analyzed: true, AST: ast, Src: analyzed.Source()}
}

// Error returns the message of the cause.
func (r ExceptionResult) Error() string { return r.Cause.Error() }

// Unwrap returns the cause.
func (r ExceptionResult) Unwrap() error { return r.Cause }
