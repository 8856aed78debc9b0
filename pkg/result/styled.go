package result

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/diag"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/ui"
)

var stylingForSeverity = map[lang.Severity]ui.Styling{
	lang.Info:    ui.Dim,
	lang.Warning: ui.FgYellow,
	lang.Error:   ui.Stylings(ui.FgRed, ui.Bold),
}

var (
	stylingForError   = ui.FgRed
	stylingForCulprit = ui.Stylings(ui.Bold, ui.Underlined)
	stylingForAction  = ui.FgCyan
)

// Styled returns the styled-text projection of a result.
func Styled(r Result) ui.Text {
	switch r := r.(type) {
	case InputResult:
		return ui.T(r.Src.Code)
	case ParseResult:
		return ui.T(termString(r.AST))
	case AnalyzeResult:
		text := ui.T(termString(r.AST))
		for _, msg := range r.Messages {
			text = text.Concat(ui.T("\n"), styledMessage(msg))
		}
		return text
	case TransformResult:
		return ui.T(r.Action+": ", stylingForAction).Concat(ui.T(termString(r.AST)))
	case EvaluateResult:
		return ui.T(valueString(r.Value))
	case StyleResult:
		return ui.StyleRegions(r.Source, r.Regions)
	case PrintResult:
		return ui.T(r.Text)
	case MessageResult:
		return r.Text
	case ExceptionResult:
		return styledError(r.Cause)
	default:
		panic(fmt.Sprintf("unhandled result type %T", r))
	}
}

func styledMessage(msg lang.Message) ui.Text {
	return ui.T(msg.Severity.String()+": "+msg.Text, stylingForSeverity[msg.Severity])
}

func styledError(err error) ui.Text {
	text := ui.T(err.Error(), stylingForError)
	var de *diag.Error
	if errors.As(err, &de) && de.Context.Valid() {
		head, culprit, tail := de.Context.Excerpt()
		text = text.Concat(
			ui.T("\n  "+de.Context.Describe()+": "+head),
			ui.T(culprit, stylingForCulprit),
			ui.T(tail))
	}
	return text
}

func termString(t lang.Term) string {
	if t == nil {
		return ""
	}
	return fmt.Sprint(t)
}

func valueString(v lang.Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return quote(v)
	default:
		return fmt.Sprint(v)
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}
