package result

import "github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/ui"

// Display is a sink for rendered results.
type Display interface {
	// DisplayResult displays a successful result.
	DisplayResult(text ui.Text)
	// DisplayError displays a failure. Implementations are expected to render
	// it distinctly from successful results.
	DisplayError(text ui.Text)
}

// Show renders r and hands it to d: failures to DisplayError, everything else
// to DisplayResult.
func Show(d Display, r Result) {
	if _, ok := r.(ExceptionResult); ok {
		d.DisplayError(Styled(r))
	} else {
		d.DisplayResult(Styled(r))
	}
}

// DisplayString displays an unstyled string as a result.
func DisplayString(d Display, s string) { d.DisplayResult(ui.T(s)) }

// DisplayErrorString displays an unstyled string as an error.
func DisplayErrorString(d Display, s string) { d.DisplayError(ui.T(s)) }

// IsFailure reports whether r is an ExceptionResult.
func IsFailure(r Result) bool {
	_, ok := r.(ExceptionResult)
	return ok
}
