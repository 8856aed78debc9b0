package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/diag"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/pipeline"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
)

// ScriptConfig keeps configuration for the script mode.
type ScriptConfig struct {
	// Cmd means the first argument is an input line rather than a file name.
	Cmd bool
	// CompileOnly stops after analysis.
	CompileOnly bool
	// JSON writes the diagnostics of CompileOnly to stdout as JSON.
	JSON bool
}

// Script runs one input line or a source file, and returns the exit status:
// 0 on success and 2 on failure.
func Script(fds [3]*os.File, args []string, s *Session, d result.Display, cfg *ScriptConfig) int {
	arg0 := args[0]
	if cfg.Cmd && !cfg.CompileOnly {
		// A line given with -c may also be a command, such as ":help".
		return exitStatus(show(d, s.Execute(arg0)))
	}

	c := s.Composer()
	if c == nil {
		fmt.Fprintln(fds[2], "no language loaded; use --lang or set language in the rc file")
		return 2
	}
	if !cfg.CompileOnly {
		return exitStatus(show(d, result.Collapse(c.EvalFile(arg0))))
	}

	var in result.FailOrSuccess[result.InputResult, result.Result]
	if cfg.Cmd {
		in = c.Source(arg0)
	} else {
		in = c.Open(arg0)
	}
	r := result.Collapse(result.Bind(in, pipeline.Then(c.Parse, c.Analyze)))
	if cfg.JSON {
		fmt.Fprintf(fds[1], "%s\n", errorsToJSON(r))
	} else if result.IsFailure(r) {
		result.Show(d, r)
	}
	return exitStatus(r)
}

func show(d result.Display, r result.Result) result.Result {
	result.Show(d, r)
	return r
}

func exitStatus(r result.Result) int {
	if result.IsFailure(r) {
		return 2
	}
	return 0
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

// Converts the failure of a result into JSON. The result of a successful
// check is an empty list.
func errorsToJSON(r result.Result) []byte {
	converted := []errorInJSON{}
	if exc, ok := r.(result.ExceptionResult); ok {
		var de *diag.Error
		if errors.As(exc.Cause, &de) {
			converted = append(converted,
				errorInJSON{de.Context.Name, de.Context.From, de.Context.To, de.Message})
		} else {
			converted = append(converted, errorInJSON{Message: exc.Cause.Error()})
		}
	}

	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
