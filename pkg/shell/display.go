package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/config"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/sys"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/ui"
)

// Display writes results to a terminal or a file, one result per line.
// Results go to Out and errors to Err. Empty results are not written.
type Display struct {
	Out, Err io.Writer
	// Color enables VT escape sequences.
	Color bool
}

// NewDisplay creates a Display writing to the stdout and stderr of fds. The
// color setting is one of the config.Color* values; auto enables colors when
// stdout is a terminal.
func NewDisplay(fds [3]*os.File, color string) *Display {
	return &Display{Out: fds[1], Err: fds[2], Color: useColor(color, fds[1])}
}

func useColor(setting string, f *os.File) bool {
	switch setting {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return sys.IsATTY(f)
	}
}

func (d *Display) DisplayResult(t ui.Text) { d.write(d.Out, t) }

func (d *Display) DisplayError(t ui.Text) { d.write(d.Err, t) }

func (d *Display) write(w io.Writer, t ui.Text) {
	s := t.String()
	if s == "" {
		return
	}
	if d.Color {
		s = t.VTString()
	}
	fmt.Fprintln(w, s)
}
