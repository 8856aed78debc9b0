// Package sys wraps the terminal queries the shell makes when choosing
// between its line editor and plain input, and when deciding on color.
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsATTY reports whether file is a terminal, including Cygwin and MSYS
// terminals. A nil file is not a terminal.
func IsATTY(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
