package shell

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/sys"
)

// InteractConfig keeps configuration for the interactive mode.
type InteractConfig struct {
	// Prompt shown before each line.
	Prompt string
	// Startup lines run before the first prompt, such as ":load go".
	Startup []string
}

// Used by tests to force the minimal editor.
var isTTY = sys.IsATTY

// Interact runs an interactive session until end of input or :exit.
func Interact(fds [3]*os.File, s *Session, d result.Display, cfg *InteractConfig) {
	logger.Infow("session started", "session", s.ID)
	defer logger.Infow("session ended", "session", s.ID)

	for _, line := range cfg.Startup {
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.Show(d, s.Execute(line))
		if s.Exited() {
			return
		}
	}

	var ed editor
	if canUseLiner(fds, isTTY) {
		ed = newLinerEditor(s.Invoker())
	} else {
		ed = newMinEditor(fds[0], fds[2])
	}
	defer func() { ed.Close() }()

	cooldown := time.Second
	cmdNum := 0

	for !s.Exited() {
		line, err := ed.ReadCode(cfg.Prompt)

		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(fds[2], "Editor error:", err)
			if _, isMinEditor := ed.(*minEditor); !isMinEditor {
				fmt.Fprintln(fds[2], "Falling back to basic line editor")
				ed.Close()
				ed = newMinEditor(fds[0], fds[2])
			} else {
				fmt.Fprintln(fds[2], "Don't know what to do, pid is", os.Getpid())
				fmt.Fprintln(fds[2], "Restarting editor in", cooldown)
				time.Sleep(cooldown)
				if cooldown < time.Minute {
					cooldown *= 2
				}
			}
			continue
		}

		// No error; reset cooldown.
		cooldown = time.Second

		if strings.TrimSpace(line) == "" {
			continue
		}
		cmdNum++
		logger.Debugw("read", "session", s.ID, "input", fmt.Sprintf("[tty %v]", cmdNum))
		result.Show(d, s.Execute(line))
	}
}
