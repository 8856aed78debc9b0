//go:build unix

package shell

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"
)

var handledSignals = []os.Signal{syscall.SIGHUP, syscall.SIGUSR1}

func signalName(sig os.Signal) string {
	return unix.SignalName(sig.(syscall.Signal))
}

func handleSignal(sig os.Signal, stderr io.Writer) {
	switch sig {
	case syscall.SIGHUP:
		os.Exit(0)
	case syscall.SIGUSR1:
		fmt.Fprint(stderr, dumpStack())
	}
}

func dumpStack() string {
	buf := make([]byte, 1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, len(buf)*2)
	}
}
