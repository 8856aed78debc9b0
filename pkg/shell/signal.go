//go:build unix || windows

package shell

import (
	"io"
	"os"
	"os/signal"
)

// Starts handling signals; the returned function stops it.
func initSignal(stderr io.Writer) func() {
	sigCh := make(chan os.Signal, 8)
	signal.Notify(sigCh, handledSignals...)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for sig := range sigCh {
			logger.Infow("signal", "name", signalName(sig))
			handleSignal(sig, stderr)
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(sigCh)
		<-done
	}
}
