// Package logutil provides logging utilities.
//
// All loggers share one process-wide zap core. Output is discarded until
// SetOutput or SetOutputFile is called, typically in response to the --log
// flag.
package logutil

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	out  = &swapWriter{w: io.Discard}
	root = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(out), zapcore.DebugLevel))
)

// GetLogger gets a logger with the given name. Loggers obtained before the
// output is changed follow the change.
func GetLogger(name string) *zap.SugaredLogger {
	return root.Named(name).Sugar()
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// the given io.Writer. If the old output was a file opened by SetOutputFile,
// it is closed.
func SetOutput(w io.Writer) {
	if owned := out.swap(w, nil); owned != nil {
		owned.Close()
	}
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file. If the old output was a file opened by SetOutputFile, it is
// closed. The new file is truncated. SetOutputFile("") is equivalent to
// SetOutput(io.Discard).
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if owned := out.swap(file, file); owned != nil {
		owned.Close()
	}
	return nil
}

type swapWriter struct {
	mu sync.Mutex
	w  io.Writer
	// The file opened by SetOutputFile, if w is one.
	owned *os.File
}

func (s *swapWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Replaces the output, and returns the previously owned file, if any.
func (s *swapWriter) swap(w io.Writer, owned *os.File) *os.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.owned
	s.w, s.owned = w, owned
	return old
}
