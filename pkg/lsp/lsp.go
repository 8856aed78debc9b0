// Package lsp implements a language server exposing the diagnostics and editor
// services of a loaded language.
package lsp

import (
	"context"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/logutil"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/prog"
)

var logger = logutil.GetLogger("[lsp] ")

// Program is the LSP subprogram. It runs when --lsp is given, serving the
// language named by --lang.
type Program struct {
	Languages lang.Table
}

func (p Program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if !f.LSP {
		return prog.ErrNotSuitable
	}
	s := newServer()
	if f.Lang != "" {
		impl, err := p.Languages.New(f.Lang)
		if err != nil {
			return prog.BadUsage(err.Error())
		}
		s.load(impl)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{}),
		handler(s))
	<-conn.DisconnectNotify()
	s.wait()
	return nil
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
