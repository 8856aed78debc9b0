package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/diag"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/editsvc"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/pipeline"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	services *editsvc.Services
	// Nil until a language is loaded.
	composer *pipeline.Composer

	mutex   sync.Mutex
	content map[lsp.DocumentURI]string

	publishing sync.WaitGroup
}

func newServer() *server {
	return &server{services: editsvc.New(), content: make(map[lsp.DocumentURI]string)}
}

func (s *server) load(impl lang.Implementation) {
	s.composer = pipeline.New(impl, pipeline.OSFileReader{})
	s.services.Load(s.composer)
}

// Waits for pending diagnostics to be published.
func (s *server) wait() { s.publishing.Wait() }

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/formatting": s.formatting,

		"shutdown": noop,
		"exit":     exit,
		// Sent by clients after initialize.
		"initialized": noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func exit(_ context.Context, conn jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, conn.Close()
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			logger.Debugw("unknown method", "method", req.Method)
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider:              true,
			DocumentFormattingProvider: true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.setContent(uri, content)
	s.publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.setContent(uri, content)
	s.publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mutex.Lock()
	delete(s.content, params.TextDocument.URI)
	s.mutex.Unlock()
	// Clear the diagnostics of the closed document.
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: params.TextDocument.URI, Diagnostics: []lsp.Diagnostic{}})
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	content, ok := s.getContent(params.TextDocument.URI)
	if !ok || s.composer == nil {
		return lsp.Hover{}, nil
	}
	idx := lspPositionToIdx(content, params.Position)
	msgs, _ := s.messages(params.TextDocument.URI, content)
	for _, msg := range msgs {
		if msg.Severity == lang.Info && msg.From <= idx && idx <= msg.To {
			rg := lspRangeFromRange(content, msg)
			return lsp.Hover{
				Contents: []lsp.MarkedString{{Language: s.composer.Language(), Value: msg.Text}},
				Range:    &rg,
			}, nil
		}
	}
	return lsp.Hover{}, nil
}

func (s *server) formatting(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DocumentFormattingParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	content, ok := s.getContent(params.TextDocument.URI)
	if !ok {
		return nil, &jsonrpc2.Error{
			Code: jsonrpc2.CodeInvalidParams, Message: "document is not open"}
	}

	var r result.Result
	if s.composer == nil {
		// Let the editor services report that they are unavailable.
		r = result.Collapse(s.services.FoldAndPrint(nil))
	} else {
		src := lang.Source{Name: string(params.TextDocument.URI), Code: content}
		r = result.Collapse(result.Bind(
			s.composer.Parse(result.InputResult{Src: src}), s.foldAndPrint))
	}
	printed, ok := r.(result.PrintResult)
	if !ok {
		return nil, &jsonrpc2.Error{
			Code: jsonrpc2.CodeInternalError, Message: result.Styled(r).String()}
	}
	if printed.Text == content {
		return []lsp.TextEdit{}, nil
	}
	return []lsp.TextEdit{{
		Range:   lspRangeFromRange(content, diag.Ranging{From: 0, To: len(content)}),
		NewText: printed.Text,
	}}, nil
}

func (s *server) foldAndPrint(p result.ParseResult) result.FailOrSuccess[result.PrintResult, result.Result] {
	return s.services.FoldAndPrint(p)
}

func (s *server) setContent(uri lsp.DocumentURI, content string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.content[uri] = content
}

func (s *server) getContent(uri lsp.DocumentURI) (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	content, ok := s.content[uri]
	return content, ok
}

func (s *server) publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	s.publishing.Add(1)
	go func() {
		defer s.publishing.Done()
		conn.Notify(ctx, "textDocument/publishDiagnostics",
			lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: s.diagnostics(uri, content)})
	}()
}

var severities = map[lang.Severity]lsp.DiagnosticSeverity{
	lang.Error:   lsp.Error,
	lang.Warning: lsp.Warning,
	lang.Info:    lsp.Information,
}

// Diagnostics are the syntax error, or the analysis messages other than
// information. No language means no diagnostics.
func (s *server) diagnostics(uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	diags := []lsp.Diagnostic{}
	if s.composer == nil {
		return diags
	}
	msgs, err := s.messages(uri, content)
	if err != nil {
		var de *diag.Error
		if !errors.As(err, &de) {
			de = &diag.Error{Message: err.Error()}
		}
		return append(diags, lsp.Diagnostic{
			Range:    lspRangeFromRange(content, de.Context),
			Severity: lsp.Error,
			Source:   pipeline.StageParse,
			Message:  de.Message,
		})
	}
	for _, msg := range msgs {
		if msg.Severity == lang.Info {
			continue
		}
		diags = append(diags, lsp.Diagnostic{
			Range:    lspRangeFromRange(content, msg),
			Severity: severities[msg.Severity],
			Source:   pipeline.StageAnalyze,
			Message:  msg.Text,
		})
	}
	return diags
}

// Parses and analyzes a document, returning all analysis messages. Unlike
// the Analyze stage, messages of Error severity are not turned into a failure.
func (s *server) messages(uri lsp.DocumentURI, content string) ([]lang.Message, error) {
	src := lang.Source{Name: string(uri), Code: content}
	parse := s.composer.Parse(result.InputResult{Src: src})
	parsed, ok := parse.Get()
	if !ok {
		return nil, failure(parse)
	}
	impl := s.composer.Implementation()
	analyze := result.Of(func() ([]lang.Message, error) {
		_, msgs, err := impl.Analyze(parsed.Term())
		return msgs, err
	})
	msgs, ok := analyze.Get()
	if !ok {
		return nil, failure(analyze)
	}
	return msgs, nil
}

func failure[S any](r result.FailOrSuccess[S, result.Result]) error {
	f, _ := r.Failure()
	if exc, ok := f.(result.ExceptionResult); ok {
		return exc.Cause
	}
	return errors.New(result.Styled(f).String())
}
