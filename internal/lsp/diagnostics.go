package lsp

import (
	"context"
	"time"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
)

// scheduleValidation (re)arms the debounce timer for a document. The document
// is validated once no further edits arrive within validateDelay.
func (s *Server) scheduleValidation(uri string) {
	s.validateMu.Lock()
	defer s.validateMu.Unlock()

	if timer, ok := s.validateTimers[uri]; ok {
		timer.Stop()
	}

	s.validateTimers[uri] = time.AfterFunc(validateDelay, func() {
		s.validateMu.Lock()
		delete(s.validateTimers, uri)
		s.validateMu.Unlock()

		s.validateDocument(context.Background(), uri)
	})
}

// cancelValidation stops a pending validation for a document
func (s *Server) cancelValidation(uri string) {
	s.validateMu.Lock()
	defer s.validateMu.Unlock()

	if timer, ok := s.validateTimers[uri]; ok {
		timer.Stop()
		delete(s.validateTimers, uri)
	}
}

// validateDocument runs all diagnostics providers over a document and
// publishes the combined result. The published list fully replaces the
// previous diagnostics for the document.
func (s *Server) validateDocument(ctx context.Context, uri string) {
	content, ok := s.documentManager.GetDocumentText(uri)
	if !ok {
		return
	}

	diagnostics := make([]protocol.Diagnostic, 0)
	for _, provider := range s.diagnosticsProviders {
		providerDiagnostics, err := provider.GetDiagnostics(ctx, uri, content)
		if err != nil {
			log.Errorf("error getting diagnostics for %s: %s", uri, err.Error())
			continue
		}
		diagnostics = append(diagnostics, providerDiagnostics...)
	}

	s.publishDiagnostics(ctx, uri, diagnostics)
}

// PublishDiagnostics validates the given documents and publishes their
// diagnostics. Documents that are not open are skipped.
func (s *Server) PublishDiagnostics(ctx context.Context, uris []string) {
	for _, uri := range uris {
		s.validateDocument(ctx, uri)
	}
}

// RevalidateOpenDocuments schedules a validation of all open documents. Used
// after file system changes that can change whether referenced files exist.
func (s *Server) RevalidateOpenDocuments() {
	for _, uri := range s.documentManager.AllDocumentURIs() {
		s.scheduleValidation(uri)
	}
}

// clearDiagnostics publishes an empty diagnostics list for a document
func (s *Server) clearDiagnostics(ctx context.Context, uri string) {
	s.publishDiagnostics(ctx, uri, make([]protocol.Diagnostic, 0))
}

func (s *Server) publishDiagnostics(ctx context.Context, uri string, diagnostics []protocol.Diagnostic) {
	if s.conn == nil {
		return
	}

	params := protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	}
	if err := s.conn.Notify(ctx, "textDocument/publishDiagnostics", params); err != nil {
		log.Errorf("error publishing diagnostics for %s: %s", uri, err.Error())
	}
}
