package lsp

import (
	"context"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
)

// codeAction handles textDocument/codeAction requests
func (s *Server) codeAction(ctx context.Context, params *protocol.CodeActionParams) []protocol.CodeAction {
	if doc, ok := s.documentManager.GetDocument(params.TextDocument.URI); ok {
		params.DocumentContent = doc.Text
	}

	// Collect code actions from all providers
	var actions []protocol.CodeAction
	for _, provider := range s.codeActionProviders {
		providerActions := provider.GetCodeActions(ctx, params)
		actions = append(actions, providerActions...)
	}

	return actions
}
