package lsp

import (
	"context"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
)

// completion handles textDocument/completion requests
func (s *Server) completion(ctx context.Context, params *protocol.CompletionParams) *protocol.CompletionList {
	if doc, ok := s.documentManager.GetDocument(params.TextDocument.URI); ok {
		params.DocumentContent = doc.Text
		params.LinePrefix = doc.LinePrefix(params.Position.Line, params.Position.Character)
	}

	// Collect completion items from all providers
	var items []protocol.CompletionItem
	for _, provider := range s.completionProviders {
		providerItems := provider.GetCompletions(ctx, params)
		items = append(items, providerItems...)
	}

	// Return the completion list
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}
}
