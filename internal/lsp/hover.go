package lsp

import (
	"context"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
)

// hover handles textDocument/hover requests
func (s *Server) hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	if doc, ok := s.documentManager.GetDocument(params.TextDocument.URI); ok {
		params.DocumentContent = doc.Text
		params.Offset = doc.OffsetAt(params.Position.Line, params.Position.Character)
	}

	// Try each hover provider until one returns a result
	for _, provider := range s.hoverProviders {
		hover, err := provider.GetHover(ctx, params)
		if err != nil {
			continue
		}
		if hover != nil {
			return hover, nil
		}
	}

	// No hover information available
	return nil, nil
}
