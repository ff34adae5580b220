package lsp

import (
	"context"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
)

// definition handles textDocument/definition requests
func (s *Server) definition(ctx context.Context, params *protocol.DefinitionParams) []protocol.Location {
	if doc, ok := s.documentManager.GetDocument(params.TextDocument.URI); ok {
		params.DocumentContent = doc.Text
		params.Offset = doc.OffsetAt(params.Position.Line, params.Position.Character)
	}

	// Collect definition locations from all providers
	var locations []protocol.Location
	for _, provider := range s.definitionProviders {
		providerLocations := provider.GetDefinition(ctx, params)
		locations = append(locations, providerLocations...)
	}

	return locations
}
