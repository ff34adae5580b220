package lsp

import (
	"context"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
)

// references handles textDocument/references requests
func (s *Server) references(ctx context.Context, params *protocol.ReferenceParams) []protocol.Location {
	if doc, ok := s.documentManager.GetDocument(params.TextDocument.URI); ok {
		params.DocumentContent = doc.Text
		params.Offset = doc.OffsetAt(params.Position.Line, params.Position.Character)
	}

	// Collect reference locations from all providers
	var locations []protocol.Location
	for _, provider := range s.referencesProviders {
		providerLocations := provider.GetReferences(ctx, params)
		locations = append(locations, providerLocations...)
	}

	return locations
}
