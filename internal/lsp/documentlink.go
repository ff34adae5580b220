package lsp

import (
	"context"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
)

// documentLink handles textDocument/documentLink requests
func (s *Server) documentLink(ctx context.Context, params *protocol.DocumentLinkParams) []protocol.DocumentLink {
	// Collect document links from all providers
	var links []protocol.DocumentLink
	for _, provider := range s.documentLinkProviders {
		providerLinks := provider.GetDocumentLinks(ctx, params)
		links = append(links, providerLinks...)
	}

	return links
}
