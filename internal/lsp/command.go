package lsp

import (
	"context"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
	"github.com/sourcegraph/jsonrpc2"
)

// executeCommand handles workspace/executeCommand requests
func (s *Server) executeCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
	fn, ok := s.commands[params.Command]
	if !ok {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "Unknown command: " + params.Command}
	}

	return fn(ctx, params.Arguments)
}
