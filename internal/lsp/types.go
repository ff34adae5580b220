package lsp

import (
	"context"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
)

// CompletionProvider is an interface for providing completion items
type CompletionProvider interface {
	// GetCompletions returns completion items for the given parameters
	GetCompletions(ctx context.Context, params *protocol.CompletionParams) []protocol.CompletionItem
	// GetTriggerCharacters returns the characters that trigger this completion provider
	GetTriggerCharacters() []string
}

// GotoDefinitionProvider is an interface for providing definition locations
type GotoDefinitionProvider interface {
	// GetDefinition returns location(s) for the definition of the symbol at the given position
	GetDefinition(ctx context.Context, params *protocol.DefinitionParams) []protocol.Location
}

// HoverProvider is an interface for providing hover information
type HoverProvider interface {
	// GetHover returns hover information for the given position
	GetHover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error)
}

// CodeLensProvider is an interface for providing code lenses
type CodeLensProvider interface {
	// GetCodeLenses returns code lenses for the given document
	GetCodeLenses(ctx context.Context, params *protocol.CodeLensParams) []protocol.CodeLens
	// ResolveCodeLens resolves the command for a given code lens item
	ResolveCodeLens(ctx context.Context, codeLens *protocol.CodeLens) (*protocol.CodeLens, error)
}

// DiagnosticsProvider is an interface for providing diagnostics for a document
type DiagnosticsProvider interface {
	// GetDiagnostics returns diagnostics for a document
	GetDiagnostics(ctx context.Context, uri string, content []byte) ([]protocol.Diagnostic, error)
}

// CodeActionProvider is an interface for providing code actions
type CodeActionProvider interface {
	// GetCodeActions returns code actions for the given parameters
	GetCodeActions(ctx context.Context, params *protocol.CodeActionParams) []protocol.CodeAction
	// GetCodeActionKinds returns the kinds of code actions this provider can provide
	GetCodeActionKinds() []protocol.CodeActionKind
}

// ReferencesProvider is an interface for providing reference locations
type ReferencesProvider interface {
	// GetReferences returns location(s) for all references to the symbol at the given position
	GetReferences(ctx context.Context, params *protocol.ReferenceParams) []protocol.Location
}

// DocumentLinkProvider is an interface for providing document links
type DocumentLinkProvider interface {
	// GetDocumentLinks returns document links for the given document
	GetDocumentLinks(ctx context.Context, params *protocol.DocumentLinkParams) []protocol.DocumentLink
}

// CommandFunc executes a workspace command with the given arguments
type CommandFunc func(ctx context.Context, args []interface{}) (interface{}, error)

// CommandProvider is an interface for providing executable workspace commands
type CommandProvider interface {
	// GetCommands returns a map of command identifiers to their handlers
	GetCommands() map[string]CommandFunc
}
