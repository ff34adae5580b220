package lsp

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/codeinclude/codeinclude-lsp/internal/indexer"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("codeinclude.lsp")

// validateDelay is how long after the last edit the open document is
// re-validated
const validateDelay = 500 * time.Millisecond

// Server represents the LSP server
type Server struct {
	rootPath              string
	conn                  *jsonrpc2.Conn
	completionProviders   []CompletionProvider
	definitionProviders   []GotoDefinitionProvider
	hoverProviders        []HoverProvider
	codeLensProviders     []CodeLensProvider
	diagnosticsProviders  []DiagnosticsProvider
	codeActionProviders   []CodeActionProvider
	referencesProviders   []ReferencesProvider
	documentLinkProviders []DocumentLinkProvider
	commands              map[string]CommandFunc
	indexers              map[string]indexer.Indexer
	indexerMu             sync.RWMutex
	documentManager       *DocumentManager
	fileScanner           *indexer.FileScanner
	config                *workspace.Config

	validateMu     sync.Mutex
	validateTimers map[string]*time.Timer
}

// NewServer creates a new LSP server
func NewServer(fileScanner *indexer.FileScanner, config *workspace.Config) *Server {
	return &Server{
		commands:        make(map[string]CommandFunc),
		indexers:        make(map[string]indexer.Indexer),
		documentManager: NewDocumentManager(),
		fileScanner:     fileScanner,
		config:          config,
		validateTimers:  make(map[string]*time.Timer),
	}
}

// RegisterCompletionProvider registers a completion provider with the server
func (s *Server) RegisterCompletionProvider(provider CompletionProvider) {
	s.completionProviders = append(s.completionProviders, provider)
}

// RegisterDefinitionProvider registers a definition provider with the server
func (s *Server) RegisterDefinitionProvider(provider GotoDefinitionProvider) {
	s.definitionProviders = append(s.definitionProviders, provider)
}

// RegisterHoverProvider registers a hover provider with the server
func (s *Server) RegisterHoverProvider(provider HoverProvider) {
	s.hoverProviders = append(s.hoverProviders, provider)
}

// RegisterCodeLensProvider registers a code lens provider with the server
func (s *Server) RegisterCodeLensProvider(provider CodeLensProvider) {
	s.codeLensProviders = append(s.codeLensProviders, provider)
}

// RegisterDiagnosticsProvider registers a diagnostics provider with the server
func (s *Server) RegisterDiagnosticsProvider(provider DiagnosticsProvider) {
	s.diagnosticsProviders = append(s.diagnosticsProviders, provider)
}

// RegisterCodeActionProvider registers a code action provider with the server
func (s *Server) RegisterCodeActionProvider(provider CodeActionProvider) {
	s.codeActionProviders = append(s.codeActionProviders, provider)
}

// RegisterReferencesProvider registers a references provider with the server
func (s *Server) RegisterReferencesProvider(provider ReferencesProvider) {
	s.referencesProviders = append(s.referencesProviders, provider)
}

// RegisterDocumentLinkProvider registers a document link provider with the server
func (s *Server) RegisterDocumentLinkProvider(provider DocumentLinkProvider) {
	s.documentLinkProviders = append(s.documentLinkProviders, provider)
}

// RegisterCommandProvider registers all commands of a command provider
func (s *Server) RegisterCommandProvider(provider CommandProvider) {
	for name, fn := range provider.GetCommands() {
		s.commands[name] = fn
	}
}

// RegisterIndexer adds an indexer to the registry
func (s *Server) RegisterIndexer(idx indexer.Indexer) {
	s.indexerMu.Lock()
	defer s.indexerMu.Unlock()
	s.indexers[idx.ID()] = idx
}

// GetIndexer retrieves an indexer by ID
func (s *Server) GetIndexer(id string) (indexer.Indexer, bool) {
	s.indexerMu.RLock()
	defer s.indexerMu.RUnlock()
	idx, ok := s.indexers[id]
	return idx, ok
}

// DocumentManager returns the document manager of the server
func (s *Server) DocumentManager() *DocumentManager {
	return s.documentManager
}

// FileScanner returns the file scanner of the server
func (s *Server) FileScanner() *indexer.FileScanner {
	return s.fileScanner
}

// Config returns the workspace configuration of the server
func (s *Server) Config() *workspace.Config {
	return s.config
}

// RootPath returns the workspace root path sent by the client
func (s *Server) RootPath() string {
	return s.rootPath
}

// indexAll builds or updates all registered indexes
// If forceReindex is true, it will clear the existing index before rebuilding
func (s *Server) indexAll(ctx context.Context, forceReindex bool) error {
	startTime := time.Now()

	if s.conn != nil {
		if err := s.conn.Notify(ctx, "codeinclude/indexingStarted", map[string]interface{}{
			"message": "Indexing started",
		}); err != nil {
			return err
		}
	}

	if forceReindex {
		if err := s.fileScanner.ClearStates(); err != nil {
			return err
		}
	}

	if err := s.fileScanner.IndexAll(ctx); err != nil {
		return err
	}

	elapsedTime := time.Since(startTime)

	if s.conn != nil {
		if err := s.conn.Notify(ctx, "codeinclude/indexingCompleted", map[string]interface{}{
			"message":       "Indexing completed",
			"timeInSeconds": elapsedTime.Seconds(),
		}); err != nil {
			return err
		}
	}

	return nil
}

// ForceReindex clears the index state and rebuilds all indexes
func (s *Server) ForceReindex(ctx context.Context) error {
	return s.indexAll(ctx, true)
}

// CloseAll closes the file scanner, which owns the state store and all
// indexers attached to it.
func (s *Server) CloseAll() error {
	s.validateMu.Lock()
	for uri, timer := range s.validateTimers {
		timer.Stop()
		delete(s.validateTimers, uri)
	}
	s.validateMu.Unlock()

	if s.fileScanner != nil {
		return s.fileScanner.Close()
	}
	return nil
}

func (s *Server) Start(in io.Reader, out io.Writer) error {
	// Create a new JSON-RPC connection
	stream := jsonrpc2.NewBufferedStream(rwc{in, out}, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(context.Background(), stream, jsonrpc2.HandlerWithError(s.handle))
	s.conn = conn

	// Wait for the connection to close
	<-conn.DisconnectNotify()
	return nil
}

// rwc combines a reader and writer into a single ReadWriteCloser
type rwc struct {
	io.Reader
	io.Writer
}

// Close implements io.Closer
func (rwc) Close() error {
	return nil
}

// handle processes incoming JSON-RPC requests and notifications
func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	// Handle exit notification after shutdown
	if req.Method == "exit" {
		log.Info("received exit notification, exiting")
		if err := conn.Close(); err != nil {
			log.Errorf("error closing connection: %s", err.Error())
		}
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		var params protocol.InitializeParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeParseError, Message: err.Error()}
		}
		return s.initialize(ctx, &params), nil

	case "initialized":
		// Build the index when the client is initialized
		go func() {
			if err := s.indexAll(context.Background(), false); err != nil {
				log.Errorf("error indexing: %s", err.Error())
			}
			if err := s.fileScanner.StartWatcher(); err != nil {
				log.Errorf("error starting file watcher: %s", err.Error())
			}
		}()
		return nil, nil

	case "textDocument/didOpen":
		var params struct {
			TextDocument struct {
				URI     string `json:"uri"`
				Text    string `json:"text"`
				Version int    `json:"version"`
			} `json:"textDocument"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		s.documentManager.OpenDocument(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
		s.scheduleValidation(params.TextDocument.URI)
		return nil, nil

	case "textDocument/didChange":
		var params struct {
			TextDocument struct {
				URI     string `json:"uri"`
				Version int    `json:"version"`
			} `json:"textDocument"`
			ContentChanges []struct {
				Text string `json:"text"`
			} `json:"contentChanges"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		if len(params.ContentChanges) > 0 {
			s.documentManager.UpdateDocument(params.TextDocument.URI, params.ContentChanges[0].Text, params.TextDocument.Version)
			s.scheduleValidation(params.TextDocument.URI)
		}
		return nil, nil

	case "textDocument/didClose":
		var params struct {
			TextDocument struct {
				URI string `json:"uri"`
			} `json:"textDocument"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		s.cancelValidation(params.TextDocument.URI)
		s.documentManager.CloseDocument(params.TextDocument.URI)
		s.clearDiagnostics(ctx, params.TextDocument.URI)
		return nil, nil

	case "textDocument/completion":
		var params protocol.CompletionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.completion(ctx, &params), nil

	case "textDocument/definition":
		var params protocol.DefinitionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.definition(ctx, &params), nil

	case "textDocument/hover":
		var params protocol.HoverParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.hover(ctx, &params)

	case "textDocument/codeLens":
		var params protocol.CodeLensParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.codeLens(ctx, &params), nil

	case "codeLens/resolve":
		var codeLens protocol.CodeLens
		if err := json.Unmarshal(*req.Params, &codeLens); err != nil {
			return nil, err
		}
		return s.resolveCodeLens(ctx, &codeLens)

	case "textDocument/references":
		var params protocol.ReferenceParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.references(ctx, &params), nil

	case "textDocument/codeAction":
		var params protocol.CodeActionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.codeAction(ctx, &params), nil

	case "textDocument/documentLink":
		var params protocol.DocumentLinkParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.documentLink(ctx, &params), nil

	case "workspace/executeCommand":
		var params protocol.ExecuteCommandParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.executeCommand(ctx, &params)

	case "codeinclude/forceReindex":
		// Force reindex all indexers
		go func() {
			if err := s.indexAll(context.Background(), true); err != nil {
				log.Errorf("error force reindexing: %s", err.Error())
			}
		}()
		return map[string]interface{}{
			"message": "Force reindexing started",
		}, nil

	case "shutdown":
		if err := s.CloseAll(); err != nil {
			log.Errorf("error closing indexers: %s", err.Error())
		}

		log.Info("received shutdown request, waiting for exit notification")
		return nil, nil

	case "workspace/didCreateFiles":
		var params protocol.CreateFilesParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		files := make([]string, len(params.Files))
		for i, file := range params.Files {
			files[i] = uriToPath(file.URI)
		}
		if err := s.fileScanner.IndexFiles(ctx, files); err != nil {
			log.Errorf("error indexing new files: %s", err.Error())
		}
		return nil, nil

	case "workspace/didRenameFiles":
		var params protocol.RenameFilesParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		oldFiles := make([]string, len(params.Files))
		newFiles := make([]string, len(params.Files))
		for i, file := range params.Files {
			oldFiles[i] = uriToPath(file.OldURI)
			newFiles[i] = uriToPath(file.NewURI)
		}

		if err := s.fileScanner.IndexFiles(ctx, newFiles); err != nil {
			log.Errorf("error indexing new files: %s", err.Error())
		}
		if err := s.fileScanner.RemoveFiles(oldFiles); err != nil {
			log.Errorf("error removing old files: %s", err.Error())
		}

		return nil, nil

	case "workspace/didDeleteFiles":
		var params protocol.DeleteFilesParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		files := make([]string, len(params.Files))
		for i, file := range params.Files {
			files[i] = uriToPath(file.URI)
		}
		if err := s.fileScanner.RemoveFiles(files); err != nil {
			log.Errorf("error removing old files: %s", err.Error())
		}
		return nil, nil

	case "workspace/didChangeWatchedFiles":
		var params protocol.DidChangeWatchedFilesParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		var changed, deleted []string
		for _, change := range params.Changes {
			switch change.Type {
			case int(protocol.FileCreated), int(protocol.FileChanged):
				changed = append(changed, uriToPath(change.URI))
			case int(protocol.FileDeleted):
				deleted = append(deleted, uriToPath(change.URI))
			}
		}

		if len(changed) > 0 {
			if err := s.fileScanner.IndexFiles(ctx, changed); err != nil {
				log.Errorf("error indexing changed files: %s", err.Error())
			}
		}
		if len(deleted) > 0 {
			if err := s.fileScanner.RemoveFiles(deleted); err != nil {
				log.Errorf("error removing deleted files: %s", err.Error())
			}
		}

		// File system changes can invalidate resolved references in open documents
		s.RevalidateOpenDocuments()

		return nil, nil

	default:
		// Check if this is a notification (no ID)
		if req.ID == (jsonrpc2.ID{}) {
			// This is a notification, no response needed
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "Method not implemented: " + req.Method}
	}
}

// initialize handles the LSP initialize request
func (s *Server) initialize(ctx context.Context, params *protocol.InitializeParams) interface{} {
	// Extract root path from params
	s.extractRootPath(params)

	if s.config != nil {
		s.config.ApplyInitializationOptions(params.InitializationOptions)
	}

	// Collect all trigger characters from providers
	triggerChars := s.collectTriggerCharacters()

	// Collect all code action kinds from providers
	var codeActionKinds []protocol.CodeActionKind
	for _, provider := range s.codeActionProviders {
		codeActionKinds = append(codeActionKinds, provider.GetCodeActionKinds()...)
	}

	// Collect all registered command names
	commandNames := make([]string, 0, len(s.commands))
	for name := range s.commands {
		commandNames = append(commandNames, name)
	}

	// Define server capabilities
	return map[string]interface{}{
		"capabilities": map[string]interface{}{
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    1, // Full sync
			},
			"completionProvider": map[string]interface{}{
				"triggerCharacters": triggerChars,
			},
			"definitionProvider":   true,
			"hoverProvider":        true,
			"referencesProvider":   true,
			"documentLinkProvider": map[string]interface{}{},
			"codeLensProvider": map[string]interface{}{
				"resolveProvider": true,
			},
			"codeActionProvider": map[string]interface{}{
				"codeActionKinds": codeActionKinds,
			},
			"executeCommandProvider": map[string]interface{}{
				"commands": commandNames,
			},
			"workspace": map[string]interface{}{
				"fileOperations": map[string]interface{}{
					"didCreate": map[string]interface{}{
						"filters": []map[string]interface{}{
							{"pattern": map[string]interface{}{"glob": "**/*.md"}},
						},
					},
					"didRename": map[string]interface{}{
						"filters": []map[string]interface{}{
							{"pattern": map[string]interface{}{"glob": "**/*.md"}},
						},
					},
					"didDelete": map[string]interface{}{
						"filters": []map[string]interface{}{
							{"pattern": map[string]interface{}{"glob": "**/*.md"}},
						},
					},
				},
			},
		},
	}
}

// extractRootPath extracts the root path from the initialize params
func (s *Server) extractRootPath(params *protocol.InitializeParams) {
	// Try to get from RootPath
	if params.RootPath != "" {
		s.rootPath = params.RootPath
		return
	}

	// Try to get from RootURI
	if params.RootURI != "" {
		s.rootPath = uriToPath(params.RootURI)
		return
	}

	// Try to get from WorkspaceFolders
	if len(params.WorkspaceFolders) > 0 {
		s.rootPath = uriToPath(params.WorkspaceFolders[0].URI)
	}
}

// collectTriggerCharacters collects all trigger characters from registered providers
func (s *Server) collectTriggerCharacters() []string {
	// Use a map to deduplicate trigger characters
	triggerCharsMap := make(map[string]bool)

	for _, provider := range s.completionProviders {
		for _, char := range provider.GetTriggerCharacters() {
			triggerCharsMap[char] = true
		}
	}

	// Convert map keys to slice
	triggerChars := make([]string, 0, len(triggerCharsMap))
	for char := range triggerCharsMap {
		triggerChars = append(triggerChars, char)
	}

	return triggerChars
}

// uriToPath converts a file:// URI into a filesystem path
func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
