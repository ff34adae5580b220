package protocol

import "encoding/json"

// CompletionList represents a list of completion items
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// InitializeParams represents the parameters for the 'initialize' request
type InitializeParams struct {
	RootPath              string            `json:"rootPath,omitempty"`
	RootURI               string            `json:"rootUri,omitempty"`
	WorkspaceFolders      []WorkspaceFolder `json:"workspaceFolders,omitempty"`
	InitializationOptions json.RawMessage   `json:"initializationOptions,omitempty"`
}

// WorkspaceFolder represents a workspace folder
type WorkspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// CompletionParams represents the parameters for a completion request
type CompletionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
	// Custom fields for internal use (not part of LSP spec), used to pass
	// the current line prefix to completion providers
	DocumentContent []byte `json:"-"`
	LinePrefix      string `json:"-"`
}

// CompletionItemKind represents the kind of a completion item
type CompletionItemKind int

const (
	// CompletionItemKindFile represents a file entry
	CompletionItemKindFile CompletionItemKind = 17
	// CompletionItemKindFolder represents a directory entry
	CompletionItemKindFolder CompletionItemKind = 19
)

// CompletionItem represents a completion item
type CompletionItem struct {
	Label         string             `json:"label"`
	Kind          CompletionItemKind `json:"kind,omitempty"`
	Detail        string             `json:"detail,omitempty"`
	InsertText    string             `json:"insertText,omitempty"`
	TextEdit      *TextEdit          `json:"textEdit,omitempty"`
	Command       *Command           `json:"command,omitempty"`
	Documentation *MarkupContent     `json:"documentation,omitempty"`
}
