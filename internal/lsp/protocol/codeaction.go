package protocol

// CodeActionParams represents the parameters for a textDocument/codeAction request
type CodeActionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Range   Range             `json:"range"`
	Context CodeActionContext `json:"context"`

	DocumentContent []byte `json:"-"`
}

// CodeActionContext represents the context for a code action request
type CodeActionContext struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	Only        []string     `json:"only,omitempty"`
}

// CodeActionKind represents the kind of a code action
type CodeActionKind string

const (
	// CodeActionQuickFix represents a quick fix action
	CodeActionQuickFix CodeActionKind = "quickfix"
	// CodeActionSource represents a source action
	CodeActionSource CodeActionKind = "source"
)

// CodeAction represents a code action
type CodeAction struct {
	Title       string         `json:"title"`
	Kind        CodeActionKind `json:"kind,omitempty"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty"`
	Command     *Command       `json:"command,omitempty"`
	Data        interface{}    `json:"data,omitempty"`
}

// TextEdit represents a text edit operation
type TextEdit struct {
	Range            Range            `json:"range"`
	NewText          string           `json:"newText"`
	InsertTextFormat InsertTextFormat `json:"insertTextFormat,omitempty"`
}
