package protocol

// ReferenceParams represents the parameters for a references request
type ReferenceParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
	Context struct {
		IncludeDeclaration bool `json:"includeDeclaration"`
	} `json:"context"`
	// Custom fields for internal use (not part of LSP spec)
	DocumentContent []byte `json:"-"`
	Offset          int    `json:"-"`
}
