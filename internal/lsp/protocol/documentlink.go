package protocol

// DocumentLinkParams represents the parameters for a documentLink request
type DocumentLinkParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

// DocumentLink represents a clickable range in a document that links to a
// file or location
type DocumentLink struct {
	Range   Range  `json:"range"`
	Target  string `json:"target,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
}
