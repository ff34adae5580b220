package lsp

import (
	"bytes"
	"sync"
	"unicode/utf8"
)

// TextDocument represents a document open in the editor
type TextDocument struct {
	URI     string
	Text    []byte
	Version int
}

// OffsetAt converts a zero-based line/character position into a byte offset
// into the document text. The character is counted in UTF-16 code units, as
// positions on the wire are. Positions past the end of a line clamp to the
// end of that line, positions past the last line clamp to the end of the
// text.
func (d *TextDocument) OffsetAt(line, character int) int {
	text := d.Text
	offset := 0
	for l := 0; l < line; l++ {
		next := bytes.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}
		offset += next + 1
	}

	lineEnd := bytes.IndexByte(text[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text)
	} else {
		lineEnd += offset
	}

	for units := 0; offset < lineEnd && units < character; {
		r, size := utf8.DecodeRune(text[offset:lineEnd])
		offset += size
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return offset
}

// PositionAt converts a byte offset into a zero-based line/character
// position, the character in UTF-16 code units.
func (d *TextDocument) PositionAt(offset int) (line, character int) {
	if offset > len(d.Text) {
		offset = len(d.Text)
	}

	lineStart := 0
	for i := 0; i < offset; i++ {
		if d.Text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	for i := lineStart; i < offset; {
		r, size := utf8.DecodeRune(d.Text[i:offset])
		i += size
		if r > 0xFFFF {
			character += 2
		} else {
			character++
		}
	}
	return line, character
}

// LinePrefix returns the text of the given line up to the given character
func (d *TextDocument) LinePrefix(line, character int) string {
	end := d.OffsetAt(line, character)
	start := end
	for start > 0 && d.Text[start-1] != '\n' {
		start--
	}
	return string(d.Text[start:end])
}

// DocumentManager manages text documents
type DocumentManager struct {
	documents map[string]*TextDocument
	mu        sync.RWMutex
}

// NewDocumentManager creates a new document manager
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		documents: make(map[string]*TextDocument),
	}
}

// OpenDocument adds or updates a document
func (m *DocumentManager) OpenDocument(uri string, text string, version int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[uri] = &TextDocument{
		URI:     uri,
		Text:    []byte(text),
		Version: version,
	}
}

// UpdateDocument updates an existing document
func (m *DocumentManager) UpdateDocument(uri string, text string, version int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc, ok := m.documents[uri]; ok {
		doc.Text = []byte(text)
		doc.Version = version
		return
	}

	// If the document doesn't exist, create it
	m.documents[uri] = &TextDocument{
		URI:     uri,
		Text:    []byte(text),
		Version: version,
	}
}

// CloseDocument removes a document
func (m *DocumentManager) CloseDocument(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.documents, uri)
}

// GetDocument returns a document by URI
func (m *DocumentManager) GetDocument(uri string) (*TextDocument, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.documents[uri]
	return doc, ok
}

// GetDocumentText returns the text of a document by URI
func (m *DocumentManager) GetDocumentText(uri string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if doc, ok := m.documents[uri]; ok {
		return doc.Text, true
	}
	return nil, false
}

// AllDocumentURIs returns the URIs of all open documents
func (m *DocumentManager) AllDocumentURIs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uris := make([]string, 0, len(m.documents))
	for uri := range m.documents {
		uris = append(uris, uri)
	}
	return uris
}
