package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetAt(t *testing.T) {
	doc := &TextDocument{Text: []byte("first\nsecond\nthird")}

	tests := []struct {
		name      string
		line      int
		character int
		expected  int
	}{
		{name: "start of document", line: 0, character: 0, expected: 0},
		{name: "middle of first line", line: 0, character: 3, expected: 3},
		{name: "start of second line", line: 1, character: 0, expected: 6},
		{name: "middle of second line", line: 1, character: 4, expected: 10},
		{name: "last line", line: 2, character: 5, expected: 18},
		{name: "character past line end clamps", line: 0, character: 99, expected: 5},
		{name: "line past document end clamps", line: 99, character: 0, expected: 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, doc.OffsetAt(tt.line, tt.character))
		})
	}
}

func TestPositionAt(t *testing.T) {
	doc := &TextDocument{Text: []byte("first\nsecond\nthird")}

	line, char := doc.PositionAt(0)
	assert.Equal(t, 0, line)
	assert.Equal(t, 0, char)

	line, char = doc.PositionAt(6)
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, char)

	line, char = doc.PositionAt(10)
	assert.Equal(t, 1, line)
	assert.Equal(t, 4, char)

	// Offset past the end clamps to the last position
	line, char = doc.PositionAt(999)
	assert.Equal(t, 2, line)
	assert.Equal(t, 5, char)
}

func TestOffsetPositionRoundTrip(t *testing.T) {
	doc := &TextDocument{Text: []byte("{* a/b.py ln[3:6] *}\nsome text\n{! c.md !}")}

	for offset := 0; offset < len(doc.Text); offset++ {
		line, char := doc.PositionAt(offset)
		assert.Equal(t, offset, doc.OffsetAt(line, char))
	}
}

func TestPositionsCountUTF16Units(t *testing.T) {
	// "ï" is two bytes but one UTF-16 unit, "🙂" four bytes and two units
	doc := &TextDocument{Text: []byte("naïve {* a.py *}\n🙂 {* b.py *}")}

	braceA := len("naïve ")
	line, char := doc.PositionAt(braceA)
	assert.Equal(t, 0, line)
	assert.Equal(t, 6, char)
	assert.Equal(t, braceA, doc.OffsetAt(0, 6))

	braceB := len("naïve {* a.py *}\n🙂 ")
	line, char = doc.PositionAt(braceB)
	assert.Equal(t, 1, line)
	assert.Equal(t, 3, char)
	assert.Equal(t, braceB, doc.OffsetAt(1, 3))

	// Clamping still lands on the byte end of the line
	assert.Equal(t, len("naïve {* a.py *}"), doc.OffsetAt(0, 99))
}

func TestLinePrefix(t *testing.T) {
	doc := &TextDocument{Text: []byte("intro\n{* src/app")}

	assert.Equal(t, "{* src/", doc.LinePrefix(1, 7))
	assert.Equal(t, "{* src/app", doc.LinePrefix(1, 10))
	assert.Equal(t, "int", doc.LinePrefix(0, 3))
}

func TestDocumentManagerLifecycle(t *testing.T) {
	m := NewDocumentManager()

	m.OpenDocument("file:///tmp/doc.md", "hello", 1)
	doc, ok := m.GetDocument("file:///tmp/doc.md")
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), doc.Text)
	assert.Equal(t, 1, doc.Version)

	m.UpdateDocument("file:///tmp/doc.md", "hello world", 2)
	text, ok := m.GetDocumentText("file:///tmp/doc.md")
	assert.True(t, ok)
	assert.Equal(t, []byte("hello world"), text)

	// Update on an unknown URI creates the document
	m.UpdateDocument("file:///tmp/other.md", "other", 1)
	_, ok = m.GetDocument("file:///tmp/other.md")
	assert.True(t, ok)

	assert.ElementsMatch(t, []string{"file:///tmp/doc.md", "file:///tmp/other.md"}, m.AllDocumentURIs())

	m.CloseDocument("file:///tmp/doc.md")
	_, ok = m.GetDocument("file:///tmp/doc.md")
	assert.False(t, ok)
}
