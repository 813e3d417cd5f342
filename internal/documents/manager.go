package documents

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/tldedent/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager tracks the documents open in the client
type Manager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewManager creates a new document manager
func NewManager() *Manager {
	return &Manager{
		documents: make(map[string]*Document),
	}
}

// Get retrieves a document by URI
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[uri]
}

// GetAll returns all managed documents
func (m *Manager) GetAll() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	return docs
}

// DidOpen handles the textDocument/didOpen notification
func (m *Manager) DidOpen(uri, languageID string, version int, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[uri] = NewDocument(uri, languageID, version, content)
	return nil
}

// DidClose handles the textDocument/didClose notification
func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[uri]; !exists {
		return fmt.Errorf("document not found: %s", uri)
	}

	delete(m.documents, uri)
	return nil
}

// DidChange handles the textDocument/didChange notification
func (m *Manager) DidChange(uri string, version int, changes []protocol.TextDocumentContentChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.documents[uri]
	if !exists {
		return fmt.Errorf("document not found: %s", uri)
	}

	content := doc.Content()
	for _, change := range changes {
		if change.Range == nil {
			content = change.Text
			continue
		}

		var err error
		content, err = applyIncrementalChange(content, *change.Range, change.Text)
		if err != nil {
			return fmt.Errorf("failed to apply changes: %w", err)
		}
	}

	if err := doc.SetContent(content, version); err != nil {
		return fmt.Errorf("failed to set document content: %w", err)
	}
	return nil
}

// applyIncrementalChange replaces the text in r. LSP positions count UTF-16
// code units and are converted to byte offsets per line.
func applyIncrementalChange(content string, r protocol.Range, text string) (string, error) {
	lines := strings.Split(content, "\n")

	startLine := int(r.Start.Line)
	endLine := int(r.End.Line)
	startChar := int(r.Start.Character)
	endChar := int(r.End.Character)

	if startLine > endLine || (startLine == endLine && startChar > endChar) {
		return "", fmt.Errorf("range start %d:%d is after end %d:%d", startLine, startChar, endLine, endChar)
	}

	// A position on the line after the last one is the end of the document
	if startLine == len(lines) && startChar == 0 {
		startLine = len(lines) - 1
		startChar = position.StringLengthUTF16(lines[startLine])
	}
	if endLine == len(lines) && endChar == 0 {
		endLine = len(lines) - 1
		endChar = position.StringLengthUTF16(lines[endLine])
	}

	if startLine >= len(lines) {
		return "", fmt.Errorf("start line %d out of bounds (total lines: %d)", startLine, len(lines))
	}
	if endLine >= len(lines) {
		return "", fmt.Errorf("end line %d out of bounds (total lines: %d)", endLine, len(lines))
	}

	// Characters past the end of a line clamp to the line end
	startByte := position.UTF16ToByteOffset(lines[startLine], startChar)
	endByte := position.UTF16ToByteOffset(lines[endLine], endChar)

	var b strings.Builder
	for i := 0; i < startLine; i++ {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}
	b.WriteString(lines[startLine][:startByte])
	b.WriteString(text)
	b.WriteString(lines[endLine][endByte:])
	for i := endLine + 1; i < len(lines); i++ {
		b.WriteString("\n")
		b.WriteString(lines[i])
	}

	return b.String(), nil
}
