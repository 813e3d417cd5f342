package documents_test

import (
	"testing"

	"bennypowers.dev/tldedent/internal/documents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func change(startLine, startChar, endLine, endChar uint32, text string) protocol.TextDocumentContentChangeEvent {
	return protocol.TextDocumentContentChangeEvent{
		Range: &protocol.Range{
			Start: protocol.Position{Line: startLine, Character: startChar},
			End:   protocol.Position{Line: endLine, Character: endChar},
		},
		Text: text,
	}
}

func TestDocumentManagerOpenClose(t *testing.T) {
	manager := documents.NewManager()
	uri := "file:///card.js"

	assert.Nil(t, manager.Get(uri))

	require.NoError(t, manager.DidOpen(uri, "javascript", 1, "const a = `x`;"))
	doc := manager.Get(uri)
	require.NotNil(t, doc)
	assert.Equal(t, "const a = `x`;", doc.Content())

	require.NoError(t, manager.DidClose(uri))
	assert.Nil(t, manager.Get(uri))

	assert.Error(t, manager.DidClose(uri), "closing twice fails")
}

func TestDocumentManagerGetAll(t *testing.T) {
	manager := documents.NewManager()
	require.NoError(t, manager.DidOpen("file:///a.js", "javascript", 1, ""))
	require.NoError(t, manager.DidOpen("file:///b.ts", "typescript", 1, ""))

	uris := []string{}
	for _, doc := range manager.GetAll() {
		uris = append(uris, doc.URI())
	}
	assert.ElementsMatch(t, []string{"file:///a.js", "file:///b.ts"}, uris)
}

func TestDocumentManagerChanges(t *testing.T) {
	const original = "const a = css`\n              x\n              `;"

	tests := []struct {
		name    string
		changes []protocol.TextDocumentContentChangeEvent
		want    string
	}{
		{
			name:    "full update",
			changes: []protocol.TextDocumentContentChangeEvent{{Text: "replaced"}},
			want:    "replaced",
		},
		{
			name:    "insert",
			changes: []protocol.TextDocumentContentChangeEvent{change(1, 15, 1, 15, "yz")},
			want:    "const a = css`\n              xyz\n              `;",
		},
		{
			name:    "delete across lines",
			changes: []protocol.TextDocumentContentChangeEvent{change(0, 14, 2, 14, "")},
			want:    "const a = css``;",
		},
		{
			name: "batch applied in order",
			changes: []protocol.TextDocumentContentChangeEvent{
				change(0, 6, 0, 7, "b"),
				change(0, 6, 0, 7, "styles"),
			},
			want: "const styles = css`\n              x\n              `;",
		},
		{
			name:    "insert at end of document",
			changes: []protocol.TextDocumentContentChangeEvent{change(3, 0, 3, 0, "\n")},
			want:    original + "\n",
		},
		{
			name:    "character past line end clamps",
			changes: []protocol.TextDocumentContentChangeEvent{change(1, 99, 1, 99, "!")},
			want:    "const a = css`\n              x!\n              `;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := documents.NewManager()
			uri := "file:///styles.js"
			require.NoError(t, manager.DidOpen(uri, "javascript", 1, original))

			require.NoError(t, manager.DidChange(uri, 2, tt.changes))
			doc := manager.Get(uri)
			assert.Equal(t, tt.want, doc.Content())
			assert.Equal(t, 2, doc.Version())
		})
	}
}

func TestDocumentManagerUTF16(t *testing.T) {
	manager := documents.NewManager()
	uri := "file:///emoji.js"
	require.NoError(t, manager.DidOpen(uri, "javascript", 1, "const a = \"👍\" + `x`;"))

	// 👍 is two UTF-16 units, so the backtick is at character 17
	require.NoError(t, manager.DidChange(uri, 2, []protocol.TextDocumentContentChangeEvent{
		change(0, 17, 0, 18, "`y"),
	}))
	assert.Equal(t, "const a = \"👍\" + `yx`;", manager.Get(uri).Content())
}

func TestDocumentManagerErrors(t *testing.T) {
	manager := documents.NewManager()
	uri := "file:///a.js"

	assert.Error(t, manager.DidChange(uri, 1, nil), "unknown document")

	require.NoError(t, manager.DidOpen(uri, "javascript", 3, "one\ntwo"))

	err := manager.DidChange(uri, 4, []protocol.TextDocumentContentChangeEvent{change(5, 0, 5, 1, "x")})
	assert.ErrorContains(t, err, "out of bounds")

	err = manager.DidChange(uri, 4, []protocol.TextDocumentContentChangeEvent{change(1, 2, 0, 0, "x")})
	assert.ErrorContains(t, err, "is after end")

	err = manager.DidChange(uri, 2, []protocol.TextDocumentContentChangeEvent{{Text: "stale"}})
	assert.ErrorContains(t, err, "rejected stale update")
	assert.Equal(t, "one\ntwo", manager.Get(uri).Content())
}
