package documents

import (
	"fmt"
	"strings"

	"bennypowers.dev/tldedent/internal/parser"
)

// Document is an open text document
type Document struct {
	uri     string
	kind    parser.Kind
	content string
	version int
}

// NewDocument creates a document, classifying it by its language id or,
// failing that, the extension of its URI
func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{
		uri:     uri,
		kind:    parser.KindOf(languageID, uri),
		version: version,
		content: content,
	}
}

func (d *Document) URI() string {
	return d.uri
}

// Kind selects the parser for the document. KindUnknown documents are not
// checked.
func (d *Document) Kind() parser.Kind {
	return d.kind
}

func (d *Document) Version() int {
	return d.version
}

func (d *Document) Content() string {
	return d.content
}

// Line returns the 0-based line n without its terminator, or "" past the end
func (d *Document) Line(n int) string {
	if n < 0 {
		return ""
	}
	rest := d.content
	for ; n > 0; n-- {
		i := strings.IndexByte(rest, '\n')
		if i < 0 {
			return ""
		}
		rest = rest[i+1:]
	}
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSuffix(rest, "\r")
}

// SetContent replaces the content. Versions older than the current one are
// rejected.
func (d *Document) SetContent(content string, version int) error {
	if version < d.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", d.version, version)
	}
	d.content = content
	d.version = version
	return nil
}
