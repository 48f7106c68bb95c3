package parser

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-theuer/signaleditor/internal/route"
)

// ErrNoEmbeddedData is returned when a container file carries no route block.
var ErrNoEmbeddedData = errors.New("no embedded route data found")

// Parser converts raw route file bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*route.Document, error)
}

// ForFile returns the parser for a filename. HTML exports and Markdown
// documents carry the route text inside; every other name, with or without
// an extension, is read as a plain route file.
func ForFile(filename string) Parser {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return &HTMLParser{}
	case ".md", ".markdown":
		return &MarkdownParser{}
	default:
		return &TextParser{}
	}
}
