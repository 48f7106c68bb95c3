package parser

import (
	"bytes"
	"io"

	"github.com/arthur-theuer/signaleditor/internal/route"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser reads the first fenced code block tagged yaml (or yml)
// from a Markdown file, so route files can live inside documentation. A
// file without such a block is read as plain route text.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*route.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var block *ast.FencedCodeBlock
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fc, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		switch string(fc.Language(src)) {
		case "yaml", "yml":
			block = fc
			return ast.WalkStop, nil
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	if block == nil {
		return Decode(string(src)), nil
	}

	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return Decode(buf.String()), nil
}
