package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-theuer/signaleditor/internal/route"
	"golang.org/x/net/html"
)

const (
	embeddedType = "application/yaml"
	embeddedID   = "embedded-yaml"
)

// HTMLParser reads the route block embedded in exported HTML reports as
// <script type="application/yaml" id="embedded-yaml">.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*route.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	script := findEmbedded(doc)
	if script == nil {
		return nil, ErrNoEmbeddedData
	}
	content := strings.TrimSpace(textContent(script))
	if content == "" {
		return nil, ErrNoEmbeddedData
	}
	return Decode(content), nil
}

func findEmbedded(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "script" &&
		attr(n, "type") == embeddedType && attr(n, "id") == embeddedID {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s := findEmbedded(c); s != nil {
			return s
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
	return buf.String()
}
