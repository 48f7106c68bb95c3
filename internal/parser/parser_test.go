package parser

import "testing"

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"S5_PF_ZG.yaml", "text"},
		{"S5_PF_ZG.YML", "text"},
		{"notes.txt", "text"},
		{"S5_PF_ZG", "text"},
		{"S5_PF.ZG", "text"},
		{"strecke.v2", "text"},
		{"bericht.html", "html"},
		{"bericht.HTM", "html"},
		{"doku.md", "markdown"},
		{"doku.markdown", "markdown"},
	}
	for _, tt := range tests {
		p := ForFile(tt.filename)

		var got string
		switch p.(type) {
		case *TextParser:
			got = "text"
		case *HTMLParser:
			got = "html"
		case *MarkdownParser:
			got = "markdown"
		}
		if got != tt.want {
			t.Errorf("%s: expected %s parser, got %T", tt.filename, tt.want, p)
		}
	}
}
