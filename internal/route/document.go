package route

import "strings"

// DocType distinguishes video annotations from plain route descriptions.
type DocType string

const (
	TypeVideo DocType = "video"
	TypeRoute DocType = "strecke"
)

// Meta is the header of a route document. Video documents use Number,
// route documents use Line and Via.
type Meta struct {
	Type   DocType `json:"typ"`
	Number string  `json:"streckennummer,omitempty"`
	Line   string  `json:"linie,omitempty"`
	From   string  `json:"von"`
	To     string  `json:"nach"`
	Via    string  `json:"via,omitempty"`
	Name   string  `json:"name"`
	Video  string  `json:"video,omitempty"`
}

// FileID derives the canonical file id, e.g. "S5_PF_ZG".
func (m Meta) FileID() string {
	first := m.Line
	if m.Type == TypeVideo {
		first = m.Number
	}
	var parts []string
	for _, p := range []string{first, m.From, m.To} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_")
}

// Title is the display title: the name, or the file id when unnamed.
func (m Meta) Title() string {
	if m.Name != "" {
		return m.Name
	}
	return m.FileID()
}

// Document is a parsed route file.
type Document struct {
	Meta    Meta
	Entries []Entry
}

// NewVideo returns an empty video document.
func NewVideo() *Document {
	return &Document{Meta: Meta{Type: TypeVideo}}
}

// NewRoute returns an empty route document.
func NewRoute() *Document {
	return &Document{Meta: Meta{Type: TypeRoute}}
}
