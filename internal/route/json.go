package route

import (
	"encoding/json"
	"fmt"
)

// jsonEntry is the flat JSON shape of an entry with an explicit kind.
type jsonEntry struct {
	Kind Kind     `json:"kind"`
	ID   int      `json:"id"`
	Km   *float64 `json:"km,omitempty"`

	Primary      string `json:"primary,omitempty"`
	PrimaryAlt   string `json:"primary_alt,omitempty"`
	Secondary    string `json:"secondary,omitempty"`
	SecondaryAlt string `json:"secondary_alt,omitempty"`
	Station      string `json:"station,omitempty"`

	Text string `json:"text,omitempty"`
	Name string `json:"name,omitempty"`

	Side      Side      `json:"side,omitempty"`
	Line      string    `json:"line,omitempty"`
	Direction Direction `json:"direction,omitempty"`
	Label     string    `json:"label,omitempty"`

	File string `json:"file,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

func toJSON(e Entry) jsonEntry {
	h := e.Head()
	je := jsonEntry{Kind: e.Kind(), ID: h.ID, Km: h.Km}
	switch v := e.(type) {
	case *Signal:
		je.Primary, je.PrimaryAlt = v.Primary, v.PrimaryAlt
		je.Secondary, je.SecondaryAlt = v.Secondary, v.SecondaryAlt
		je.Station = v.Station
	case *Note:
		je.Text = v.Text
	case *Node:
		je.Name = v.Name
	case *Branch:
		je.Side, je.Line, je.Direction, je.Label = v.Side, v.Line, v.Direction, v.Label
	case *Import:
		je.File, je.From, je.To = v.Ref.File, v.Ref.From, v.Ref.To
	}
	return je
}

func fromJSON(je jsonEntry) (Entry, error) {
	base := Base{ID: je.ID, Km: je.Km}
	switch je.Kind {
	case KindSignal, "":
		return &Signal{
			Base:         base,
			Primary:      je.Primary,
			PrimaryAlt:   je.PrimaryAlt,
			Secondary:    je.Secondary,
			SecondaryAlt: je.SecondaryAlt,
			Station:      je.Station,
		}, nil
	case KindNote:
		return &Note{Base: base, Text: je.Text}, nil
	case KindNode:
		return &Node{Base: base, Name: je.Name}, nil
	case KindBranch:
		side := je.Side
		if side == "" {
			side = SideLeft
		}
		return &Branch{Base: base, Side: side, Line: je.Line, Direction: je.Direction, Label: je.Label}, nil
	case KindImport:
		return &Import{Base: base, Ref: ImportRef{File: je.File, From: je.From, To: je.To}}, nil
	}
	return nil, fmt.Errorf("unknown entry kind %q", je.Kind)
}

// Entries is a sequence that round-trips through JSON with a "kind" field
// on every element.
type Entries []Entry

func (es Entries) MarshalJSON() ([]byte, error) {
	out := make([]jsonEntry, len(es))
	for i, e := range es {
		out[i] = toJSON(e)
	}
	return json.Marshal(out)
}

func (es *Entries) UnmarshalJSON(data []byte) error {
	var raw []jsonEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Entries, 0, len(raw))
	for i, je := range raw {
		e, err := fromJSON(je)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, e)
	}
	*es = out
	return nil
}

// MarshalEntry encodes a single entry.
func MarshalEntry(e Entry) ([]byte, error) {
	return json.Marshal(toJSON(e))
}

// UnmarshalEntry decodes a single entry.
func UnmarshalEntry(data []byte) (Entry, error) {
	var je jsonEntry
	if err := json.Unmarshal(data, &je); err != nil {
		return nil, err
	}
	return fromJSON(je)
}
