package route

// Kind discriminates the entry variants of a route sequence.
type Kind string

const (
	KindSignal Kind = "signal"
	KindNote   Kind = "note"
	KindNode   Kind = "node"
	KindBranch Kind = "branch"
	KindImport Kind = "import"
)

// Entry is one row of a route description. Exactly one of the concrete
// types *Signal, *Note, *Node, *Branch or *Import implements it.
type Entry interface {
	Kind() Kind
	// Head exposes the fields every variant shares.
	Head() *Base
	// Clone returns a deep copy that shares no pointers with the receiver.
	Clone() Entry
}

// Base holds the id and optional distance marker of an entry.
type Base struct {
	ID int
	Km *float64 // nil when no distance is recorded
}

func (b *Base) Head() *Base { return b }

func (b Base) clone() Base {
	if b.Km != nil {
		b.Km = Km(*b.Km)
	}
	return b
}

// Km returns a pointer to v, for building entries with a distance.
func Km(v float64) *float64 {
	return &v
}

// Signal is a row with up to two signal names plus their alternatives.
// Names are free text: a category prefix optionally followed by a name.
type Signal struct {
	Base
	Primary      string // signal_1
	PrimaryAlt   string // signal_1b
	Secondary    string // signal_2
	SecondaryAlt string // signal_2b
	Station      string // bahnhof
}

func (s *Signal) Kind() Kind { return KindSignal }

func (s *Signal) Clone() Entry {
	c := *s
	c.Base = s.Base.clone()
	return &c
}

// Populated reports whether the row carries a primary or secondary name.
func (s *Signal) Populated() bool {
	return s.Primary != "" || s.Secondary != ""
}

// Note is a free-text annotation.
type Note struct {
	Base
	Text string
}

func (n *Note) Kind() Kind { return KindNote }

func (n *Note) Clone() Entry {
	c := *n
	c.Base = n.Base.clone()
	return &c
}

// Node is a named waypoint (station or junction). Nodes are the slice and
// stitch boundaries of imported fragments.
type Node struct {
	Base
	Name string
}

func (n *Node) Kind() Kind { return KindNode }

func (n *Node) Clone() Entry {
	c := *n
	c.Base = n.Base.clone()
	return &c
}

// Side is the side of the track a branch leaves on.
type Side string

const (
	SideLeft  Side = "links"
	SideRight Side = "rechts"
)

// Direction tells whether a branching line comes from or goes to Label.
type Direction string

const (
	DirectionFrom Direction = "von"
	DirectionTo   Direction = "nach"
	DirectionNone Direction = ""
)

// Branch marks a junction with another line.
type Branch struct {
	Base
	Side      Side
	Line      string // strecke
	Direction Direction
	Label     string // richtung
}

func (b *Branch) Kind() Kind { return KindBranch }

func (b *Branch) Clone() Entry {
	c := *b
	c.Base = b.Base.clone()
	return &c
}

// ImportRef points at another stored route, optionally sliced to the
// entries between two node names (both inclusive).
type ImportRef struct {
	File string
	From string
	To   string
}

// Import embeds another route file at this position.
type Import struct {
	Base
	Ref ImportRef
}

func (i *Import) Kind() Kind { return KindImport }

func (i *Import) Clone() Entry {
	c := *i
	c.Base = i.Base.clone()
	return &c
}

// IsRowEmpty reports whether e is a signal row without any signal name.
// Every other variant carries its own payload and is never empty.
func IsRowEmpty(e Entry) bool {
	s, ok := e.(*Signal)
	if !ok {
		return false
	}
	return s.Primary == "" && s.Secondary == "" && s.PrimaryAlt == "" && s.SecondaryAlt == ""
}

// CloneAll deep-copies a sequence, preserving order.
func CloneAll(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// IndexOfNode returns the index of the first node named name, or -1.
func IndexOfNode(entries []Entry, name string) int {
	for i, e := range entries {
		if n, ok := e.(*Node); ok && n.Name == name {
			return i
		}
	}
	return -1
}

// NodeNames lists the names of all nodes in order of appearance.
func NodeNames(entries []Entry) []string {
	var names []string
	for _, e := range entries {
		if n, ok := e.(*Node); ok {
			names = append(names, n.Name)
		}
	}
	return names
}

// NextID returns one more than the largest id in entries.
func NextID(entries []Entry) int {
	highest := 0
	for _, e := range entries {
		if id := e.Head().ID; id > highest {
			highest = id
		}
	}
	return highest + 1
}
