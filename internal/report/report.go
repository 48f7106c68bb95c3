// Package report turns a flattened route sequence into display rows with
// colored announcement segments, and renders them as a DOCX document.
package report

import (
	"context"
	"strings"

	"github.com/arthur-theuer/signaleditor/internal/resolver"
	"github.com/arthur-theuer/signaleditor/internal/route"
	"github.com/arthur-theuer/signaleditor/internal/signal"
	"github.com/arthur-theuer/signaleditor/internal/stations"
)

// ErrorNoSignal is the row error of rows without a signal to announce.
const ErrorNoSignal = signal.NoSignalText

// Segment is one colored announcement of a row.
type Segment struct {
	Message string `json:"meldung"`
	Color   string `json:"farbe"`
	Bold    bool   `json:"fett"`
}

// DisplayRow is one line of the report.
type DisplayRow struct {
	ID               int        `json:"id"`
	Km               *float64   `json:"km,omitempty"`
	Kind             route.Kind `json:"kind"`
	SignalName       string     `json:"signalname,omitempty"`
	PrimaryDisplay   string     `json:"signal_1_display,omitempty"`
	SecondaryDisplay string     `json:"signal_2_display,omitempty"`
	Segments         []Segment  `json:"segments"`
	Error            string     `json:"error,omitempty"`
	Note             string     `json:"note,omitempty"`
	Node             string     `json:"knoten,omitempty"`
	Branch           string     `json:"abzweigung,omitempty"`
	Import           string     `json:"quelle,omitempty"`
}

// Builder builds display rows. Its zero value shows node codes as is.
type Builder struct {
	Stations *stations.Lookup
}

// colorState is the running station color of one build.
type colorState struct {
	toggle        bool
	insideStation bool
	stationColor  string
}

func newColorState() *colorState {
	return &colorState{toggle: true, insideStation: true, stationColor: signal.StationColors[1]}
}

// paint returns the color and emphasis of a segment of category c and
// advances the state.
func (s *colorState) paint(c signal.Category) (string, bool) {
	switch {
	case c == signal.CategoryEntry:
		s.insideStation = true
		if s.toggle {
			s.stationColor = signal.StationColors[0]
		} else {
			s.stationColor = signal.StationColors[1]
		}
		s.toggle = !s.toggle
		return s.stationColor, true
	case s.insideStation && c == signal.CategoryExit:
		s.insideStation = false
		return s.stationColor, false
	case s.insideStation:
		return s.stationColor, false
	default:
		return signal.ColorFor(c), false
	}
}

// BuildRows builds one display row per entry of seq, in order. Imports
// still present are shown as references to their file.
func (b Builder) BuildRows(seq []route.Entry) []DisplayRow {
	state := newColorState()
	rows := make([]DisplayRow, 0, len(seq))
	for _, e := range seq {
		h := e.Head()
		row := DisplayRow{ID: h.ID, Km: h.Km, Kind: e.Kind(), Segments: []Segment{}}

		switch v := e.(type) {
		case *route.Note:
			row.Note = v.Text
			row.Error = ErrorNoSignal
		case *route.Node:
			row.Node = b.Stations.Display(v.Name)
			row.Error = ErrorNoSignal
		case *route.Branch:
			row.Branch = BranchLabel(v)
			row.Error = ErrorNoSignal
		case *route.Import:
			row.Import = v.Ref.File
			if row.Import == "" {
				row.Import = "(leer)"
			}
			row.Error = ErrorNoSignal
		case *route.Signal:
			row.PrimaryDisplay = signal.PrimaryDisplay(v)
			row.SecondaryDisplay = signal.SecondaryDisplay(v)
			a := signal.Announce(v)
			if a.Err != nil {
				row.Error = a.Err.Error()
				break
			}
			row.SignalName = a.SignalName
			for _, seg := range a.Segments {
				color, bold := state.paint(seg.Category)
				row.Segments = append(row.Segments, Segment{Message: seg.Message, Color: color, Bold: bold})
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildRowsResolved flattens the imports of seq through res before
// building the rows.
func (b Builder) BuildRowsResolved(ctx context.Context, res *resolver.Resolver, seq []route.Entry) []DisplayRow {
	return b.BuildRows(res.Flatten(ctx, seq))
}

func defaultBuilder() Builder {
	return Builder{Stations: stations.Default()}
}

// BuildRows builds rows with the built-in station table.
func BuildRows(seq []route.Entry) []DisplayRow {
	return defaultBuilder().BuildRows(seq)
}

// BuildRowsResolved flattens seq and builds rows with the built-in
// station table.
func BuildRowsResolved(ctx context.Context, res *resolver.Resolver, seq []route.Entry) []DisplayRow {
	return defaultBuilder().BuildRowsResolved(ctx, res, seq)
}

// BranchLabel renders a branch as e.g. "<< S8 nach Thalwil <<". The arrow
// points toward the side the line leaves on.
func BranchLabel(b *route.Branch) string {
	arrow := ">>"
	if (b.Side == route.SideLeft) == (b.Direction == route.DirectionTo) {
		arrow = "<<"
	}
	parts := []string{arrow, b.Line, string(b.Direction), b.Label, arrow}
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
