package report

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/arthur-theuer/signaleditor/internal/parser"
	"github.com/arthur-theuer/signaleditor/internal/resolver"
	"github.com/arthur-theuer/signaleditor/internal/route"
	"github.com/arthur-theuer/signaleditor/internal/routestore"
	"github.com/arthur-theuer/signaleditor/internal/signal"
)

func sig(id int, primary string) *route.Signal {
	return &route.Signal{Base: route.Base{ID: id}, Primary: primary}
}

func TestBuildRows_EntryTogglesStationColor(t *testing.T) {
	rows := BuildRows([]route.Entry{sig(1, "Einfahrsignal Zug"), sig(2, "Einfahrsignal Baar")})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first, second := rows[0].Segments, rows[1].Segments
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one segment per row, got %d and %d", len(first), len(second))
	}
	if first[0].Color != signal.StationColors[0] || second[0].Color != signal.StationColors[1] {
		t.Errorf("expected colors %v, got %s and %s", signal.StationColors, first[0].Color, second[0].Color)
	}
	if !first[0].Bold || !second[0].Bold {
		t.Error("expected entry segments to be bold")
	}
}

func TestBuildRows_EmptySignalRow(t *testing.T) {
	rows := BuildRows([]route.Entry{&route.Signal{Base: route.Base{ID: 3}}})
	if rows[0].Error != "Kein Signal" {
		t.Errorf("expected error Kein Signal, got %q", rows[0].Error)
	}
	if len(rows[0].Segments) != 0 {
		t.Errorf("expected no segments, got %d", len(rows[0].Segments))
	}
	if rows[0].ID != 3 || rows[0].Kind != route.KindSignal {
		t.Errorf("unexpected row %+v", rows[0])
	}
}

func TestBuildRows_StationRunsUntilExit(t *testing.T) {
	rows := BuildRows([]route.Entry{
		sig(1, "Blocksignal 1"),
		sig(2, "Ausfahrsignal"),
		sig(3, "Blocksignal 2"),
		sig(4, "Einfahrsignal Zug"),
		sig(5, "Abschnittsignal"),
	})

	tests := []struct {
		color string
		bold  bool
	}{
		{signal.StationColors[1], false},
		{signal.StationColors[1], false},
		{"#800080", false},
		{signal.StationColors[0], true},
		{signal.StationColors[0], false},
	}
	for i, tt := range tests {
		seg := rows[i].Segments[0]
		if seg.Color != tt.color || seg.Bold != tt.bold {
			t.Errorf("row %d: expected %s/%v, got %s/%v", i, tt.color, tt.bold, seg.Color, seg.Bold)
		}
	}
}

func TestBuildRows_AltSegmentAdvancesState(t *testing.T) {
	rows := BuildRows([]route.Entry{&route.Signal{
		Primary:      "Ausfahrsignal",
		SecondaryAlt: "Einfahr-Vorsignal Zug",
		Station:      "Zug",
	}})

	segs := rows[0].Segments
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Message != signal.GenericMessage || segs[0].Color != signal.StationColors[1] || segs[0].Bold {
		t.Errorf("unexpected main segment %+v", segs[0])
	}
	if segs[1].Message != "Zug offen/zu!" || segs[1].Color != signal.StationColors[0] || !segs[1].Bold {
		t.Errorf("unexpected alt segment %+v", segs[1])
	}
	if rows[0].PrimaryDisplay != "Ausfahrsignal" || rows[0].SecondaryDisplay != "Einfahr-Vorsignal Zug" {
		t.Errorf("unexpected display halves %q / %q", rows[0].PrimaryDisplay, rows[0].SecondaryDisplay)
	}
}

func TestBuildRows_PassthroughRows(t *testing.T) {
	rows := BuildRows([]route.Entry{
		&route.Note{Base: route.Base{ID: 1, Km: route.Km(2.5)}, Text: "Tunnel"},
		&route.Node{Base: route.Base{ID: 2}, Name: "ZG"},
		&route.Node{Base: route.Base{ID: 3}, Name: "XY"},
		&route.Import{Base: route.Base{ID: 4}, Ref: route.ImportRef{File: "a.yaml"}},
		&route.Import{Base: route.Base{ID: 5}},
	})

	if rows[0].Note != "Tunnel" || rows[0].Km == nil || *rows[0].Km != 2.5 {
		t.Errorf("unexpected note row %+v", rows[0])
	}
	if rows[1].Node != "Zug (ZG)" {
		t.Errorf("expected known station display, got %q", rows[1].Node)
	}
	if rows[2].Node != "XY" {
		t.Errorf("expected bare code, got %q", rows[2].Node)
	}
	if rows[3].Import != "a.yaml" || rows[4].Import != "(leer)" {
		t.Errorf("unexpected import rows %q, %q", rows[3].Import, rows[4].Import)
	}
	for i, row := range rows {
		if row.Error != ErrorNoSignal {
			t.Errorf("row %d: expected error %q, got %q", i, ErrorNoSignal, row.Error)
		}
		if len(row.Segments) != 0 {
			t.Errorf("row %d: expected no segments", i)
		}
	}
}

func TestBuilder_ZeroValueShowsCodes(t *testing.T) {
	rows := Builder{}.BuildRows([]route.Entry{&route.Node{Name: "ZG"}})
	if rows[0].Node != "ZG" {
		t.Errorf("expected bare code, got %q", rows[0].Node)
	}
}

func TestBranchLabel(t *testing.T) {
	tests := []struct {
		side      route.Side
		direction route.Direction
		line      string
		label     string
		want      string
	}{
		{route.SideLeft, route.DirectionTo, "S8", "Thalwil", "<< S8 nach Thalwil <<"},
		{route.SideRight, route.DirectionFrom, "S8", "Thalwil", "<< S8 von Thalwil <<"},
		{route.SideRight, route.DirectionTo, "S8", "Thalwil", ">> S8 nach Thalwil >>"},
		{route.SideLeft, route.DirectionFrom, "", "Baar", ">> von Baar >>"},
		{route.SideLeft, route.DirectionNone, "S2", "", ">> S2 >>"},
	}
	for _, tt := range tests {
		b := &route.Branch{Side: tt.side, Direction: tt.direction, Line: tt.line, Label: tt.label}
		if got := BranchLabel(b); got != tt.want {
			t.Errorf("%s/%s: expected %q, got %q", tt.side, tt.direction, tt.want, got)
		}
	}
}

func TestBuildRowsResolved(t *testing.T) {
	store := routestore.NewMemStore()
	doc := route.NewRoute()
	doc.Entries = []route.Entry{
		&route.Node{Base: route.Base{ID: 1}, Name: "THW"},
		sig(2, "Einfahrsignal Zug"),
		&route.Node{Base: route.Base{ID: 3}, Name: "ZG"},
	}
	var buf bytes.Buffer
	if err := parser.Encode(&buf, doc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := store.Save(context.Background(), "b.yaml", buf.Bytes()); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := resolver.New(store, resolver.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}

	rows := BuildRowsResolved(context.Background(), res, []route.Entry{
		&route.Node{Base: route.Base{ID: 1}, Name: "PF"},
		&route.Import{Base: route.Base{ID: 2}, Ref: route.ImportRef{File: "b.yaml", To: "ZG"}},
		&route.Import{Base: route.Base{ID: 3}, Ref: route.ImportRef{File: "fehlt.yaml"}},
	})

	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[2].SignalName != "Einfahrsignal Zug" || !rows[2].Segments[0].Bold {
		t.Errorf("unexpected signal row %+v", rows[2])
	}
	if rows[3].Node != "Zug (ZG)" {
		t.Errorf("unexpected node row %+v", rows[3])
	}
	if rows[4].Kind != route.KindImport || rows[4].Import != "fehlt.yaml" {
		t.Errorf("expected unresolved import row, got %+v", rows[4])
	}
}
