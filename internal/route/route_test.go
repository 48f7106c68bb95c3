package route

import (
	"encoding/json"
	"testing"
)

func TestIsRowEmpty_OnlyBareSignals(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"bare signal", &Signal{Base: Base{ID: 1}}, true},
		{"signal with station only", &Signal{Base: Base{ID: 1}, Station: "Zug"}, true},
		{"primary", &Signal{Primary: "Blocksignal 12"}, false},
		{"secondary", &Signal{Secondary: "Ausfahr-Vorsignal"}, false},
		{"primary alt", &Signal{PrimaryAlt: "Einfahrsignal"}, false},
		{"secondary alt", &Signal{SecondaryAlt: "Block-Vorsignal zu"}, false},
		{"empty note", &Note{}, false},
		{"empty node", &Node{}, false},
		{"empty branch", &Branch{}, false},
		{"empty import", &Import{}, false},
	}
	for _, tt := range tests {
		if got := IsRowEmpty(tt.entry); got != tt.want {
			t.Errorf("%s: IsRowEmpty = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClone_DoesNotShareKm(t *testing.T) {
	orig := &Node{Base: Base{ID: 3, Km: Km(4.2)}, Name: "ZG"}
	c := orig.Clone().(*Node)
	*c.Km = 9.9
	c.Name = "PF"

	if *orig.Km != 4.2 {
		t.Errorf("expected original km 4.2, got %v", *orig.Km)
	}
	if orig.Name != "ZG" {
		t.Errorf("expected original name ZG, got %q", orig.Name)
	}
}

func TestClone_NilKmStaysNil(t *testing.T) {
	c := (&Signal{Base: Base{ID: 1}}).Clone()
	if c.Head().Km != nil {
		t.Errorf("expected nil km, got %v", *c.Head().Km)
	}
}

func TestIndexOfNode(t *testing.T) {
	entries := []Entry{
		&Signal{Primary: "Blocksignal"},
		&Node{Name: "A"},
		&Note{Text: "A"},
		&Node{Name: "B"},
		&Node{Name: "A"},
	}
	if got := IndexOfNode(entries, "A"); got != 1 {
		t.Errorf("expected first A at 1, got %d", got)
	}
	if got := IndexOfNode(entries, "B"); got != 3 {
		t.Errorf("expected B at 3, got %d", got)
	}
	if got := IndexOfNode(entries, "C"); got != -1 {
		t.Errorf("expected -1 for missing node, got %d", got)
	}
	names := NodeNames(entries)
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "A" {
		t.Errorf("unexpected node names %v", names)
	}
}

func TestEntriesJSON_KindDiscriminant(t *testing.T) {
	input := `[
		{"kind":"signal","id":1,"km":1.5,"primary":"Einfahrsignal Zug","station":"Zug"},
		{"kind":"note","id":2,"text":"Tunnel"},
		{"kind":"node","id":3,"name":"ZG"},
		{"kind":"branch","id":4,"side":"rechts","line":"S2","direction":"nach","label":"Baar"},
		{"kind":"import","id":5,"file":"s5.yaml","from":"PF","to":"ZG"},
		{"id":6}
	]`
	var es Entries
	if err := json.Unmarshal([]byte(input), &es); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(es) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(es))
	}

	sig, ok := es[0].(*Signal)
	if !ok || sig.Primary != "Einfahrsignal Zug" || sig.Km == nil || *sig.Km != 1.5 {
		t.Errorf("unexpected signal %+v", es[0])
	}
	if br, ok := es[3].(*Branch); !ok || br.Side != SideRight || br.Direction != DirectionTo {
		t.Errorf("unexpected branch %+v", es[3])
	}
	if imp, ok := es[4].(*Import); !ok || imp.Ref != (ImportRef{File: "s5.yaml", From: "PF", To: "ZG"}) {
		t.Errorf("unexpected import %+v", es[4])
	}
	if !IsRowEmpty(es[5]) {
		t.Errorf("expected kindless entry to decode as an empty signal")
	}

	out, err := json.Marshal(es)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again Entries
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if again[2].Kind() != KindNode || again[2].(*Node).Name != "ZG" {
		t.Errorf("node lost in round trip: %+v", again[2])
	}
}

func TestEntriesJSON_UnknownKind(t *testing.T) {
	var es Entries
	if err := json.Unmarshal([]byte(`[{"kind":"tunnel","id":1}]`), &es); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestMeta_FileIDAndTitle(t *testing.T) {
	route := Meta{Type: TypeRoute, Line: "S5", From: "PF", To: "ZG"}
	if got := route.FileID(); got != "S5_PF_ZG" {
		t.Errorf("expected S5_PF_ZG, got %q", got)
	}
	if got := route.Title(); got != "S5_PF_ZG" {
		t.Errorf("expected title to fall back to file id, got %q", got)
	}

	video := Meta{Type: TypeVideo, Number: "720", To: "ZG", Name: "Führerstandsmitfahrt"}
	if got := video.FileID(); got != "720_ZG" {
		t.Errorf("expected 720_ZG, got %q", got)
	}
	if got := video.Title(); got != "Führerstandsmitfahrt" {
		t.Errorf("expected name as title, got %q", got)
	}
}
