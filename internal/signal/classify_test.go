package signal

import "testing"

func TestClassify_Primaries(t *testing.T) {
	want := map[string]Category{
		Section:      CategorySection,
		SectionEntry: CategorySectionEntry,
		SectionExit:  CategorySectionExit,
		Exit:         CategoryExit,
		Block:        CategoryBlock,
		Entry:        CategoryEntry,
		TrackChange:  CategoryTrackChange,
	}
	for name, cat := range want {
		secondary, got := Classify(name)
		if secondary {
			t.Errorf("%s: expected primary, got secondary", name)
		}
		if got != cat {
			t.Errorf("%s: expected category %q, got %q", name, cat, got)
		}
	}
}

func TestClassify_SecondariesShareBaseCategory(t *testing.T) {
	want := map[string]Category{
		SectionAdvance:      CategorySection,
		SectionEntryAdvance: CategorySectionEntry,
		SectionExitAdvance:  CategorySectionExit,
		ExitAdvance:         CategoryExit,
		BlockAdvance:        CategoryBlock,
		EntryAdvance:        CategoryEntry,
		TrackChangeAdvance:  CategoryTrackChange,
	}
	for name, cat := range want {
		secondary, got := Classify(name)
		if !secondary {
			t.Errorf("%s: expected secondary", name)
		}
		if got != cat {
			t.Errorf("%s: expected category %q, got %q", name, cat, got)
		}
	}
}

func TestClassify_RepeaterAndNamedSignals(t *testing.T) {
	secondary, cat := Classify("Wiederholungssignal 4")
	if !secondary || cat != CategoryRepeater {
		t.Errorf("repeater: got (%v, %q)", secondary, cat)
	}

	secondary, cat = Classify("Einfahrsignal Zug")
	if secondary || cat != CategoryEntry {
		t.Errorf("named entry: got (%v, %q)", secondary, cat)
	}
}

func TestClassify_Unmatched(t *testing.T) {
	for _, name := range []string{"", "Zwergsignal", "Hauptsignal 3"} {
		secondary, cat := Classify(name)
		if secondary || cat != CategoryNone {
			t.Errorf("%q: expected (false, none), got (%v, %q)", name, secondary, cat)
		}
	}
}

func TestBase_LongestPrefix(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Einfahrsignal Zug", Entry},
		{"Einfahr-Vorsignal Zug", EntryAdvance},
		{"Abschnitteinfahrsignal", SectionEntry},
		{"Abschnitt-Vorsignal", SectionAdvance},
		{"Block-Vorsignal zu 12", BlockAdvance},
		{"Vorsignal zu Spurwechsel Nord", TrackChangeAdvance},
		{"Spurwechsel Nord", TrackChange},
		{"Wiederholungssignal", Repeater},
		{"Signal Einfahrsignal", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Base(tt.name); got != tt.want {
			t.Errorf("Base(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFreeText(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Einfahrsignal Zug", "Zug"},
		{"Einfahr-Vorsignal  Baar ", "Baar"},
		{"Blocksignal 412", "412"},
		{"Ausfahrsignal F3", ""}, // exit signals carry no name
		{"Abschnitt-Vorsignal", ""},
		{"unbekannt", ""},
	}
	for _, tt := range tests {
		if got := FreeText(tt.name); got != tt.want {
			t.Errorf("FreeText(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRequirements(t *testing.T) {
	named := []string{Entry, EntryAdvance, Block, BlockAdvance, TrackChange, TrackChangeAdvance}
	for _, s := range named {
		if !NeedsName(s) {
			t.Errorf("expected %s to need a name", s)
		}
	}
	for _, s := range []string{Section, Exit, ExitAdvance, Repeater, SectionEntryAdvance} {
		if NeedsName(s) {
			t.Errorf("expected %s not to need a name", s)
		}
	}

	if !NeedsStation(EntryAdvance) {
		t.Error("expected entry advance signal to need a station")
	}
	for _, s := range All {
		if s != EntryAdvance && NeedsStation(s) {
			t.Errorf("expected only %s to need a station, %s does too", EntryAdvance, s)
		}
	}
}

func TestIsSecondaryNameAndRepeater(t *testing.T) {
	if !IsSecondaryName("Ausfahr-Vorsignal") {
		t.Error("expected Ausfahr-Vorsignal to be secondary")
	}
	if IsSecondaryName("Ausfahrsignal") || IsSecondaryName(Repeater) {
		t.Error("expected primary and repeater not to be secondary names")
	}
	if !IsRepeater("Wiederholungssignal 2") || IsRepeater("Blocksignal") {
		t.Error("unexpected repeater detection")
	}
}
