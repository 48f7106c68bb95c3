package signal

// Category is the semantic kind of a signal name. Primary signals and
// their advance signals share a category.
type Category string

const (
	CategoryNone         Category = ""
	CategorySection      Category = "abschnitt"
	CategorySectionEntry Category = "einfahrabschnitt"
	CategorySectionExit  Category = "ausfahrabschnitt"
	CategoryEntry        Category = "einfahrt"
	CategoryExit         Category = "ausfahrt"
	CategoryTrackChange  Category = "spurwechsel"
	CategoryBlock        Category = "block"
	CategoryRepeater     Category = "wiederholung"
)

// Full signal names as they appear at the start of a row's signal field.
const (
	Section      = "Abschnittsignal"
	SectionEntry = "Abschnitteinfahrsignal"
	SectionExit  = "Abschnittausfahrsignal"
	Exit         = "Ausfahrsignal"
	Block        = "Blocksignal"
	Entry        = "Einfahrsignal"
	TrackChange  = "Spurwechsel"

	Repeater = "Wiederholungssignal"

	SectionAdvance      = "Abschnitt-Vorsignal"
	SectionEntryAdvance = "Abschnitteinfahr-Vorsignal"
	SectionExitAdvance  = "Abschnittausfahr-Vorsignal"
	ExitAdvance         = "Ausfahr-Vorsignal"
	BlockAdvance        = "Block-Vorsignal zu"
	EntryAdvance        = "Einfahr-Vorsignal"
	TrackChangeAdvance  = "Vorsignal zu Spurwechsel"
)

// Primaries lists the main signals in canonical order.
var Primaries = []string{Section, SectionEntry, SectionExit, Exit, Block, Entry, TrackChange}

// Secondaries lists the advance signals in canonical order.
var Secondaries = []string{
	SectionAdvance,
	SectionEntryAdvance,
	SectionExitAdvance,
	ExitAdvance,
	BlockAdvance,
	EntryAdvance,
	TrackChangeAdvance,
}

// All is the full choice list: primaries, repeater, secondaries.
var All = concat(Primaries, []string{Repeater}, Secondaries)

// Substrings marking a name as an advance (secondary) signal.
var secondaryMarkers = []string{"Vorsignal", Repeater}

// advanceMarker identifies secondary names among the enumerated bases.
const advanceMarker = "Vorsignal"

type pattern struct {
	substr   string
	category Category
}

// First match wins, so longer stems precede their prefixes.
var patterns = []pattern{
	{"Abschnitteinfahr", CategorySectionEntry},
	{"Abschnittausfahr", CategorySectionExit},
	{"Abschnitt", CategorySection},
	{"Einfahr", CategoryEntry},
	{"Ausfahr", CategoryExit},
	{"Spurwechsel", CategoryTrackChange},
	{"Block", CategoryBlock},
	{"Wiederholungs", CategoryRepeater},
}

var requiresName = []string{Entry, EntryAdvance, Block, BlockAdvance, TrackChange, TrackChangeAdvance}

var requiresStation = []string{EntryAdvance}

// Mapping is the primary signal an advance signal announces.
type Mapping struct {
	Primary  string
	KeepName bool // carry the advance signal's embedded name over
}

// SecondaryToPrimary drives prediction of the next row.
var SecondaryToPrimary = map[string]Mapping{
	EntryAdvance:        {Primary: Entry, KeepName: true},
	SectionEntryAdvance: {Primary: SectionEntry},
	SectionExitAdvance:  {Primary: SectionExit},
	SectionAdvance:      {Primary: Section},
	ExitAdvance:         {Primary: Exit},
	BlockAdvance:        {Primary: Block, KeepName: true},
	TrackChangeAdvance:  {Primary: TrackChange, KeepName: true},
}

// GenericMessage is used when no advance signal determines the message.
const GenericMessage = "Offen/zu!"

const stationPlaceholder = "{bahnhof}"

// Templates holds the announcement text per category.
var Templates = map[Category]string{
	CategorySectionEntry: "Einfahrabschnitt offen/zu!",
	CategorySectionExit:  "Ausfahrabschnitt offen/zu!",
	CategorySection:      "Abschnitt offen/zu!",
	CategoryEntry:        stationPlaceholder + " offen/zu!",
	CategoryExit:         "Ausfahrt offen/zu!",
	CategoryTrackChange:  "Spurwechsel offen/zu!",
	CategoryBlock:        "Block offen/zu!",
	CategoryRepeater:     "Wiederholung offen/zu!",
}

// DefaultColor is used for categories without an entry in Colors.
const DefaultColor = "#000000"

// Colors maps categories to report colors outside of stations.
var Colors = map[Category]string{
	CategoryBlock:       "#800080",
	CategoryTrackChange: "#800080",
	CategoryExit:        "#FF0000",
	CategoryRepeater:    "#0000FF",
}

// StationColors alternate between consecutive stations.
var StationColors = [2]string{"#008000", "#FFA500"}

// ColorFor returns the report color of a category outside of stations.
func ColorFor(c Category) string {
	if col, ok := Colors[c]; ok {
		return col
	}
	return DefaultColor
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
