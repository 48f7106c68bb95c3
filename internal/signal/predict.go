package signal

import (
	"math"

	"github.com/arthur-theuer/signaleditor/internal/route"
)

// Guess is a predicted signal base plus the name it carries.
type Guess struct {
	Signal string `json:"signal"`
	Name   string `json:"name"`
}

// Text renders the guess the way it is stored in a signal field.
func (g Guess) Text() string {
	if g.Name == "" {
		return g.Signal
	}
	return g.Signal + " " + g.Name
}

// Prediction is the expected content of the row following a signal row.
type Prediction struct {
	Guess
	// Secondary is set when the advance signal repeats on the next row.
	Secondary string `json:"secondary,omitempty"`
	Alt       *Guess `json:"alt,omitempty"`
}

// guessFrom returns the announced primary of the first name that is a
// mapped advance signal.
func guessFrom(names ...string) *Guess {
	for _, name := range names {
		if name == "" {
			continue
		}
		base := Base(name)
		if base == "" {
			continue
		}
		m, ok := SecondaryToPrimary[base]
		if !ok {
			continue
		}
		g := &Guess{Signal: m.Primary}
		if m.KeepName {
			g.Name = FreeText(name)
		}
		return g
	}
	return nil
}

// PredictNext predicts the row after prev. The secondary field is
// preferred over the primary as the source. It returns nil when prev
// announces nothing.
func PredictNext(prev *route.Signal) *Prediction {
	main := guessFrom(prev.Secondary, prev.Primary)
	if main == nil {
		return nil
	}
	p := &Prediction{Guess: *main, Alt: guessFrom(prev.SecondaryAlt, prev.PrimaryAlt)}

	// A block advance signal is normally repeated on the block signal's row.
	if p.Signal == Block {
		src := prev.Secondary
		if src == "" {
			src = prev.Primary
		}
		if Base(src) == BlockAdvance {
			p.Secondary = BlockAdvance
		}
	}
	return p
}

// predictionSource finds the nearest populated, non-repeater signal row at
// or before idx.
func predictionSource(idx int, seq []route.Entry) *route.Signal {
	if idx >= len(seq) {
		idx = len(seq) - 1
	}
	for i := idx; i >= 0; i-- {
		s, ok := seq[i].(*route.Signal)
		if !ok || !s.Populated() || IsRepeater(s.Primary) {
			continue
		}
		return s
	}
	return nil
}

// AutofillRow fills row from the prediction of the signal row at or before
// sourceIndex. With trackDistance, row.Km becomes the source row's km plus
// 0.1, rounded to one decimal, when the source row has a km.
func AutofillRow(row *route.Signal, sourceIndex int, seq []route.Entry, trackDistance bool) {
	if src := predictionSource(sourceIndex, seq); src != nil {
		if p := PredictNext(src); p != nil {
			row.Primary = p.Text()
			if NeedsStation(p.Signal) {
				row.Station = p.Name
			}
			if p.Alt != nil {
				row.PrimaryAlt = p.Alt.Text()
				if NeedsStation(p.Alt.Signal) && p.Alt.Name != "" && row.Station == "" {
					row.Station = p.Alt.Name
				}
			}
			if p.Secondary != "" {
				row.Secondary = p.Secondary
			}
		}
	}

	if trackDistance && sourceIndex >= 0 && sourceIndex < len(seq) {
		if km := seq[sourceIndex].Head().Km; km != nil {
			row.Km = route.Km(math.Round((*km+0.1)*10) / 10)
		}
	}
}

// Field names a signal column of a row.
type Field string

const (
	FieldPrimary      Field = "signal_1"
	FieldPrimaryAlt   Field = "signal_1b"
	FieldSecondary    Field = "signal_2"
	FieldSecondaryAlt Field = "signal_2b"
)

// IsSecondary reports whether the field holds advance signals.
func (f Field) IsSecondary() bool {
	return f == FieldSecondary || f == FieldSecondaryAlt
}

// ChoicesFor orders the signal choices offered for field in row rowIndex.
// After an advance signal a primary is expected next and listed first;
// after a primary the advance signals come first.
func ChoicesFor(field Field, rowIndex int, seq []route.Entry) []string {
	if field.IsSecondary() {
		return concat(Secondaries)
	}

	last := ""
	if rowIndex > len(seq) {
		rowIndex = len(seq)
	}
	for i := rowIndex - 1; i >= 0; i-- {
		s, ok := seq[i].(*route.Signal)
		if !ok || !s.Populated() || IsRepeater(s.Primary) {
			continue
		}
		last = s.Secondary
		if last == "" {
			last = s.Primary
		}
		break
	}

	switch {
	case last == "":
		return concat(All)
	case IsSecondaryName(last):
		return concat(Primaries, []string{Repeater}, Secondaries)
	default:
		return concat(Secondaries, []string{Repeater}, Primaries)
	}
}
