package signal

import (
	"errors"
	"strings"

	"github.com/arthur-theuer/signaleditor/internal/route"
)

// ErrNoSignal marks rows that carry no signal to announce.
var ErrNoSignal = errors.New("no signal")

// NoSignalText is what a report shows for a row without a signal.
const NoSignalText = "Kein Signal"

// Segment is one announcement derived from a signal row.
type Segment struct {
	Message  string
	Category Category
}

// Announcement is the message derivation of a signal row.
type Announcement struct {
	SignalName string
	Segments   []Segment
	Err        error
}

// Announce derives the messages of a signal row. The first advance signal
// among primary and secondary sets the headline; an advance signal among
// the alternatives adds a second segment.
func Announce(s *route.Signal) Announcement {
	names := nonEmpty(s.Primary, s.Secondary)
	if len(names) == 0 {
		return Announcement{Err: ErrNoSignal}
	}

	msg := GenericMessage
	cat := CategoryNone
	for _, name := range names {
		secondary, c := Classify(name)
		if c == CategoryNone {
			continue
		}
		cat = c
		if secondary {
			msg = template(c, s.Station)
			break
		}
	}
	segments := []Segment{{Message: msg, Category: cat}}

	for _, name := range nonEmpty(s.PrimaryAlt, s.SecondaryAlt) {
		secondary, c := Classify(name)
		if c == CategoryNone || !secondary {
			continue
		}
		segments = append(segments, Segment{Message: template(c, s.Station), Category: c})
		break
	}

	return Announcement{SignalName: DisplayName(s), Segments: segments}
}

// DisplayName joins "primary / primaryAlt" and "secondary / secondaryAlt".
func DisplayName(s *route.Signal) string {
	return joinSlash(PrimaryDisplay(s), SecondaryDisplay(s))
}

// PrimaryDisplay joins the primary name with its alternative.
func PrimaryDisplay(s *route.Signal) string {
	return joinSlash(s.Primary, s.PrimaryAlt)
}

// SecondaryDisplay joins the secondary name with its alternative.
func SecondaryDisplay(s *route.Signal) string {
	return joinSlash(s.Secondary, s.SecondaryAlt)
}

func template(c Category, station string) string {
	return strings.ReplaceAll(Templates[c], stationPlaceholder, station)
}

func joinSlash(parts ...string) string {
	return strings.Join(nonEmpty(parts...), " / ")
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
