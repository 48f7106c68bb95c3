package signal

import "strings"

// Classify maps a free-text signal name to its category. isSecondary is
// set for advance and repeater signals. Unrecognised names yield
// (false, CategoryNone).
func Classify(name string) (isSecondary bool, category Category) {
	for _, p := range patterns {
		if strings.Contains(name, p.substr) {
			return hasSecondaryMarker(name), p.category
		}
	}
	return false, CategoryNone
}

func hasSecondaryMarker(name string) bool {
	for _, m := range secondaryMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// Base returns the longest enumerated signal name that name starts with,
// or "" when name does not start with a known signal.
func Base(name string) string {
	best := ""
	for _, s := range All {
		if len(s) > len(best) && strings.HasPrefix(name, s) {
			best = s
		}
	}
	return best
}

// FreeText returns the name embedded after the signal base, e.g. "Zug" for
// "Einfahrsignal Zug". It is empty for signals that carry no name.
func FreeText(name string) string {
	base := Base(name)
	if base == "" || !NeedsName(base) {
		return ""
	}
	return strings.TrimSpace(name[len(base):])
}

// NeedsName reports whether rows of this signal carry a name.
func NeedsName(base string) bool {
	return hasAnyPrefix(base, requiresName)
}

// NeedsStation reports whether rows of this signal need a station name.
func NeedsStation(base string) bool {
	return hasAnyPrefix(base, requiresStation)
}

// IsRepeater reports whether name is a repeater signal.
func IsRepeater(name string) bool {
	return Base(name) == Repeater
}

// IsSecondaryName reports whether name starts with an advance signal.
func IsSecondaryName(name string) bool {
	return strings.Contains(Base(name), advanceMarker)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
