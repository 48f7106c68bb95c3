package parser

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/arthur-theuer/signaleditor/internal/route"
)

// TextParser handles plain route files: a header of "key: value" lines
// followed by a "signale:" section of "- id:" blocks.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*route.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return decodeLines(lines), nil
}

// Decode parses route file content. It never fails: unknown keys and
// malformed lines are skipped.
func Decode(content string) *route.Document {
	return decodeLines(strings.Split(content, "\n"))
}

var (
	keyValue     = regexp.MustCompile(`^(\w+):\s*(.*)$`)
	inlineImport = regexp.MustCompile(`^(?:import|quelle):\s*\{(.+)\}$`)
	inlineBranch = regexp.MustCompile(`^abzweigung:\s*\{(.+)\}$`)

	importFile = regexp.MustCompile(`datei:\s*([^,}]+)`)
	importFrom = regexp.MustCompile(`(?:^|,)\s*von:\s*([^,}]+)`)
	importTo   = regexp.MustCompile(`(?:^|,)\s*bis:\s*([^,}]+)`)

	branchValue = map[string]*regexp.Regexp{
		"strecke": regexp.MustCompile(`strecke:\s*"([^"]*)"`),
		"von":     regexp.MustCompile(`von:\s*"([^"]*)"`),
		"nach":    regexp.MustCompile(`nach:\s*"([^"]*)"`),
		"seite":   regexp.MustCompile(`seite:\s*"([^"]*)"`),
	}
)

const (
	sectionEntries = "signale:"
	sectionLegacy  = "strecke:"
)

func skip(trimmed string) bool {
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

func decodeLines(lines []string) *route.Document {
	for _, line := range lines {
		if strings.TrimRight(line, "\r") == sectionLegacy {
			return decodeLegacy(lines)
		}
	}

	meta := map[string]string{}
	start := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if skip(trimmed) {
			continue
		}
		if trimmed == sectionEntries {
			start = i + 1
			break
		}
		if m := keyValue.FindStringSubmatch(trimmed); m != nil {
			meta[m[1]] = m[2]
		}
	}

	doc := route.NewVideo()
	if meta["typ"] == string(route.TypeRoute) {
		doc = route.NewRoute()
		doc.Meta.Line = meta["linie"]
	} else {
		doc.Meta.Number = meta["streckennummer"]
		doc.Meta.Video = meta["video"]
	}
	doc.Meta.From = meta["von"]
	doc.Meta.To = meta["nach"]
	doc.Meta.Via = meta["via"]
	doc.Meta.Name = meta["name"]

	var er entryReader
	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if !skip(trimmed) {
			er.line(trimmed)
		}
	}
	doc.Entries = er.finish()
	return doc
}

// decodeLegacy reads the older layout with a "strecke:" header section.
// The line, from and to are recovered from ids like "s5_pf_zg".
func decodeLegacy(lines []string) *route.Document {
	doc := route.NewRoute()
	var er entryReader
	section := ""

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if skip(trimmed) {
			continue
		}
		if trimmed == sectionLegacy || trimmed == sectionEntries {
			section = trimmed
			continue
		}

		switch section {
		case sectionLegacy:
			m := keyValue.FindStringSubmatch(trimmed)
			if m == nil {
				continue
			}
			switch m[1] {
			case "id":
				if parts := strings.Split(m[2], "_"); len(parts) >= 3 {
					doc.Meta.Line = parts[0]
					doc.Meta.From = strings.ToUpper(parts[1])
					doc.Meta.To = strings.ToUpper(parts[len(parts)-1])
				}
			case "name":
				doc.Meta.Name = m[2]
			case "linie":
				doc.Meta.Line = m[2]
			}
		case sectionEntries:
			er.line(trimmed)
		}
	}
	doc.Entries = er.finish()
	return doc
}

// entryReader collects "- id:" blocks into entries.
type entryReader struct {
	entries []route.Entry
	cur     *fields
}

func (er *entryReader) line(trimmed string) {
	if rest, ok := strings.CutPrefix(trimmed, "- id:"); ok {
		er.flush()
		er.cur = &fields{id: parseID(rest, len(er.entries))}
		return
	}
	if er.cur != nil {
		er.cur.set(trimmed)
	}
}

func (er *entryReader) flush() {
	if er.cur != nil {
		er.entries = append(er.entries, er.cur.entry())
		er.cur = nil
	}
}

func (er *entryReader) finish() []route.Entry {
	er.flush()
	return er.entries
}

// parseID reads the leading integer of s. Missing or zero ids fall back
// to the entry's position.
func parseID(s string, fallback int) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	id, err := strconv.Atoi(s[:end])
	if err != nil || id == 0 {
		return fallback
	}
	return id
}

// fields accumulates the keys of one block. The first variant key present,
// in the order note, branch, node, import, decides the entry kind; a block
// with none of them is a signal row.
type fields struct {
	id     int
	km     *float64
	note   *string
	node   *string
	branch *route.Branch
	imp    *route.ImportRef
	sig    route.Signal
}

func (f *fields) set(trimmed string) {
	if m := inlineImport.FindStringSubmatch(trimmed); m != nil {
		ref := parseImport(m[1])
		f.imp = &ref
		return
	}
	if m := inlineBranch.FindStringSubmatch(trimmed); m != nil {
		f.branch = parseBranch(m[1])
		return
	}

	m := keyValue.FindStringSubmatch(trimmed)
	if m == nil {
		return
	}
	key, value := m[1], m[2]
	switch key {
	case "knoten":
		f.node = &value
	case "notiz":
		f.note = &value
	case "signal_1":
		f.sig.Primary = value
	case "signal_1b":
		f.sig.PrimaryAlt = value
	case "signal_2":
		f.sig.Secondary = value
	case "signal_2b":
		f.sig.SecondaryAlt = value
	case "bahnhof":
		f.sig.Station = value
	case "km":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			f.km = &v
		}
	}
}

func (f *fields) entry() route.Entry {
	base := route.Base{ID: f.id, Km: f.km}
	switch {
	case f.note != nil:
		return &route.Note{Base: base, Text: *f.note}
	case f.branch != nil:
		b := *f.branch
		b.Base = base
		return &b
	case f.node != nil:
		return &route.Node{Base: base, Name: *f.node}
	case f.imp != nil:
		return &route.Import{Base: base, Ref: *f.imp}
	default:
		s := f.sig
		s.Base = base
		return &s
	}
}

func unquote(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, "")
}

func parseImport(inner string) route.ImportRef {
	var ref route.ImportRef
	if m := importFile.FindStringSubmatch(inner); m != nil {
		ref.File = unquote(m[1])
	}
	if m := importFrom.FindStringSubmatch(inner); m != nil {
		ref.From = unquote(m[1])
	}
	if m := importTo.FindStringSubmatch(inner); m != nil {
		ref.To = unquote(m[1])
	}
	return ref
}

func parseBranch(inner string) *route.Branch {
	get := func(key string) string {
		if m := branchValue[key].FindStringSubmatch(inner); m != nil {
			return m[1]
		}
		return ""
	}

	b := &route.Branch{Line: get("strecke"), Side: route.SideLeft}
	if side := get("seite"); side != "" {
		b.Side = route.Side(side)
	}
	if from := get("von"); from != "" {
		b.Direction, b.Label = route.DirectionFrom, from
	} else if to := get("nach"); to != "" {
		b.Direction, b.Label = route.DirectionTo, to
	}
	return b
}
