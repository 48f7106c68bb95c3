package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-theuer/signaleditor/internal/route"
)

// Encode writes doc in the current route file format. Imports are always
// written under the "import" key.
func Encode(w io.Writer, doc *route.Document) error {
	bw := bufio.NewWriter(w)
	m := doc.Meta

	if m.Type == route.TypeRoute {
		fmt.Fprintf(bw, "typ: %s\n", route.TypeRoute)
		fmt.Fprintf(bw, "linie: %s\n", m.Line)
	} else {
		fmt.Fprintf(bw, "typ: %s\n", route.TypeVideo)
		fmt.Fprintf(bw, "streckennummer: %s\n", m.Number)
	}
	fmt.Fprintf(bw, "von: %s\n", m.From)
	fmt.Fprintf(bw, "nach: %s\n", m.To)
	fmt.Fprintf(bw, "via: %s\n", m.Via)
	fmt.Fprintf(bw, "name: %s\n", m.Name)
	if m.Type != route.TypeRoute {
		fmt.Fprintf(bw, "video: %s\n", m.Video)
	}

	bw.WriteString("\nsignale:\n")
	for i, e := range doc.Entries {
		fmt.Fprintf(bw, "  - id: %d\n", e.Head().ID)

		switch v := e.(type) {
		case *route.Note:
			fmt.Fprintf(bw, "    notiz: %s\n", v.Text)
		case *route.Branch:
			key := "von"
			if v.Direction == route.DirectionTo {
				key = "nach"
			}
			fmt.Fprintf(bw, "    abzweigung: { strecke: \"%s\", %s: \"%s\", seite: \"%s\" }\n", v.Line, key, v.Label, v.Side)
		case *route.Node:
			fmt.Fprintf(bw, "    knoten: %s\n", v.Name)
		case *route.Import:
			parts := []string{"datei: " + v.Ref.File}
			if v.Ref.From != "" {
				parts = append(parts, "von: "+v.Ref.From)
			}
			if v.Ref.To != "" {
				parts = append(parts, "bis: "+v.Ref.To)
			}
			fmt.Fprintf(bw, "    import: { %s }\n", strings.Join(parts, ", "))
		case *route.Signal:
			writeField(bw, "signal_1", v.Primary)
			writeField(bw, "signal_1b", v.PrimaryAlt)
			writeField(bw, "signal_2", v.Secondary)
			writeField(bw, "signal_2b", v.SecondaryAlt)
			writeField(bw, "bahnhof", v.Station)
		}

		if km := e.Head().Km; km != nil {
			fmt.Fprintf(bw, "    km: %s\n", strconv.FormatFloat(*km, 'f', -1, 64))
		}
		if i < len(doc.Entries)-1 {
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

func writeField(w io.Writer, key, value string) {
	if value != "" {
		fmt.Fprintf(w, "    %s: %s\n", key, value)
	}
}
