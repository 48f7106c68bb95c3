package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/arthur-theuer/signaleditor/internal/route"
)

var docxHeader = []string{"Km", "Signal", "Meldung", "Bemerkung"}

// WriteDOCX renders rows as a Word document with a title paragraph and
// one table row per display row. Segment colors and emphasis are kept.
func WriteDOCX(w io.Writer, title string, rows []DisplayRow) error {
	doc := docx.New().WithDefaultTheme().WithA4Page()

	doc.AddParagraph().AddText(title).Size("32").Bold()

	table := doc.AddTable(len(rows)+1, len(docxHeader), 0, nil)
	for j, h := range docxHeader {
		table.TableRows[0].TableCells[j].AddParagraph().AddText(h).Bold()
	}

	for i, row := range rows {
		cells := table.TableRows[i+1].TableCells
		cells[0].AddParagraph().AddText(FormatKm(row.Km))
		cells[1].AddParagraph().AddText(row.Label())

		msg := cells[2].AddParagraph()
		for k, seg := range row.Segments {
			if k > 0 {
				msg.AddText(" / ")
			}
			run := msg.AddText(seg.Message).Color(strings.TrimPrefix(seg.Color, "#"))
			if seg.Bold {
				run.Bold()
			}
		}

		remark := row.Note
		if remark == "" && row.Kind == route.KindSignal {
			remark = row.Error
		}
		cells[3].AddParagraph().AddText(remark)
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// Label is the text of the signal column: the signal name, or what
// the non-signal row stands for.
func (row DisplayRow) Label() string {
	switch {
	case row.SignalName != "":
		return row.SignalName
	case row.Node != "":
		return row.Node
	case row.Branch != "":
		return row.Branch
	case row.Import != "":
		return "Import: " + row.Import
	}
	return ""
}

// FormatKm renders a km position with one decimal, or "" when unset.
func FormatKm(km *float64) string {
	if km == nil {
		return ""
	}
	return strconv.FormatFloat(*km, 'f', 1, 64)
}
