package resolver

import (
	"errors"
	"fmt"

	"github.com/arthur-theuer/signaleditor/internal/parser"
)

var (
	// ErrNoFile is returned for an import without a file reference.
	ErrNoFile = errors.New("no file path given")
	// ErrNoEmbeddedData is returned when an HTML export holds no route
	// block.
	ErrNoEmbeddedData = parser.ErrNoEmbeddedData
)

// NodeNotFoundError reports a slice boundary missing from the document.
type NodeNotFoundError struct {
	Name string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %q not found", e.Name)
}

// Texts shown to editor users.
const (
	textNoFile         = "Kein Dateipfad angegeben"
	textNoEmbeddedData = "Keine eingebettete YAML-Daten gefunden"
	textNoSharedNode   = "Kein gemeinsamer Knoten"
)

// Message returns the editor text for a resolution error. Errors without
// a translation keep their own text.
func Message(err error) string {
	var nf *NodeNotFoundError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &nf):
		return `Knoten "` + nf.Name + `" nicht gefunden`
	case errors.Is(err, ErrNoFile):
		return textNoFile
	case errors.Is(err, ErrNoEmbeddedData):
		return textNoEmbeddedData
	}
	return err.Error()
}
