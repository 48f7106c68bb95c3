// Package stations maps operating point codes to display names.
package stations

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed stations.yaml
var defaultTable []byte

type file struct {
	Stations map[string]string `yaml:"stationen"`
}

// Lookup resolves node codes like "ZG" to station names. A nil *Lookup
// knows no stations.
type Lookup struct {
	names map[string]string
}

// Default returns the built-in station table. The table is parsed once and
// shared; Lookup has no mutators.
var Default = sync.OnceValue(func() *Lookup {
	l, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("stations: embedded table: %v", err))
	}
	return l
})

// Parse reads a station table.
func Parse(data []byte) (*Lookup, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse station table: %w", err)
	}
	if f.Stations == nil {
		f.Stations = map[string]string{}
	}
	return &Lookup{names: f.Stations}, nil
}

// Load returns the built-in table extended by the entries in path. Entries
// in the file win. An empty path yields the built-in table.
func Load(path string) (*Lookup, error) {
	if path == "" {
		return Default(), nil
	}
	l := &Lookup{names: maps.Clone(Default().names)}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station table: %w", err)
	}
	extra, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for code, name := range extra.names {
		l.names[code] = name
	}
	return l, nil
}

// Name returns the station name for code, or "" when unknown.
func (l *Lookup) Name(code string) string {
	if l == nil {
		return ""
	}
	return l.names[code]
}

// Display renders a node as "name (code)", or the bare code when unknown.
func (l *Lookup) Display(code string) string {
	if name := l.Name(code); name != "" {
		return name + " (" + code + ")"
	}
	return code
}

// Len returns the number of known stations.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}
