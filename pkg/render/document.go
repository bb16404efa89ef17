package render

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/dungeonforge/pkg/bsp"
	"github.com/matzehuels/dungeonforge/pkg/dungeon"
)

// Document is the self-describing export of a map used by the json and yaml formats.
type Document struct {
	Width     int            `json:"width" yaml:"width"`
	Height    int            `json:"height" yaml:"height"`
	Seed      uint64         `json:"seed,omitempty" yaml:"seed,omitempty"`
	Params    dungeon.Params `json:"params" yaml:"params"`
	Stats     dungeon.Stats  `json:"stats" yaml:"stats"`
	Rooms     []bsp.Rect     `json:"rooms" yaml:"rooms"`
	Corridors []docCorridor  `json:"corridors" yaml:"corridors"`
	Rows      []string       `json:"rows" yaml:"rows"`
}

type docCorridor struct {
	From dungeon.Point `json:"from" yaml:"from,flow"`
	To   dungeon.Point `json:"to" yaml:"to,flow"`
}

// NewDocument builds the export document for m. Corridor paths are omitted;
// they are recoverable from the endpoints.
func NewDocument(m *dungeon.Map) Document {
	d := Document{
		Width:     m.Grid.Width(),
		Height:    m.Grid.Height(),
		Seed:      m.Seed,
		Params:    m.Params,
		Stats:     m.Stats(),
		Rooms:     m.Rooms,
		Corridors: make([]docCorridor, len(m.Corridors)),
		Rows:      m.Grid.Rows(),
	}
	if d.Rooms == nil {
		d.Rooms = []bsp.Rect{}
	}
	for i, c := range m.Corridors {
		d.Corridors[i] = docCorridor{From: c.From, To: c.To}
	}
	return d
}

// RenderJSON renders the map document as indented JSON.
func RenderJSON(m *dungeon.Map) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(m), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RenderYAML renders the map document as YAML with two-space indentation.
func RenderYAML(m *dungeon.Map) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(m)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeDocument parses a json or yaml document back into a map.
func DecodeDocument(data []byte, format Format) (*dungeon.Map, error) {
	var d Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &d)
	default:
		err = json.Unmarshal(data, &d)
	}
	if err != nil {
		return nil, err
	}
	grid, err := dungeon.ParseRows(d.Rows)
	if err != nil {
		return nil, err
	}
	m := &dungeon.Map{Params: d.Params, Seed: d.Seed, Grid: grid, Rooms: d.Rooms}
	for _, c := range d.Corridors {
		m.Corridors = append(m.Corridors, dungeon.Corridor{From: c.From, To: c.To})
	}
	return m, nil
}
