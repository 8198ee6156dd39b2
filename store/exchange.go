package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"muse/graph"
	"muse/viewport"
)

// Export is the interchange file format: the persisted state plus an export
// timestamp.
type Export struct {
	State
	ExportedAt time.Time `json:"exportedAt"`
}

// ExportJSON serializes a board for interchange.
func ExportJSON(g *graph.Graph, v *viewport.Viewport) ([]byte, error) {
	e := Export{State: Snapshot(g, v), ExportedAt: time.Now().UTC()}
	return json.MarshalIndent(e, "", "  ")
}

// Raw record shapes for import. Text is left raw so a non-string value can
// be rejected per record instead of failing the whole file.
type rawNode struct {
	ID         string          `json:"id"`
	Text       json.RawMessage `json:"text"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	ManualSize bool            `json:"manualSize"`
	Source     string          `json:"source"`
}

type rawConnection struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

type rawExport struct {
	Nodes       []rawNode       `json:"nodes"`
	Connections []rawConnection `json:"connections"`
	OffsetX     float64         `json:"offsetX"`
	OffsetY     float64         `json:"offsetY"`
	Scale       float64         `json:"scale"`
}

// ImportJSON parses an interchange file, validating each record: a node
// needs an id and textual text, a connection needs endpoints that resolve.
// Invalid records are dropped silently (the count is returned for
// reporting); only a malformed document is an error.
func ImportJSON(data []byte) (State, int, error) {
	var raw rawExport
	if err := json.Unmarshal(data, &raw); err != nil {
		return State{}, 0, fmt.Errorf("parse import: %w", err)
	}

	dropped := 0
	s := State{OffsetX: raw.OffsetX, OffsetY: raw.OffsetY, Scale: raw.Scale}

	seen := make(map[string]bool)
	for _, rn := range raw.Nodes {
		var text string
		if rn.ID == "" || seen[rn.ID] || json.Unmarshal(rn.Text, &text) != nil {
			dropped++
			continue
		}
		seen[rn.ID] = true
		s.Nodes = append(s.Nodes, graph.Node{
			ID:         rn.ID,
			Text:       text,
			X:          rn.X,
			Y:          rn.Y,
			Width:      rn.Width,
			Height:     rn.Height,
			ManualSize: rn.ManualSize,
			Source:     rn.Source,
		})
	}

	edges := make(map[string]bool)
	for _, rc := range raw.Connections {
		if rc.From == rc.To || !seen[rc.From] || !seen[rc.To] {
			dropped++
			continue
		}
		// Undirected uniqueness: A↔B equals B↔A.
		a, b := rc.From, rc.To
		if b < a {
			a, b = b, a
		}
		if edges[a+"\x00"+b] {
			dropped++
			continue
		}
		edges[a+"\x00"+b] = true
		id := rc.ID
		if id == "" {
			id = uuid.NewString()
		}
		s.Connections = append(s.Connections, graph.Connection{ID: id, From: rc.From, To: rc.To})
	}

	// Geometry still gets clamped by the graph boundary pass.
	g := s.Graph()
	s.Nodes = g.Nodes
	s.Connections = g.Connections

	if s.Scale < viewport.MinScale || s.Scale > viewport.MaxScale {
		s.Scale = 1
	}
	return s, dropped, nil
}
