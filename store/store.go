// Package store persists board state to an embedded key-value store and
// implements the JSON exchange format for import/export.
package store

import (
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"muse/graph"
	"muse/viewport"
)

// State is the persisted shape of a board: the graph plus the viewport.
// Transient UI flags (selection) are excluded by the graph's own JSON tags.
type State struct {
	Nodes       []graph.Node       `json:"nodes"`
	Connections []graph.Connection `json:"connections"`
	OffsetX     float64            `json:"offsetX"`
	OffsetY     float64            `json:"offsetY"`
	Scale       float64            `json:"scale"`
}

// Snapshot captures the live graph and viewport into a State.
func Snapshot(g *graph.Graph, v *viewport.Viewport) State {
	clone := g.Clone()
	return State{
		Nodes:       clone.Nodes,
		Connections: clone.Connections,
		OffsetX:     v.OffsetX,
		OffsetY:     v.OffsetY,
		Scale:       v.Scale,
	}
}

// Graph rebuilds a sanitized graph from the state.
func (s State) Graph() *graph.Graph {
	g := &graph.Graph{Nodes: s.Nodes, Connections: s.Connections}
	g.Sanitize()
	return g
}

// Viewport rebuilds the viewport from the state, defaulting the scale when
// it is missing or out of range.
func (s State) Viewport() *viewport.Viewport {
	v := &viewport.Viewport{OffsetX: s.OffsetX, OffsetY: s.OffsetY, Scale: s.Scale}
	if v.Scale < viewport.MinScale || v.Scale > viewport.MaxScale {
		v.Scale = 1
	}
	return v
}

// Store saves and loads board state.
type Store interface {
	Save(State) error
	// Load returns the stored state; found is false on first run.
	Load() (state State, found bool, err error)
	Close() error
}

// stateKey is the single key the board lives under.
var stateKey = []byte("board/state")

// Badger is a Store backed by an embedded BadgerDB.
type Badger struct {
	db *badger.DB
}

// Open opens (or creates) a badger-backed store at path. An empty path opens
// an in-memory store, used by tests.
func Open(path string) (*Badger, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	// Badger's own logging is too chatty for an interactive tool.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Badger{db: db}, nil
}

// Save implements Store.
func (b *Badger) Save(s State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stateKey, data)
	})
}

// Load implements Store.
func (b *Badger) Load() (State, bool, error) {
	var s State
	found := false
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stateKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &s)
		})
	})
	if err != nil {
		return State{}, false, fmt.Errorf("load state: %w", err)
	}
	return s, found, nil
}

// Close implements Store.
func (b *Badger) Close() error {
	return b.db.Close()
}
