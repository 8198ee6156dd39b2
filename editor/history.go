package editor

import (
	"encoding/json"

	"muse/graph"
)

// DefaultHistoryDepth bounds how many snapshots are retained.
const DefaultHistoryDepth = 50

// History is a bounded undo/redo stack of graph snapshots. Snapshots are
// stored as JSON so they are deep copies by construction and depend only on
// the graph's serialized shape. Pushing while undone discards the redo
// branch; exceeding capacity evicts the oldest entry.
type History struct {
	states   []string
	current  int // index of the last pushed pre-mutation snapshot; -1 when empty
	capacity int
}

// NewHistory creates a history with the given capacity (DefaultHistoryDepth
// if non-positive).
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryDepth
	}
	return &History{current: -1, capacity: capacity}
}

// Push records a snapshot of the graph. Call it before applying a mutation,
// once per gesture.
func (h *History) Push(g *graph.Graph) {
	data, err := json.Marshal(g)
	if err != nil {
		// A graph of plain structs cannot fail to marshal; skip if it does.
		return
	}

	// Discard any redo branch.
	h.states = h.states[:h.current+1]
	h.states = append(h.states, string(data))

	// Evict the oldest entry beyond capacity.
	if len(h.states) > h.capacity {
		h.states = h.states[1:]
	}
	h.current = len(h.states) - 1
}

// Undo steps back and returns the snapshot taken before the last mutation,
// or (nil, false) at the boundary. The live graph is stashed on the first
// undo so redo can return to it.
func (h *History) Undo(live *graph.Graph) (*graph.Graph, bool) {
	if h.current < 0 {
		return nil, false
	}
	if h.current == len(h.states)-1 {
		data, err := json.Marshal(live)
		if err != nil {
			return nil, false
		}
		h.states = append(h.states, string(data))
		if len(h.states) > h.capacity {
			h.states = h.states[1:]
			h.current--
		}
	}
	if h.current < 0 {
		return nil, false
	}
	g, err := h.decode(h.current)
	if err != nil {
		return nil, false
	}
	h.current--
	return g, true
}

// Redo steps forward and returns the next snapshot, or (nil, false) at the
// boundary.
func (h *History) Redo() (*graph.Graph, bool) {
	if h.current+2 >= len(h.states) {
		return nil, false
	}
	g, err := h.decode(h.current + 2)
	if err != nil {
		return nil, false
	}
	h.current++
	return g, true
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool {
	return h.current >= 0
}

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool {
	return h.current+2 < len(h.states)
}

// Len returns the number of retained snapshots.
func (h *History) Len() int {
	return len(h.states)
}

func (h *History) decode(i int) (*graph.Graph, error) {
	var g graph.Graph
	if err := json.Unmarshal([]byte(h.states[i]), &g); err != nil {
		return nil, err
	}
	return &g, nil
}
