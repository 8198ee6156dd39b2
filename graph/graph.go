// Package graph contains the board data model: text nodes positioned in
// world space and the undirected connections between them.
package graph

import (
	"math"

	"github.com/google/uuid"
)

// Size constraints for nodes, in world units.
const (
	MinWidth      = 60.0
	MinHeight     = 40.0
	DefaultWidth  = 200.0
	DefaultHeight = 80.0
)

// Point represents a 2D coordinate (world or screen space depending on context).
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X &&
		r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Normalized returns an equivalent rectangle with non-negative width and
// height, so a drag in any direction yields a usable bounds.
func (r Rect) Normalized() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Node represents a text block on the board.
type Node struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// ManualSize suppresses automatic height recomputation once the user
	// has dragged a resize handle.
	ManualSize bool `json:"manualSize,omitempty"`

	// Source records provenance for generated nodes (model id).
	Source string `json:"source,omitempty"`

	// Selected is transient UI state, kept in sync with the editor's
	// selection set. Never persisted.
	Selected bool `json:"-"`
}

// Bounds returns the node's rectangle in world space.
func (n *Node) Bounds() Rect {
	return Rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height}
}

// Center returns the center point of the node.
func (n *Node) Center() Point {
	return Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
}

// Contains checks if a world point is inside the node.
func (n *Node) Contains(p Point) bool {
	return n.Bounds().Contains(p)
}

// Connection represents an undirected edge between two nodes, referenced by
// id. A↔B and B↔A are the same connection.
type Connection struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph holds the nodes and connections of a board. Nodes are kept in
// creation order; hit-testing relies on that ordering.
type Graph struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends a node with the given text at a world position and returns
// a pointer to it. The pointer is only valid until the next append.
func (g *Graph) AddNode(text string, x, y float64) *Node {
	g.Nodes = append(g.Nodes, Node{
		ID:     uuid.NewString(),
		Text:   text,
		X:      x,
		Y:      y,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	})
	return &g.Nodes[len(g.Nodes)-1]
}

// Find returns the node with the given id, or nil.
func (g *Graph) Find(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Remove deletes a node and every connection touching it. Returns false if
// the node does not exist.
func (g *Graph) Remove(id string) bool {
	idx := -1
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	g.Nodes = append(g.Nodes[:idx], g.Nodes[idx+1:]...)

	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if c.From != id && c.To != id {
			kept = append(kept, c)
		}
	}
	g.Connections = kept
	return true
}

// RemoveAll deletes a set of nodes and their incident connections in one
// pass, so a bulk delete is never partially applied.
func (g *Graph) RemoveAll(ids []string) {
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if !doomed[n.ID] {
			nodes = append(nodes, n)
		}
	}
	g.Nodes = nodes

	conns := g.Connections[:0]
	for _, c := range g.Connections {
		if !doomed[c.From] && !doomed[c.To] {
			conns = append(conns, c)
		}
	}
	g.Connections = conns
}

// Connect creates an undirected connection between two nodes. It refuses
// self-loops, unknown endpoints and duplicates (in either direction); ok
// reports whether a connection was created.
func (g *Graph) Connect(fromID, toID string) (conn Connection, ok bool) {
	if fromID == toID {
		return Connection{}, false
	}
	if g.Find(fromID) == nil || g.Find(toID) == nil {
		return Connection{}, false
	}
	if g.Connected(fromID, toID) {
		return Connection{}, false
	}
	conn = Connection{ID: uuid.NewString(), From: fromID, To: toID}
	g.Connections = append(g.Connections, conn)
	return conn, true
}

// Connected reports whether an edge exists between two nodes, in either
// direction.
func (g *Graph) Connected(a, b string) bool {
	for _, c := range g.Connections {
		if (c.From == a && c.To == b) || (c.From == b && c.To == a) {
			return true
		}
	}
	return false
}

// Neighbors returns every node connected to the given node. Used to build
// context for idea generation.
func (g *Graph) Neighbors(id string) []*Node {
	var out []*Node
	for _, c := range g.Connections {
		var other string
		switch id {
		case c.From:
			other = c.To
		case c.To:
			other = c.From
		default:
			continue
		}
		if n := g.Find(other); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// NodeAt returns the topmost node containing the world point. Nodes are
// scanned in reverse creation order so the most recently created node wins
// on overlap.
func (g *Graph) NodeAt(p Point) *Node {
	for i := len(g.Nodes) - 1; i >= 0; i-- {
		if g.Nodes[i].Contains(p) {
			return &g.Nodes[i]
		}
	}
	return nil
}

// NodesIn returns every node whose bounds overlap the rectangle (marquee
// selection semantics).
func (g *Graph) NodesIn(r Rect) []*Node {
	r = r.Normalized()
	var out []*Node
	for i := range g.Nodes {
		if g.Nodes[i].Bounds().Intersects(r) {
			out = append(out, &g.Nodes[i])
		}
	}
	return out
}

// Clone creates a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	clone := &Graph{
		Nodes:       make([]Node, len(g.Nodes)),
		Connections: make([]Connection, len(g.Connections)),
	}
	copy(clone.Nodes, g.Nodes)
	copy(clone.Connections, g.Connections)
	return clone
}

// Sanitize repairs inconsistencies at a trust boundary (load, import,
// history restore): dangling connections are dropped, non-finite or
// undersized node geometry is clamped. Returns the number of connections
// dropped.
func (g *Graph) Sanitize() int {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !isFinite(n.X) {
			n.X = 0
		}
		if !isFinite(n.Y) {
			n.Y = 0
		}
		if !isFinite(n.Width) {
			n.Width = DefaultWidth
		} else if n.Width < MinWidth {
			n.Width = MinWidth
		}
		if !isFinite(n.Height) || n.Height < MinHeight {
			n.Height = MinHeight
		}
		n.Selected = false
	}

	dropped := 0
	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if c.From != c.To && g.Find(c.From) != nil && g.Find(c.To) != nil {
			kept = append(kept, c)
		} else {
			dropped++
		}
	}
	g.Connections = kept
	return dropped
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
