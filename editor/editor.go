package editor

import (
	"github.com/charmbracelet/log"

	"muse/graph"
	"muse/ideas"
	"muse/render"
	"muse/textlayout"
	"muse/viewport"
)

// CommitFunc is invoked after every committed mutation with the live state,
// typically wired to the persistent store. Hosts may debounce it but must
// always run it with the final state.
type CommitFunc func(g *graph.Graph, v *viewport.Viewport)

// Drag/duplicate constants in world units.
const (
	duplicateOffset = 24.0
	generateRadius  = 260.0
)

// Editor is the interaction controller. It owns the graph, the viewport,
// the selection set and the history, and turns pointer/keyboard events into
// graph mutations. Not safe for concurrent use; see the package comment.
type Editor struct {
	graph   *graph.Graph
	view    *viewport.Viewport
	engine  *textlayout.Engine
	history *History
	logger  *log.Logger
	commit  CommitFunc

	state     State
	selection map[string]bool

	screenW, screenH float64

	// Gesture bookkeeping. A gesture snapshots history once at press time,
	// never per move event.
	lastScreen     graph.Point
	pointer        graph.Point
	dragStartWorld graph.Point
	dragStart      map[string]graph.Point
	resizeID       string
	resizeHandle   graph.Handle
	resizeStart    graph.Rect
	connectFromID  string
	marqueeStart   graph.Point
	marqueeEnd     graph.Point
	marqueeUnion   bool

	// Text editing.
	editingID string
	buffer    []rune
	cursor    int

	// Asynchronous generation.
	generating  bool
	generateSrc string
	completions chan ideas.Completion

	status string
	dirty  bool
}

// New creates an editor over a graph and viewport. The layout engine is used
// for automatic node height; logger may be nil.
func New(g *graph.Graph, v *viewport.Viewport, engine *textlayout.Engine, logger *log.Logger, commit CommitFunc) *Editor {
	if logger == nil {
		logger = log.Default()
	}
	return &Editor{
		graph:       g,
		view:        v,
		engine:      engine,
		history:     NewHistory(DefaultHistoryDepth),
		logger:      logger,
		commit:      commit,
		selection:   make(map[string]bool),
		completions: make(chan ideas.Completion, 8),
		dirty:       true,
	}
}

// Graph returns the live graph. It is replaced wholesale on undo/redo and
// import, so hosts must re-fetch it rather than cache it.
func (e *Editor) Graph() *graph.Graph { return e.graph }

// View returns the viewport.
func (e *Editor) View() *viewport.Viewport { return e.view }

// State returns the current interaction state.
func (e *Editor) State() State { return e.state }

// History exposes the undo/redo stack.
func (e *Editor) History() *History { return e.history }

// Status returns the last user-facing status message.
func (e *Editor) Status() string { return e.status }

// SetStatus sets a user-facing status message.
func (e *Editor) SetStatus(msg string) {
	e.status = msg
	e.markDirty()
}

// Dirty reports whether a repaint is needed; ClearDirty resets it after a
// paint. Multiple mutations between paints coalesce into one repaint.
func (e *Editor) Dirty() bool { return e.dirty }

// ClearDirty resets the repaint flag after a paint.
func (e *Editor) ClearDirty() { e.dirty = false }

func (e *Editor) markDirty() { e.dirty = true }

// SetEngine binds the layout engine used for automatic node height. Hosts
// that construct their drawing surface after the editor call this once the
// surface exists, so measurement and drawing share metrics.
func (e *Editor) SetEngine(engine *textlayout.Engine) {
	e.engine = engine
}

// SelectNode makes the given node the sole selection. Used by headless
// hosts; returns false if the node does not exist.
func (e *Editor) SelectNode(id string) bool {
	n := e.graph.Find(id)
	if n == nil {
		return false
	}
	e.selectOnly(n)
	return true
}

// SetScreenSize tells the editor the host's drawable size, used by
// zoom-to-fit.
func (e *Editor) SetScreenSize(w, h float64) {
	e.screenW, e.screenH = w, h
}

// committed records that a mutation finished and the state should persist.
func (e *Editor) committed() {
	e.markDirty()
	if e.commit != nil {
		e.commit(e.graph, e.view)
	}
}

// --- Selection ------------------------------------------------------------
//
// The selection set and each node's Selected flag must never diverge, so
// every change funnels through setSelected.

func (e *Editor) setSelected(n *graph.Node, sel bool) {
	if sel {
		e.selection[n.ID] = true
	} else {
		delete(e.selection, n.ID)
	}
	n.Selected = sel
	e.markDirty()
}

// ClearSelection deselects everything.
func (e *Editor) ClearSelection() {
	for i := range e.graph.Nodes {
		e.graph.Nodes[i].Selected = false
	}
	e.selection = make(map[string]bool)
	e.markDirty()
}

// SelectAll selects every node.
func (e *Editor) SelectAll() {
	for i := range e.graph.Nodes {
		e.setSelected(&e.graph.Nodes[i], true)
	}
}

func (e *Editor) selectOnly(n *graph.Node) {
	e.ClearSelection()
	e.setSelected(n, true)
}

// SelectedIDs returns the selected node ids in creation order.
func (e *Editor) SelectedIDs() []string {
	var ids []string
	for i := range e.graph.Nodes {
		if e.selection[e.graph.Nodes[i].ID] {
			ids = append(ids, e.graph.Nodes[i].ID)
		}
	}
	return ids
}

// SelectionCount returns the number of selected nodes.
func (e *Editor) SelectionCount() int { return len(e.selection) }

// --- Pointer --------------------------------------------------------------

// PointerDown processes a pointer press in screen coordinates.
func (e *Editor) PointerDown(ev PointerEvent) {
	// A press while editing blurs the edit first, then the press proceeds.
	if e.state == StateEditing {
		e.CommitEdit()
	}
	if e.state != StateIdle {
		return
	}
	e.lastScreen = ev.Pos
	e.pointer = ev.Pos

	if ev.Button == ButtonRight || (ev.Button == ButtonLeft && ev.Mods.Space) {
		e.state = StatePanning
		return
	}
	if ev.Button != ButtonLeft {
		return
	}

	world := e.view.ScreenToWorld(ev.Pos)

	if hit := e.graph.NodeAt(world); hit != nil {
		if h := graph.HandleAt(hit, world); h != graph.HandleNone {
			e.beginResize(hit, h)
			return
		}
		e.pressNodeBody(hit, world, ev.Mods)
		return
	}

	// The press may still land in a resize band just outside a node.
	for i := len(e.graph.Nodes) - 1; i >= 0; i-- {
		n := &e.graph.Nodes[i]
		if h := graph.HandleAt(n, world); h != graph.HandleNone {
			e.beginResize(n, h)
			return
		}
	}

	// Empty space: clear selection unless the multi-select modifier is
	// held, then start a marquee.
	if !ev.Mods.Shift {
		e.ClearSelection()
	}
	e.state = StateMarquee
	e.marqueeStart = world
	e.marqueeEnd = world
	e.marqueeUnion = ev.Mods.Shift
}

func (e *Editor) beginResize(n *graph.Node, h graph.Handle) {
	if !n.Selected {
		e.selectOnly(n)
	}
	e.history.Push(e.graph)
	e.state = StateResizing
	e.resizeID = n.ID
	e.resizeHandle = h
	e.resizeStart = n.Bounds()
}

func (e *Editor) pressNodeBody(hit *graph.Node, world graph.Point, mods Modifiers) {
	switch {
	case mods.Shift:
		// Toggle membership; no drag starts.
		e.setSelected(hit, !hit.Selected)

	case mods.Alt:
		e.state = StateConnecting
		e.connectFromID = hit.ID

	default:
		var ids []string
		if hit.Selected && len(e.selection) > 1 {
			ids = e.SelectedIDs()
		} else {
			e.selectOnly(hit)
			ids = []string{hit.ID}
		}
		e.history.Push(e.graph)
		e.state = StateDragging
		e.dragStartWorld = world
		e.dragStart = make(map[string]graph.Point, len(ids))
		for _, id := range ids {
			if n := e.graph.Find(id); n != nil {
				e.dragStart[id] = graph.Point{X: n.X, Y: n.Y}
			}
		}
	}
}

// PointerMove processes pointer motion in screen coordinates.
func (e *Editor) PointerMove(ev PointerEvent) {
	e.pointer = ev.Pos

	switch e.state {
	case StatePanning:
		e.view.Pan(ev.Pos.X-e.lastScreen.X, ev.Pos.Y-e.lastScreen.Y)
		e.lastScreen = ev.Pos
		e.markDirty()

	case StateDragging:
		world := e.view.ScreenToWorld(ev.Pos)
		dx := world.X - e.dragStartWorld.X
		dy := world.Y - e.dragStartWorld.Y
		for id, start := range e.dragStart {
			if n := e.graph.Find(id); n != nil {
				n.X = start.X + dx
				n.Y = start.Y + dy
			}
		}
		e.markDirty()

	case StateResizing:
		e.applyResize(e.view.ScreenToWorld(ev.Pos))
		e.markDirty()

	case StateConnecting, StateMarquee:
		if e.state == StateMarquee {
			e.marqueeEnd = e.view.ScreenToWorld(ev.Pos)
		}
		e.markDirty()
	}
}

func (e *Editor) applyResize(world graph.Point) {
	n := e.graph.Find(e.resizeID)
	if n == nil {
		return
	}
	r := e.resizeStart
	left, top := r.X, r.Y
	right, bottom := r.X+r.W, r.Y+r.H

	switch e.resizeHandle {
	case graph.HandleW, graph.HandleNW, graph.HandleSW:
		left = min(world.X, right-graph.MinWidth)
	case graph.HandleE, graph.HandleNE, graph.HandleSE:
		right = max(world.X, left+graph.MinWidth)
	}
	switch e.resizeHandle {
	case graph.HandleN, graph.HandleNW, graph.HandleNE:
		top = min(world.Y, bottom-graph.MinHeight)
	case graph.HandleS, graph.HandleSW, graph.HandleSE:
		bottom = max(world.Y, top+graph.MinHeight)
	}
	n.X, n.Y = left, top
	n.Width, n.Height = right-left, bottom-top
	n.ManualSize = true
}

// PointerUp processes a pointer release in screen coordinates.
func (e *Editor) PointerUp(ev PointerEvent) {
	switch e.state {
	case StatePanning, StateDragging, StateResizing:
		e.state = StateIdle
		e.committed()

	case StateConnecting:
		world := e.view.ScreenToWorld(ev.Pos)
		if drop := e.graph.NodeAt(world); drop != nil && drop.ID != e.connectFromID {
			if !e.graph.Connected(e.connectFromID, drop.ID) {
				e.history.Push(e.graph)
				if _, ok := e.graph.Connect(e.connectFromID, drop.ID); ok {
					e.committed()
				}
			}
		}
		e.connectFromID = ""
		e.state = StateIdle
		e.markDirty()

	case StateMarquee:
		r := graph.Rect{
			X: e.marqueeStart.X,
			Y: e.marqueeStart.Y,
			W: e.marqueeEnd.X - e.marqueeStart.X,
			H: e.marqueeEnd.Y - e.marqueeStart.Y,
		}
		members := e.graph.NodesIn(r)
		if !e.marqueeUnion {
			e.ClearSelection()
		}
		for _, n := range members {
			e.setSelected(n, true)
		}
		e.state = StateIdle
		e.markDirty()
	}
}

// DoubleClick enters text editing on a node, or creates a node at an empty
// world point and edits it immediately.
func (e *Editor) DoubleClick(ev PointerEvent) {
	if e.state == StateEditing {
		e.CommitEdit()
	}
	if e.state != StateIdle {
		return
	}
	world := e.view.ScreenToWorld(ev.Pos)

	if hit := e.graph.NodeAt(world); hit != nil {
		e.startEditing(hit)
		return
	}

	e.history.Push(e.graph)
	n := e.graph.AddNode("", world.X-graph.DefaultWidth/2, world.Y-graph.MinHeight/2)
	n.Height = graph.MinHeight
	e.selectOnly(n)
	e.committed()
	e.startEditing(n)
}

// Wheel handles scroll input, classifying it into zoom, pan, or pinch.
func (e *Editor) Wheel(pos graph.Point, dx, dy float64, mods Modifiers) {
	switch viewport.ClassifyWheel(dx, dy, mods.primary()) {
	case viewport.WheelZoom, viewport.WheelPinch:
		e.view.Zoom(pos, viewport.WheelZoomFactor(dy))
	case viewport.WheelPan:
		e.view.Pan(-dx, -dy)
	}
	e.committed()
}

// --- Bulk operations ------------------------------------------------------

// DeleteSelection removes every selected node and its incident connections
// as one atomic mutation.
func (e *Editor) DeleteSelection() {
	ids := e.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	e.history.Push(e.graph)
	e.graph.RemoveAll(ids)
	e.selection = make(map[string]bool)
	e.committed()
}

// DuplicateSelection copies the selected nodes with a small offset and moves
// the selection to the copies.
func (e *Editor) DuplicateSelection() {
	ids := e.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	e.history.Push(e.graph)
	var copies []string
	for _, id := range ids {
		src := e.graph.Find(id)
		if src == nil {
			continue
		}
		n := e.graph.AddNode(src.Text, src.X+duplicateOffset, src.Y+duplicateOffset)
		n.Width = src.Width
		n.Height = src.Height
		n.ManualSize = src.ManualSize
		copies = append(copies, n.ID)
	}
	e.ClearSelection()
	for _, id := range copies {
		if n := e.graph.Find(id); n != nil {
			e.setSelected(n, true)
		}
	}
	e.committed()
}

// Undo restores the snapshot taken before the last mutation; a no-op at the
// boundary.
func (e *Editor) Undo() {
	if g, ok := e.history.Undo(e.graph); ok {
		e.restore(g)
	}
}

// Redo re-applies an undone mutation; a no-op at the boundary.
func (e *Editor) Redo() {
	if g, ok := e.history.Redo(); ok {
		e.restore(g)
	}
}

// restore deep-replaces the graph, clears selection and interaction state,
// and persists.
func (e *Editor) restore(g *graph.Graph) {
	g.Sanitize()
	e.graph = g
	e.selection = make(map[string]bool)
	e.state = StateIdle
	e.editingID = ""
	e.committed()
}

// Replace swaps in an externally loaded or imported graph through the same
// path as history restore.
func (e *Editor) Replace(g *graph.Graph) {
	e.history.Push(e.graph)
	e.restore(g)
}

// ZoomToFit frames all nodes in the current screen size.
func (e *Editor) ZoomToFit() {
	if len(e.graph.Nodes) == 0 || e.screenW <= 0 {
		return
	}
	b := e.graph.Nodes[0].Bounds()
	for i := 1; i < len(e.graph.Nodes); i++ {
		nb := e.graph.Nodes[i].Bounds()
		x1 := min(b.X, nb.X)
		y1 := min(b.Y, nb.Y)
		x2 := max(b.X+b.W, nb.X+nb.W)
		y2 := max(b.Y+b.H, nb.Y+nb.H)
		b = graph.Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
	}
	e.view.FitRect(b, e.screenW, e.screenH, 40)
	e.committed()
}

// Overlay builds the transient drawing state for the renderer.
func (e *Editor) Overlay() render.Overlay {
	ov := render.Overlay{EditingID: e.editingID, EditingText: string(e.buffer)}

	if e.state == StateConnecting {
		if from := e.graph.Find(e.connectFromID); from != nil {
			fp := e.view.WorldToScreen(from.Center())
			tp := e.pointer
			ov.ConnectFrom = &fp
			ov.ConnectTo = &tp
		}
	}
	if e.state == StateMarquee {
		a := e.view.WorldToScreen(e.marqueeStart)
		b := e.view.WorldToScreen(e.marqueeEnd)
		r := graph.Rect{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}
		ov.Marquee = &r
	}
	return ov
}

// autoHeight recomputes a node's height from its text unless the user has
// resized it manually.
func (e *Editor) autoHeight(n *graph.Node) {
	if n.ManualSize || e.engine == nil {
		return
	}
	n.Height = e.engine.TotalHeight(n.Text,
		n.Width-2*render.TextPadding, render.TextPadding, render.TextPadding)
}
