package render

import (
	"muse/graph"
	"muse/textlayout"
	"muse/viewport"
)

// Default board palette.
var (
	ColorBackground = Color{R: 0xfa, G: 0xfa, B: 0xf8, A: 0xff}
	ColorGrid       = Color{R: 0xe4, G: 0xe4, B: 0xe0, A: 0xff}
	ColorNodeFill   = Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	ColorNodeBorder = Color{R: 0x9a, G: 0x9a, B: 0x96, A: 0xff}
	ColorSelected   = Color{R: 0x2f, G: 0x6f, B: 0xed, A: 0xff}
	ColorText       = Color{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	ColorPreview    = Color{R: 0x2f, G: 0x6f, B: 0xed, A: 0xb0}
	ColorMarquee    = Color{R: 0x2f, G: 0x6f, B: 0xed, A: 0x30}
	ColorGenerated  = Color{R: 0xf2, G: 0xe8, B: 0xff, A: 0xff}
	ColorConnection = Color{R: 0xb0, G: 0xb0, B: 0xac, A: 0xff}
)

// Layout constants in world units.
const (
	// TextPadding is the margin between a node's border and its text.
	TextPadding = 8.0
	// GridSpacing is the world-space distance between grid lines.
	GridSpacing = 40.0
	// minGridPixels hides the grid once lines get denser than this.
	minGridPixels = 8.0
)

// Overlay carries transient interaction state the renderer draws on top of
// the graph. All points are in screen space.
type Overlay struct {
	// ConnectFrom/ConnectTo describe the dashed connection preview.
	ConnectFrom, ConnectTo *graph.Point
	// Marquee is the in-progress selection rectangle.
	Marquee *graph.Rect
	// EditingID highlights the node currently in text editing, and
	// EditingText is the live buffer drawn in its place.
	EditingID   string
	EditingText string
}

// Renderer draws boards onto a Surface.
type Renderer struct {
	s      Surface
	engine *textlayout.Engine
}

// NewRenderer creates a renderer for a surface.
func NewRenderer(s Surface) *Renderer {
	return &Renderer{
		s:      s,
		engine: textlayout.NewEngine(NewMeasurer(s)),
	}
}

// Engine returns the layout engine bound to this renderer's surface. The
// editor uses it for height recomputation so measurement and drawing share
// metrics.
func (r *Renderer) Engine() *textlayout.Engine {
	return r.engine
}

// Draw paints the whole board: background grid, connections, nodes, and any
// interaction overlay.
func (r *Renderer) Draw(g *graph.Graph, v *viewport.Viewport, ov Overlay) {
	w, h := r.s.Size()
	r.s.FillRect(graph.Rect{W: w, H: h}, ColorBackground)

	r.drawGrid(v, w, h)

	for _, c := range g.Connections {
		from := g.Find(c.From)
		to := g.Find(c.To)
		if from == nil || to == nil {
			continue
		}
		r.s.StrokeLine(v.WorldToScreen(from.Center()), v.WorldToScreen(to.Center()),
			ColorConnection, 1.5, false)
	}

	if ov.ConnectFrom != nil && ov.ConnectTo != nil {
		r.s.StrokeLine(*ov.ConnectFrom, *ov.ConnectTo, ColorPreview, 1.5, true)
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		text := n.Text
		editing := ov.EditingID == n.ID
		if editing {
			text = ov.EditingText
		}
		r.drawNode(n, v, editing, text)
	}

	if ov.Marquee != nil {
		m := ov.Marquee.Normalized()
		r.s.FillRect(m, ColorMarquee)
		r.s.StrokeRect(m, ColorSelected, 1)
	}
}

func (r *Renderer) drawGrid(v *viewport.Viewport, w, h float64) {
	step := GridSpacing * v.Scale
	if step < minGridPixels {
		return
	}
	startX := mod(v.OffsetX, step)
	for x := startX; x <= w; x += step {
		r.s.StrokeLine(graph.Point{X: x}, graph.Point{X: x, Y: h}, ColorGrid, 1, false)
	}
	startY := mod(v.OffsetY, step)
	for y := startY; y <= h; y += step {
		r.s.StrokeLine(graph.Point{Y: y}, graph.Point{X: w, Y: y}, ColorGrid, 1, false)
	}
}

func (r *Renderer) drawNode(n *graph.Node, v *viewport.Viewport, editing bool, text string) {
	topLeft := v.WorldToScreen(graph.Point{X: n.X, Y: n.Y})
	box := graph.Rect{
		X: topLeft.X,
		Y: topLeft.Y,
		W: n.Width * v.Scale,
		H: n.Height * v.Scale,
	}

	fill := ColorNodeFill
	if n.Source != "" {
		fill = ColorGenerated
	}
	r.s.FillRect(box, fill)

	border := ColorNodeBorder
	width := 1.0
	if n.Selected || editing {
		border = ColorSelected
		width = 2.0
	}
	r.s.StrokeRect(box, border, width)

	r.drawNodeText(n, v, text)
}

// drawNodeText walks the same layout the measurement path produces and stops
// once the next line would cross the node's vertical budget.
func (r *Renderer) drawNodeText(n *graph.Node, v *viewport.Viewport, text string) {
	contentWidth := n.Width - 2*TextPadding
	if contentWidth <= 0 {
		return
	}
	lines := r.engine.Layout(text, contentWidth)
	lines = textlayout.Clip(lines, n.Height-2*TextPadding)

	y := n.Y + TextPadding
	for _, line := range lines {
		x := n.X + TextPadding
		// Center the glyphs inside the line box.
		baselineY := y + (line.Height-line.FontSize)/2
		for _, seg := range line.Segments {
			p := v.WorldToScreen(graph.Point{X: x, Y: baselineY})
			f := Font{Size: line.FontSize * v.Scale, Style: seg.Style}
			r.s.FillText(seg.Text, p, f, ColorText, AlignLeft, BaselineTop)
			x += r.s.TextWidth(seg.Text, Font{Size: line.FontSize, Style: seg.Style})
		}
		y += line.Height
	}
}

func mod(a, b float64) float64 {
	m := a - b*float64(int(a/b))
	if m < 0 {
		m += b
	}
	return m
}
