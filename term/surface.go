// Package term hosts the board in a terminal using tcell: a coarse
// cell-matrix Surface plus an interactive session that translates terminal
// mouse and key events into editor events.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"muse/graph"
	"muse/render"
	"muse/textlayout"
)

// A terminal cell stands in for a CellW×CellH pixel patch, so board
// geometry matches the raster backend while the terminal shows a coarse
// preview.
const (
	CellW = 8.0
	CellH = 18.0
)

// Surface implements render.Surface on a tcell screen.
type Surface struct {
	screen tcell.Screen
}

// NewSurface wraps a tcell screen.
func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{screen: screen}
}

// CellToPixel converts a terminal cell coordinate to surface pixels,
// anchored at the cell center.
func CellToPixel(x, y int) graph.Point {
	return graph.Point{X: float64(x)*CellW + CellW/2, Y: float64(y)*CellH + CellH/2}
}

func toCell(p graph.Point) (int, int) {
	return int(math.Floor(p.X / CellW)), int(math.Floor(p.Y / CellH))
}

func toColor(c render.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Size implements render.Surface. The bottom row is reserved for the status
// bar.
func (s *Surface) Size() (float64, float64) {
	w, h := s.screen.Size()
	if h > 1 {
		h--
	}
	return float64(w) * CellW, float64(h) * CellH
}

// FillRect implements render.Surface.
func (s *Surface) FillRect(r graph.Rect, c render.Color) {
	x1, y1 := toCell(graph.Point{X: r.X, Y: r.Y})
	x2, y2 := toCell(graph.Point{X: r.X + r.W, Y: r.Y + r.H})
	style := tcell.StyleDefault.Background(toColor(c))
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			s.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// StrokeRect implements render.Surface, using box-drawing characters.
func (s *Surface) StrokeRect(r graph.Rect, c render.Color, width float64) {
	x1, y1 := toCell(graph.Point{X: r.X, Y: r.Y})
	x2, y2 := toCell(graph.Point{X: r.X + r.W, Y: r.Y + r.H})
	if x2 <= x1 || y2 <= y1 {
		return
	}
	style := tcell.StyleDefault.Foreground(toColor(c))
	if width >= 2 {
		style = style.Bold(true)
	}
	for x := x1 + 1; x < x2; x++ {
		s.screen.SetContent(x, y1, '─', nil, style)
		s.screen.SetContent(x, y2, '─', nil, style)
	}
	for y := y1 + 1; y < y2; y++ {
		s.screen.SetContent(x1, y, '│', nil, style)
		s.screen.SetContent(x2, y, '│', nil, style)
	}
	s.screen.SetContent(x1, y1, '┌', nil, style)
	s.screen.SetContent(x2, y1, '┐', nil, style)
	s.screen.SetContent(x1, y2, '└', nil, style)
	s.screen.SetContent(x2, y2, '┘', nil, style)
}

// StrokeLine implements render.Surface with a cell-stepped line.
func (s *Surface) StrokeLine(a, b graph.Point, c render.Color, width float64, dashed bool) {
	x1, y1 := toCell(a)
	x2, y2 := toCell(b)
	style := tcell.StyleDefault.Foreground(toColor(c))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	steps := max(dx, dy)
	if steps == 0 {
		s.screen.SetContent(x1, y1, '·', nil, style)
		return
	}
	for i := 0; i <= steps; i++ {
		if dashed && i%2 == 1 {
			continue
		}
		x := x1 + (x2-x1)*i/steps
		y := y1 + (y2-y1)*i/steps
		ch := '·'
		switch {
		case dy == 0:
			ch = '─'
		case dx == 0:
			ch = '│'
		}
		s.screen.SetContent(x, y, ch, nil, style)
	}
}

// FillText implements render.Surface. Font size only affects measurement;
// glyphs always occupy whole cells.
func (s *Surface) FillText(text string, p graph.Point, f render.Font, c render.Color, align render.Align, baseline render.Baseline) {
	w := s.TextWidth(text, f)
	switch align {
	case render.AlignCenter:
		p.X -= w / 2
	case render.AlignRight:
		p.X -= w
	}
	x, y := toCell(p)
	style := tcell.StyleDefault.Foreground(toColor(c))
	switch f.Style {
	case textlayout.StyleBold:
		style = style.Bold(true)
	case textlayout.StyleItalic:
		style = style.Italic(true)
	case textlayout.StyleCode:
		style = style.Underline(true)
	}
	for _, r := range text {
		s.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// TextWidth implements render.Surface, scaling cell widths by the requested
// font size relative to the base size.
func (s *Surface) TextWidth(text string, f render.Font) float64 {
	scale := f.Size / textlayout.BaseFontSize
	if f.Size == 0 {
		scale = 1
	}
	return float64(runewidth.StringWidth(text)) * CellW * scale
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
