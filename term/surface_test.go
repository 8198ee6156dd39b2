package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muse/graph"
	"muse/render"
	"muse/textlayout"
)

func newSimSurface(t *testing.T, w, h int) (*Surface, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return NewSurface(screen), screen
}

func cellRune(t *testing.T, screen tcell.SimulationScreen, x, y int) rune {
	t.Helper()
	ch, _, _, _ := screen.GetContent(x, y)
	return ch
}

func TestSurfaceSizeReservesStatusRow(t *testing.T) {
	s, _ := newSimSurface(t, 80, 24)
	w, h := s.Size()
	assert.Equal(t, 80*CellW, w)
	assert.Equal(t, 23*CellH, h)
}

func TestCellToPixelRoundTrip(t *testing.T) {
	p := CellToPixel(10, 5)
	x, y := toCell(p)
	assert.Equal(t, 10, x)
	assert.Equal(t, 5, y)
}

func TestStrokeRectDrawsBox(t *testing.T) {
	s, screen := newSimSurface(t, 40, 20)

	// A rect spanning cells (2,2)..(10,6).
	s.StrokeRect(graph.Rect{X: 2 * CellW, Y: 2 * CellH, W: 8 * CellW, H: 4 * CellH}, render.Color{}, 1)

	assert.Equal(t, '┌', cellRune(t, screen, 2, 2))
	assert.Equal(t, '┐', cellRune(t, screen, 10, 2))
	assert.Equal(t, '└', cellRune(t, screen, 2, 6))
	assert.Equal(t, '┘', cellRune(t, screen, 10, 6))
	assert.Equal(t, '─', cellRune(t, screen, 5, 2))
	assert.Equal(t, '│', cellRune(t, screen, 2, 4))
}

func TestFillTextWritesRunes(t *testing.T) {
	s, screen := newSimSurface(t, 40, 20)

	s.FillText("hi", CellToPixel(3, 3), render.Font{Size: textlayout.BaseFontSize},
		render.Color{R: 255}, render.AlignLeft, render.BaselineTop)

	assert.Equal(t, 'h', cellRune(t, screen, 3, 3))
	assert.Equal(t, 'i', cellRune(t, screen, 4, 3))
}

func TestTextWidthScalesWithFontSize(t *testing.T) {
	s, _ := newSimSurface(t, 40, 20)

	base := s.TextWidth("abcd", render.Font{Size: textlayout.BaseFontSize})
	assert.Equal(t, 4*CellW, base)

	double := s.TextWidth("abcd", render.Font{Size: 2 * textlayout.BaseFontSize})
	assert.Equal(t, 2*base, double)
}

func TestStrokeLineHorizontal(t *testing.T) {
	s, screen := newSimSurface(t, 40, 20)

	s.StrokeLine(CellToPixel(1, 5), CellToPixel(6, 5), render.Color{}, 1, false)

	for x := 1; x <= 6; x++ {
		assert.Equal(t, '─', cellRune(t, screen, x, 5))
	}
}
