package img

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muse/graph"
	"muse/render"
	"muse/textlayout"
	"muse/viewport"
)

func TestSurfaceSize(t *testing.T) {
	s, err := New(320, 200)
	require.NoError(t, err)
	w, h := s.Size()
	assert.Equal(t, 320.0, w)
	assert.Equal(t, 200.0, h)
}

func TestFillRectPaintsPixels(t *testing.T) {
	s, err := New(100, 100)
	require.NoError(t, err)

	s.FillRect(graph.Rect{X: 10, Y: 10, W: 30, H: 30}, render.Color{R: 255, A: 255})

	r, _, _, a := s.Image().At(20, 20).RGBA()
	assert.NotZero(t, r)
	assert.NotZero(t, a)

	_, _, _, a = s.Image().At(90, 90).RGBA()
	assert.Zero(t, a, "pixels outside the rect stay untouched")
}

func TestTextWidthMonotonic(t *testing.T) {
	s, err := New(10, 10)
	require.NoError(t, err)

	f := render.Font{Size: textlayout.BaseFontSize}
	short := s.TextWidth("ab", f)
	long := s.TextWidth("abcdef", f)
	assert.Greater(t, long, short)

	bigger := s.TextWidth("ab", render.Font{Size: 2 * textlayout.BaseFontSize})
	assert.Greater(t, bigger, short)
}

func TestRenderBoardToPNG(t *testing.T) {
	s, err := New(640, 480)
	require.NoError(t, err)

	g := graph.New()
	a := g.AddNode("# Idea\nwith **bold** text", 40, 40)
	b := g.AddNode("follow-up", 360, 200)
	b.Source = "gpt-4o-mini"
	g.Connect(a.ID, b.ID)

	render.NewRenderer(s).Draw(g, viewport.New(), render.Overlay{})

	// The background fill means no pixel is left transparent.
	_, _, _, alpha := s.Image().At(0, 0).RGBA()
	assert.NotZero(t, alpha)

	// A pixel inside the generated node carries its tint, not plain white.
	c := color.NRGBAModel.Convert(s.Image().At(400, 220)).(color.NRGBA)
	assert.NotEqual(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c)

	path := filepath.Join(t.TempDir(), "board.png")
	require.NoError(t, s.SavePNG(path))
}
