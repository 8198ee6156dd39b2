package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muse/graph"
)

func TestWorldScreenRoundTrip(t *testing.T) {
	v := &Viewport{OffsetX: 120, OffsetY: -45, Scale: 1.7}
	w := graph.Point{X: 33.5, Y: -12.25}

	got := v.ScreenToWorld(v.WorldToScreen(w))
	assert.InDelta(t, w.X, got.X, 1e-9)
	assert.InDelta(t, w.Y, got.Y, 1e-9)
}

func TestZoomKeepsAnchorFixed(t *testing.T) {
	v := New()
	v.Pan(50, 80)
	anchor := graph.Point{X: 400, Y: 300}
	before := v.ScreenToWorld(anchor)

	v.Zoom(anchor, 1.25)

	after := v.ScreenToWorld(anchor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.InDelta(t, 1.25, v.Scale, 1e-9)
}

func TestZoomClampsScale(t *testing.T) {
	v := New()
	for i := 0; i < 100; i++ {
		v.Zoom(graph.Point{}, 2)
	}
	assert.Equal(t, MaxScale, v.Scale)

	for i := 0; i < 100; i++ {
		v.Zoom(graph.Point{}, 0.5)
	}
	assert.Equal(t, MinScale, v.Scale)
}

func TestZoomAtClampIsStable(t *testing.T) {
	v := New()
	v.Scale = MaxScale
	v.OffsetX, v.OffsetY = 10, 20

	v.Zoom(graph.Point{X: 100, Y: 100}, 2)

	// Already at the bound: the offset must not drift.
	assert.Equal(t, 10.0, v.OffsetX)
	assert.Equal(t, 20.0, v.OffsetY)
}

func TestPan(t *testing.T) {
	v := New()
	v.Pan(15, -7)
	v.Pan(5, 7)
	assert.Equal(t, 20.0, v.OffsetX)
	assert.Equal(t, 0.0, v.OffsetY)
	assert.Equal(t, 1.0, v.Scale)
}

func TestReset(t *testing.T) {
	v := &Viewport{OffsetX: 99, OffsetY: -4, Scale: 2.5}
	v.Reset()
	assert.Equal(t, Viewport{Scale: 1}, *v)
}

func TestFitRectCentersContent(t *testing.T) {
	v := New()
	r := graph.Rect{X: 100, Y: 100, W: 400, H: 200}

	v.FitRect(r, 800, 600, 40)

	center := v.WorldToScreen(graph.Point{X: 300, Y: 200})
	assert.InDelta(t, 400, center.X, 1e-9)
	assert.InDelta(t, 300, center.Y, 1e-9)

	// Constrained by width: (800-80)/400 = 1.8.
	assert.InDelta(t, 1.8, v.Scale, 1e-9)
}

func TestFitRectClampsToMinScale(t *testing.T) {
	v := New()
	v.FitRect(graph.Rect{W: 1e6, H: 1e6}, 800, 600, 40)
	assert.Equal(t, MinScale, v.Scale)
}

func TestFitRectIgnoresDegenerateInput(t *testing.T) {
	v := &Viewport{OffsetX: 1, OffsetY: 2, Scale: 1.5}
	before := *v
	v.FitRect(graph.Rect{W: 0, H: 100}, 800, 600, 40)
	require.Equal(t, before, *v)
}
