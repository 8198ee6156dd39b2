// Package viewport maps between world coordinates and screen pixels and
// implements the zoom/pan math for the board surface.
package viewport

import "muse/graph"

// Scale bounds for the viewport.
const (
	MinScale = 0.1
	MaxScale = 3.0
)

// Viewport holds the current pan offset (in screen pixels) and zoom scale.
// world_to_screen(p) = p*scale + offset.
type Viewport struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Scale   float64 `json:"scale"`
}

// New returns a viewport at the origin with scale 1.
func New() *Viewport {
	return &Viewport{Scale: 1}
}

// WorldToScreen converts a world point to screen pixels.
func (v *Viewport) WorldToScreen(p graph.Point) graph.Point {
	return graph.Point{
		X: p.X*v.Scale + v.OffsetX,
		Y: p.Y*v.Scale + v.OffsetY,
	}
}

// ScreenToWorld converts a screen point back into world space.
func (v *Viewport) ScreenToWorld(p graph.Point) graph.Point {
	return graph.Point{
		X: (p.X - v.OffsetX) / v.Scale,
		Y: (p.Y - v.OffsetY) / v.Scale,
	}
}

// Pan shifts the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// Zoom scales the view by factor around a screen-space anchor point. The
// world point under the anchor stays under it after the zoom: the offset is
// recomputed so the anchor maps to the same world point at the new scale.
func (v *Viewport) Zoom(anchor graph.Point, factor float64) {
	newScale := clampScale(v.Scale * factor)
	if newScale == v.Scale {
		return
	}
	// World point under the anchor at the old scale.
	w := v.ScreenToWorld(anchor)
	v.Scale = newScale
	v.OffsetX = anchor.X - w.X*v.Scale
	v.OffsetY = anchor.Y - w.Y*v.Scale
}

// Reset returns the view to the origin at scale 1.
func (v *Viewport) Reset() {
	v.OffsetX = 0
	v.OffsetY = 0
	v.Scale = 1
}

// FitRect frames a world rectangle in a screen of the given size, with a
// margin, clamping the resulting scale to the viewport bounds.
func (v *Viewport) FitRect(r graph.Rect, screenW, screenH, margin float64) {
	r = r.Normalized()
	if r.W <= 0 || r.H <= 0 || screenW <= 0 || screenH <= 0 {
		return
	}
	sx := (screenW - 2*margin) / r.W
	sy := (screenH - 2*margin) / r.H
	v.Scale = clampScale(min(sx, sy))
	// Center the rect.
	v.OffsetX = screenW/2 - (r.X+r.W/2)*v.Scale
	v.OffsetY = screenH/2 - (r.Y+r.H/2)*v.Scale
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
