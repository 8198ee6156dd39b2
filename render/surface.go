// Package render draws a board (grid, nodes, connections, interaction
// previews) onto a Surface, the minimal drawing capability required from a
// host: rectangles, lines, text, and text measurement.
package render

import (
	"muse/graph"
	"muse/textlayout"
)

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Font selects a size and inline style for text drawing and measurement.
type Font struct {
	Size  float64
	Style textlayout.Style
}

// Align is horizontal text alignment relative to the anchor point.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Baseline is vertical text anchoring.
type Baseline int

const (
	BaselineTop Baseline = iota
	BaselineMiddle
	BaselineAlphabetic
)

// Surface is the drawing contract a host must provide.
type Surface interface {
	// Size returns the drawable area in pixels.
	Size() (w, h float64)
	// FillRect fills a rectangle.
	FillRect(r graph.Rect, c Color)
	// StrokeRect outlines a rectangle.
	StrokeRect(r graph.Rect, c Color, width float64)
	// StrokeLine draws a line, optionally dashed.
	StrokeLine(a, b graph.Point, c Color, width float64, dashed bool)
	// FillText draws a single line of text anchored at p.
	FillText(text string, p graph.Point, f Font, c Color, align Align, baseline Baseline)
	// TextWidth measures a single line of text.
	TextWidth(text string, f Font) float64
}

// surfaceMeasurer adapts a Surface to the layout engine's Measurer. Widths
// are measured at the world-space font size, so layout is independent of the
// current zoom.
type surfaceMeasurer struct {
	s Surface
}

func (m surfaceMeasurer) TextWidth(text string, size float64, style textlayout.Style) float64 {
	return m.s.TextWidth(text, Font{Size: size, Style: style})
}

// NewMeasurer exposes a Surface as a textlayout.Measurer.
func NewMeasurer(s Surface) textlayout.Measurer {
	return surfaceMeasurer{s: s}
}
