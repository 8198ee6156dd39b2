// Package img provides a raster Surface over fogleman/gg, used for PNG
// rendering of boards and as the reference text measurer.
package img

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"muse/graph"
	"muse/render"
	"muse/textlayout"
)

// Surface renders onto an in-memory RGBA image via gg.
type Surface struct {
	dc    *gg.Context
	fonts map[textlayout.Style]*truetype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	style textlayout.Style
	// size quantized to quarter points to bound the face cache
	size int
}

// New creates a surface of the given pixel size.
func New(w, h int) (*Surface, error) {
	fonts := make(map[textlayout.Style]*truetype.Font, 4)
	for style, ttf := range map[textlayout.Style][]byte{
		textlayout.StyleNormal: goregular.TTF,
		textlayout.StyleBold:   gobold.TTF,
		textlayout.StyleItalic: goitalic.TTF,
		textlayout.StyleCode:   gomono.TTF,
	} {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse %s font: %w", style, err)
		}
		fonts[style] = f
	}
	return &Surface{
		dc:    gg.NewContext(w, h),
		fonts: fonts,
		faces: make(map[faceKey]font.Face),
	}, nil
}

func (s *Surface) face(f render.Font) font.Face {
	key := faceKey{style: f.Style, size: int(f.Size * 4)}
	if face, ok := s.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(s.fonts[f.Style], &truetype.Options{Size: f.Size})
	s.faces[key] = face
	return face
}

func (s *Surface) setColor(c render.Color) {
	s.dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}

// Size implements render.Surface.
func (s *Surface) Size() (float64, float64) {
	return float64(s.dc.Width()), float64(s.dc.Height())
}

// FillRect implements render.Surface.
func (s *Surface) FillRect(r graph.Rect, c render.Color) {
	s.setColor(c)
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.dc.Fill()
}

// StrokeRect implements render.Surface.
func (s *Surface) StrokeRect(r graph.Rect, c render.Color, width float64) {
	s.setColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.dc.Stroke()
}

// StrokeLine implements render.Surface.
func (s *Surface) StrokeLine(a, b graph.Point, c render.Color, width float64, dashed bool) {
	s.setColor(c)
	s.dc.SetLineWidth(width)
	if dashed {
		s.dc.SetDash(6, 4)
	}
	s.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	s.dc.Stroke()
	if dashed {
		s.dc.SetDash()
	}
}

// FillText implements render.Surface.
func (s *Surface) FillText(text string, p graph.Point, f render.Font, c render.Color, align render.Align, baseline render.Baseline) {
	s.setColor(c)
	s.dc.SetFontFace(s.face(f))

	ax := 0.0
	switch align {
	case render.AlignCenter:
		ax = 0.5
	case render.AlignRight:
		ax = 1.0
	}
	ay := 0.0 // alphabetic: p.Y is the baseline
	switch baseline {
	case render.BaselineTop:
		ay = 1.0
	case render.BaselineMiddle:
		ay = 0.5
	}
	s.dc.DrawStringAnchored(text, p.X, p.Y, ax, ay)
}

// TextWidth implements render.Surface.
func (s *Surface) TextWidth(text string, f render.Font) float64 {
	s.dc.SetFontFace(s.face(f))
	w, _ := s.dc.MeasureString(text)
	return w
}

// Image returns the rendered image.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// SavePNG writes the rendered image to a file.
func (s *Surface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}
