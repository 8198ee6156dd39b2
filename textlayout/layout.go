package textlayout

import "strings"

// Font sizing, in the same units the Measurer reports widths for. Line
// height is the font size plus a per-kind bonus.
const (
	BaseFontSize = 14.0

	heading1Size = 24.0
	heading2Size = 19.0
	heading3Size = 16.0

	headingBonus = 8.0
	listBonus    = 6.0
	defaultBonus = 4.0

	// MinBlockHeight is the floor for a measured block, margins included.
	MinBlockHeight = 40.0

	listBullet = "• "
)

// Measurer reports the rendered width of text at a font size and style.
// Implementations must match whatever surface ultimately draws the text.
type Measurer interface {
	TextWidth(text string, size float64, style Style) float64
}

// Line is one laid-out line: styled segments, the block kind it came from,
// and its computed metrics.
type Line struct {
	Segments []Segment
	Kind     BlockKind
	FontSize float64
	Height   float64
	Width    float64
}

// Text returns the line's plain text.
func (l Line) Text() string {
	return Flatten(l.Segments)
}

// Engine lays out markup within a given content width using a Measurer.
type Engine struct {
	m Measurer
}

// NewEngine creates a layout engine over a measurer.
func NewEngine(m Measurer) *Engine {
	return &Engine{m: m}
}

// FontSize returns the font size used for a block kind.
func FontSize(kind BlockKind) float64 {
	switch kind {
	case BlockHeading1:
		return heading1Size
	case BlockHeading2:
		return heading2Size
	case BlockHeading3:
		return heading3Size
	default:
		return BaseFontSize
	}
}

// LineHeight returns the line height for a block kind.
func LineHeight(kind BlockKind) float64 {
	switch kind {
	case BlockHeading1, BlockHeading2, BlockHeading3:
		return FontSize(kind) + headingBonus
	case BlockList:
		return FontSize(kind) + listBonus
	default:
		return FontSize(kind) + defaultBonus
	}
}

// Layout computes the wrapped, styled lines for markup constrained to
// maxWidth. A block with mixed inline styling keeps its styling only when it
// fits on one line; a block that has to wrap falls back to flattened
// plain-text wrapping. A single word wider than maxWidth stands alone on an
// overflowing line; it is never split or dropped.
func (e *Engine) Layout(markup string, maxWidth float64) []Line {
	var lines []Line
	for _, block := range ParseBlocks(markup) {
		lines = append(lines, e.layoutBlock(block, maxWidth)...)
	}
	return lines
}

func (e *Engine) layoutBlock(block Block, maxWidth float64) []Line {
	size := FontSize(block.Kind)
	height := LineHeight(block.Kind)

	if block.Kind == BlockSpacing {
		return []Line{{Kind: BlockSpacing, FontSize: size, Height: height}}
	}

	segs := ParseInline(block.Content)
	if block.Kind == BlockList {
		segs = append([]Segment{{Text: listBullet, Style: StyleNormal}}, segs...)
	}

	styledWidth := 0.0
	for _, s := range segs {
		styledWidth += e.m.TextWidth(s.Text, size, s.Style)
	}
	if styledWidth <= maxWidth {
		return []Line{{
			Segments: segs,
			Kind:     block.Kind,
			FontSize: size,
			Height:   height,
			Width:    styledWidth,
		}}
	}

	// Too wide for one line: flatten to plain text and word-wrap.
	return e.wrapPlain(Flatten(segs), block.Kind, size, height, maxWidth)
}

// wrapPlain is a greedy word wrap: accumulate space-separated words while
// the running width stays within maxWidth, flush on overflow, and let an
// unsplittable oversized word overflow alone.
func (e *Engine) wrapPlain(text string, kind BlockKind, size, height, maxWidth float64) []Line {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []Line{{Kind: kind, FontSize: size, Height: height}}
	}

	spaceWidth := e.m.TextWidth(" ", size, StyleNormal)
	var lines []Line
	var current strings.Builder
	currentWidth := 0.0

	flush := func() {
		if current.Len() == 0 {
			return
		}
		lines = append(lines, Line{
			Segments: []Segment{{Text: current.String(), Style: StyleNormal}},
			Kind:     kind,
			FontSize: size,
			Height:   height,
			Width:    currentWidth,
		})
		current.Reset()
		currentWidth = 0
	}

	for _, word := range words {
		wordWidth := e.m.TextWidth(word, size, StyleNormal)
		if current.Len() == 0 {
			current.WriteString(word)
			currentWidth = wordWidth
			continue
		}
		if currentWidth+spaceWidth+wordWidth <= maxWidth {
			current.WriteString(" ")
			current.WriteString(word)
			currentWidth += spaceWidth + wordWidth
			continue
		}
		flush()
		// The word starts the next line even if it alone exceeds maxWidth.
		current.WriteString(word)
		currentWidth = wordWidth
	}
	flush()
	return lines
}

// TotalHeight measures the full rendered height of markup at the given
// content width: the sum of every laid-out line height plus the vertical
// margins, floored at MinBlockHeight. It walks the identical layout used for
// drawing, so measured and drawn heights cannot drift.
func (e *Engine) TotalHeight(markup string, width, marginTop, marginBottom float64) float64 {
	total := marginTop + marginBottom
	for _, line := range e.Layout(markup, width) {
		total += line.Height
	}
	if total < MinBlockHeight {
		return MinBlockHeight
	}
	return total
}

// Clip returns the prefix of lines that fits within a vertical budget. The
// first line that would cross the budget, and everything after it, is
// silently dropped.
func Clip(lines []Line, budget float64) []Line {
	used := 0.0
	for i, line := range lines {
		if used+line.Height > budget {
			return lines[:i]
		}
		used += line.Height
	}
	return lines
}
