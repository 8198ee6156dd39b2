package textlayout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// charMeasurer is a deterministic Measurer: every rune is size/2 wide
// regardless of style.
type charMeasurer struct{}

func (charMeasurer) TextWidth(text string, size float64, _ Style) float64 {
	return float64(len([]rune(text))) * size / 2
}

func newTestEngine() *Engine {
	return NewEngine(charMeasurer{})
}

func TestLineHeightBonuses(t *testing.T) {
	assert.Equal(t, 32.0, LineHeight(BlockHeading1))
	assert.Equal(t, 27.0, LineHeight(BlockHeading2))
	assert.Equal(t, 24.0, LineHeight(BlockHeading3))
	assert.Equal(t, 20.0, LineHeight(BlockList))
	assert.Equal(t, 18.0, LineHeight(BlockText))
	assert.Equal(t, 18.0, LineHeight(BlockSpacing))
}

func TestLayoutStyledFitsOneLine(t *testing.T) {
	e := newTestEngine()
	lines := e.Layout("a **b** c", 1000)

	require.Len(t, lines, 1)
	require.Equal(t, []Segment{
		{"a ", StyleNormal},
		{"b", StyleBold},
		{" c", StyleNormal},
	}, lines[0].Segments)
	// 5 runes at 7 units each.
	assert.InDelta(t, 35, lines[0].Width, 1e-9)
}

func TestLayoutWrapFlattensStyling(t *testing.T) {
	e := newTestEngine()
	// 7 units per rune at base size: "alpha **beta** gamma" flattens to
	// "alpha beta gamma" (16 runes, 112 wide) and must wrap at 80.
	lines := e.Layout("alpha **beta** gamma", 80)

	require.Len(t, lines, 2)
	assert.Equal(t, "alpha beta", lines[0].Text())
	assert.Equal(t, "gamma", lines[1].Text())
	for _, l := range lines {
		for _, s := range l.Segments {
			assert.Equal(t, StyleNormal, s.Style, "wrapped lines lose inline styling")
		}
	}
}

func TestLayoutGreedyWrap(t *testing.T) {
	e := newTestEngine()
	// Words of 2 runes are 14 wide, separator 7: "ab cd ef" = 56.
	lines := e.Layout("ab cd ef gh", 56)

	require.Len(t, lines, 2)
	assert.Equal(t, "ab cd ef", lines[0].Text())
	assert.Equal(t, "gh", lines[1].Text())
}

func TestLayoutOversizedWordOverflowsAlone(t *testing.T) {
	e := newTestEngine()
	lines := e.Layout("a incomprehensibilities z", 70)

	require.Len(t, lines, 3)
	assert.Equal(t, "a", lines[0].Text())
	assert.Equal(t, "incomprehensibilities", lines[1].Text())
	assert.Equal(t, "z", lines[2].Text())
	assert.Greater(t, lines[1].Width, 70.0)
}

func TestLayoutListGetsBullet(t *testing.T) {
	e := newTestEngine()
	lines := e.Layout("- item", 1000)

	require.Len(t, lines, 1)
	assert.Equal(t, "• item", lines[0].Text())
	assert.Equal(t, BlockList, lines[0].Kind)
}

func TestLayoutHeadingUsesLargerFont(t *testing.T) {
	e := newTestEngine()
	lines := e.Layout("# Big", 1000)

	require.Len(t, lines, 1)
	assert.Equal(t, 24.0, lines[0].FontSize)
	assert.Equal(t, 32.0, lines[0].Height)
	// 3 runes at 12 units each.
	assert.InDelta(t, 36, lines[0].Width, 1e-9)
}

func TestLayoutSpacingLine(t *testing.T) {
	e := newTestEngine()
	lines := e.Layout("a\n\nb", 1000)

	require.Len(t, lines, 3)
	assert.Equal(t, BlockSpacing, lines[1].Kind)
	assert.Empty(t, lines[1].Segments)
	assert.Equal(t, 18.0, lines[1].Height)
}

func TestTotalHeightMatchesLayout(t *testing.T) {
	e := newTestEngine()
	markup := "# Title\nbody text that wraps a few times over"

	sum := 16.0 // margins
	for _, l := range e.Layout(markup, 120) {
		sum += l.Height
	}
	assert.Equal(t, sum, e.TotalHeight(markup, 120, 8, 8))
}

func TestTotalHeightFloor(t *testing.T) {
	e := newTestEngine()
	assert.Equal(t, MinBlockHeight, e.TotalHeight("", 200, 8, 8))
	assert.Equal(t, MinBlockHeight, e.TotalHeight("hi", 200, 8, 8))
}

func TestClip(t *testing.T) {
	e := newTestEngine()
	lines := e.Layout("a\nb\nc", 1000) // three 18-unit lines

	assert.Len(t, Clip(lines, 1000), 3)
	assert.Len(t, Clip(lines, 36), 2)
	assert.Len(t, Clip(lines, 35), 1)
	assert.Empty(t, Clip(lines, 10))
}
