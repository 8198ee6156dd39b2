// Package textlayout parses the lightweight markup used in node text and
// computes wrapped, styled lines and block heights. Measurement and drawing
// share the same layout pass so a node's measured height never drifts from
// what gets painted.
package textlayout

import "strings"

// Style is an inline text style.
type Style int

const (
	StyleNormal Style = iota
	StyleBold
	StyleItalic
	StyleCode
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleCode:
		return "code"
	default:
		return "normal"
	}
}

// Segment is a run of text with a single style.
type Segment struct {
	Text  string
	Style Style
}

// BlockKind classifies a markup block (one source line).
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockHeading1
	BlockHeading2
	BlockHeading3
	BlockList
	BlockSpacing
)

// Block is one parsed markup block with its prefix stripped.
type Block struct {
	Kind    BlockKind
	Content string
}

// ParseBlocks splits markup into blocks, one per source line. Header and
// list prefixes are recognized at the start of the line; blank lines become
// spacing blocks, except trailing ones which are suppressed.
func ParseBlocks(markup string) []Block {
	lines := strings.Split(markup, "\n")
	var blocks []Block
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, Block{BlockHeading3, strings.TrimPrefix(line, "### ")})
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{BlockHeading2, strings.TrimPrefix(line, "## ")})
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, Block{BlockHeading1, strings.TrimPrefix(line, "# ")})
		case strings.HasPrefix(line, "- "):
			blocks = append(blocks, Block{BlockList, strings.TrimPrefix(line, "- ")})
		case strings.HasPrefix(line, "* "):
			blocks = append(blocks, Block{BlockList, strings.TrimPrefix(line, "* ")})
		case strings.TrimSpace(line) == "":
			blocks = append(blocks, Block{BlockSpacing, ""})
		default:
			blocks = append(blocks, Block{BlockText, line})
		}
	}
	// Trailing spacing blocks are suppressed.
	for len(blocks) > 0 && blocks[len(blocks)-1].Kind == BlockSpacing {
		blocks = blocks[:len(blocks)-1]
	}
	return blocks
}

// span marks a styled range [start,end) in the source, delimiters included.
type span struct {
	start, end int
	inner      string
	style      Style
}

// ParseInline resolves inline styling over a block's content, left to right:
// backtick code spans first (exempt from further styling), then **bold**,
// then *italic* with a guard against characters already consumed by bold.
// Overlapping candidates lose to the earlier, higher-precedence match.
// Unmatched delimiters stay literal.
func ParseInline(content string) []Segment {
	consumed := make([]bool, len(content))
	var spans []span

	claim := func(sp span) {
		spans = append(spans, sp)
		for i := sp.start; i < sp.end; i++ {
			consumed[i] = true
		}
	}
	free := func(start, end int) bool {
		for i := start; i < end; i++ {
			if consumed[i] {
				return false
			}
		}
		return true
	}

	// Pass 1: code spans.
	for i := 0; i < len(content); i++ {
		if content[i] != '`' {
			continue
		}
		j := strings.IndexByte(content[i+1:], '`')
		if j < 0 {
			break
		}
		end := i + 1 + j + 1
		claim(span{start: i, end: end, inner: content[i+1 : end-1], style: StyleCode})
		i = end - 1
	}

	// Pass 2: bold.
	for i := 0; i+1 < len(content); i++ {
		if content[i] != '*' || content[i+1] != '*' || !free(i, i+2) {
			continue
		}
		j := indexFrom(content, "**", i+2, consumed)
		if j < 0 {
			break
		}
		if j == i+2 {
			// "****" has no content; leave the delimiters literal.
			i = j + 1
			continue
		}
		if !free(i, j+2) {
			continue
		}
		claim(span{start: i, end: j + 2, inner: content[i+2 : j], style: StyleBold})
		i = j + 1
	}

	// Pass 3: italic, skipping anything bold or code already owns.
	for i := 0; i < len(content); i++ {
		if content[i] != '*' || consumed[i] {
			continue
		}
		j := indexByteFrom(content, '*', i+1, consumed)
		if j < 0 {
			break
		}
		if j == i+1 || !free(i, j+1) {
			continue
		}
		claim(span{start: i, end: j + 1, inner: content[i+1 : j], style: StyleItalic})
		i = j
	}

	// Stitch segments back together in source order.
	var segs []Segment
	pos := 0
	for pos < len(content) {
		if sp := spanAt(spans, pos); sp != nil {
			if sp.inner != "" {
				segs = append(segs, Segment{Text: sp.inner, Style: sp.style})
			}
			pos = sp.end
			continue
		}
		next := len(content)
		for _, sp := range spans {
			if sp.start > pos && sp.start < next {
				next = sp.start
			}
		}
		segs = append(segs, Segment{Text: content[pos:next], Style: StyleNormal})
		pos = next
	}
	if segs == nil && content == "" {
		return nil
	}
	return segs
}

// indexFrom finds the next occurrence of sep at or after start whose bytes
// are all unconsumed.
func indexFrom(s, sep string, start int, consumed []bool) int {
	for i := start; i+len(sep) <= len(s); i++ {
		if s[i:i+len(sep)] == sep {
			ok := true
			for j := i; j < i+len(sep); j++ {
				if consumed[j] {
					ok = false
					break
				}
			}
			if ok {
				return i
			}
		}
	}
	return -1
}

func indexByteFrom(s string, b byte, start int, consumed []bool) int {
	for i := start; i < len(s); i++ {
		if s[i] == b && !consumed[i] {
			return i
		}
	}
	return -1
}

func spanAt(spans []span, pos int) *span {
	for i := range spans {
		if spans[i].start == pos {
			return &spans[i]
		}
	}
	return nil
}

// Flatten returns the plain text of a segment list, markup delimiters
// removed.
func Flatten(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}
