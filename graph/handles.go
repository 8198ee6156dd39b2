package graph

// Handle identifies one of the eight resize zones around a node's border.
type Handle int

const (
	HandleNone Handle = iota
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleNW
)

// String returns the handle name for display and debugging.
func (h Handle) String() string {
	switch h {
	case HandleN:
		return "n"
	case HandleNE:
		return "ne"
	case HandleE:
		return "e"
	case HandleSE:
		return "se"
	case HandleS:
		return "s"
	case HandleSW:
		return "sw"
	case HandleW:
		return "w"
	case HandleNW:
		return "nw"
	default:
		return "none"
	}
}

// Resize zone geometry, in world units. Corners use a larger capture square
// than the edge band so diagonal resizing stays easy to grab.
const (
	EdgeTolerance = 6.0
	CornerSize    = 12.0
)

// HandleAt classifies a world point against a node's border zones. Corners
// take priority over edges. Returns HandleNone when the point is in the
// node's interior or outside the tolerance band.
func HandleAt(n *Node, p Point) Handle {
	left := n.X
	right := n.X + n.Width
	top := n.Y
	bottom := n.Y + n.Height

	// Outside the expanded bounds entirely.
	if p.X < left-EdgeTolerance || p.X > right+EdgeTolerance ||
		p.Y < top-EdgeTolerance || p.Y > bottom+EdgeTolerance {
		return HandleNone
	}

	nearLeft := p.X <= left+CornerSize
	nearRight := p.X >= right-CornerSize
	nearTop := p.Y <= top+CornerSize
	nearBottom := p.Y >= bottom-CornerSize

	// Corners first.
	switch {
	case nearLeft && nearTop:
		return HandleNW
	case nearRight && nearTop:
		return HandleNE
	case nearLeft && nearBottom:
		return HandleSW
	case nearRight && nearBottom:
		return HandleSE
	}

	// Edge bands.
	switch {
	case p.Y <= top+EdgeTolerance:
		return HandleN
	case p.Y >= bottom-EdgeTolerance:
		return HandleS
	case p.X <= left+EdgeTolerance:
		return HandleW
	case p.X >= right-EdgeTolerance:
		return HandleE
	}
	return HandleNone
}
