package viewport

import "math"

// WheelKind classifies a scroll event by intent.
type WheelKind int

const (
	WheelZoom  WheelKind = iota // discrete mouse wheel: zoom at cursor
	WheelPan                    // trackpad two-finger scroll: pan
	WheelPinch                  // trackpad pinch (reported with ctrl/meta): zoom
)

// String returns the classification name.
func (k WheelKind) String() string {
	switch k {
	case WheelZoom:
		return "zoom"
	case WheelPan:
		return "pan"
	case WheelPinch:
		return "pinch"
	default:
		return "unknown"
	}
}

// ClassifyWheel guesses whether a scroll delta came from a mouse wheel, a
// two-finger trackpad scroll, or a pinch gesture. Browsers and toolkits
// report pinch as a ctrl-modified wheel; mouse wheels tend to produce large,
// axis-aligned integer deltas while trackpads produce small fractional ones
// with both axes active.
//
// This is a device-dependent heuristic, not a contract. It is kept as an
// isolated function so a host with better information can replace it.
func ClassifyWheel(dx, dy float64, ctrl bool) WheelKind {
	if ctrl {
		return WheelPinch
	}
	if dx == 0 && math.Abs(dy) >= 40 && dy == math.Trunc(dy) {
		return WheelZoom
	}
	return WheelPan
}

// WheelZoomFactor converts a zoomish wheel delta into a multiplicative scale
// factor. Negative deltas (scroll up) zoom in.
func WheelZoomFactor(dy float64) float64 {
	return math.Pow(1.1, -dy/40)
}
