// Package editor implements the interaction controller: a pointer/keyboard
// state machine over the board graph, the selection set, and bounded
// undo/redo history. All methods must be called from a single goroutine;
// asynchronous work re-enters through the completion channel.
package editor

import "muse/graph"

// State is the controller's interaction state.
type State int

const (
	StateIdle State = iota
	StatePanning
	StateDragging
	StateResizing
	StateConnecting
	StateMarquee
	StateEditing
)

// String returns the state name for display.
func (s State) String() string {
	switch s {
	case StatePanning:
		return "PAN"
	case StateDragging:
		return "DRAG"
	case StateResizing:
		return "RESIZE"
	case StateConnecting:
		return "CONNECT"
	case StateMarquee:
		return "SELECT"
	case StateEditing:
		return "EDIT"
	default:
		return "IDLE"
	}
}

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

// Modifiers are the modifier keys active during an event. Shift is the
// multi-select modifier; Alt starts a connection gesture from a node; Space
// turns a left-button drag into a pan.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
	Space bool
}

// primary reports whether the platform primary shortcut modifier is held
// (ctrl, or cmd on macOS-style hosts).
func (m Modifiers) primary() bool {
	return m.Ctrl || m.Meta
}

// PointerEvent is a pointer press, move, or release in screen coordinates.
type PointerEvent struct {
	Pos    graph.Point
	Button Button
	Mods   Modifiers
}

// Key identifies a non-rune key.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyEscape
	KeyLeft
	KeyRight
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods Modifiers
}
