package editor

import "muse/graph"

// HandleKey processes a keyboard event. While a node is being edited, keys
// go to the text buffer and document-level shortcuts are suspended.
func (e *Editor) HandleKey(ev KeyEvent) {
	if e.state == StateEditing {
		e.handleEditKey(ev)
		return
	}

	switch ev.Key {
	case KeyDelete, KeyBackspace:
		e.DeleteSelection()

	case KeyEscape:
		e.cancelGesture()

	case KeyRune:
		e.handleShortcut(ev)
	}
}

func (e *Editor) handleShortcut(ev KeyEvent) {
	if ev.Mods.primary() {
		switch ev.Rune {
		case 'a', 'A':
			e.SelectAll()
		case 'z':
			e.Undo()
		case 'Z':
			e.Redo()
		case 'y', 'Y':
			e.Redo()
		case 'd', 'D':
			e.DuplicateSelection()
		}
		return
	}

	switch ev.Rune {
	case '0':
		e.view.Reset()
		e.committed()
	case 'f', 'F':
		e.ZoomToFit()
	}
}

// cancelGesture aborts an in-progress gesture, or clears the selection when
// idle.
func (e *Editor) cancelGesture() {
	switch e.state {
	case StateConnecting:
		e.connectFromID = ""
		e.state = StateIdle
		e.markDirty()
	case StateMarquee:
		e.state = StateIdle
		e.markDirty()
	case StateIdle:
		e.ClearSelection()
	}
}

// --- Text editing ---------------------------------------------------------

// startEditing enters text editing for a node, loading its text into the
// buffer.
func (e *Editor) startEditing(n *graph.Node) {
	e.state = StateEditing
	e.editingID = n.ID
	e.buffer = []rune(n.Text)
	e.cursor = len(e.buffer)
	e.markDirty()
}

// EditingID returns the id of the node being edited, or "".
func (e *Editor) EditingID() string { return e.editingID }

// EditingText returns the live edit buffer.
func (e *Editor) EditingText() string { return string(e.buffer) }

func (e *Editor) handleEditKey(ev KeyEvent) {
	switch ev.Key {
	case KeyEscape:
		// Cancel: discard the buffer, keep the node's stored text.
		e.state = StateIdle
		e.editingID = ""
		e.buffer = nil
		e.markDirty()

	case KeyEnter:
		if ev.Mods.Shift {
			e.insertRune('\n')
			return
		}
		e.CommitEdit()

	case KeyBackspace:
		if e.cursor > 0 {
			e.buffer = append(e.buffer[:e.cursor-1], e.buffer[e.cursor:]...)
			e.cursor--
			e.markDirty()
		}

	case KeyDelete:
		if e.cursor < len(e.buffer) {
			e.buffer = append(e.buffer[:e.cursor], e.buffer[e.cursor+1:]...)
			e.markDirty()
		}

	case KeyLeft:
		if e.cursor > 0 {
			e.cursor--
			e.markDirty()
		}

	case KeyRight:
		if e.cursor < len(e.buffer) {
			e.cursor++
			e.markDirty()
		}

	case KeyRune:
		e.insertRune(ev.Rune)
	}
}

func (e *Editor) insertRune(r rune) {
	e.buffer = append(e.buffer[:e.cursor], append([]rune{r}, e.buffer[e.cursor:]...)...)
	e.cursor++
	e.markDirty()
}

// CommitEdit ends text editing, stores the buffer into the node, and
// recomputes its height unless it was manually resized. Hosts call this on
// blur as well.
func (e *Editor) CommitEdit() {
	if e.state != StateEditing {
		return
	}
	id := e.editingID
	e.state = StateIdle
	e.editingID = ""

	n := e.graph.Find(id)
	if n == nil {
		return
	}
	text := string(e.buffer)
	e.buffer = nil
	if text == n.Text {
		e.markDirty()
		return
	}
	e.history.Push(e.graph)
	n.Text = text
	e.autoHeight(n)
	e.committed()
}
