package term

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"muse/editor"
	"muse/graph"
	"muse/ideas"
	"muse/render"
)

const (
	// frameInterval coalesces repaints to roughly one per display refresh.
	frameInterval = 16 * time.Millisecond
	// doubleClickWindow is the press-to-press interval treated as a
	// double click.
	doubleClickWindow = 400 * time.Millisecond
)

// Session runs an interactive board editor in the terminal. All editor
// mutation happens on the Run goroutine; generation completions re-enter
// through the editor's completion channel.
type Session struct {
	screen tcell.Screen
	ed     *editor.Editor
	logger *log.Logger

	svc    ideas.Service
	models []string

	lastButtons tcell.ButtonMask
	lastClick   time.Time
	lastClickAt graph.Point
}

// NewSession creates a session over an editor. svc may be nil, which
// disables generation.
func NewSession(ed *editor.Editor, svc ideas.Service, models []string, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{ed: ed, svc: svc, models: models, logger: logger}
}

// Run owns the terminal until the user quits (ctrl-C or q).
func (s *Session) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	s.screen = screen

	surface := NewSurface(screen)
	renderer := render.NewRenderer(surface)
	s.ed.SetEngine(renderer.Engine())

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)
	defer close(quit)

	frames := time.NewTicker(frameInterval)
	defer frames.Stop()

	for {
		select {
		case ev := <-events:
			if done := s.handleEvent(ev); done {
				s.ed.CommitEdit()
				return nil
			}

		case c := <-s.ed.Completions():
			s.ed.Apply(c)

		case <-frames.C:
			// Mutations since the last frame coalesce into one paint.
			if !s.ed.Dirty() {
				continue
			}
			w, h := surface.Size()
			s.ed.SetScreenSize(w, h)
			renderer.Draw(s.ed.Graph(), s.ed.View(), s.ed.Overlay())
			s.drawStatusBar()
			screen.Show()
			s.ed.ClearDirty()
		}
	}
}

// handleEvent translates one tcell event; it returns true to quit.
func (s *Session) handleEvent(ev tcell.Event) bool {
	switch tev := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
		s.ed.SetScreenSize(NewSurface(s.screen).Size())

	case *tcell.EventMouse:
		s.handleMouse(tev)

	case *tcell.EventKey:
		return s.handleKey(tev)
	}
	return false
}

func (s *Session) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pos := CellToPixel(x, y)
	mods := toModifiers(ev.Modifiers())
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		s.ed.Wheel(pos, 0, -40, mods)
	case buttons&tcell.WheelDown != 0:
		s.ed.Wheel(pos, 0, 40, mods)
	case buttons&tcell.WheelLeft != 0:
		s.ed.Wheel(pos, -40, 0, mods)
	case buttons&tcell.WheelRight != 0:
		s.ed.Wheel(pos, 40, 0, mods)
	}

	for _, btn := range []struct {
		mask   tcell.ButtonMask
		button editor.Button
	}{
		{tcell.Button1, editor.ButtonLeft},
		{tcell.Button2, editor.ButtonRight},
	} {
		pressed := buttons&btn.mask != 0
		was := s.lastButtons&btn.mask != 0
		pev := editor.PointerEvent{Pos: pos, Button: btn.button, Mods: mods}
		switch {
		case pressed && !was:
			if btn.button == editor.ButtonLeft && s.isDoubleClick(pos) {
				s.ed.DoubleClick(pev)
			} else {
				s.ed.PointerDown(pev)
			}
		case pressed && was:
			s.ed.PointerMove(pev)
		case !pressed && was:
			s.ed.PointerUp(pev)
		}
	}
	s.lastButtons = buttons
}

func (s *Session) isDoubleClick(pos graph.Point) bool {
	now := time.Now()
	double := now.Sub(s.lastClick) < doubleClickWindow &&
		s.lastClickAt == pos
	s.lastClick = now
	s.lastClickAt = pos
	return double
}

func (s *Session) handleKey(ev *tcell.EventKey) bool {
	mods := toModifiers(ev.Modifiers())
	editing := s.ed.State() == editor.StateEditing

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		s.ed.HandleKey(editor.KeyEvent{Key: editor.KeyEscape, Mods: mods})
	case tcell.KeyEnter:
		s.ed.HandleKey(editor.KeyEvent{Key: editor.KeyEnter, Mods: mods})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		s.ed.HandleKey(editor.KeyEvent{Key: editor.KeyBackspace, Mods: mods})
	case tcell.KeyDelete:
		s.ed.HandleKey(editor.KeyEvent{Key: editor.KeyDelete, Mods: mods})
	case tcell.KeyLeft:
		s.ed.HandleKey(editor.KeyEvent{Key: editor.KeyLeft, Mods: mods})
	case tcell.KeyRight:
		s.ed.HandleKey(editor.KeyEvent{Key: editor.KeyRight, Mods: mods})
	case tcell.KeyCtrlA:
		s.sendCtrlRune('a')
	case tcell.KeyCtrlZ:
		s.sendCtrlRune('z')
	case tcell.KeyCtrlY:
		s.sendCtrlRune('y')
	case tcell.KeyCtrlD:
		s.sendCtrlRune('d')
	case tcell.KeyCtrlG:
		s.generate()
	case tcell.KeyRune:
		if !editing && ev.Rune() == 'q' {
			return true
		}
		s.ed.HandleKey(editor.KeyEvent{Key: editor.KeyRune, Rune: ev.Rune(), Mods: mods})
	}
	return false
}

func (s *Session) sendCtrlRune(r rune) {
	s.ed.HandleKey(editor.KeyEvent{
		Key:  editor.KeyRune,
		Rune: r,
		Mods: editor.Modifiers{Ctrl: true},
	})
}

func (s *Session) generate() {
	if s.svc == nil {
		s.ed.SetStatus("generation not configured (set OPENAI_API_KEY)")
		return
	}
	if err := s.ed.Generate(s.svc, s.models); err != nil {
		s.ed.SetStatus(err.Error())
	}
}

func (s *Session) drawStatusBar() {
	w, h := s.screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	text := fmt.Sprintf(" %s  nodes:%d  zoom:%.0f%%  %s",
		s.ed.State(), len(s.ed.Graph().Nodes), s.ed.View().Scale*100, s.ed.Status())
	runes := []rune(text)
	for x := 0; x < w; x++ {
		ch := ' '
		if x < len(runes) {
			ch = runes[x]
		}
		s.screen.SetContent(x, h-1, ch, nil, style)
	}
}

func toModifiers(m tcell.ModMask) editor.Modifiers {
	return editor.Modifiers{
		Shift: m&tcell.ModShift != 0,
		Ctrl:  m&tcell.ModCtrl != 0,
		Alt:   m&tcell.ModAlt != 0,
		Meta:  m&tcell.ModMeta != 0,
	}
}
