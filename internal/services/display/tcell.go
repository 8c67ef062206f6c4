package display

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.td.teradata.com/sandbox/term-lessons/internal/log"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
)

// Tcell is a Screen and InputSource backed by a tcell screen.
type Tcell struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
}

// NewTcell initializes the real terminal through tcell.
func NewTcell() (*Tcell, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tcell screen: %w: %w", common.ErrIOFailure, err)
	}
	return NewTcellScreen(screen)
}

// NewTcellScreen wraps an uninitialized tcell screen, e.g. a simulation screen.
func NewTcellScreen(screen tcell.Screen) (*Tcell, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("tcell init: %w: %w", common.ErrIOFailure, err)
	}
	t := &Tcell{
		screen: screen,
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
	}
	go screen.ChannelEvents(t.events, t.quit)

	w, h := screen.Size()
	log.Debugf("tcell screen %dx%d", w, h)
	return t, nil
}

func (t *Tcell) Size() (int, int) {
	return t.screen.Size()
}

func (t *Tcell) Write(pos common.Position, cell common.Cell) error {
	w, h := t.screen.Size()
	if pos.Col < 0 || pos.Col >= w || pos.Row < 0 || pos.Row >= h {
		return fmt.Errorf("write %s on %dx%d: %w", pos, w, h, common.ErrOutOfRange)
	}
	r := cell.Rune
	if r == 0 {
		r = ' '
	}
	t.screen.SetContent(pos.Col, pos.Row, r, nil, Style(cell))
	return nil
}

func (t *Tcell) Flush() error {
	t.screen.Show()
	return nil
}

func (t *Tcell) Clear() error {
	t.screen.Clear()
	return nil
}

func (t *Tcell) SetCursorVisible(visible bool) error {
	if visible {
		t.screen.ShowCursor(0, 0)
	} else {
		t.screen.HideCursor()
	}
	return nil
}

func (t *Tcell) Close() error {
	close(t.quit)
	t.screen.Fini()
	return nil
}

// Poll drains queued tcell events. Resize and mouse events are skipped.
func (t *Tcell) Poll() (common.Event, bool, error) {
	for {
		select {
		case ev, open := <-t.events:
			if !open {
				return common.Event{Kind: common.EventEndOfInput}, true, nil
			}
			if key, ok := ev.(*tcell.EventKey); ok {
				return KeyEvent(key), true, nil
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				t.screen.Sync()
			}
		default:
			return common.Event{}, false, nil
		}
	}
}

// KeyEvent maps a tcell key onto the event model used by the decoder for raw
// terminals.
func KeyEvent(key *tcell.EventKey) common.Event {
	switch key.Key() {
	case tcell.KeyUp:
		return common.Event{Kind: common.EventUp}
	case tcell.KeyDown:
		return common.Event{Kind: common.EventDown}
	case tcell.KeyLeft:
		return common.Event{Kind: common.EventLeft}
	case tcell.KeyRight:
		return common.Event{Kind: common.EventRight}
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return common.Event{Kind: common.EventQuit}
	case tcell.KeyCtrlD:
		return common.Event{Kind: common.EventEndOfInput}
	case tcell.KeyRune:
		if key.Modifiers()&tcell.ModCtrl != 0 {
			switch key.Rune() {
			case 'c', 'C':
				return common.Event{Kind: common.EventQuit}
			case 'd', 'D':
				return common.Event{Kind: common.EventEndOfInput}
			}
		}
		if key.Rune() == 'q' {
			return common.Event{Kind: common.EventQuit, Char: 'q'}
		}
		return common.Event{Kind: common.EventOther, Char: key.Rune()}
	case tcell.KeyEnter:
		return common.Event{Kind: common.EventOther, Char: '\r'}
	default:
		return common.Event{Kind: common.EventOther}
	}
}

// Style converts cell colors and attributes into a tcell style.
func Style(cell common.Cell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcellColor(cell.Fg)).
		Background(tcellColor(cell.Bg)).
		Bold(cell.Attrs&common.AttrBold != 0).
		Dim(cell.Attrs&common.AttrDim != 0).
		Italic(cell.Attrs&common.AttrItalic != 0).
		Underline(cell.Attrs&common.AttrUnderline != 0).
		Blink(cell.Attrs&common.AttrBlink != 0).
		Reverse(cell.Attrs&common.AttrReverse != 0)
}

func tcellColor(c common.Color) tcell.Color {
	switch {
	case c.IsDefault():
		return tcell.ColorDefault
	case c.IsRGB():
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	default:
		return tcell.PaletteColor(int(c.Index()))
	}
}
