package driver

import (
	"context"
	"errors"

	"github.td.teradata.com/sandbox/term-lessons/internal/log"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/display"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/logging"
)

const (
	readPrompt   = "Press a key and see how it is read. Press ESCAPE or 'q' to exit"
	randomPrompt = "Press any key for a new board. Press ESCAPE to exit"
	anyKeyPrompt = "Press any key to exit"
)

var (
	title = common.Cell{Fg: common.Yellow}
	plain = common.Cell{}
)

// Lesson is one of the runnable demonstrations.
type Lesson func(d *Driver, ctx context.Context) error

// Lessons maps subcommand names to lessons.
var Lessons = map[string]Lesson{
	"put":    (*Driver).PutCharacters,
	"read":   (*Driver).ReadKeys,
	"move":   (*Driver).Move,
	"colors": (*Driver).Colors,
	"random": (*Driver).RandomColors,
}

func (d *Driver) begin() error {
	if err := d.screen.Clear(); err != nil {
		return err
	}
	return d.screen.SetCursorVisible(false)
}

func (d *Driver) putAll(cells map[common.Position]rune) error {
	for pos, r := range cells {
		if err := d.screen.Write(pos, common.Char(r)); err != nil {
			return err
		}
	}
	return d.screen.Flush()
}

func (d *Driver) promptAndWait(ctx context.Context, row int) error {
	if _, err := display.PrintAt(d.screen, common.Position{Col: 0, Row: row}, anyKeyPrompt, title); err != nil {
		return err
	}
	if err := d.screen.Flush(); err != nil {
		return err
	}
	_, err := d.waitKey(ctx)
	return err
}

// PutCharacters writes a row of X and a column of O.
func (d *Driver) PutCharacters(ctx context.Context) error {
	if err := d.begin(); err != nil {
		return err
	}
	cells := map[common.Position]rune{}
	for col := 0; col < 5; col++ {
		cells[common.Position{Col: col, Row: 0}] = 'X'
	}
	for row := 2; row < 6; row++ {
		cells[common.Position{Col: 2, Row: row}] = 'O'
	}
	if err := d.putAll(cells); err != nil {
		return err
	}
	return d.promptAndWait(ctx, 7)
}

// ReadKeys reports every key read until Escape, 'q' or end of input.
func (d *Driver) ReadKeys(ctx context.Context) error {
	if err := d.begin(); err != nil {
		return err
	}
	if _, err := display.PrintAt(d.screen, common.Position{}, readPrompt, title); err != nil {
		return err
	}
	if err := d.screen.Flush(); err != nil {
		return err
	}

	history := logging.NewHistory(2, plain)
	for {
		ev, err := d.waitKey(ctx)
		if err != nil {
			return err
		}
		history.Add(ev.String())
		log.Debugf("Read %s", ev)
		if err := history.Draw(d.screen); err != nil {
			return err
		}
		if ev.IsExit() || ctx.Err() != nil {
			return nil
		}
	}
}

// Move places three markers, draws the glyph at the configured start and
// hands over to the render loop.
func (d *Driver) Move(ctx context.Context) error {
	glyph, err := d.loop.GlyphRune()
	if err != nil {
		return err
	}
	if err := d.begin(); err != nil {
		return err
	}

	start := common.Position{Col: d.loop.Column, Row: d.loop.Row}
	if err := d.putAll(map[common.Position]rune{
		{Col: 5, Row: 17}: 'X',
		{Col: 3, Row: 1}:  'O',
		{Col: 8, Row: 9}:  'Z',
		start:             glyph,
	}); err != nil {
		return err
	}

	loop := NewRenderLoop(d.loop.PollInterval)
	reason, err := loop.Run(ctx, start, common.Char(glyph), d.input, d.screen)
	if err != nil {
		return err
	}
	log.Infof("Render loop ended: %s at %s", reason, loop.State().Position)
	return nil
}

// Colors shows colored, bold and blinking text.
func (d *Driver) Colors(ctx context.Context) error {
	if err := d.begin(); err != nil {
		return err
	}
	lines := []struct {
		pos   common.Position
		text  string
		style common.Cell
	}{
		{common.Position{Col: 3, Row: 2}, "Yellow and blue", common.Cell{Fg: common.Yellow, Bg: common.Blue}},
		{common.Position{Col: 3, Row: 3}, "Bold message", common.Cell{Attrs: common.AttrBold}},
		{common.Position{Col: 0, Row: 4}, "Done", common.Cell{Attrs: common.AttrBlink}},
	}
	for _, l := range lines {
		if _, err := display.PrintAt(d.screen, l.pos, l.text, l.style); err != nil {
			return err
		}
	}
	if err := d.screen.Flush(); err != nil {
		return err
	}
	return d.promptAndWait(ctx, 6)
}

// RandomColors repaints a board of random colors on every key press.
func (d *Driver) RandomColors(ctx context.Context) error {
	if err := d.begin(); err != nil {
		return err
	}
	if _, err := display.PrintAt(d.screen, common.Position{}, randomPrompt, title); err != nil {
		return err
	}
	if err := d.screen.Flush(); err != nil {
		return err
	}

	board := NewBoard(boardColumns, boardRows, d.rnd)
	origin := common.Position{Col: 0, Row: 2}
	for {
		ev, err := d.waitKey(ctx)
		if err != nil {
			return err
		}
		if ev.IsExit() || ctx.Err() != nil {
			return nil
		}
		board.Randomize()
		if err := board.Draw(d.screen, origin); err != nil {
			if errors.Is(err, common.ErrOutOfRange) {
				log.Warnf("Board does not fit the terminal: %v", err)
			}
			return err
		}
	}
}
