// https://www.lihaoyi.com/post/BuildyourownCommandLinewithANSIescapecodes.html#colors
package display

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.td.teradata.com/sandbox/term-lessons/internal/log"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
	xterm "golang.org/x/term"
)

const (
	ClearScreen = "\u001b[2J"     // clears entire screen
	SetPosition = "\u001b[%d;%dH" // moves cursor to row n column m
	Reset       = "\u001b[0m"

	// Show / Hide cursor
	Show = "\u001b[?25h"
	Hide = "\u001b[?25l"
)

// Terminal is a Surface that writes ANSI escape sequences to an output
// stream. Output is buffered until Flush.
type Terminal struct {
	fd    int
	cols  int
	rows  int
	col   int
	row   int
	out   *bufio.Writer
	state *xterm.State
}

// New creates a Terminal writing to out. When fd is a terminal its size is
// queried and its state is restored on Close; otherwise cols x rows is used.
func New(out io.Writer, fd int, cols int, rows int) (*Terminal, error) {
	t := &Terminal{
		fd:   fd,
		cols: cols,
		rows: rows,
		col:  -1,
		row:  -1,
		out:  bufio.NewWriter(out),
	}

	if fd >= 0 && xterm.IsTerminal(fd) {
		w, h, err := xterm.GetSize(fd)
		if err != nil {
			return nil, fmt.Errorf("terminal size: %w: %w", common.ErrIOFailure, err)
		}
		t.cols, t.rows = w, h

		s, err := xterm.GetState(fd)
		if err != nil {
			return nil, fmt.Errorf("terminal state: %w: %w", common.ErrIOFailure, err)
		}
		t.state = s
	}
	log.Debugf("ANSI terminal %dx%d", t.cols, t.rows)
	return t, nil
}

func (t *Terminal) Size() (int, int) {
	return t.cols, t.rows
}

func (t *Terminal) Write(pos common.Position, cell common.Cell) error {
	if pos.Col < 0 || pos.Col >= t.cols || pos.Row < 0 || pos.Row >= t.rows {
		return fmt.Errorf("write %s on %dx%d: %w", pos, t.cols, t.rows, common.ErrOutOfRange)
	}

	var b strings.Builder
	if pos.Col != t.col || pos.Row != t.row {
		fmt.Fprintf(&b, SetPosition, pos.Row+1, pos.Col+1)
	}

	r := cell.Rune
	if r == 0 {
		r = ' '
	}
	if cell.Styled() {
		b.WriteString(SGR(cell))
		b.WriteRune(r)
		b.WriteString(Reset)
	} else {
		b.WriteRune(r)
	}

	if _, err := t.out.WriteString(b.String()); err != nil {
		t.col, t.row = -1, -1
		return fmt.Errorf("write %s: %w: %w", pos, common.ErrIOFailure, err)
	}
	t.col = pos.Col + runewidth.RuneWidth(r)
	t.row = pos.Row
	return nil
}

func (t *Terminal) Flush() error {
	if err := t.out.Flush(); err != nil {
		return fmt.Errorf("flush: %w: %w", common.ErrIOFailure, err)
	}
	return nil
}

func (t *Terminal) Clear() error {
	if _, err := t.out.WriteString(ClearScreen + fmt.Sprintf(SetPosition, 1, 1)); err != nil {
		return fmt.Errorf("clear: %w: %w", common.ErrIOFailure, err)
	}
	t.col, t.row = 0, 0
	return nil
}

func (t *Terminal) SetCursorVisible(visible bool) error {
	seq := Hide
	if visible {
		seq = Show
	}
	if _, err := t.out.WriteString(seq); err != nil {
		return fmt.Errorf("cursor: %w: %w", common.ErrIOFailure, err)
	}
	return nil
}

// Close shows the cursor, resets the rendition and restores the saved
// terminal state. The cursor is left below the last row.
func (t *Terminal) Close() error {
	_, _ = t.out.WriteString(Reset + Show + fmt.Sprintf(SetPosition, t.rows, 1) + "\r\n")
	err := t.Flush()
	if t.state != nil {
		if rerr := xterm.Restore(t.fd, t.state); rerr != nil && err == nil {
			err = fmt.Errorf("restore: %w: %w", common.ErrIOFailure, rerr)
		}
		t.state = nil
	}
	return err
}

// SGR returns the select graphic rendition sequence for the cell's colors and
// attributes.
func SGR(cell common.Cell) string {
	var codes []string
	attrs := []struct {
		attr common.Attr
		code string
	}{
		{common.AttrBold, "1"},
		{common.AttrDim, "2"},
		{common.AttrItalic, "3"},
		{common.AttrUnderline, "4"},
		{common.AttrBlink, "5"},
		{common.AttrReverse, "7"},
	}
	for _, a := range attrs {
		if cell.Attrs&a.attr != 0 {
			codes = append(codes, a.code)
		}
	}
	if !cell.Fg.IsDefault() {
		codes = append(codes, colorCode(cell.Fg, 30, 90, 38))
	}
	if !cell.Bg.IsDefault() {
		codes = append(codes, colorCode(cell.Bg, 40, 100, 48))
	}
	if len(codes) == 0 {
		return ""
	}
	return "\u001b[" + strings.Join(codes, ";") + "m"
}

func colorCode(c common.Color, base, bright, extended int) string {
	if c.IsRGB() {
		r, g, b := c.RGB()
		return fmt.Sprintf("%d;2;%d;%d;%d", extended, r, g, b)
	}
	i := int(c.Index())
	switch {
	case i < 8:
		return strconv.Itoa(base + i)
	case i < 16:
		return strconv.Itoa(bright + i - 8)
	default:
		return fmt.Sprintf("%d;5;%d", extended, i)
	}
}
