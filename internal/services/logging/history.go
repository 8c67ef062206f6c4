package logging

import (
	"fmt"

	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/display"
)

const maxHistory = 1000

// History is a scrolling panel of text lines anchored at a top row. The
// newest line is drawn at the bottom once the panel is full.
type History struct {
	messages []string
	top      int
	style    common.Cell
}

func NewHistory(top int, style common.Cell) *History {
	return &History{top: top, style: style}
}

func (h *History) Add(message string) {
	h.messages = append(h.messages, message)
	if len(h.messages) > maxHistory {
		h.messages = h.messages[1:]
	}
}

func (h *History) Addf(format string, a ...interface{}) {
	h.Add(fmt.Sprintf(format, a...))
}

func (h *History) Len() int {
	return len(h.messages)
}

// Visible returns the lines that fit in a panel of the given height.
func (h *History) Visible(rows int) []string {
	height := rows - h.top
	if height <= 0 {
		return nil
	}
	start := len(h.messages) - height
	if start < 0 {
		start = 0
	}
	return h.messages[start:]
}

// Draw repaints the panel on s. Every row of the panel is written so older
// text is overwritten when the panel scrolls.
func (h *History) Draw(s common.Screen) error {
	cols, rows := s.Size()
	visible := h.Visible(rows)
	for i := 0; h.top+i < rows; i++ {
		line := ""
		if i < len(visible) {
			line = visible[i]
		}
		pos := common.Position{Col: 0, Row: h.top + i}
		if _, err := display.PrintAt(s, pos, display.Fit(line, cols), h.style); err != nil {
			return err
		}
	}
	return s.Flush()
}
