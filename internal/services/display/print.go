package display

import (
	"github.com/mattn/go-runewidth"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
)

// PrintAt writes text one cell per rune starting at pos, using style for
// colors and attributes. It returns the position after the last rune. Wide
// runes advance two columns. Text is not wrapped.
func PrintAt(s common.Surface, pos common.Position, text string, style common.Cell) (common.Position, error) {
	for _, r := range text {
		cell := style
		cell.Rune = r
		if err := s.Write(pos, cell); err != nil {
			return pos, err
		}
		pos.Col += runewidth.RuneWidth(r)
	}
	return pos, nil
}

// Fit truncates or pads text to exactly width columns.
func Fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(text, width, ""), width)
}
