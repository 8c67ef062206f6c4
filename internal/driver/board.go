package driver

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
)

const (
	boardColumns = 30
	boardRows    = 20
	boardGlyph   = '█'
)

// Board is a grid of colors indexed [column][row].
type Board struct {
	cols   int
	rows   int
	colors [][]colorful.Color
	rnd    *rand.Rand
}

func NewBoard(cols, rows int, rnd *rand.Rand) *Board {
	colors := make([][]colorful.Color, cols)
	for c := range colors {
		colors[c] = make([]colorful.Color, rows)
	}
	return &Board{cols: cols, rows: rows, colors: colors, rnd: rnd}
}

// Randomize gives every cell a uniformly random RGB color.
func (b *Board) Randomize() {
	for col := 0; col < b.cols; col++ {
		for row := 0; row < b.rows; row++ {
			b.colors[col][row] = colorful.Color{R: b.rnd.Float64(), G: b.rnd.Float64(), B: b.rnd.Float64()}
		}
	}
}

func (b *Board) Cell(col, row int) common.Cell {
	r, g, bl := b.colors[col][row].Clamped().RGB255()
	return common.Cell{Rune: boardGlyph, Fg: common.RGBColor(r, g, bl)}
}

// Draw writes the whole board with its top left corner at origin.
func (b *Board) Draw(s common.Surface, origin common.Position) error {
	for col := 0; col < b.cols; col++ {
		for row := 0; row < b.rows; row++ {
			pos := origin.Add(common.Position{Col: col, Row: row})
			if err := s.Write(pos, b.Cell(col, row)); err != nil {
				return err
			}
		}
	}
	return s.Flush()
}
