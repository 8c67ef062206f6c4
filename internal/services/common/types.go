package common

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange = errors.New("position out of range")
	ErrIOFailure  = errors.New("i/o failure")
)

// Position is a (column, row) cell address. (0,0) is the top left corner.
type Position struct {
	Col int
	Row int
}

func (p Position) Add(d Position) Position {
	return Position{Col: p.Col + d.Col, Row: p.Row + d.Row}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
}

// Attr is a set of text attributes.
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
)

// Color is either the terminal default, one of the 256 palette entries or a
// 24 bit RGB value.
type Color uint32

const (
	colorValid Color = 1 << 31
	colorRGB   Color = 1 << 30

	ColorDefault Color = 0
)

const (
	Black Color = colorValid | iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	Grey
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

func PaletteColor(index uint8) Color {
	return colorValid | Color(index)
}

func RGBColor(r, g, b uint8) Color {
	return colorValid | colorRGB | Color(r)<<16 | Color(g)<<8 | Color(b)
}

func (c Color) IsDefault() bool {
	return c&colorValid == 0
}

func (c Color) IsRGB() bool {
	return c&colorValid != 0 && c&colorRGB != 0
}

// Index returns the palette index of a palette color.
func (c Color) Index() uint8 {
	return uint8(c & 0xff)
}

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Cell is one character with its colors and attributes.
type Cell struct {
	Rune  rune
	Fg    Color
	Bg    Color
	Attrs Attr
}

var Blank = Cell{Rune: ' '}

func Char(r rune) Cell {
	return Cell{Rune: r}
}

// Styled reports whether the cell needs anything other than default rendition.
func (c Cell) Styled() bool {
	return !c.Fg.IsDefault() || !c.Bg.IsDefault() || c.Attrs != AttrNone
}
