package keyboard

import (
	"unicode/utf8"

	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
)

const (
	esc   = 0x1b
	ctrlC = 0x03
	ctrlD = 0x04
)

// Decode reads a single key from the front of b. It returns the event and the
// number of bytes consumed. n is zero when b holds an incomplete sequence and
// more bytes are needed. A lone escape byte counts as incomplete since it may
// start an arrow key sequence; Flush resolves it.
func Decode(b []byte) (ev common.Event, n int) {
	if len(b) == 0 {
		return common.Event{}, 0
	}

	switch b[0] {
	case esc:
		return decodeEscape(b)
	case ctrlC:
		return common.Event{Kind: common.EventQuit}, 1
	case ctrlD:
		return common.Event{Kind: common.EventEndOfInput}, 1
	case 'q':
		return common.Event{Kind: common.EventQuit, Char: 'q'}, 1
	}

	if !utf8.FullRune(b) {
		return common.Event{}, 0
	}
	r, size := utf8.DecodeRune(b)
	return common.Event{Kind: common.EventOther, Char: r}, size
}

// Flush decodes whatever is left in b once no more bytes are coming. A
// dangling escape prefix is reported as a lone escape.
func Flush(b []byte) (ev common.Event, n int) {
	if ev, n = Decode(b); n > 0 || len(b) == 0 {
		return ev, n
	}
	if b[0] == esc {
		return common.Event{Kind: common.EventQuit}, 1
	}
	// Truncated UTF-8, drop it.
	return common.Event{Kind: common.EventOther}, len(b)
}

func decodeEscape(b []byte) (common.Event, int) {
	if len(b) == 1 {
		return common.Event{}, 0
	}
	if b[1] != '[' && b[1] != 'O' {
		// Alt+key sends ESC followed by the key.
		return common.Event{Kind: common.EventOther}, 2
	}
	if len(b) == 2 {
		return common.Event{}, 0
	}

	switch b[2] {
	case 'A':
		return common.Event{Kind: common.EventUp}, 3
	case 'B':
		return common.Event{Kind: common.EventDown}, 3
	case 'C':
		return common.Event{Kind: common.EventRight}, 3
	case 'D':
		return common.Event{Kind: common.EventLeft}, 3
	}

	// Skip parameter and intermediate bytes up to the final byte.
	for i := 2; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			return common.Event{Kind: common.EventOther}, i + 1
		}
	}
	return common.Event{}, 0
}
