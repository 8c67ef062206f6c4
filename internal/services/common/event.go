package common

import "fmt"

type EventKind int

const (
	EventOther EventKind = iota
	EventUp
	EventDown
	EventLeft
	EventRight
	EventQuit
	EventEndOfInput
)

func (k EventKind) String() string {
	switch k {
	case EventOther:
		return "Other"
	case EventUp:
		return "ArrowUp"
	case EventDown:
		return "ArrowDown"
	case EventLeft:
		return "ArrowLeft"
	case EventRight:
		return "ArrowRight"
	case EventQuit:
		return "Quit"
	case EventEndOfInput:
		return "EOF"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a decoded key press. Char is zero when the key has no literal
// character.
type Event struct {
	Kind EventKind
	Char rune
}

func (e Event) String() string {
	if e.Char == 0 {
		return fmt.Sprintf("kind: %s character: none", e.Kind)
	}
	return fmt.Sprintf("kind: %s character: %q", e.Kind, e.Char)
}

// IsExit reports whether the event ends an input loop.
func (e Event) IsExit() bool {
	return e.Kind == EventQuit || e.Kind == EventEndOfInput
}
