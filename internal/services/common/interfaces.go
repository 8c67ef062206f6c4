package common

// Surface is an addressable character grid. Writes are buffered until Flush.
type Surface interface {
	Write(pos Position, cell Cell) error
	Flush() error
}

// Screen is a Surface that also knows its size and can be cleared and torn down.
type Screen interface {
	Surface
	Size() (cols int, rows int)
	Clear() error
	SetCursorVisible(visible bool) error
	Close() error
}

// InputSource is polled for key events. Poll never blocks: ok is false when
// nothing is pending.
type InputSource interface {
	Poll() (ev Event, ok bool, err error)
}
