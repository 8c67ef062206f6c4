package keyboard

import "github.td.teradata.com/sandbox/term-lessons/internal/services/common"

// queue buffers raw bytes and the events decoded from them.
type queue struct {
	pending []byte
	events  []common.Event
	stale   bool
}

func (q *queue) feed(b []byte) {
	q.stale = false
	q.pending = append(q.pending, b...)
	for len(q.pending) > 0 {
		ev, n := Decode(q.pending)
		if n == 0 {
			return
		}
		q.events = append(q.events, ev)
		q.pending = q.pending[n:]
	}
}

// drain decodes leftover bytes as if no more input will follow.
func (q *queue) drain() {
	for len(q.pending) > 0 {
		ev, n := Flush(q.pending)
		q.events = append(q.events, ev)
		q.pending = q.pending[n:]
	}
}

// idle is called when a poll found no new bytes. A prefix still pending after
// two idle polls in a row is decoded as is, so a lone escape becomes Quit.
func (q *queue) idle() {
	switch {
	case len(q.pending) == 0:
		q.stale = false
	case q.stale:
		q.drain()
		q.stale = false
	default:
		q.stale = true
	}
}

func (q *queue) pop() (common.Event, bool) {
	if len(q.events) == 0 {
		return common.Event{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}
