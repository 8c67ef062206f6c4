package keyboard

import (
	"errors"
	"fmt"
	"io"

	"github.td.teradata.com/sandbox/term-lessons/internal/log"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
)

type chunk struct {
	data []byte
	err  error
}

// Reader turns a blocking io.Reader (a pipe, a file, a serial line) into a
// non-blocking InputSource. A single pump goroutine does the reads; all
// decoding happens on the polling goroutine.
type Reader struct {
	r      io.Reader
	chunks chan chunk
	queue  queue
	done   bool
	err    error
}

func NewReader(r io.Reader) *Reader {
	rd := &Reader{
		r:      r,
		chunks: make(chan chunk, 16),
	}
	go rd.pump()
	return rd
}

func (rd *Reader) pump() {
	defer close(rd.chunks)
	for {
		buf := make([]byte, 64)
		n, err := rd.r.Read(buf)
		if n > 0 {
			rd.chunks <- chunk{data: buf[:n]}
		}
		if err != nil {
			rd.chunks <- chunk{err: err}
			return
		}
	}
}

func (rd *Reader) Poll() (common.Event, bool, error) {
	if ev, ok := rd.queue.pop(); ok {
		return ev, true, nil
	}
	if rd.err != nil {
		return common.Event{}, false, rd.err
	}
	if rd.done {
		return common.Event{Kind: common.EventEndOfInput}, true, nil
	}

	select {
	case c, open := <-rd.chunks:
		switch {
		case !open || errors.Is(c.err, io.EOF):
			log.Debug("Input reader reached end of input")
			rd.done = true
			rd.queue.drain()
		case c.err != nil:
			rd.err = fmt.Errorf("read input: %w: %w", common.ErrIOFailure, c.err)
			return common.Event{}, false, rd.err
		default:
			rd.queue.feed(c.data)
		}
		return rd.Poll()
	default:
		rd.queue.idle()
		ev, ok := rd.queue.pop()
		return ev, ok, nil
	}
}
