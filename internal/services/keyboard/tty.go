package keyboard

import (
	"errors"
	"fmt"
	"io"

	"github.com/pkg/term"
	"github.td.teradata.com/sandbox/term-lessons/internal/log"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
)

const DefaultTTY = "/dev/tty"

// TTY reads keys from a controlling terminal in raw mode.
type TTY struct {
	t     *term.Term
	buf   []byte
	queue queue
	eof   bool
}

// OpenTTY opens the named terminal device and switches it to raw mode. The
// previous mode is restored by Close.
func OpenTTY(name string) (*TTY, error) {
	t, err := term.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", name, common.ErrIOFailure, err)
	}
	if err := term.RawMode(t); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("raw mode %s: %w: %w", name, common.ErrIOFailure, err)
	}
	log.Debugf("Opened %s in raw mode", name)
	return &TTY{t: t, buf: make([]byte, 64)}, nil
}

func (k *TTY) Poll() (common.Event, bool, error) {
	if ev, ok := k.queue.pop(); ok {
		return ev, true, nil
	}
	if k.eof {
		return common.Event{Kind: common.EventEndOfInput}, true, nil
	}

	n, err := k.t.Available()
	if err != nil {
		return common.Event{}, false, fmt.Errorf("poll tty: %w: %w", common.ErrIOFailure, err)
	}
	if n == 0 {
		k.queue.idle()
		ev, ok := k.queue.pop()
		return ev, ok, nil
	}
	if n > len(k.buf) {
		n = len(k.buf)
	}

	read, err := k.t.Read(k.buf[:n])
	if errors.Is(err, io.EOF) {
		k.eof = true
		k.queue.drain()
		return k.Poll()
	}
	if err != nil {
		return common.Event{}, false, fmt.Errorf("read tty: %w: %w", common.ErrIOFailure, err)
	}

	k.queue.feed(k.buf[:read])
	ev, ok := k.queue.pop()
	return ev, ok, nil
}

func (k *TTY) Close() error {
	return errors.Join(k.t.Restore(), k.t.Close())
}
