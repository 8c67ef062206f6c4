package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.td.teradata.com/sandbox/term-lessons/internal/config"
	"github.td.teradata.com/sandbox/term-lessons/internal/log"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/display"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/keyboard"
)

// Driver owns the screen and input source used by the lessons.
type Driver struct {
	screen  common.Screen
	input   common.InputSource
	loop    *config.Loop
	rnd     *rand.Rand
	closers []io.Closer
}

// New opens the configured backend and input source.
func New(cfg *config.Config) (*Driver, error) {
	d := &Driver{loop: cfg.Loop, rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}

	var screen common.Screen
	switch cfg.Terminal.Backend {
	case config.BackendTcell:
		t, err := display.NewTcell()
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, t)
		screen = t
		if cfg.Input.Source == config.InputTTY {
			d.input = t
		}
	default:
		t, err := display.New(os.Stdout, int(os.Stdout.Fd()), cfg.Terminal.Width, cfg.Terminal.Height)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, t)
		screen = t
	}

	if d.input == nil {
		in, err := openInput(cfg)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		d.input = in
		if c, ok := in.(io.Closer); ok {
			d.closers = append(d.closers, c)
		}
	}

	bounded, err := display.NewBounded(screen, cfg.Terminal.Bounds)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	d.screen = bounded
	log.Infof("Driver ready: backend=%s input=%s bounds=%s", cfg.Terminal.Backend, cfg.Input.Source, cfg.Terminal.Bounds)
	return d, nil
}

// NewWith builds a Driver around an existing screen and input source.
func NewWith(screen common.Screen, input common.InputSource, loop *config.Loop, seed int64) *Driver {
	return &Driver{
		screen: screen,
		input:  input,
		loop:   loop,
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

func openInput(cfg *config.Config) (common.InputSource, error) {
	switch cfg.Input.Source {
	case config.InputStdin:
		return keyboard.NewReader(os.Stdin), nil
	case config.InputFile:
		f, err := os.Open(cfg.Input.File)
		if err != nil {
			return nil, fmt.Errorf("open input %s: %w: %w", cfg.Input.File, common.ErrIOFailure, err)
		}
		return &fileInput{Reader: keyboard.NewReader(f), f: f}, nil
	case config.InputSerial:
		return keyboard.OpenSerial(cfg.Serial)
	default:
		return keyboard.OpenTTY(keyboard.DefaultTTY)
	}
}

type fileInput struct {
	*keyboard.Reader
	f *os.File
}

func (f *fileInput) Close() error {
	return f.f.Close()
}

// Close releases input sources and restores the terminal, in reverse order
// of opening.
func (d *Driver) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i].Close())
	}
	d.closers = nil
	return errors.Join(errs...)
}

// waitKey polls until any key arrives and returns it.
func (d *Driver) waitKey(ctx context.Context) (common.Event, error) {
	interval := d.loop.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	for {
		ev, ok, err := d.input.Poll()
		if err != nil {
			return ev, err
		}
		if ok {
			return ev, nil
		}
		select {
		case <-ctx.Done():
			return common.Event{Kind: common.EventQuit}, nil
		case <-time.After(interval):
		}
	}
}
