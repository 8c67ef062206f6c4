package driver

import (
	"context"
	"fmt"
	"time"

	"github.td.teradata.com/sandbox/term-lessons/internal/log"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
)

const DefaultPollInterval = 5 * time.Millisecond

type TerminationReason int

const (
	ReasonQuit TerminationReason = iota + 1
	ReasonEndOfInput
	ReasonCancelled
)

func (r TerminationReason) String() string {
	switch r {
	case ReasonQuit:
		return "Quit"
	case ReasonEndOfInput:
		return "EndOfInput"
	case ReasonCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("TerminationReason(%d)", int(r))
	}
}

// LoopState is the tracked glyph and where it is drawn.
type LoopState struct {
	Position common.Position
	Glyph    common.Cell
}

// RenderLoop moves a single glyph around a surface in response to arrow keys.
// It is not safe for concurrent use; the surface and input source belong to
// the loop while Run is executing.
type RenderLoop struct {
	interval time.Duration
	moves    map[common.EventKind]common.Position
	state    LoopState
}

func NewRenderLoop(interval time.Duration) *RenderLoop {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &RenderLoop{
		interval: interval,
		moves: map[common.EventKind]common.Position{
			common.EventUp:    {Col: 0, Row: -1},
			common.EventDown:  {Col: 0, Row: 1},
			common.EventLeft:  {Col: -1, Row: 0},
			common.EventRight: {Col: 1, Row: 0},
		},
	}
}

// State returns the glyph position as of the last accepted move.
func (l *RenderLoop) State() LoopState {
	return l.state
}

// Run polls in until Quit, EndOfInput or cancellation of ctx. The glyph is
// assumed to be drawn at start already; every move erases the old cell, draws
// the new one and flushes. Positions are not bounds checked here. Any error
// from in or out ends the loop and is returned as is.
func (l *RenderLoop) Run(ctx context.Context, start common.Position, glyph common.Cell, in common.InputSource, out common.Surface) (TerminationReason, error) {
	l.state = LoopState{Position: start, Glyph: glyph}

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		ev, ok, err := in.Poll()
		if err != nil {
			return 0, err
		}
		if !ok {
			timer.Reset(l.interval)
			select {
			case <-ctx.Done():
				log.Debugf("Render loop cancelled at %s", l.state.Position)
				return ReasonCancelled, nil
			case <-timer.C:
			}
			continue
		}

		switch ev.Kind {
		case common.EventQuit:
			return ReasonQuit, nil
		case common.EventEndOfInput:
			return ReasonEndOfInput, nil
		}

		delta, move := l.moves[ev.Kind]
		if !move {
			log.Debugf("Ignoring %s", ev)
			continue
		}
		if err := l.step(delta, out); err != nil {
			return 0, err
		}
	}
}

func (l *RenderLoop) step(delta common.Position, out common.Surface) error {
	oldPosition := l.state.Position
	newPosition := oldPosition.Add(delta)
	if newPosition == oldPosition {
		return nil
	}

	if err := out.Write(oldPosition, common.Blank); err != nil {
		return err
	}
	if err := out.Write(newPosition, l.state.Glyph); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return err
	}
	l.state.Position = newPosition
	log.Debugf("Moved %s -> %s", oldPosition, newPosition)
	return nil
}
