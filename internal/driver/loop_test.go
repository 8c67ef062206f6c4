package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
)

var block = common.Char('█')

func runLoop(t *testing.T, start common.Position, in common.InputSource, out common.Surface) (*RenderLoop, TerminationReason) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	loop := NewRenderLoop(time.Millisecond)
	reason, err := loop.Run(ctx, start, block, in, out)
	require.NoError(t, err)
	return loop, reason
}

func TestRenderLoop_RightRightDownQuit(t *testing.T) {
	screen := newFakeScreen(80, 24)
	in := keys(common.EventRight, common.EventRight, common.EventDown, common.EventQuit)

	loop, reason := runLoop(t, common.Position{Col: 5, Row: 5}, in, screen)

	assert.Equal(t, ReasonQuit, reason)
	assert.Equal(t, common.Position{Col: 7, Row: 6}, loop.State().Position)
	assert.Equal(t, []write{
		{common.Position{Col: 5, Row: 5}, common.Blank},
		{common.Position{Col: 6, Row: 5}, block},
		{common.Position{Col: 6, Row: 5}, common.Blank},
		{common.Position{Col: 7, Row: 5}, block},
		{common.Position{Col: 7, Row: 5}, common.Blank},
		{common.Position{Col: 7, Row: 6}, block},
	}, screen.writes)
	assert.Equal(t, 3, screen.flushes)
}

func TestRenderLoop_PositionIsSumOfDeltas(t *testing.T) {
	kinds := []common.EventKind{
		common.EventUp, common.EventLeft, common.EventLeft, common.EventDown,
		common.EventDown, common.EventDown, common.EventRight, common.EventUp,
	}
	screen := newFakeScreen(80, 24)
	in := keys(append(kinds, common.EventEndOfInput)...)

	start := common.Position{Col: 10, Row: 10}
	loop, reason := runLoop(t, start, in, screen)

	assert.Equal(t, ReasonEndOfInput, reason)
	assert.Equal(t, common.Position{Col: 9, Row: 11}, loop.State().Position)
	assert.Len(t, screen.writes, 2*len(kinds))
	assert.Equal(t, len(kinds), screen.flushes)
}

func TestRenderLoop_OnlyOneGlyphOnScreen(t *testing.T) {
	screen := newFakeScreen(20, 20)
	start := common.Position{Col: 5, Row: 5}
	screen.cells[start] = block
	in := keys(common.EventLeft, common.EventUp, common.EventUp, common.EventRight, common.EventQuit)

	loop, _ := runLoop(t, start, in, screen)

	glyphs := 0
	for pos, cell := range screen.cells {
		if cell == block {
			glyphs++
			assert.Equal(t, loop.State().Position, pos)
		}
	}
	assert.Equal(t, 1, glyphs)
}

func TestRenderLoop_IgnoresOtherEvents(t *testing.T) {
	screen := newFakeScreen(80, 24)
	in := &script{events: []common.Event{
		{Kind: common.EventOther, Char: 'x'},
		{Kind: common.EventOther},
		{Kind: common.EventQuit, Char: 'q'},
	}}

	loop, reason := runLoop(t, common.Position{Col: 1, Row: 1}, in, screen)

	assert.Equal(t, ReasonQuit, reason)
	assert.Equal(t, common.Position{Col: 1, Row: 1}, loop.State().Position)
	assert.Empty(t, screen.writes)
	assert.Zero(t, screen.flushes)
}

func TestRenderLoop_ZeroDeltaDoesNotWrite(t *testing.T) {
	screen := newFakeScreen(80, 24)
	loop := NewRenderLoop(time.Millisecond)
	loop.moves[common.EventUp] = common.Position{}

	reason, err := loop.Run(context.Background(), common.Position{Col: 3, Row: 3}, block,
		keys(common.EventUp, common.EventUp, common.EventQuit), screen)

	require.NoError(t, err)
	assert.Equal(t, ReasonQuit, reason)
	assert.Empty(t, screen.writes)
	assert.Zero(t, screen.flushes)
}

func TestRenderLoop_NoWritesAfterExit(t *testing.T) {
	for _, tc := range []struct {
		name   string
		exit   common.EventKind
		reason TerminationReason
	}{
		{"quit", common.EventQuit, ReasonQuit},
		{"end of input", common.EventEndOfInput, ReasonEndOfInput},
	} {
		t.Run(tc.name, func(t *testing.T) {
			screen := newFakeScreen(80, 24)
			in := keys(common.EventRight, tc.exit, common.EventRight, common.EventRight)

			loop, reason := runLoop(t, common.Position{}, in, screen)

			assert.Equal(t, tc.reason, reason)
			assert.Equal(t, common.Position{Col: 1}, loop.State().Position)
			assert.Len(t, screen.writes, 2)
			assert.Len(t, in.events, 2)
		})
	}
}

func TestRenderLoop_OutOfRangeIsFatal(t *testing.T) {
	screen := newFakeScreen(10, 10)
	loop := NewRenderLoop(time.Millisecond)

	_, err := loop.Run(context.Background(), common.Position{}, block,
		keys(common.EventLeft, common.EventQuit), screen)

	require.ErrorIs(t, err, common.ErrOutOfRange)
	assert.Equal(t, common.Position{}, loop.State().Position)
}

func TestRenderLoop_ErrorsAreReturned(t *testing.T) {
	ioErr := errors.New("broken pipe")

	t.Run("input", func(t *testing.T) {
		in := &script{err: ioErr}
		_, err := NewRenderLoop(time.Millisecond).Run(context.Background(), common.Position{}, block, in, newFakeScreen(5, 5))
		assert.ErrorIs(t, err, ioErr)
	})

	t.Run("write", func(t *testing.T) {
		screen := newFakeScreen(5, 5)
		screen.failWrite = ioErr
		_, err := NewRenderLoop(time.Millisecond).Run(context.Background(), common.Position{}, block,
			keys(common.EventRight, common.EventQuit), screen)
		assert.ErrorIs(t, err, ioErr)
	})

	t.Run("flush", func(t *testing.T) {
		screen := newFakeScreen(5, 5)
		screen.failFlush = ioErr
		_, err := NewRenderLoop(time.Millisecond).Run(context.Background(), common.Position{}, block,
			keys(common.EventRight, common.EventQuit), screen)
		assert.ErrorIs(t, err, ioErr)
		assert.Len(t, screen.writes, 2)
	})
}

func TestRenderLoop_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	in := keys()

	reason, err := NewRenderLoop(time.Millisecond).Run(ctx, common.Position{}, block, in, newFakeScreen(5, 5))

	require.NoError(t, err)
	assert.Equal(t, ReasonCancelled, reason)
	assert.Greater(t, in.polls, 1)
}

func TestTerminationReason_String(t *testing.T) {
	assert.Equal(t, "Quit", ReasonQuit.String())
	assert.Equal(t, "EndOfInput", ReasonEndOfInput.String())
	assert.Equal(t, "Cancelled", ReasonCancelled.String())
	assert.Equal(t, "TerminationReason(0)", TerminationReason(0).String())
}
