package driver

import (
	"fmt"
	"sync"

	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
)

type write struct {
	pos  common.Position
	cell common.Cell
}

// fakeScreen records writes and keeps the resulting grid.
type fakeScreen struct {
	cols, rows int
	writes     []write
	flushes    int
	cells      map[common.Position]common.Cell
	failWrite  error
	failFlush  error
	closed     bool
}

func newFakeScreen(cols, rows int) *fakeScreen {
	return &fakeScreen{cols: cols, rows: rows, cells: map[common.Position]common.Cell{}}
}

func (s *fakeScreen) Write(pos common.Position, cell common.Cell) error {
	if s.failWrite != nil {
		return s.failWrite
	}
	if pos.Col < 0 || pos.Col >= s.cols || pos.Row < 0 || pos.Row >= s.rows {
		return fmt.Errorf("write %s: %w", pos, common.ErrOutOfRange)
	}
	s.writes = append(s.writes, write{pos: pos, cell: cell})
	s.cells[pos] = cell
	return nil
}

func (s *fakeScreen) Flush() error {
	if s.failFlush != nil {
		return s.failFlush
	}
	s.flushes++
	return nil
}

func (s *fakeScreen) Size() (int, int) {
	return s.cols, s.rows
}

func (s *fakeScreen) Clear() error {
	s.cells = map[common.Position]common.Cell{}
	return nil
}

func (s *fakeScreen) SetCursorVisible(bool) error {
	return nil
}

func (s *fakeScreen) Close() error {
	s.closed = true
	return nil
}

func (s *fakeScreen) runeAt(col, row int) rune {
	return s.cells[common.Position{Col: col, Row: row}].Rune
}

// script is an InputSource replaying events, with an idle poll before each.
type script struct {
	mu     sync.Mutex
	events []common.Event
	idle   bool
	polls  int
	err    error
}

func keys(kinds ...common.EventKind) *script {
	s := &script{}
	for _, k := range kinds {
		s.events = append(s.events, common.Event{Kind: k})
	}
	return s
}

func (s *script) Poll() (common.Event, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++
	s.idle = !s.idle
	if s.idle {
		return common.Event{}, false, nil
	}
	if len(s.events) == 0 {
		if s.err != nil {
			return common.Event{}, false, s.err
		}
		return common.Event{}, false, nil
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, true, nil
}
