package display

import (
	"fmt"

	"github.td.teradata.com/sandbox/term-lessons/internal/config"
	"github.td.teradata.com/sandbox/term-lessons/internal/services/common"
)

// Bounded applies a bounds policy to writes before they reach the wrapped
// screen. With BoundsReject writes pass through unchanged and the screen
// reports ErrOutOfRange itself.
type Bounded struct {
	common.Screen
	policy string
}

func NewBounded(screen common.Screen, policy string) (common.Screen, error) {
	switch policy {
	case config.BoundsReject:
		return screen, nil
	case config.BoundsClip, config.BoundsWrap:
		return &Bounded{Screen: screen, policy: policy}, nil
	default:
		return nil, fmt.Errorf("unknown bounds policy %q", policy)
	}
}

func (b *Bounded) Write(pos common.Position, cell common.Cell) error {
	cols, rows := b.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}
	if b.policy == config.BoundsWrap {
		pos = common.Position{Col: wrap(pos.Col, cols), Row: wrap(pos.Row, rows)}
	} else if pos.Col < 0 || pos.Col >= cols || pos.Row < 0 || pos.Row >= rows {
		return nil
	}
	return b.Screen.Write(pos, cell)
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
