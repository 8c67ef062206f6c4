package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.td.teradata.com/sandbox/term-lessons/internal/config"
	"github.td.teradata.com/sandbox/term-lessons/internal/driver"
)

func TestApplyOverrides(t *testing.T) {
	c := lessonCommand("move", driver.Lessons["move"])
	require.NoError(t, c.Flags().Set("glyph", "@"))
	require.NoError(t, c.Flags().Set("col", "0"))
	overrides.backend = config.BackendTcell
	defer func() { overrides.backend, overrides.glyph = "", "" }()

	cfg := config.DefaultConfig()
	applyOverrides(c, cfg)

	assert.Equal(t, config.BackendTcell, cfg.Terminal.Backend)
	assert.Equal(t, "@", cfg.Loop.Glyph)
	assert.Equal(t, 0, cfg.Loop.Column)
	assert.Equal(t, 5, cfg.Loop.Row)
	assert.Equal(t, config.BoundsReject, cfg.Terminal.Bounds)
}

func TestLessonCommands(t *testing.T) {
	for name := range driver.Lessons {
		c := lessonCommand(name, driver.Lessons[name])
		assert.Equal(t, name, c.Use)
		assert.NotEmpty(t, c.Short, name)
		assert.Equal(t, name == "move", c.Flags().Lookup("glyph") != nil, name)
	}
}
