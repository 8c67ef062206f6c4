package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lessons.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 5*time.Millisecond, cfg.Loop.PollInterval)
	assert.Equal(t, "█", cfg.Loop.Glyph)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
terminal:
  backend: tcell
  bounds: wrap
loop:
  column: 1
  row: 2
  glyph: "@"
  poll_interval: 10ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendTcell, cfg.Terminal.Backend)
	assert.Equal(t, BoundsWrap, cfg.Terminal.Bounds)
	assert.Equal(t, 80, cfg.Terminal.Width)
	assert.Equal(t, 1, cfg.Loop.Column)
	assert.Equal(t, 2, cfg.Loop.Row)
	assert.Equal(t, "@", cfg.Loop.Glyph)
	assert.Equal(t, 10*time.Millisecond, cfg.Loop.PollInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "loop:\n  glyph: \"@\"\n")
	t.Setenv("TL_LOOP_GLYPH", "#")
	t.Setenv("TL_LOG_LEVEL", "DEBUG")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "#", cfg.Loop.Glyph)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"backend", func(c *Config) { c.Terminal.Backend = "curses" }},
		{"bounds", func(c *Config) { c.Terminal.Bounds = "bounce" }},
		{"input", func(c *Config) { c.Input.Source = "mouse" }},
		{"file without path", func(c *Config) { c.Input.Source = InputFile }},
		{"serial without port", func(c *Config) { c.Input.Source = InputSerial }},
		{"size", func(c *Config) { c.Terminal.Width = 0 }},
		{"interval", func(c *Config) { c.Loop.PollInterval = 0 }},
		{"empty glyph", func(c *Config) { c.Loop.Glyph = "" }},
		{"two glyphs", func(c *Config) { c.Loop.Glyph = "ab" }},
		{"wide glyph", func(c *Config) { c.Loop.Glyph = "世" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}

func TestGlyphRune(t *testing.T) {
	r, err := (&Loop{Glyph: "█"}).GlyphRune()
	require.NoError(t, err)
	assert.Equal(t, '█', r)
}
