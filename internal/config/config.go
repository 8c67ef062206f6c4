package config

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/viper"
	"github.td.teradata.com/sandbox/term-lessons/internal/log"
	"gopkg.in/yaml.v2"
)

const (
	defTerminalWidth  = 80
	defTerminalHeight = 24
	defBackend        = BackendANSI
	defBounds         = BoundsReject

	defLoopColumn       = 5
	defLoopRow          = 5
	defLoopGlyph        = "█"
	defLoopPollInterval = 5 * time.Millisecond

	defInputSource = InputTTY

	defSerialBaudRate  = 9600
	defSerialDataBits  = 8
	defSerialStopBits  = 1
	defMinimumReadSize = 1
	defSerialParity    = 0

	defLogLevel = "WARN"

	EnvVarPrefix = "TL"
)

const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"

	BoundsReject = "reject"
	BoundsClip   = "clip"
	BoundsWrap   = "wrap"

	InputTTY    = "tty"
	InputStdin  = "stdin"
	InputFile   = "file"
	InputSerial = "serial"
)

var CLIConfig *Config
var replacer = strings.NewReplacer(".", "_")

type Config struct {
	Terminal *Terminal `mapstructure:"terminal" yaml:"terminal"`
	Loop     *Loop     `mapstructure:"loop" yaml:"loop"`
	Input    *Input    `mapstructure:"input" yaml:"input"`
	Serial   *Serial   `mapstructure:"serial" yaml:"serial"`
	Log      *Log      `mapstructure:"log" yaml:"log"`
}

type Terminal struct {
	Width   int    `mapstructure:"width" yaml:"width"`
	Height  int    `mapstructure:"height" yaml:"height"`
	Backend string `mapstructure:"backend" yaml:"backend"`
	Bounds  string `mapstructure:"bounds" yaml:"bounds"`
}

type Loop struct {
	Column       int           `mapstructure:"column" yaml:"column"`
	Row          int           `mapstructure:"row" yaml:"row"`
	Glyph        string        `mapstructure:"glyph" yaml:"glyph"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

type Input struct {
	Source string `mapstructure:"source" yaml:"source"`
	File   string `mapstructure:"file" yaml:"file"`
}

type Serial struct {
	PortName        string `mapstructure:"port_name" yaml:"port_name"`
	BaudRate        int    `mapstructure:"baud_rate" yaml:"baud_rate"`
	DataBits        int    `mapstructure:"data_bits" yaml:"data_bits"`
	StopBits        int    `mapstructure:"stop_bits" yaml:"stop_bits"`
	Parity          int    `mapstructure:"parity" yaml:"parity"`
	MinimumReadSize int    `mapstructure:"minimum_read_size" yaml:"minimum_read_size"`
}

type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Terminal: &Terminal{
			Width:   defTerminalWidth,
			Height:  defTerminalHeight,
			Backend: defBackend,
			Bounds:  defBounds,
		},
		Loop: &Loop{
			Column:       defLoopColumn,
			Row:          defLoopRow,
			Glyph:        defLoopGlyph,
			PollInterval: defLoopPollInterval,
		},
		Input: &Input{
			Source: defInputSource,
		},
		Serial: &Serial{
			PortName:        "",
			BaudRate:        defSerialBaudRate,
			DataBits:        defSerialDataBits,
			StopBits:        defSerialStopBits,
			Parity:          defSerialParity,
			MinimumReadSize: defMinimumReadSize,
		},
		Log: &Log{
			Level: defLogLevel,
		},
	}
}

// NewConfig loads CLIConfig from the defaults, then cfgFile (if any), then
// TL_* environment variables.
func NewConfig(cfgFile string) error {
	c, err := Load(cfgFile)
	if err != nil {
		return err
	}
	CLIConfig = c
	return nil
}

func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	cfg := DefaultConfig()

	// Viper needs to know if a key exists in order to override it.
	// https://github.com/spf13/viper/issues/188
	if b, err := yaml.Marshal(DefaultConfig()); err != nil {
		return nil, err
	} else {
		v.SetConfigType("yaml")
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			return nil, err
		}
	}

	if cfgFile != "" {
		fi, err := os.Stat(cfgFile)
		switch {
		case err != nil:
			return nil, fmt.Errorf("config file [%s]: %w", cfgFile, err)
		case fi.IsDir():
			return nil, fmt.Errorf("config file [%s] points to a directory, not a file", cfgFile)
		}
		v.SetConfigFile(cfgFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("parse config file [%s]: %w", fi.Name(), err)
		}
	}

	// Use environment variables as final override
	v.AutomaticEnv()
	v.SetEnvPrefix(EnvVarPrefix)
	v.SetEnvKeyReplacer(replacer)

	// Preload environment bindings so they are processed on load
	bindVars(v, reflect.TypeOf(*cfg), "")
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerations and the loop glyph.
func (c *Config) Validate() error {
	if err := oneOf("terminal.backend", c.Terminal.Backend, BackendANSI, BackendTcell); err != nil {
		return err
	}
	if err := oneOf("terminal.bounds", c.Terminal.Bounds, BoundsReject, BoundsClip, BoundsWrap); err != nil {
		return err
	}
	if err := oneOf("input.source", c.Input.Source, InputTTY, InputStdin, InputFile, InputSerial); err != nil {
		return err
	}
	if c.Input.Source == InputFile && c.Input.File == "" {
		return fmt.Errorf("input.file is required when input.source is %q", InputFile)
	}
	if c.Input.Source == InputSerial && c.Serial.PortName == "" {
		return fmt.Errorf("serial.port_name is required when input.source is %q", InputSerial)
	}
	if c.Terminal.Width <= 0 || c.Terminal.Height <= 0 {
		return fmt.Errorf("terminal size must be positive, got %dx%d", c.Terminal.Width, c.Terminal.Height)
	}
	if c.Loop.PollInterval <= 0 {
		return fmt.Errorf("loop.poll_interval must be positive, got %s", c.Loop.PollInterval)
	}
	_, err := c.Loop.GlyphRune()
	return err
}

// GlyphRune returns the glyph as a single rune occupying one column.
func (l *Loop) GlyphRune() (rune, error) {
	if utf8.RuneCountInString(l.Glyph) != 1 {
		return 0, fmt.Errorf("loop.glyph must be a single character, got %q", l.Glyph)
	}
	r, _ := utf8.DecodeRuneInString(l.Glyph)
	if runewidth.RuneWidth(r) != 1 {
		return 0, fmt.Errorf("loop.glyph %q must occupy exactly one column", l.Glyph)
	}
	return r, nil
}

func oneOf(key string, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, "|"), value)
}

func bindVars(v *viper.Viper, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		tag = prefix + strings.ToUpper(tag)

		if field.Type.Kind() == reflect.Struct {
			bindVars(v, field.Type, tag+".")
		} else if field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct {
			bindVars(v, field.Type.Elem(), tag+".")
		} else {
			log.Debugf("Scanning for environment variable: %s_%s -> %s", EnvVarPrefix, replacer.Replace(tag), tag)
			if err := v.BindEnv(tag); err != nil {
				log.Warnf("Unable to bind to environment variable: %s. Error: %v", tag, err)
			}
		}
	}
}
