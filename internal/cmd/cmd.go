package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.td.teradata.com/sandbox/term-lessons/internal/config"
	"github.td.teradata.com/sandbox/term-lessons/internal/driver"
	"github.td.teradata.com/sandbox/term-lessons/internal/log"
)

var cfgFile string

// overrides holds flag values that take precedence over the config file.
var overrides struct {
	backend   string
	bounds    string
	input     string
	inputFile string
	glyph     string
	column    int
	row       int
	logLevel  string
}

var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:           "lessons",
	Short:         "lessons walks through writing to and reading from a terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfigE(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

var lessonHelp = map[string]string{
	"put":    "write characters at fixed coordinates",
	"read":   "print every key read from the terminal",
	"move":   "move a glyph with the arrow keys",
	"colors": "write colored, bold and blinking text",
	"random": "paint a board of random colors on every key",
}

// Execute bootstraps the cobra command tree
func Execute() error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "configuration file for lessons")
	flags.StringVarP(&overrides.backend, "backend", "b", "", "terminal backend: ansi|tcell")
	flags.StringVar(&overrides.bounds, "bounds", "", "out of range writes: reject|clip|wrap")
	flags.StringVarP(&overrides.input, "input", "i", "", "input source: tty|stdin|file|serial")
	flags.StringVar(&overrides.inputFile, "input-file", "", "file to read keys from when --input=file")
	flags.StringVarP(&overrides.logLevel, "log-level", "l", "", "log level: DEBUG|INFO|WARN|ERROR")

	names := make([]string, 0, len(driver.Lessons))
	for name := range driver.Lessons {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rootCmd.AddCommand(lessonCommand(name, driver.Lessons[name]))
	}
	return rootCmd.Execute()
}

func lessonCommand(name string, lesson driver.Lesson) *cobra.Command {
	c := &cobra.Command{
		Use:   name,
		Short: lessonHelp[name],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLesson(name, lesson)
		},
	}
	if name == "move" {
		c.Flags().StringVarP(&overrides.glyph, "glyph", "g", "", "character to move around")
		c.Flags().IntVar(&overrides.column, "col", -1, "starting column")
		c.Flags().IntVar(&overrides.row, "row", -1, "starting row")
	}
	return c
}

func runLesson(name string, lesson driver.Lesson) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := driver.New(config.CLIConfig)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, d.Close())
		if err == nil {
			_, _ = color.New(color.FgGreen).Println("DONE!")
		}
	}()

	log.Infof("Starting lesson %s", name)
	if err := lesson(d, ctx); err != nil {
		return fmt.Errorf("lesson %s: %w", name, err)
	}
	return nil
}

func initConfigE(cmd *cobra.Command) error {
	if err := config.NewConfig(cfgFile); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.CLIConfig
	applyOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	lc := log.NewLogConfigurator(cfg.Log.Level)
	if cfg.Log.File != "" {
		closer, err := lc.OpenFile(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logCloser = closer
	}
	log.Setup(lc)
	return nil
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Terminal.Backend, overrides.backend)
	set(&cfg.Terminal.Bounds, overrides.bounds)
	set(&cfg.Input.Source, overrides.input)
	set(&cfg.Input.File, overrides.inputFile)
	set(&cfg.Log.Level, overrides.logLevel)
	set(&cfg.Loop.Glyph, overrides.glyph)
	if cmd.Flags().Changed("col") {
		cfg.Loop.Column = overrides.column
	}
	if cmd.Flags().Changed("row") {
		cfg.Loop.Row = overrides.row
	}
}

// ReportError prints err in red on standard error.
func ReportError(err error) {
	_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
}
