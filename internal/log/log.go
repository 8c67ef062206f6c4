package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LoggerConfigurator is a data structure used to configure a CoreLogger.
type LoggerConfigurator struct {
	Writer            io.Writer
	Level             string
	TimeFormatTempl   string
	CallerFormatTempl string
}

// NewLogConfigurator creates a LoggerConfigurator writing to standard error.
// Standard output belongs to the terminal surface.
func NewLogConfigurator(level string) *LoggerConfigurator {
	return &LoggerConfigurator{
		Writer:          os.Stderr,
		Level:           level,
		TimeFormatTempl: time.RFC3339 + " ",
	}
}

// OpenFile points the configurator at a log file, appending to it.
func (config *LoggerConfigurator) OpenFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	config.Writer = f
	return f, nil
}

// Output returns the log writer instance.
func (config *LoggerConfigurator) Output() io.Writer {
	return config.Writer
}

// LogLevel returns the log level.
func (config *LoggerConfigurator) LogLevel() string {
	return config.Level
}

// TimestampFormat returns the log timestamp format.
func (config *LoggerConfigurator) TimestampFormat() string {
	return config.TimeFormatTempl
}

// CallerFormat returns the log caller format template.
func (config *LoggerConfigurator) CallerFormat() string {
	return config.CallerFormatTempl
}

// Level is the logging level.
type Level int

const (
	// DEBUG level for developer information
	DEBUG Level = iota - 1
	// INFO level for state and status
	INFO
	// WARN level for possible issues
	WARN
	// ERROR level for errors
	ERROR
	// FATAL level for unrecoverable errors that stop the process.
	FATAL
)

// String returns an upper case string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return fmt.Sprintf("Level(%d)", l)
	}
}

// PaddedString returns a five character upper case representation of the log level
func (l Level) PaddedString() string {
	s := l.String()
	if len(s) < 5 {
		s += strings.Repeat(" ", 5-len(s))
	}
	return s
}

// UnmarshalText converts a slice of characters to a Level
func (l *Level) UnmarshalText(text []byte) bool {
	switch strings.TrimSpace(string(bytes.ToUpper(text))) {
	case "DEBUG":
		*l = DEBUG
	case "INFO", "":
		*l = INFO
	case "WARN":
		*l = WARN
	case "ERROR":
		*l = ERROR
	case "FATAL":
		*l = FATAL
	default:
		return false
	}
	return true
}

// CoreLogger implements logging
type CoreLogger struct {
	mu              sync.Mutex
	level           Level
	writer          io.Writer
	timestampFormat string
	callerFormat    string
}

var defaultLogger *CoreLogger
var defaultOnce sync.Once

// TerminateFunc defines logic for termination of fatal log messages.
var TerminateFunc = terminate

// Configurator has methods to fetch the logging configuration values
type Configurator interface {
	LogLevel() string
	Output() io.Writer
	TimestampFormat() string
	CallerFormat() string
}

// New creates a new logger using default settings.
// Standard error, INFO level, timestamping and file:line reporting
func New() *CoreLogger {
	return &CoreLogger{
		level:           INFO,
		writer:          os.Stderr,
		timestampFormat: "01-02 15:04:05.000 ",
		callerFormat:    " %20.20s:%03d - ",
	}
}

// GetDefaultLogger returns the default logger implementation.
func GetDefaultLogger() *CoreLogger {
	defaultOnce.Do(func() {
		defaultLogger = New()
	})
	return defaultLogger
}

// Perform the actual logging routine
func (c *CoreLogger) log(level Level, format string, args []interface{}, callDepth int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if level < c.level {
		return
	}

	if callDepth < 0 {
		callDepth = 2
	}
	_, file, line, ok := runtime.Caller(callDepth)
	if !ok {
		file = "???"
		line = 0
	} else {
		file = filepath.Base(file)
	}

	var msg string
	if format == "" {
		msg = fmt.Sprint(args...)
	} else {
		msg = fmt.Sprintf(format, args...)
	}

	var b strings.Builder
	b.WriteString(time.Now().Format(c.timestampFormat))
	b.WriteString(level.PaddedString())
	_, _ = fmt.Fprintf(&b, c.callerFormat, file, line)
	b.WriteString(msg)
	b.WriteString("\n")
	_, _ = io.WriteString(c.writer, b.String())
}

// Replaceable termination logic for testing fatal errors
func terminate() {
	os.Exit(1)
}

// Fatalf logs a formatted message at FATAL level and then calls TerminateFunc.
func (c *CoreLogger) Fatalf(format string, args ...interface{}) {
	c.log(FATAL, format, args, -1)
	TerminateFunc()
}

// SetOutput sets the io.Writer to which all future log messages will be written.
func (c *CoreLogger) SetOutput(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer = w
}

// Writer returns the log writer.
func (c *CoreLogger) Writer() io.Writer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writer
}

// Setup is called to configure a custom logger implementation. If
// it is not called, the default configuration will log at INFO level
// to standard error.
func (c *CoreLogger) Setup(config Configurator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level.UnmarshalText([]byte(config.LogLevel()))
	if writer := config.Output(); writer != nil {
		c.writer = writer
	}
	if f := config.TimestampFormat(); f != "" {
		c.timestampFormat = f
	}
	if f := config.CallerFormat(); f != "" {
		c.callerFormat = f
	}
}

// SetLogLevel sets a filter on the minimum level of messages that will be logged.
func (c *CoreLogger) SetLogLevel(level Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = level
}

// GetLogLevel gets the current log level.
func (c *CoreLogger) GetLogLevel() Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

func (c *CoreLogger) Debug(args ...interface{}) {
	c.log(DEBUG, "", args, -1)
}

func (c *CoreLogger) Debugf(format string, args ...interface{}) {
	c.log(DEBUG, format, args, -1)
}

func (c *CoreLogger) Info(args ...interface{}) {
	c.log(INFO, "", args, -1)
}

func (c *CoreLogger) Infof(format string, args ...interface{}) {
	c.log(INFO, format, args, -1)
}

func (c *CoreLogger) Warnf(format string, args ...interface{}) {
	c.log(WARN, format, args, -1)
}

func (c *CoreLogger) Errorf(format string, args ...interface{}) {
	c.log(ERROR, format, args, -1)
}

// *************************************************************
// Package level methods working on the default logger.

// Fatalf logs a formatted message at FATAL level and then calls TerminateFunc.
func Fatalf(format string, args ...interface{}) {
	GetDefaultLogger().log(FATAL, format, args, -1)
	TerminateFunc()
}

// SetOutput sets the io.Writer of the default logger.
func SetOutput(w io.Writer) {
	GetDefaultLogger().SetOutput(w)
}

// Setup is optionally called to configure the default logger. If
// it is not called, it logs at INFO level to standard error.
func Setup(config Configurator) {
	GetDefaultLogger().Setup(config)
}

// SetLogLevel sets the minimum level of the default logger.
func SetLogLevel(level Level) {
	GetDefaultLogger().SetLogLevel(level)
}

// GetLogLevel get the log level of the default logger.
func GetLogLevel() Level {
	return GetDefaultLogger().GetLogLevel()
}

// Debug logs a message at DEBUG level.
func Debug(args ...interface{}) {
	GetDefaultLogger().log(DEBUG, "", args, -1)
}

// Debugf logs a formatted message at DEBUG level.
func Debugf(format string, args ...interface{}) {
	GetDefaultLogger().log(DEBUG, format, args, -1)
}

// Info logs a message at INFO level.
func Info(args ...interface{}) {
	GetDefaultLogger().log(INFO, "", args, -1)
}

// Infof logs a formatted message at INFO level.
func Infof(format string, args ...interface{}) {
	GetDefaultLogger().log(INFO, format, args, -1)
}

// Warnf logs a formatted message at WARN level.
func Warnf(format string, args ...interface{}) {
	GetDefaultLogger().log(WARN, format, args, -1)
}

// Errorf logs a formatted message at ERROR level.
func Errorf(format string, args ...interface{}) {
	GetDefaultLogger().log(ERROR, format, args, -1)
}
