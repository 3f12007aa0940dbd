// Package logger builds the zerolog loggers shared by the server and the
// terminal UI, with optional size-rotated file output.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/reelscout/reelscout/internal/config"
)

// FileName is the name of the active log file inside Config.Path.
const FileName = "reelscout.log"

// Rotation defaults applied when the config leaves them unset.
const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 5
	defaultMaxAgeDays = 30
)

// Logger wraps zerolog for application logging.
type Logger struct {
	zerolog.Logger
	rotator *lumberjack.Logger
}

// Config holds logger configuration.
type Config struct {
	Level      string
	Format     string // "console" or "json"
	Path       string // directory for log files, console only when empty
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Debug forces at least debug level.
	Debug bool
	// FileOnly keeps the console quiet, for programs that own the terminal.
	FileOnly bool
	// Output is the console destination, os.Stdout when nil.
	Output io.Writer
}

// ConfigFrom maps the logging section of the application config. Developer
// mode turns on debug logging.
func ConfigFrom(c config.LoggingConfig, developerMode bool) Config {
	return Config{
		Level:      c.Level,
		Format:     c.Format,
		Path:       c.Path,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Debug:      developerMode,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = defaultMaxSizeMB
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = defaultMaxBackups
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = defaultMaxAgeDays
	}
	if c.Output == nil {
		c.Output = os.Stdout
	}
	return c
}

// isDevBuild reports whether the binary was started with "go run", whose
// executables live under a go-build temp directory.
var isDevBuild = func() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return strings.Contains(exe, "go-build")
}

// New creates a logger. Dev builds and Config.Debug log at debug level unless
// trace is configured. A log directory that cannot be created falls back to
// console output with a warning.
func New(cfg Config) *Logger {
	cfg = cfg.withDefaults()

	level := ParseLevel(cfg.Level)
	if (cfg.Debug || isDevBuild()) && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	var writers []io.Writer
	if !cfg.FileOnly {
		writers = append(writers, consoleWriter(cfg))
	}

	rotator, dirErr := newRotator(cfg)
	if rotator != nil {
		writers = append(writers, rotator)
	}

	var output io.Writer
	switch len(writers) {
	case 0:
		output = io.Discard
	case 1:
		output = writers[0]
	default:
		output = io.MultiWriter(writers...)
	}

	l := &Logger{
		Logger:  zerolog.New(output).Level(level).With().Timestamp().Logger(),
		rotator: rotator,
	}
	if dirErr != nil {
		l.Warn().Err(dirErr).Str("path", cfg.Path).Msg("Log directory unavailable, file logging disabled")
	}
	return l
}

func consoleWriter(cfg Config) io.Writer {
	if cfg.Format == "json" {
		return cfg.Output
	}
	return zerolog.ConsoleWriter{
		Out:        cfg.Output,
		TimeFormat: time.RFC3339,
	}
}

// newRotator returns nil without error when file logging is off.
func newRotator(cfg Config) (*lumberjack.Logger, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Path, FileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}, nil
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}

// ParseLevel converts a config level to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithComponent returns a child logger tagged with component. It shares the
// parent's log file, so closing either closes both.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:  l.Logger.With().Str("component", component).Logger(),
		rotator: l.rotator,
	}
}

// FilePath returns the active log file, or "" when no file is written.
func (l *Logger) FilePath() string {
	if l.rotator == nil {
		return ""
	}
	return l.rotator.Filename
}
