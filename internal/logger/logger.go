// Package logger wraps zerolog with the defaults used across starcleaner.
// The terminal belongs to the TUI, so output goes to a log file.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the root logger
type Options struct {
	Level  string
	Format string // "console" or "json"
	Writer io.Writer
}

// Logger is the project-wide logging type
type Logger = zerolog.Logger

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
	nop  = zerolog.Nop()
)

// Init builds the root logger, only the first call has an effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var w io.Writer = io.Discard
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format != "json" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
		}

		l := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp().Logger()
		root.Store(&l)
	})
}

// Get returns the root logger, or a disabled logger before Init
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	return &nop
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}

// OpenFile opens path for appending, creating parent directories
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// DefaultPath is <user cache dir>/starcleaner/starcleaner.log
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "starcleaner", "starcleaner.log")
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
