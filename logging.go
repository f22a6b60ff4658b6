package camrig

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger is a zerolog-backed Logger.
type DefaultLogger struct {
	mu    sync.Mutex
	level zerolog.Level
	base  zerolog.Logger
}

// NewDefaultLogger writes human readable lines to stderr.
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	return NewLogger(out, prefix, levelFor(debug))
}

func NewLogger(w io.Writer, prefix string, level zerolog.Level) *DefaultLogger {
	ctx := zerolog.New(w).With().Timestamp()
	if prefix != "" {
		ctx = ctx.Str("component", prefix)
	}
	return &DefaultLogger{base: ctx.Logger(), level: level}
}

// With returns a logger carrying an extra field on every line.
func (l *DefaultLogger) With(key string, value any) *DefaultLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &DefaultLogger{
		level: l.level,
		base:  l.base.With().Interface(key, value).Logger(),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level <= zerolog.DebugLevel
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.level = levelFor(enabled)
	l.mu.Unlock()
}

func levelFor(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func (l *DefaultLogger) logger() zerolog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.base.Level(l.level)
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	lg := l.logger()
	lg.Debug().Msg(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	lg := l.logger()
	lg.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	lg := l.logger()
	lg.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	lg := l.logger()
	lg.Error().Msg(fmt.Sprintf(format, args...))
}

// LoggingModule installs a default logger as a resource. Level accepts the
// zerolog level names; an empty or unknown level means info.
type LoggingModule struct {
	Prefix string
	Level  string
	Logger *DefaultLogger
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	logger := m.Logger
	if logger == nil {
		logger = NewDefaultLogger(m.Prefix, false)
	}
	if lvl, err := zerolog.ParseLevel(m.Level); err == nil && lvl != zerolog.NoLevel {
		logger.mu.Lock()
		logger.level = lvl
		logger.mu.Unlock()
	}
	app.addResources(logger)
}

// Nop logger and App helper accessor

type nopLogger struct{}

func NewNopLogger() Logger                              { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// Logger returns the first Logger resource if present, otherwise a no-op logger.
// Safe to call at any time; never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
