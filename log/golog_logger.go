package log

import (
	"fmt"

	"github.com/kataras/golog"
)

// gologLevelNames maps a LogLevel to the string golog.SetLevel expects.
var gologLevelNames = map[LogLevel]string{
	LogLevelDebug: "debug",
	LogLevelInfo:  "info",
	LogLevelWarn:  "warn",
	LogLevelError: "error",
	LogLevelNone:  "disable",
}

// GologAdapter bridges Logger onto github.com/kataras/golog, so
// StreamLib's log output can be routed through golog's handlers
// (JSON, file rotation, syslog, …) without the rest of the codebase
// importing golog directly.
type GologAdapter struct {
	backend   *golog.Logger
	level     LogLevel
	component string
}

var _ Logger = (*GologAdapter)(nil)

// NewGologLogger wraps an existing golog.Logger, defaulting to
// LogLevelInfo until SetLevel is called.
func NewGologLogger(backend *golog.Logger) *GologAdapter {
	return &GologAdapter{backend: backend, level: LogLevelInfo}
}

// WithComponent returns an adapter that prefixes every message with
// "[component] ", sharing the same golog backend and level. Used to
// tag log lines by subsystem (e.g. "compiler", "rhi") without each
// call site formatting its own prefix.
func (l *GologAdapter) WithComponent(component string) *GologAdapter {
	return &GologAdapter{backend: l.backend, level: l.level, component: component}
}

func (l *GologAdapter) tag(format string) string {
	if l.component == "" {
		return format
	}
	return fmt.Sprintf("[%s] %s", l.component, format)
}

func (l *GologAdapter) Debug(format string, v ...any) {
	if l.level <= LogLevelDebug {
		l.backend.Debugf(l.tag(format), v...)
	}
}

func (l *GologAdapter) Info(format string, v ...any) {
	if l.level <= LogLevelInfo {
		l.backend.Infof(l.tag(format), v...)
	}
}

func (l *GologAdapter) Warn(format string, v ...any) {
	if l.level <= LogLevelWarn {
		l.backend.Warnf(l.tag(format), v...)
	}
}

func (l *GologAdapter) Error(format string, v ...any) {
	if l.level <= LogLevelError {
		l.backend.Errorf(l.tag(format), v...)
	}
}

// SetLevel sets both the adapter's own gate and the underlying golog
// backend's level, so output honors whichever is more restrictive.
func (l *GologAdapter) SetLevel(level LogLevel) {
	l.level = level
	name, ok := gologLevelNames[level]
	if !ok {
		name = "info"
	}
	l.backend.SetLevel(name)
}

// GetLevel returns the adapter's current threshold.
func (l *GologAdapter) GetLevel() LogLevel {
	return l.level
}
