// Package log provides the leveled logging interface used throughout
// StreamLib's core: a small Logger interface plus a default
// implementation, so components never depend on a concrete logging
// library directly.
//
// # Log Levels
//
// Five levels, in order of increasing severity: LogLevelDebug,
// LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelNone (disables
// all output).
//
// # Basic Usage
//
//	logger := log.NewDefaultLogger(log.LogLevelInfo)
//	logger.Info("runtime starting: home=%s", home)
//	logger.Warn("rhi backend %q unavailable, falling back to %q", requested, fallback)
//
// # golog Integration
//
// Wrap an existing github.com/kataras/golog.Logger to get golog's
// formatting and output routing behind the same interface. WithComponent
// derives a tagged child adapter sharing the parent's backend and level:
//
//	glogger := golog.New()
//	logger := log.NewGologLogger(glogger)
//	compilerLog := logger.WithComponent("compiler")
//	compilerLog.Info("started runtime_id=%s", runtimeID)
//
// # Package-level default
//
// GetDefaultLogger/SetDefaultLogger manage one process-wide logger;
// compiler, rhi, and runtime all log through it rather than taking a
// Logger as a constructor argument, so a single SetDefaultLogger call
// at process start configures logging everywhere.
package log
