package logsink

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the diagnostics logger. Nil restores silence.
// The terminal UI owns stdout, so callers normally point this at a file.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the diagnostics logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func level(s Severity) slog.Level {
	switch s {
	case Warning:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logEvent(e Event) {
	l := Logger()
	lv := level(e.Severity)
	if !l.Enabled(context.Background(), lv) {
		return
	}
	l.Log(context.Background(), lv, e.Message, "severity", e.Severity.String())
}
