package utils

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record and reports itself disabled, so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var (
	loggerPtr atomic.Pointer[slog.Logger]
	nopLogger = slog.New(nopHandler{})
)

// SetLogger installs the logger used by the operator, heat and geodesic packages.
// Nothing is logged until it is called; passing nil restores the silent default.
//
// Levels in use:
//   - [slog.LevelDebug]: operator consistency residuals, solver iteration counts
//   - [slog.LevelWarn]: degenerate faces skipped during assembly, heat that never reached part of a mesh
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = nopLogger
	}
	loggerPtr.Store(l)
}

// Logger returns the active logger, never nil
func Logger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return nopLogger
}
