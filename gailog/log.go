// Package gailog provides the structured logging surface used by the root
// client package; adapter packages do not log. It wraps goa.design/clue/log so callers
// keep the same context-carried logger/debug/format conventions the rest
// of the ecosystem uses, without pulling in clue's metrics or tracing
// surface (this module carries no metrics/tracing stack; see the design
// notes for why).
package gailog

import (
	"context"

	"goa.design/clue/log"
)

// Logger is the structured logging interface the client accepts (see
// WithLogger). Keyvals are alternating key/value pairs, following clue's
// convention.
type Logger interface {
	Debug(ctx context.Context, msg string, keyvals ...any)
	Info(ctx context.Context, msg string, keyvals ...any)
	Warn(ctx context.Context, msg string, keyvals ...any)
	Error(ctx context.Context, msg string, keyvals ...any)
}

// ClueLogger delegates to goa.design/clue/log. The zero value is ready to
// use; clue reads formatting/debug settings off the context (set via
// log.Context and log.WithFormat/log.WithDebug in the caller's process
// setup).
type ClueLogger struct{}

// NewClueLogger constructs a Logger backed by goa.design/clue/log.
func NewClueLogger() Logger { return ClueLogger{} }

// Debug emits a debug-level log entry with structured key-value pairs.
func (ClueLogger) Debug(ctx context.Context, msg string, keyvals ...any) {
	log.Debug(ctx, fielders(msg, keyvals)...)
}

// Info emits an info-level log entry with structured key-value pairs.
func (ClueLogger) Info(ctx context.Context, msg string, keyvals ...any) {
	log.Info(ctx, fielders(msg, keyvals)...)
}

// Warn emits a warning-level log entry with structured key-value pairs.
func (ClueLogger) Warn(ctx context.Context, msg string, keyvals ...any) {
	fs := append([]log.Fielder{log.KV{K: "severity", V: "warning"}}, fielders(msg, keyvals)...)
	log.Warn(ctx, fs...)
}

// Error emits an error-level log entry with structured key-value pairs.
// The logged error itself is nil here; callers that have an error value
// pass it via a "err" keyval, matching clue's convention of treating err as
// just another field.
func (ClueLogger) Error(ctx context.Context, msg string, keyvals ...any) {
	log.Error(ctx, nil, fielders(msg, keyvals)...)
}

func fielders(msg string, keyvals []any) []log.Fielder {
	fs := make([]log.Fielder, 0, 1+len(keyvals)/2)
	fs = append(fs, log.KV{K: "msg", V: msg})
	for i := 0; i < len(keyvals); i += 2 {
		k, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		var v any
		if i+1 < len(keyvals) {
			v = keyvals[i+1]
		}
		fs = append(fs, log.KV{K: k, V: v})
	}
	return fs
}
