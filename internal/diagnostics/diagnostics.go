// Package diagnostics writes CLEO's own process diagnostics (one
// structured line per dispatched operation) to a size-rotated log
// file under the project's .cleo/ directory, independent of the
// domain audit log (todo-log.json) that records task mutations for
// users (spec.md §4.J: "the process exit code mirrors the envelope";
// this is the operator-facing trace behind that exit code).
//
// Grounded on the teacher's go.mod, which already declares
// gopkg.in/natefinch/lumberjack.v2 for rotating its own logs; wired
// here via the standard lumberjack.Logger-as-io.Writer pattern feeding
// log/slog, since nothing in the teacher's surviving code used it.
package diagnostics

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.Mutex
	logger *slog.Logger
)

// Init opens path for rotated diagnostic logging. Subsequent calls
// replace the active logger; an empty path disables diagnostics
// entirely (logger stays nil and every log call becomes a no-op).
// debug, when true, lowers the level to slog.LevelDebug so Debugf
// lines are written too.
func Init(path string, debug bool) {
	mu.Lock()
	defer mu.Unlock()

	if path == "" {
		logger = nil
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewJSONHandler(io.Writer(rotator), &slog.HandlerOptions{Level: level}))
}

// Operation records one dispatched gateway operation's outcome.
func Operation(ctx context.Context, domain, name string, durationMS int64, success bool, errCode string) {
	l := current()
	if l == nil {
		return
	}
	attrs := []any{
		slog.String("domain", domain),
		slog.String("operation", name),
		slog.Int64("durationMs", durationMS),
		slog.Bool("success", success),
	}
	if errCode != "" {
		attrs = append(attrs, slog.String("errorCode", errCode))
	}
	l.InfoContext(ctx, "dispatch", attrs...)
}

// Debugf records a free-form debug line, dropped entirely unless Init
// was called with debug=true.
func Debugf(ctx context.Context, msg string, args ...any) {
	l := current()
	if l == nil {
		return
	}
	l.DebugContext(ctx, msg, args...)
}

func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}
