package log

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
)

// A Logger emits leveled records whose context is given as alternating keys
// and values.
type Logger interface {
	// With returns a Logger that adds ctx to every record.
	With(ctx ...any) Logger

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)

	// Enabled reports whether records at level would be emitted.
	Enabled(ctx context.Context, level slog.Level) bool

	// Handler returns the handler records are passed to.
	Handler() slog.Handler

	write(level slog.Level, msg string, ctx []any)
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a Logger writing to h.
func NewLogger(h slog.Handler) Logger {
	return &logger{slog.New(h)}
}

func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

func (l *logger) With(ctx ...any) Logger { return &logger{l.inner.With(ctx...)} }

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx) }

// write builds the record. Every public entry point calls it directly, so the
// caller of that entry point is always three frames up.
func (l *logger) write(level slog.Level, msg string, ctx []any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	var pc [1]uintptr
	runtime.Callers(3, pc[:])

	if len(ctx)%2 == 1 {
		ctx = append(ctx[:len(ctx):len(ctx)], "<missing>")
	}
	r := slog.NewRecord(time.Now(), level, msg, pc[0])
	r.Add(ctx...)
	l.inner.Handler().Handle(context.Background(), r)
}

// root is the package level logger. Libraries stay silent until a program
// installs a handler.
var root atomic.Value

func init() {
	root.Store(NewLogger(DiscardHandler()))
}

// SetDefault replaces the package level logger. It also becomes the slog
// default so records from plain slog calls share its handler.
func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the package level logger.
func Root() Logger {
	return root.Load().(Logger)
}

func Trace(msg string, ctx ...any) { Root().write(LevelTrace, msg, ctx) }
func Debug(msg string, ctx ...any) { Root().write(LevelDebug, msg, ctx) }
func Info(msg string, ctx ...any)  { Root().write(LevelInfo, msg, ctx) }
func Warn(msg string, ctx ...any)  { Root().write(LevelWarn, msg, ctx) }
func Error(msg string, ctx ...any) { Root().write(LevelError, msg, ctx) }

// New returns the package level logger extended with ctx.
func New(ctx ...any) Logger {
	return Root().With(ctx...)
}
