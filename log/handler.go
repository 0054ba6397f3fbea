package log

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"

	"github.com/holiman/uint256"
)

// DiscardHandler returns a handler that drops every record.
func DiscardHandler() slog.Handler { return discardHandler{} }

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }

// TerminalHandler writes records in a column aligned form meant for people
// at a terminal, optionally with the level colored:
//
//	INFO [10-16|14:02:11.214] rlp/decode.go:120 Decoded transaction  hash=0x3f..1c type=2
//
// It accepts every level; filtering is left to a wrapping GlogHandler.
type TerminalHandler struct {
	mu       *sync.Mutex
	wr       io.Writer
	useColor bool
	attrs    []slog.Attr
	group    string // dotted key prefix of WithGroup
}

// NewTerminalHandler returns a terminal handler writing to wr.
func NewTerminalHandler(wr io.Writer, useColor bool) *TerminalHandler {
	return &TerminalHandler{mu: new(sync.Mutex), wr: wr, useColor: useColor}
}

func (h *TerminalHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	buf := h.appendRecord(make([]byte, 0, 160), r)
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.wr.Write(buf)
	return err
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *h
	derived.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	derived.attrs = append(derived.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + a.Key
		}
		derived.attrs = append(derived.attrs, a)
	}
	return &derived
}

func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	derived := *h
	derived.group += name + "."
	return &derived
}

// JSONHandler returns a handler writing one JSON object per record.
func JSONHandler(wr io.Writer) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		Level:       levelMaxVerbosity,
		ReplaceAttr: machineAttr(false),
	})
}

// LogfmtHandler returns a handler writing records as logfmt key=value lines.
func LogfmtHandler(wr io.Writer) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		Level:       levelMaxVerbosity,
		ReplaceAttr: machineAttr(true),
	})
}

// machineAttr renames the built-in time and level keys to t and lvl and turns
// chain values (big integers, byte strings, stringers) into plain strings.
func machineAttr(logfmt bool) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 {
			switch a.Key {
			case slog.TimeKey:
				a.Key = "t"
			case slog.LevelKey:
				if l, ok := a.Value.Any().(slog.Level); ok {
					return slog.String("lvl", LevelString(l))
				}
			}
		}
		switch a.Value.Kind() {
		case slog.KindTime:
			if logfmt {
				a.Value = slog.StringValue(a.Value.Time().Format(timeFormat))
			}
			return a
		case slog.KindAny:
		default:
			return a
		}
		x := a.Value.Any()
		if isNilValue(x) {
			a.Value = slog.StringValue("<nil>")
			return a
		}
		switch x := x.(type) {
		case *big.Int:
			a.Value = slog.StringValue(x.String())
		case *uint256.Int:
			a.Value = slog.StringValue(x.Dec())
		case []byte:
			a.Value = slog.StringValue("0x" + hex.EncodeToString(x))
		case error:
		case fmt.Stringer:
			a.Value = slog.StringValue(x.String())
		}
		return a
	}
}
