package log

import (
	"bytes"
	"errors"
	"log/slog"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/holiman/uint256"
)

func TestTerminalHandlerFormat(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(NewTerminalHandler(out, false))
	l.Info("decoded", "type", 2, "value", big.NewInt(1000000), "note", "with space")

	got := out.String()
	if !strings.HasPrefix(got, "INFO [") {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if !strings.Contains(got, "log/logger_test.go:") {
		t.Errorf("call site missing: %q", got)
	}
	for _, want := range []string{"type=2", "value=1,000,000", `note="with space"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("output not newline terminated: %q", got)
	}
}

func TestTerminalHandlerGroups(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(NewTerminalHandler(out, false).WithGroup("tx").WithAttrs([]slog.Attr{slog.Int("type", 2)}))
	l.Warn("signed", "raw", []byte{0xde, 0xad}, slog.Group("sig", "v", 1))
	l.Info("odd", "key")

	got := out.String()
	for _, want := range []string{"WARN [", "tx.type=2", "tx.raw=0xdead", "tx.sig.v=1", "tx.key=<missing>"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestTerminalHandlerColor(t *testing.T) {
	out := new(bytes.Buffer)
	NewLogger(NewTerminalHandler(out, true)).Error("failed", "k", "v")
	if got := out.String(); !strings.HasPrefix(got, "\x1b[31mERROR\x1b[0m[") || !strings.Contains(got, "\x1b[31mk\x1b[0m=v") {
		t.Errorf("unexpected colored output %q", got)
	}
}

func TestLogfmtHandler(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(LogfmtHandler(out))
	l.With("component", "rlp").Debug("split", "size", uint256.NewInt(7), "n", (*big.Int)(nil))

	got := out.String()
	for _, want := range []string{"lvl=debug", `msg=split`, "component=rlp", "size=7", "n=<nil>", "t="} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestJSONHandler(t *testing.T) {
	out := new(bytes.Buffer)
	glog := NewGlogHandler(JSONHandler(out))
	glog.Verbosity(LevelInfo)
	l := NewLogger(glog)
	l.Debug("dropped")
	l.Error("failed", "err", errors.New("boom"), "data", []byte{1, 2})

	got := out.String()
	if strings.Contains(got, "dropped") {
		t.Errorf("debug record was not filtered: %q", got)
	}
	for _, want := range []string{`"lvl":"error"`, `"msg":"failed"`, `"err":"boom"`, `"data":"0x0102"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestGlogVerbosity(t *testing.T) {
	out := new(bytes.Buffer)
	glog := NewGlogHandler(LogfmtHandler(out))
	glog.Verbosity(LevelInfo)
	l := NewLogger(glog)

	l.Debug("quiet")
	if out.Len() != 0 {
		t.Fatalf("debug record leaked: %q", out.String())
	}
	if err := glog.Vmodule("logger_test.go=4"); err != nil {
		t.Fatal(err)
	}
	l.Debug("loud")
	if !strings.Contains(out.String(), "loud") {
		t.Fatalf("vmodule override ignored: %q", out.String())
	}
	l.Trace("too loud")
	if strings.Contains(out.String(), "too loud") {
		t.Fatalf("trace record leaked: %q", out.String())
	}
}

func TestGlogVmoduleSyntax(t *testing.T) {
	glog := NewGlogHandler(DiscardHandler())
	for _, rule := range []string{"abc", "a=b", "=3", "a=3=4", "x.go="} {
		if err := glog.Vmodule(rule); err != errVmoduleSyntax {
			t.Errorf("rule %q: have %v, want %v", rule, err, errVmoduleSyntax)
		}
	}
	if err := glog.Vmodule("rlp=5,accounts/*=4,"); err != nil {
		t.Errorf("valid rules rejected: %v", err)
	}
}

func TestCompileVmodule(t *testing.T) {
	tests := []struct {
		rule  string
		path  string
		match bool
	}{
		{"decode.go", "+/src/rlp/decode.go", true},
		{"decode.go", "+/src/rlp/encode.go", false},
		{"rlp", "+/src/rlp/decode.go", true},
		{"rlp", "+/src/rlp/internal/x.go", false},
		{"accounts/*", "+/src/accounts/abi/pack.go", true},
		{"accounts/*", "+/src/core/types/tx.go", false},
	}
	for _, tt := range tests {
		if have := compileVmodule(tt.rule).MatchString(tt.path); have != tt.match {
			t.Errorf("%s ~ %s: have %v, want %v", tt.rule, tt.path, have, tt.match)
		}
	}
}

func TestFromLegacyLevel(t *testing.T) {
	tests := map[int]slog.Level{
		-1: LevelCrit,
		0:  LevelCrit,
		1:  LevelError,
		2:  LevelWarn,
		3:  LevelInfo,
		4:  LevelDebug,
		5:  LevelTrace,
		9:  LevelTrace,
	}
	for in, want := range tests {
		if have := FromLegacyLevel(in); have != want {
			t.Errorf("level %d: have %v, want %v", in, have, want)
		}
	}
}

func TestNumberSeparators(t *testing.T) {
	huge, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
	tests := []struct {
		have slog.Value
		want string
	}{
		{slog.Uint64Value(99999), "99999"},
		{slog.Uint64Value(100000), "100,000"},
		{slog.Int64Value(-1234567), "-1,234,567"},
		{slog.Uint64Value(18446744073709551615), "18,446,744,073,709,551,615"},
		{slog.AnyValue(huge), "-123,456,789,012,345,678,901,234,567,890"},
		{slog.AnyValue(new(uint256.Int).Lsh(uint256.NewInt(1), 64)), "18,446,744,073,709,551,616"},
		{slog.AnyValue((*uint256.Int)(nil)), "<nil>"},
	}
	for i, tt := range tests {
		if have := string(appendValue(nil, tt.have)); have != tt.want {
			t.Errorf("test %d: have %s, want %s", i, have, tt.want)
		}
	}
}

func TestEscaping(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"two words", `"two words"`},
		{"k=v", `"k=v"`},
		{"quote\"d", `"quote\"d"`},
		{"tab\there", `"tab\there"`},
	}
	for _, tt := range tests {
		if have := string(appendQuoted(nil, tt.in)); have != tt.want {
			t.Errorf("%q: have %s, want %s", tt.in, have, tt.want)
		}
	}
	if have := quoteMessage("multi\nline"); have != "multi\nline" {
		t.Errorf("message escaped unexpectedly: %q", have)
	}
	if have := quoteMessage("a=b"); have != `"a=b"` {
		t.Errorf("message not quoted: %q", have)
	}
}

func TestLevelLabels(t *testing.T) {
	r := slog.NewRecord(time.Date(2024, 3, 7, 9, 5, 1, 42_000_000, time.UTC), LevelTrace, "m", 0)
	have := string(NewTerminalHandler(nil, false).appendRecord(nil, r))
	if want := "TRACE[03-07|09:05:01.042] m\n"; have != want {
		t.Errorf("have %q, want %q", have, want)
	}
	if have := levelLabel(LevelInfo); have != "INFO " {
		t.Errorf("have %q", have)
	}
	if have := LevelString(slog.Level(3)); have != "unknown" {
		t.Errorf("have %q", have)
	}
}
