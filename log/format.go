package log

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

const (
	timeFormat     = "2006-01-02T15:04:05-0700"
	termTimeFormat = "01-02|15:04:05.000"

	// Messages shorter than this are padded so the context starts in one column.
	termMsgColumn = 40
)

// TerminalStringer is implemented by values with a shortened console form,
// such as hashes and addresses.
type TerminalStringer interface {
	TerminalString() string
}

var levelColors = map[slog.Level]string{
	LevelTrace: "\x1b[34m",
	LevelDebug: "\x1b[36m",
	LevelInfo:  "\x1b[32m",
	LevelWarn:  "\x1b[33m",
	LevelError: "\x1b[31m",
	LevelCrit:  "\x1b[35m",
}

// appendRecord renders r as a single terminal line:
//
//	LEVEL[MM-DD|hh:mm:ss.mmm] dir/file.go:line message    key=value ...
func (h *TerminalHandler) appendRecord(buf []byte, r slog.Record) []byte {
	var color string
	if h.useColor {
		color = levelColors[r.Level]
	}
	buf = appendColored(buf, color, levelLabel(r.Level))
	buf = append(buf, '[')
	buf = r.Time.AppendFormat(buf, termTimeFormat)
	buf = append(buf, "] "...)
	if site := callSite(r.PC); site != "" {
		buf = append(buf, site...)
		buf = append(buf, ' ')
	}
	msg := quoteMessage(r.Message)
	buf = append(buf, msg...)
	if len(h.attrs)+r.NumAttrs() > 0 {
		for n := len(msg); n < termMsgColumn; n++ {
			buf = append(buf, ' ')
		}
	}
	for _, a := range h.attrs {
		buf = appendAttr(buf, color, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, color, h.group, a)
		return true
	})
	return append(buf, '\n')
}

// appendAttr writes " key=value". Group members are flattened to dotted keys.
func appendAttr(buf []byte, color, prefix string, a slog.Attr) []byte {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, member := range v.Group() {
			buf = appendAttr(buf, color, prefix, member)
		}
		return buf
	}
	if a.Equal(slog.Attr{}) {
		return buf
	}
	buf = append(buf, ' ')
	buf = appendColored(buf, color, string(appendQuoted(nil, prefix+a.Key)))
	buf = append(buf, '=')
	return appendValue(buf, v)
}

func appendColored(buf []byte, color, s string) []byte {
	if color == "" {
		return append(buf, s...)
	}
	buf = append(buf, color...)
	buf = append(buf, s...)
	return append(buf, "\x1b[0m"...)
}

// callSite renders pc as "dir/file.go:line".
func callSite(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	file := frame.File
	if i := strings.LastIndexByte(file, '/'); i > 0 {
		if j := strings.LastIndexByte(file[:i], '/'); j >= 0 {
			file = file[j+1:]
		}
	}
	return file + ":" + strconv.Itoa(frame.Line)
}

// appendValue writes the console form of v. Integers get thousands
// separators, byte slices are hex encoded.
func appendValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		return appendQuoted(buf, v.String())
	case slog.KindInt64:
		return appendGrouped(buf, strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return appendGrouped(buf, strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return strconv.AppendFloat(buf, v.Float64(), 'f', 3, 64)
	case slog.KindBool:
		return strconv.AppendBool(buf, v.Bool())
	case slog.KindDuration:
		return append(buf, v.Duration().String()...)
	case slog.KindTime:
		return v.Time().AppendFormat(buf, timeFormat)
	}
	x := v.Any()
	if isNilValue(x) {
		return append(buf, "<nil>"...)
	}
	switch x := x.(type) {
	case *big.Int:
		return appendGrouped(buf, x.String())
	case *uint256.Int:
		return appendGrouped(buf, x.Dec())
	case []byte:
		return append(append(buf, "0x"...), hex.EncodeToString(x)...)
	case error:
		return appendQuoted(buf, x.Error())
	case TerminalStringer:
		return appendQuoted(buf, x.TerminalString())
	case fmt.Stringer:
		return appendQuoted(buf, x.String())
	}
	return appendQuoted(buf, fmt.Sprintf("%+v", x))
}

func isNilValue(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// appendGrouped writes the decimal integer num, inserting a comma every three
// digits once it is longer than five digits.
func appendGrouped(buf []byte, num string) []byte {
	if strings.HasPrefix(num, "-") {
		buf = append(buf, '-')
		num = num[1:]
	}
	if len(num) <= 5 {
		return append(buf, num...)
	}
	lead := len(num) % 3
	if lead == 0 {
		lead = 3
	}
	buf = append(buf, num[:lead]...)
	for i := lead; i < len(num); i += 3 {
		buf = append(buf, ',')
		buf = append(buf, num[i:i+3]...)
	}
	return buf
}

// appendQuoted writes s bare when it is plain printable ASCII. Spaces and
// equal signs get it wrapped in quotes; control characters, quotes and
// non-ASCII runes get it Go-escaped.
func appendQuoted(buf []byte, s string) []byte {
	wrap := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '=':
			wrap = true
		case r < '#' || r > '~':
			return strconv.AppendQuote(buf, s)
		}
	}
	if !wrap {
		return append(buf, s...)
	}
	buf = append(buf, '"')
	buf = append(buf, s...)
	return append(buf, '"')
}

// quoteMessage is the message variant of appendQuoted: spaces, tabs and line
// breaks are left alone.
func quoteMessage(s string) string {
	for _, r := range s {
		if r == '\r' || r == '\n' || r == '\t' {
			continue
		}
		if r < ' ' || r > '~' || r == '=' {
			return strconv.Quote(s)
		}
	}
	return s
}
