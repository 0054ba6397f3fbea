package log

import (
	"log/slog"
	"math"
	"strings"
)

// Levels beyond the four slog defines. Trace sits below debug, crit above
// error.
const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
	LevelCrit  slog.Level = 12

	levelMaxVerbosity slog.Level = math.MinInt
)

// cliLevels maps the --verbosity scale, 0 (crit) to 5 (trace), to slog levels.
var cliLevels = [...]slog.Level{LevelCrit, LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}

var levelNames = map[slog.Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelCrit:  "crit",
}

// FromLegacyLevel converts a --verbosity value to a slog level. Values are
// clamped to the 0..5 range.
func FromLegacyLevel(lvl int) slog.Level {
	lvl = max(0, min(lvl, len(cliLevels)-1))
	return cliLevels[lvl]
}

// LevelString returns the lower case name of l as written by the machine
// readable handlers.
func LevelString(l slog.Level) string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// levelLabel is the five column upper case label of the terminal format.
func levelLabel(l slog.Level) string {
	label := strings.ToUpper(LevelString(l)) + "    "
	return label[:5]
}
