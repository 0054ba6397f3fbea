// Copyright 2025 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// errVmoduleSyntax is returned when a user vmodule pattern is invalid.
var errVmoduleSyntax = errors.New("expect comma-separated list of filename=N")

// GlogHandler is a log handler that mimics the filtering features of Google's
// glog logger: a global verbosity ceiling that can be raised for individual
// files or packages by callsite pattern matches.
type GlogHandler struct {
	origin slog.Handler // The origin handler this wraps

	level    atomic.Int32 // Current log level, atomically accessible
	override atomic.Bool  // Flag whether overrides are used, atomically accessible

	patterns  []pattern              // Current list of patterns to override with
	siteCache map[uintptr]slog.Level // Cache of callsite pattern evaluations
	lock      sync.RWMutex           // Lock protecting the override pattern list
}

// NewGlogHandler creates a new log handler with filtering functionality similar
// to Google's glog logger. The returned handler implements Handler.
func NewGlogHandler(h slog.Handler) *GlogHandler {
	return &GlogHandler{
		origin:    h,
		siteCache: make(map[uintptr]slog.Level),
	}
}

// pattern contains a filter for the Vmodule option, holding a verbosity level
// and a file pattern to match.
type pattern struct {
	pattern *regexp.Regexp
	level   slog.Level
}

// Verbosity sets the glog verbosity ceiling. The verbosity of individual packages
// and source files can be raised using Vmodule.
func (h *GlogHandler) Verbosity(level slog.Level) {
	h.level.Store(int32(level))
}

// Vmodule sets the glog verbosity pattern.
//
// The syntax of the argument is a comma-separated list of pattern=N, where the
// pattern is a literal file name or "glob" pattern matching and N is a V level.
//
// For instance:
//
//	pattern="decode.go=5"
//	 sets the V level to 5 in all Go files named "decode.go"
//
//	pattern="rlp=4"
//	 sets V to 4 in all files of any packages whose import path ends in "rlp"
//
//	pattern="accounts/*=4"
//	 sets V to 4 in all files of any packages whose import path contains "accounts"
func (h *GlogHandler) Vmodule(ruleset string) error {
	var filter []pattern
	for _, rule := range strings.Split(ruleset, ",") {
		// Empty strings such as from a trailing comma can be ignored
		if len(rule) == 0 {
			continue
		}
		file, lvl, ok := strings.Cut(rule, "=")
		file, lvl = strings.TrimSpace(file), strings.TrimSpace(lvl)
		if !ok || file == "" || lvl == "" || strings.Contains(lvl, "=") {
			return errVmoduleSyntax
		}
		l, err := strconv.Atoi(lvl)
		if err != nil {
			return errVmoduleSyntax
		}
		level := FromLegacyLevel(l)
		if level == LevelCrit {
			continue // Crit is always emitted
		}
		filter = append(filter, pattern{compileVmodule(file), level})
	}
	h.lock.Lock()
	defer h.lock.Unlock()

	h.patterns = filter
	h.siteCache = make(map[uintptr]slog.Level)
	h.override.Store(len(filter) != 0)
	return nil
}

// compileVmodule turns a vmodule file pattern into a regular expression
// matched against the absolute source path of a callsite.
func compileVmodule(file string) *regexp.Regexp {
	matcher := ".*"
	for _, comp := range strings.Split(file, "/") {
		if comp == "*" {
			matcher += "(/.*)?"
		} else if comp != "" {
			matcher += "/" + regexp.QuoteMeta(comp)
		}
	}
	if !strings.HasSuffix(file, ".go") {
		matcher += "/[^/]+\\.go"
	}
	return regexp.MustCompile(matcher + "$")
}

// Enabled implements slog.Handler, reporting whether the handler handles records
// at the given level.
func (h *GlogHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	// fast-track skipping logging if override not enabled and the provided verbosity is above configured
	return h.override.Load() || slog.Level(h.level.Load()) <= lvl
}

// WithAttrs implements slog.Handler. The derived handler starts with a copy of
// the current verbosity rules.
func (h *GlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(h.origin.WithAttrs(attrs))
}

// WithGroup implements slog.Handler.
func (h *GlogHandler) WithGroup(name string) slog.Handler {
	return h.derive(h.origin.WithGroup(name))
}

func (h *GlogHandler) derive(origin slog.Handler) *GlogHandler {
	h.lock.RLock()
	res := &GlogHandler{
		origin:    origin,
		patterns:  append([]pattern(nil), h.patterns...),
		siteCache: maps.Clone(h.siteCache),
	}
	h.lock.RUnlock()
	res.level.Store(h.level.Load())
	res.override.Store(h.override.Load())
	return res
}

// Handle implements slog.Handler, filtering a log record through the global
// and callsite filters, finally emitting it if either allows it through.
func (h *GlogHandler) Handle(_ context.Context, r slog.Record) error {
	// If the global log level allows, fast track logging
	if slog.Level(h.level.Load()) <= r.Level {
		return h.origin.Handle(context.Background(), r)
	}
	if h.siteLevel(r.PC) <= r.Level {
		return h.origin.Handle(context.Background(), r)
	}
	return nil
}

// siteLevel returns the verbosity configured for the callsite at pc. Sites
// without a matching rule are cached at LevelCrit so they are not re-evaluated.
func (h *GlogHandler) siteLevel(pc uintptr) slog.Level {
	h.lock.RLock()
	lvl, ok := h.siteCache[pc]
	h.lock.RUnlock()
	if ok {
		return lvl
	}
	h.lock.Lock()
	defer h.lock.Unlock()

	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	lvl = LevelCrit
	for _, rule := range h.patterns {
		if rule.pattern.MatchString("+" + frame.File) {
			lvl = rule.level
		}
	}
	h.siteCache[pc] = lvl
	return lvl
}
