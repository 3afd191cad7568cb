// Copyright (C) 2026 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/errors"
	"github.com/croessner/fuzzstat/log/color"
	"github.com/mattn/go-isatty"
	"github.com/segmentio/ksuid"
)

var (
	mu sync.Mutex

	// Logger is the process logger. It writes to stderr, the status report owns stdout.
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// levelOff is above every level that is ever logged.
const levelOff = slog.LevelError + 4

// Options configure SetupLogging.
type Options struct {
	Level    int
	JSON     bool
	Color    string
	Theme    string
	Instance string
}

// SetupLogging initializes the global Logger on stderr and returns it.
func SetupLogging(opts Options) *slog.Logger {
	return SetupLoggingTo(os.Stderr, opts)
}

// SetupLoggingTo initializes the global Logger on out.
func SetupLoggingTo(out io.Writer, opts Options) *slog.Logger {
	mu.Lock()

	defer mu.Unlock()

	Logger = New(out, opts)

	return Logger
}

// New builds a logger without touching the global one.
func New(out io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ToSlogLevel(opts.Level)}

	var handler slog.Handler

	switch {
	case opts.Level == definitions.LogLevelNone:
		handler = slog.NewTextHandler(io.Discard, handlerOpts)
	case opts.JSON:
		handler = slog.NewJSONHandler(out, handlerOpts)
	case UseColor(opts.Color, out):
		handler = color.NewLineWrapper(out, handlerOpts, color.ThemeColorMap(opts.Theme))
	default:
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	instance := opts.Instance
	if instance == "" {
		instance = NewInstance()
	}

	return slog.New(handler).With(definitions.LogKeyInstance, instance)
}

// NewInstance returns a fresh run identifier.
func NewInstance() string {
	return ksuid.New().String()
}

// ToSlogLevel maps a configured log level to its slog counterpart.
func ToSlogLevel(level int) slog.Level {
	switch level {
	case definitions.LogLevelNone:
		return levelOff
	case definitions.LogLevelError:
		return slog.LevelError
	case definitions.LogLevelWarn:
		return slog.LevelWarn
	case definitions.LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// LevelFromName parses a configured log level name.
func LevelFromName(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case definitions.LogLevelNameNone:
		return definitions.LogLevelNone, nil
	case definitions.LogLevelNameError:
		return definitions.LogLevelError, nil
	case definitions.LogLevelNameWarn:
		return definitions.LogLevelWarn, nil
	case definitions.LogLevelNameInfo, "":
		return definitions.LogLevelInfo, nil
	case definitions.LogLevelNameDebug:
		return definitions.LogLevelDebug, nil
	default:
		return definitions.LogLevelInfo, fmt.Errorf("%w: %q", errors.ErrInvalidLogLevel, name)
	}
}

// UseColor resolves a color mode. In auto mode colors are used if out is a terminal.
func UseColor(mode string, out io.Writer) bool {
	switch mode {
	case definitions.ColorModeAlways:
		return true
	case definitions.ColorModeNever:
		return false
	}

	f, ok := out.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
