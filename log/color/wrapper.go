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

// Package color provides a slog.Handler that keeps the slog.TextHandler layout
// and colors every line according to its level.
package color

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

func newColor(attr color.Attribute) *color.Color {
	c := color.New(attr)

	// The handler decides about colors itself. fatih/color would otherwise
	// disable them whenever stdout is not a terminal.
	c.EnableColor()

	return c
}

// ThemeColorMap returns the level colors for a theme. Unknown or empty themes use the light mapping.
func ThemeColorMap(theme string) map[slog.Level]*color.Color {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case ThemeDark:
		return map[slog.Level]*color.Color{
			slog.LevelDebug: newColor(color.FgHiCyan),
			slog.LevelInfo:  newColor(color.FgHiGreen),
			slog.LevelWarn:  newColor(color.FgHiYellow),
			slog.LevelError: newColor(color.FgHiRed),
		}
	default:
		return map[slog.Level]*color.Color{
			slog.LevelDebug: newColor(color.FgCyan),
			slog.LevelInfo:  newColor(color.FgGreen),
			slog.LevelWarn:  newColor(color.FgYellow),
			slog.LevelError: newColor(color.FgRed),
		}
	}
}

// LineWrapper delegates formatting to slog.TextHandler and colors the whole resulting line.
//
// Each record is written with a single Write call, so lines stay intact when the
// output is shared with the status display.
type LineWrapper struct {
	mu     *sync.Mutex
	out    io.Writer
	opts   *slog.HandlerOptions
	attrs  []slog.Attr
	groups []string
	colors map[slog.Level]*color.Color
}

// NewLineWrapper creates a LineWrapper. A nil color map selects the light theme.
func NewLineWrapper(out io.Writer, opts *slog.HandlerOptions, colors map[slog.Level]*color.Color) *LineWrapper {
	if colors == nil {
		colors = ThemeColorMap(ThemeLight)
	}

	return &LineWrapper{mu: &sync.Mutex{}, out: out, opts: opts, colors: colors}
}

// Enabled reports whether lvl passes the configured minimum level.
func (h *LineWrapper) Enabled(_ context.Context, lvl slog.Level) bool {
	if h.opts == nil || h.opts.Level == nil {
		return true
	}

	return lvl >= h.opts.Level.Level()
}

// Handle renders the record as text and writes it wrapped in the level color.
func (h *LineWrapper) Handle(ctx context.Context, r slog.Record) error {
	var buf bytes.Buffer

	var inner slog.Handler = slog.NewTextHandler(&buf, h.opts)

	for _, g := range h.groups {
		inner = inner.WithGroup(g)
	}

	if len(h.attrs) > 0 {
		inner = inner.WithAttrs(h.attrs)
	}

	if err := inner.Handle(ctx, r); err != nil {
		return err
	}

	line := strings.TrimSuffix(buf.String(), "\n")

	// The reset must precede the newline, otherwise the color bleeds into the next line.
	if c := h.pickColor(r.Level); c != nil {
		line = c.Sprint(line)
	}

	line += "\n"

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.out, line)

	return err
}

// WithAttrs returns a copy of the handler with additional attributes.
func (h *LineWrapper) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	if len(attrs) > 0 {
		cp.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	}

	return &cp
}

// WithGroup returns a copy of the handler with an additional group.
func (h *LineWrapper) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	cp := *h
	cp.groups = append(append([]string(nil), h.groups...), name)

	return &cp
}

func (h *LineWrapper) pickColor(lvl slog.Level) *color.Color {
	if c, ok := h.colors[lvl]; ok {
		return c
	}

	switch {
	case lvl >= slog.LevelError:
		return h.colors[slog.LevelError]
	case lvl >= slog.LevelWarn:
		return h.colors[slog.LevelWarn]
	case lvl <= slog.LevelDebug:
		return h.colors[slog.LevelDebug]
	default:
		return h.colors[slog.LevelInfo]
	}
}

var _ slog.Handler = (*LineWrapper)(nil)
