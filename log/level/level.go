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

// Package level offers the keyvals logging style on top of log/slog:
//
//	level.Info(logger).Log("msg", "display started", "interval", time.Second)
//
// A string value under the key "msg" becomes the record message. All other
// pairs are emitted as slog attributes. Non-string keys and a trailing key
// without a value are dropped.
package level

import (
	"context"
	"log/slog"
	"reflect"
	"time"
)

// Logger is the keyvals logging interface.
type Logger interface {
	Log(keyvals ...any) error
}

type leveled struct {
	l   *slog.Logger
	lvl slog.Level
}

// Debug returns a Logger that logs at slog.LevelDebug.
func Debug(l *slog.Logger) Logger {
	return &leveled{l: l, lvl: slog.LevelDebug}
}

// Info returns a Logger that logs at slog.LevelInfo.
func Info(l *slog.Logger) Logger {
	return &leveled{l: l, lvl: slog.LevelInfo}
}

// Warn returns a Logger that logs at slog.LevelWarn.
func Warn(l *slog.Logger) Logger {
	return &leveled{l: l, lvl: slog.LevelWarn}
}

// Error returns a Logger that logs at slog.LevelError.
func Error(l *slog.Logger) Logger {
	return &leveled{l: l, lvl: slog.LevelError}
}

// Log implements Logger. A nil slog.Logger discards the record.
func (s *leveled) Log(keyvals ...any) error {
	if s.l == nil {
		return nil
	}

	ctx := context.Background()
	if !s.l.Enabled(ctx, s.lvl) {
		return nil
	}

	var msg string

	attrs := make([]slog.Attr, 0, len(keyvals)/2)

	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}

		if key == "msg" {
			if text, ok := keyvals[i+1].(string); ok {
				msg = text

				continue
			}
		}

		attrs = append(attrs, toAttr(key, keyvals[i+1]))
	}

	if msg == "" {
		msg = defaultMessage(s.lvl)
	}

	s.l.LogAttrs(ctx, s.lvl, msg, attrs...)

	return nil
}

func toAttr(key string, value any) slog.Attr {
	// slog.Any panics on some typed nils.
	if isTypedNil(value) {
		return slog.String(key, "<nil>")
	}

	switch v := value.(type) {
	case string:
		return slog.String(key, v)
	case error:
		return slog.String(key, v.Error())
	case time.Duration:
		return slog.String(key, v.String())
	case uint64:
		return slog.Uint64(key, v)
	case int:
		return slog.Int(key, v)
	case bool:
		return slog.Bool(key, v)
	default:
		return slog.Any(key, v)
	}
}

func isTypedNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

func defaultMessage(lvl slog.Level) string {
	switch lvl {
	case slog.LevelDebug:
		return "debug"
	case slog.LevelInfo:
		return "info"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	default:
		return "log"
	}
}
