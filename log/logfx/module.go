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

// Package logfx wires the process logger into the fx container.
package logfx

import (
	"context"
	stdlog "log"
	"log/slog"
	"strings"

	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/log"
	"github.com/croessner/fuzzstat/log/level"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Module provides the process logger and bridges the standard library logger to it.
var Module = fx.Module("logfx",
	fx.Provide(NewLogger),
	fx.Invoke(BridgeStdLog),
)

// WithLogger is the fx option that routes container events through the process logger.
func WithLogger() fx.Option {
	return fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
		return NewFxEventLogger(logger)
	})
}

// NewLogger provides the process logger.
func NewLogger() *slog.Logger {
	return log.Logger
}

// slogStdWriter forwards standard library log output to slog.
type slogStdWriter struct{ logger *slog.Logger }

func (w *slogStdWriter) Write(p []byte) (int, error) {
	_ = level.Info(w.logger).Log(definitions.LogKeyMsg, strings.TrimSuffix(string(p), "\n"))

	return len(p), nil
}

// BridgeStdLog wires the standard library log package to the provided slog logger once the container starts.
func BridgeStdLog(lc fx.Lifecycle, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if logger == nil {
				return nil
			}

			stdlog.SetFlags(0)
			stdlog.SetOutput(&slogStdWriter{logger: logger})

			return nil
		},
	})
}
