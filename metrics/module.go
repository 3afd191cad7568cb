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

package metrics

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/croessner/fuzzstat/config"
	"github.com/croessner/fuzzstat/counters"
	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/display"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// Module provides the fx module for the optional metrics listener.
var Module = fx.Module("metrics",
	fx.Invoke(RegisterServer),
)

// RegisterServer binds the metrics listener on start if metrics.listen is set.
func RegisterServer(lc fx.Lifecycle, cfg *config.Config, source counters.Source, renderCfg *display.RenderConfig, logger *slog.Logger) {
	if cfg.Metrics.Listen == "" {
		return
	}

	setupGinLoggers(logger, cfg.LogLevel() == definitions.LogLevelDebug)

	var server *Server

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			reg, err := NewRegistry(source)
			if err != nil {
				return err
			}

			router := NewRouter(source, renderCfg, reg, nil, logger)

			if cfg.Metrics.Pprof {
				pprof.Register(router)
			}

			server, err = Listen(cfg.Metrics.Listen, router, logger)
			if err != nil {
				return err
			}

			server.Serve()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if server == nil {
				return nil
			}

			return server.Shutdown(ctx)
		},
	})
}

// ginWriter forwards gin's own output to the application logger so it never ends up on the report screen.
type ginWriter struct {
	logger *slog.Logger
	level  slog.Level
}

func (w ginWriter) Write(p []byte) (int, error) {
	w.logger.Log(context.Background(), w.level, string(bytes.TrimRight(p, "\n")))

	return len(p), nil
}

func setupGinLoggers(logger *slog.Logger, debug bool) {
	gin.DefaultWriter = ginWriter{logger: logger, level: slog.LevelDebug}
	gin.DefaultErrorWriter = ginWriter{logger: logger, level: slog.LevelError}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	gin.DisableConsoleColor()
}
