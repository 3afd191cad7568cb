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
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/croessner/fuzzstat/counters"
	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/display"
	"github.com/croessner/fuzzstat/errors"
	"github.com/croessner/fuzzstat/log/level"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/ksuid"
)

// Server serves the Prometheus metrics and the status document.
type Server struct {
	logger   *slog.Logger
	listener net.Listener
	server   *http.Server
	done     chan struct{}
}

// NewRouter returns the gin engine with both endpoints registered.
func NewRouter(source counters.Source, cfg *display.RenderConfig, gatherer prometheus.Gatherer, clock display.Clock, logger *slog.Logger) *gin.Engine {
	if clock == nil {
		clock = display.RealClock{}
	}

	router := gin.New()

	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET(definitions.MetricsPath, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{DisableCompression: true})))

	router.GET(definitions.StatusPath, func(ctx *gin.Context) {
		body, err := NewStatus(source, cfg, clock.Now()).Marshal()
		if err != nil {
			_ = ctx.Error(err)
			ctx.Status(http.StatusInternalServerError)

			return
		}

		ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
	})

	return router
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		logWrapper := level.Debug
		msg := "HTTP request"

		if err := ctx.Errors.Last(); err != nil {
			logWrapper = level.Error
			msg = err.Error()
		}

		logWrapper(logger).Log(
			definitions.LogKeyGUID, ksuid.New().String(),
			definitions.LogKeyClientIP, ctx.ClientIP(),
			definitions.LogKeyMethod, ctx.Request.Method,
			definitions.LogKeyHTTPStatus, ctx.Writer.Status(),
			definitions.LogKeyLatency, time.Since(start),
			definitions.LogKeyUriPath, ctx.Request.URL.Path,
			definitions.LogKeyMsg, msg,
		)
	}
}

// Listen binds address. The returned server does not accept connections until Serve is called.
func Listen(address string, handler http.Handler, logger *slog.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrMetricsListen, err)
	}

	return &Server{
		logger:   logger,
		listener: listener,
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: definitions.MetricsReadHeaderTimeout,
			WriteTimeout:      definitions.MetricsWriteTimeout,
			IdleTimeout:       definitions.MetricsIdleTimeout,
		},
		done: make(chan struct{}),
	}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections in the background.
func (s *Server) Serve() {
	level.Info(s.logger).Log(definitions.LogKeyMsg, "metrics listener started", definitions.LogKeyAddress, s.Addr().String())

	go func() {
		defer close(s.done)

		if err := s.server.Serve(s.listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			level.Error(s.logger).Log(definitions.LogKeyMsg, "metrics listener failed", definitions.LogKeyError, err)
		}
	}()
}

// Shutdown stops the listener and waits for open requests or until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)

	select {
	case <-s.done:
	case <-ctx.Done():
	}

	return err
}
