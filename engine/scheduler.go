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

package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/display"
	"github.com/croessner/fuzzstat/log/level"
)

// FullScreen resolves the display mode. In auto mode the report is drawn only on a terminal.
func FullScreen(mode string, tty bool) bool {
	switch mode {
	case definitions.DisplayModeAlways:
		return true
	case definitions.DisplayModeNever:
		return false
	default:
		return tty
	}
}

// Scheduler drives the status display from a single goroutine.
//
// On a terminal every tick redraws the full-screen report. Otherwise a one-line
// status summary is logged instead, so redirected output stays readable.
type Scheduler struct {
	display    *display.Display
	logger     *slog.Logger
	interval   time.Duration
	fullScreen bool

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewScheduler returns a Scheduler. An interval of zero or less selects definitions.DisplayInterval.
func NewScheduler(d *display.Display, logger *slog.Logger, interval time.Duration, fullScreen bool) *Scheduler {
	if interval <= 0 {
		interval = definitions.DisplayInterval
	}

	return &Scheduler{
		display:    d,
		logger:     logger,
		interval:   interval,
		fullScreen: fullScreen,
		done:       make(chan struct{}),
	}
}

// FullScreen reports whether the scheduler draws the full-screen report.
func (s *Scheduler) FullScreen() bool {
	return s.fullScreen
}

// Run ticks until ctx is canceled and renders one final frame before it returns.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-ctx.Done():
			s.Tick()

			return
		}
	}
}

// Tick produces one frame. It must only be called from the goroutine running the scheduler.
func (s *Scheduler) Tick() {
	if !s.fullScreen {
		s.logStatus(s.display.Next())

		return
	}

	// Render errors are advisory. The workers must never be affected by the display.
	if err := s.display.Tick(); err != nil {
		level.Debug(s.logger).Log(definitions.LogKeyMsg, "status frame not written", definitions.LogKeyError, err)
	}

	if outcome := s.display.LastOutcome(); outcome.Truncated {
		level.Debug(s.logger).Log(
			definitions.LogKeyMsg, "status frame truncated",
			definitions.LogKeyBytes, outcome.Size,
			definitions.LogKeyWritten, outcome.Written,
		)
	}
}

func (s *Scheduler) logStatus(frame display.Frame) {
	snapshot := &frame.Snapshot

	level.Info(s.logger).Log(
		definitions.LogKeyMsg, "status",
		definitions.LogKeyIterations, snapshot.Iterations,
		definitions.LogKeyRate, frame.Rate,
		definitions.LogKeyAverage, display.Average(snapshot.Iterations, frame.Elapsed),
		definitions.LogKeyCrashes, snapshot.Crashes,
		definitions.LogKeyTimeouts, snapshot.Timeouts,
		definitions.LogKeyElapsed, time.Duration(frame.Elapsed)*time.Second,
	)
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	level.Info(s.logger).Log(
		definitions.LogKeyMsg, "status display started",
		definitions.LogKeyInterval, s.interval,
		definitions.LogKeyMode, modeName(s.fullScreen),
	)

	go func() {
		defer close(s.done)

		s.Run(ctx)
	}()
}

// Stop ends the scheduler and waits for the final frame or until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}

	s.stopOnce.Do(s.cancel)

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func modeName(fullScreen bool) string {
	if fullScreen {
		return "report"
	}

	return "log"
}
