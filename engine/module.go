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

	"github.com/croessner/fuzzstat/config"
	"github.com/croessner/fuzzstat/counters"
	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/display"
	"github.com/croessner/fuzzstat/log/level"
	"go.uber.org/fx"
)

// Module provides the fx module for the scheduler and the synthetic workload.
// The scheduler is registered first, so its final frame is drawn after the workers stopped.
var Module = fx.Module("engine",
	fx.Provide(
		NewSchedulerFromConfig,
		NewPacerFromConfig,
		NewWorkloadFromConfig,
	),
	fx.Invoke(
		RegisterScheduler,
		RegisterWorkload,
	),
)

// NewSchedulerFromConfig provides the Scheduler.
func NewSchedulerFromConfig(cfg *config.Config, d *display.Display, logger *slog.Logger) *Scheduler {
	return NewScheduler(d, logger, cfg.Display.Interval, FullScreen(cfg.Display.Mode, display.IsTTY()))
}

// NewPacerFromConfig provides an optional Pacer for the workload.
func NewPacerFromConfig(cfg *config.Config) *Pacer {
	if !cfg.Workload.Enabled || cfg.Workload.Rate <= 0 {
		return nil
	}

	return NewPacer(cfg.Workload.Rate)
}

// NewWorkloadFromConfig provides the synthetic workload, or nil if it is disabled.
func NewWorkloadFromConfig(cfg *config.Config, set *counters.Set, pacer *Pacer) *Workload {
	if !cfg.Workload.Enabled {
		return nil
	}

	return NewWorkload(WorkloadConfig{
		Threads:       cfg.Fuzz.Threads,
		MutationsMax:  cfg.Fuzz.MutationsMax,
		CrashProb:     cfg.Workload.CrashProb,
		TimeoutProb:   cfg.Workload.TimeoutProb,
		Verifier:      cfg.Fuzz.Verifier,
		DynFileMethod: cfg.Fuzz.DynFileMethod,
		SanCov:        cfg.Fuzz.SanCov,
		MaxFileSize:   cfg.Fuzz.MaxFileSize,
		Duration:      cfg.Workload.Duration,
	}, set, pacer)
}

// RegisterScheduler ties the scheduler to the application lifecycle.
func RegisterScheduler(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()

			return nil
		},
		OnStop: s.Stop,
	})
}

// RegisterWorkload runs the workload while the application is up. The application shuts down once the
// workload finished on its own.
func RegisterWorkload(lc fx.Lifecycle, shutdowner fx.Shutdowner, w *Workload, pacer *Pacer, logger *slog.Logger) {
	if w == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			level.Info(logger).Log(definitions.LogKeyMsg, "synthetic workload started", definitions.LogKeyThreads, w.cfg.Threads)

			go func() {
				defer close(done)

				if err := w.Run(ctx); err != nil {
					level.Error(logger).Log(definitions.LogKeyMsg, "synthetic workload failed", definitions.LogKeyError, err)
				}

				if ctx.Err() == nil {
					level.Info(logger).Log(definitions.LogKeyMsg, "synthetic workload finished")

					_ = shutdowner.Shutdown()
				}
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()

			if pacer != nil {
				pacer.Stop()
			}

			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
