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

// Package display renders the live fuzzing status report.
//
// Worker goroutines update a counters.Source without locks. Once per interval a
// single caller invokes Display.Tick, which snapshots the counters, derives the
// rate since the previous tick and writes one full-screen frame with a single
// write. Rendering is best-effort: errors are returned for diagnostics and must
// never stop the workers.
package display

import (
	"time"

	"github.com/croessner/fuzzstat/counters"
	"github.com/croessner/fuzzstat/errors"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// RealClock is the wall clock.
type RealClock struct{}

// Now returns time.Now.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Display ties the counter source, the static configuration and the renderer together.
type Display struct {
	source   counters.Source
	cfg      *RenderConfig
	renderer *Renderer
	clock    Clock
	rate     RateTracker
	last     Outcome
}

// NewDisplay returns a Display. A nil clock selects RealClock.
func NewDisplay(source counters.Source, cfg *RenderConfig, renderer *Renderer, clock Clock) (*Display, error) {
	if source == nil {
		return nil, errors.ErrNoSource
	}

	if cfg == nil {
		return nil, errors.ErrNoRenderConfig
	}

	if renderer == nil || renderer.out == nil {
		return nil, errors.ErrNoWriter
	}

	if clock == nil {
		clock = RealClock{}
	}

	return &Display{
		source:   source,
		cfg:      cfg,
		renderer: renderer,
		clock:    clock,
	}, nil
}

// Config returns the static render configuration.
func (d *Display) Config() *RenderConfig {
	return d.cfg
}

// Next takes a snapshot and advances the rate tracker. The iteration count is clamped to the configured
// maximum before it feeds the rate, so the rate and the average are computed from the displayed value.
func (d *Display) Next() Frame {
	snapshot := counters.Take(d.source)
	snapshot.Iterations = ClampIterations(snapshot.Iterations, d.cfg.MutationsMax)

	var elapsed uint64

	if !d.cfg.StartTime.IsZero() {
		if secs := int64(d.clock.Now().Sub(d.cfg.StartTime) / time.Second); secs > 0 {
			elapsed = uint64(secs)
		}
	}

	return Frame{
		Snapshot: snapshot,
		Rate:     d.rate.Observe(snapshot.Iterations),
		Elapsed:  elapsed,
	}
}

// Tick renders one frame. The returned error is advisory.
//
// Tick must not be called concurrently. The rate tracker has a single owner and
// is not locked.
func (d *Display) Tick() error {
	_, err := d.TickFrame()

	return err
}

// TickFrame is Tick returning the rendered frame as well.
func (d *Display) TickFrame() (Frame, error) {
	frame := d.Next()

	outcome, err := d.renderer.Render(Build(frame, d.cfg))
	d.last = outcome

	return frame, err
}

// LastOutcome returns the result of the most recent render.
func (d *Display) LastOutcome() Outcome {
	return d.last
}
