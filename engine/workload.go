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
	"math/rand/v2"
	"time"

	"github.com/croessner/fuzzstat/counters"
	"github.com/croessner/fuzzstat/definitions"
	"golang.org/x/sync/errgroup"
)

const (
	// syntheticTotalBlocks is the size of the simulated sanitizer coverage map.
	syntheticTotalBlocks = 1 << 16

	// syntheticDSOs is the number of simulated instrumented modules.
	syntheticDSOs = 3

	// newCoverageOdds is the chance of 1:n that an iteration finds new coverage.
	newCoverageOdds = 500
)

// WorkloadConfig describes the synthetic fuzzing run.
type WorkloadConfig struct {
	Threads       int
	MutationsMax  uint64
	CrashProb     float64
	TimeoutProb   float64
	Verifier      bool
	DynFileMethod definitions.DynFileMethod
	SanCov        bool
	MaxFileSize   uint64
	Duration      time.Duration
	Seed          uint64
}

// Workload runs goroutines that update a counter set the way fuzzing threads do.
// It exists to drive the status display without a real fuzzing engine.
type Workload struct {
	cfg   WorkloadConfig
	set   *counters.Set
	pacer *Pacer
}

// NewWorkload returns a Workload. A nil pacer runs the workers unthrottled.
func NewWorkload(cfg WorkloadConfig, set *counters.Set, pacer *Pacer) *Workload {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}

	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	return &Workload{cfg: cfg, set: set, pacer: pacer}
}

// Run blocks until ctx is canceled, the configured duration has passed or all
// iterations are done.
func (w *Workload) Run(ctx context.Context) error {
	if w.cfg.Duration > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, w.cfg.Duration)
		defer cancel()
	}

	if w.cfg.SanCov {
		w.set.Store(counters.SanCovTotalBlocks, syntheticTotalBlocks)
		w.set.Store(counters.SanCovDSOs, syntheticDSOs)
	}

	g, ctx := errgroup.WithContext(ctx)

	for id := range w.cfg.Threads {
		g.Go(func() error {
			w.worker(ctx, uint64(id))

			return nil
		})
	}

	return g.Wait()
}

func (w *Workload) worker(ctx context.Context, id uint64) {
	rng := rand.New(rand.NewPCG(w.cfg.Seed, id))

	for ctx.Err() == nil {
		if w.pacer != nil {
			select {
			case <-w.pacer.Tick():
			case <-ctx.Done():
				return
			}
		}

		// The counter is incremented before the limit check. Like in the fuzzing
		// engine, the final count may overshoot MutationsMax by up to one per thread.
		n := w.set.Inc(counters.Iterations)
		if w.cfg.MutationsMax > 0 && n > w.cfg.MutationsMax {
			return
		}

		w.iteration(rng)
	}
}

func (w *Workload) iteration(rng *rand.Rand) {
	switch r := rng.Float64(); {
	case r < w.cfg.CrashProb:
		w.crash(rng)
	case r < w.cfg.CrashProb+w.cfg.TimeoutProb:
		w.set.Inc(counters.Timeouts)
	}

	if w.cfg.DynFileMethod == definitions.DynFileNone && !w.cfg.SanCov {
		return
	}

	if rng.IntN(newCoverageOdds) == 0 {
		w.newCoverage(rng)

		return
	}

	if w.set.Inc(counters.DynFileIterExpire) >= definitions.MaxDynFileIter {
		w.set.Store(counters.DynFileIterExpire, 0)
	}
}

func (w *Workload) crash(rng *rand.Rand) {
	w.set.Inc(counters.Crashes)

	if w.cfg.SanCov {
		w.set.Inc(counters.SanCovCrashes)
	}

	switch {
	case rng.IntN(20) == 0:
		w.set.Inc(counters.BlacklistedCrashes)
	case rng.IntN(4) == 0:
		w.set.Inc(counters.UniqueCrashes)

		if w.cfg.Verifier {
			w.set.Inc(counters.VerifiedCrashes)
		}
	}
}

var hardwareFields = []struct {
	method definitions.DynFileMethod
	field  counters.Field
}{
	{definitions.DynFileInstrCount, counters.CPUInstructions},
	{definitions.DynFileBranchCount, counters.CPUBranches},
	{definitions.DynFileBTSBlock, counters.BTSBlocks},
	{definitions.DynFileBTSEdge, counters.BTSEdges},
	{definitions.DynFileIPTBlock, counters.IPTBlocks},
	{definitions.DynFileCustom, counters.CustomCounter},
}

func (w *Workload) newCoverage(rng *rand.Rand) {
	for _, hw := range hardwareFields {
		if w.cfg.DynFileMethod.Has(hw.method) {
			w.set.Add(hw.field, 1+rng.Uint64N(16))
		}
	}

	if w.cfg.SanCov {
		found := 1 + rng.Uint64N(8)
		hit := w.set.Load(counters.SanCovHitBlocks) + found

		w.set.StoreMax(counters.SanCovHitBlocks, min(hit, syntheticTotalBlocks))
		w.set.Add(counters.SanCovNewBlocks, found)
	}

	if w.cfg.MaxFileSize > 0 {
		w.set.StoreMax(counters.DynFileBestSize, 1+rng.Uint64N(w.cfg.MaxFileSize))
	}

	w.set.Store(counters.DynFileIterExpire, 0)
}
