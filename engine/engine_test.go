package engine

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/croessner/fuzzstat/config"
	"github.com/croessner/fuzzstat/counters"
	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

type countingWriter struct {
	bytes.Buffer
	calls int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.calls++

	return w.Buffer.Write(p)
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestDisplay(t *testing.T, set *counters.Set, w io.Writer) *display.Display {
	t.Helper()

	d, err := display.NewDisplay(set, &display.RenderConfig{StartTime: time.Now()}, display.NewRenderer(w, 0), nil)
	require.NoError(t, err)

	return d
}

func TestFullScreen(t *testing.T) {
	tests := []struct {
		mode     string
		tty      bool
		expected bool
	}{
		{definitions.DisplayModeAuto, true, true},
		{definitions.DisplayModeAuto, false, false},
		{definitions.DisplayModeAlways, false, true},
		{definitions.DisplayModeNever, true, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FullScreen(tt.mode, tt.tty), "mode=%s tty=%v", tt.mode, tt.tty)
	}
}

func TestSchedulerTickFullScreen(t *testing.T) {
	set := counters.NewSet()
	set.Add(counters.Iterations, 42)

	w := &countingWriter{}
	logs := &bytes.Buffer{}

	s := NewScheduler(newTestDisplay(t, set, w), newTestLogger(logs), time.Hour, true)
	s.Tick()

	assert.Equal(t, 1, w.calls)
	assert.Contains(t, w.String(), "Iterations: "+definitions.EscBold+"42"+definitions.EscReset)
	assert.Empty(t, logs.String())
}

func TestSchedulerTickLogsStatus(t *testing.T) {
	set := counters.NewSet()
	set.Add(counters.Iterations, 42)
	set.Add(counters.Crashes, 3)

	w := &countingWriter{}
	logs := &bytes.Buffer{}

	s := NewScheduler(newTestDisplay(t, set, w), newTestLogger(logs), time.Hour, false)
	s.Tick()

	assert.Zero(t, w.calls, "no full-screen report without a terminal")
	assert.Contains(t, logs.String(), "msg=status")
	assert.Contains(t, logs.String(), definitions.LogKeyIterations+"=42")
	assert.Contains(t, logs.String(), definitions.LogKeyCrashes+"=3")
}

func TestSchedulerWriteErrorIsLogged(t *testing.T) {
	logs := &bytes.Buffer{}

	s := NewScheduler(newTestDisplay(t, counters.NewSet(), brokenWriter{}), newTestLogger(logs), time.Hour, true)

	assert.NotPanics(t, s.Tick)
	assert.Contains(t, logs.String(), "status frame not written")
	assert.Contains(t, logs.String(), "level=DEBUG")
}

func TestSchedulerRendersFinalFrame(t *testing.T) {
	w := &countingWriter{}

	s := NewScheduler(newTestDisplay(t, counters.NewSet(), w), newTestLogger(&bytes.Buffer{}), time.Hour, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.Run(ctx)

	assert.Equal(t, 1, w.calls)
}

func TestSchedulerStartStop(t *testing.T) {
	w := &countingWriter{}

	s := NewScheduler(newTestDisplay(t, counters.NewSet(), w), newTestLogger(&bytes.Buffer{}), 10*time.Millisecond, true)
	s.Start()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))

	assert.GreaterOrEqual(t, w.calls, 2)
}

func TestWorkloadOvershootIsBounded(t *testing.T) {
	const (
		threads = 4
		maximum = 1000
	)

	set := counters.NewSet()
	w := NewWorkload(WorkloadConfig{
		Threads:       threads,
		MutationsMax:  maximum,
		CrashProb:     0.05,
		TimeoutProb:   0.05,
		Verifier:      true,
		DynFileMethod: definitions.DynFileInstrCount | definitions.DynFileBTSEdge,
		SanCov:        true,
		MaxFileSize:   4096,
		Seed:          1,
	}, set, nil)

	require.NoError(t, w.Run(context.Background()))

	iterations := set.Load(counters.Iterations)
	assert.GreaterOrEqual(t, iterations, uint64(maximum))
	assert.LessOrEqual(t, iterations, uint64(maximum+threads))
	assert.Equal(t, uint64(maximum), display.ClampIterations(iterations, maximum))

	snapshot := counters.Take(set)
	assert.Positive(t, snapshot.Crashes)
	assert.Positive(t, snapshot.Timeouts)
	assert.LessOrEqual(t, snapshot.UniqueCrashes+snapshot.BlacklistedCrashes, snapshot.Crashes)
	assert.LessOrEqual(t, snapshot.VerifiedCrashes, snapshot.UniqueCrashes)
	assert.Equal(t, snapshot.Crashes, snapshot.SanCov.Crashes)
	assert.Equal(t, uint64(syntheticTotalBlocks), snapshot.SanCov.TotalBlocks)
	assert.LessOrEqual(t, snapshot.SanCov.HitBlocks, snapshot.SanCov.TotalBlocks)
	assert.LessOrEqual(t, snapshot.DynFileBestSize, uint64(4096))
	assert.Less(t, snapshot.DynFileIterExpire, uint64(definitions.MaxDynFileIter))
	assert.Zero(t, snapshot.Hardware.Branches, "disabled hardware counters stay untouched")
}

func TestWorkloadStopsAfterDuration(t *testing.T) {
	set := counters.NewSet()
	w := NewWorkload(WorkloadConfig{Threads: 2, Duration: 50 * time.Millisecond}, set, nil)

	start := time.Now()

	require.NoError(t, w.Run(context.Background()))

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Positive(t, set.Load(counters.Iterations))
}

func TestWorkloadPaced(t *testing.T) {
	set := counters.NewSet()
	pacer := NewPacer(100)

	defer pacer.Stop()

	w := NewWorkload(WorkloadConfig{Threads: 4, Duration: 200 * time.Millisecond}, set, pacer)

	require.NoError(t, w.Run(context.Background()))

	assert.LessOrEqual(t, set.Load(counters.Iterations), uint64(40), "all workers share one pacer")
}

func TestPacer(t *testing.T) {
	p := NewPacer(0)
	assert.InDelta(t, 1.0, p.Rate(), 1e-9)

	p.SetRate(200)
	assert.InDelta(t, 200.0, p.Rate(), 1e-9)

	select {
	case <-p.Tick():
	case <-time.After(2 * time.Second):
		t.Fatal("no permit received")
	}

	p.Stop()
	assert.NotPanics(t, p.Stop)
}

func TestModuleLifecycle(t *testing.T) {
	w := &countingWriter{}

	cfg := &config.Config{
		Display: config.DisplaySection{Interval: time.Hour, Mode: definitions.DisplayModeAlways},
		Fuzz:    config.FuzzSection{Threads: 2, MutationsMax: 100},
		Workload: config.WorkloadSection{
			Enabled:   true,
			CrashProb: 0.1,
		},
	}

	var set *counters.Set

	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(cfg, cfg.RenderConfig(time.Now()), display.Options{Output: w}, newTestLogger(&bytes.Buffer{})),
		fx.Provide(
			counters.NewSet,
			func(s *counters.Set) counters.Source { return s },
		),
		display.Module,
		Module,
		fx.Populate(&set),
	)

	app.RequireStart()
	app.RequireStop()

	assert.GreaterOrEqual(t, w.calls, 1, "a final frame is drawn on shutdown")
	assert.Contains(t, w.String(), "out of: "+definitions.EscBold+"100"+definitions.EscReset)
	assert.LessOrEqual(t, set.Load(counters.Iterations), uint64(102))
}
