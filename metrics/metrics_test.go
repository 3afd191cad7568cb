package metrics

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/croessner/fuzzstat/config"
	"github.com/croessner/fuzzstat/counters"
	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/display"
	"github.com/croessner/fuzzstat/errors"

	"github.com/gin-gonic/gin"
	"github.com/mackerelio/go-osstat/cpu"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSet() *counters.Set {
	set := counters.NewSet()
	set.Add(counters.Iterations, 42)
	set.Add(counters.Crashes, 3)
	set.Store(counters.DynFileBestSize, 512)

	return set
}

func TestCollectorExportsEveryField(t *testing.T) {
	c := NewCollector(testSet())

	assert.Equal(t, len(counters.Fields()), testutil.CollectAndCount(c))
}

func TestCollectorValues(t *testing.T) {
	expected := `
# HELP fuzzstat_dynfile_best_size Size of the best dynamic file in bytes.
# TYPE fuzzstat_dynfile_best_size gauge
fuzzstat_dynfile_best_size 512
# HELP fuzzstat_iterations_total Number of fuzzing iterations started.
# TYPE fuzzstat_iterations_total counter
fuzzstat_iterations_total 42
`

	err := testutil.CollectAndCompare(NewCollector(testSet()), strings.NewReader(expected),
		"fuzzstat_iterations_total", "fuzzstat_dynfile_best_size")

	assert.NoError(t, err)
}

func TestCollectorReadsAtScrapeTime(t *testing.T) {
	set := counters.NewSet()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewCollector(set)))

	set.Add(counters.Timeouts, 7)

	families, err := reg.Gather()
	require.NoError(t, err)

	var timeouts *dto.MetricFamily

	for _, family := range families {
		if family.GetName() == "fuzzstat_timeouts_total" {
			timeouts = family
		}
	}

	require.NotNil(t, timeouts)
	assert.Equal(t, dto.MetricType_COUNTER, timeouts.GetType())
	assert.InDelta(t, 7.0, timeouts.GetMetric()[0].GetCounter().GetValue(), 1e-9)
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(testSet())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}

	assert.True(t, names["fuzzstat_crashes_total"])
	assert.True(t, names["go_goroutines"])
}

func TestHostCollector(t *testing.T) {
	samples := []*cpu.Stats{
		{User: 100, System: 50, Idle: 850, Total: 1000},
		{User: 150, System: 60, Idle: 890, Total: 1100},
	}

	c := newHostCollector(func() (*cpu.Stats, error) {
		s := samples[0]
		samples = samples[1:]

		return s, nil
	})

	assert.Equal(t, 3, testutil.CollectAndCount(c), "first scrape measures since boot")

	expected := `
# HELP fuzzstat_host_cpu_user_usage_percent Host CPU user usage in percent.
# TYPE fuzzstat_host_cpu_user_usage_percent gauge
fuzzstat_host_cpu_user_usage_percent 50
`

	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "fuzzstat_host_cpu_user_usage_percent"))
}

func TestHostCollectorUnavailable(t *testing.T) {
	c := newHostCollector(func() (*cpu.Stats, error) {
		return nil, io.ErrUnexpectedEOF
	})

	assert.Zero(t, testutil.CollectAndCount(c))
}

func TestNewStatus(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	set := testSet()
	set.Add(counters.Iterations, 100)

	status := NewStatus(set, &display.RenderConfig{StartTime: start, MutationsMax: 100}, start.Add(10*time.Second))

	assert.Equal(t, uint64(10), status.ElapsedSeconds)
	assert.Equal(t, uint64(100), status.Iterations, "overshoot is clamped")
	assert.Equal(t, uint64(142), status.Counters["iterations"], "raw counters are not clamped")
	assert.Equal(t, uint64(10), status.ExecsAverage)
	assert.Len(t, status.Counters, len(counters.Fields()))
}

func TestNewStatusBeforeStart(t *testing.T) {
	start := time.Now()

	status := NewStatus(testSet(), &display.RenderConfig{StartTime: start}, start.Add(-time.Minute))

	assert.Zero(t, status.ElapsedSeconds)
	assert.Zero(t, status.ExecsAverage)
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	set := testSet()

	reg, err := NewRegistry(set)
	require.NoError(t, err)

	router := NewRouter(set, &display.RenderConfig{StartTime: start}, reg, fixedClock{now: start.Add(7 * time.Second)}, testLogger())

	t.Run("status", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, definitions.StatusPath, nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

		var status Status

		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, uint64(7), status.ElapsedSeconds)
		assert.Equal(t, uint64(42), status.Iterations)
		assert.Equal(t, uint64(3), status.Counters["crashes"])
		assert.True(t, start.Equal(status.StartTime))
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, definitions.MetricsPath, nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "fuzzstat_crashes_total 3")
	})

	t.Run("unknown", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	set := testSet()
	router := NewRouter(set, &display.RenderConfig{StartTime: time.Now()}, prometheus.NewRegistry(), nil, testLogger())

	server, err := Listen("127.0.0.1:0", router, testLogger())
	require.NoError(t, err)

	server.Serve()

	resp, err := http.Get("http://" + server.Addr().String() + definitions.StatusPath)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"iterations":42`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, server.Shutdown(ctx))
}

func TestListenFailure(t *testing.T) {
	first, err := Listen("127.0.0.1:0", http.NotFoundHandler(), testLogger())
	require.NoError(t, err)

	defer func() { _ = first.listener.Close() }()

	_, err = Listen(first.Addr().String(), http.NotFoundHandler(), testLogger())
	assert.ErrorIs(t, err, errors.ErrMetricsListen)
}

func TestGinWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := ginWriter{logger: slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), level: slog.LevelDebug}

	n, err := w.Write([]byte("route registered\n"))

	require.NoError(t, err)
	assert.Equal(t, len("route registered\n"), n)
	assert.Contains(t, buf.String(), `msg="route registered"`)
}

func TestModuleLifecycle(t *testing.T) {
	for _, listen := range []string{"", "127.0.0.1:0"} {
		t.Run("listen="+listen, func(t *testing.T) {
			cfg := &config.Config{Metrics: config.MetricsSection{Listen: listen, Pprof: listen != ""}}

			app := fxtest.New(t,
				fx.NopLogger,
				fx.Supply(cfg, &display.RenderConfig{StartTime: time.Now()}, testLogger()),
				fx.Provide(func() counters.Source { return testSet() }),
				Module,
			)

			app.RequireStart()
			app.RequireStop()
		})
	}
}
