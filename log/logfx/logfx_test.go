package logfx

import (
	"bytes"
	"context"
	stdlog "log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

const testTimeout = 5 * time.Second

func TestStdlibBridgeWritesToSlog(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	t.Cleanup(func() {
		stdlog.SetOutput(os.Stderr)
		stdlog.SetFlags(stdlog.LstdFlags)
	})

	app := fx.New(
		fx.Supply(logger),
		fx.Invoke(BridgeStdLog),
		fx.NopLogger,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	require.NoError(t, app.Start(startCtx))

	stdlog.Print("hello")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), testTimeout)
	defer stopCancel()

	require.NoError(t, app.Stop(stopCtx))

	assert.Contains(t, buf.String(), "msg=hello")
}

func TestFxEventLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	l := NewFxEventLogger(logger)

	l.LogEvent(&fxevent.Started{})
	assert.Empty(t, buf.String(), "successful start is debug only")

	l.LogEvent(&fxevent.Invoked{FunctionName: "main.run", Err: assert.AnError})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "function=main.run")
	assert.Contains(t, buf.String(), `msg="fx invoke failed"`)

	buf.Reset()
	l.LogEvent(&fxevent.Stopping{Signal: os.Interrupt})
	assert.Contains(t, buf.String(), "msg=\"shutting down\"")
	assert.Contains(t, buf.String(), "signal=interrupt")

	buf.Reset()
	l.LogEvent(&fxevent.OnStopExecuted{FunctionName: "engine.Stop", Err: assert.AnError})
	assert.Contains(t, buf.String(), `msg="fx stop hook failed"`)
	assert.NotContains(t, buf.String(), "runtime=")

	var nilLogger *FxEventLogger
	assert.NotPanics(t, func() { nilLogger.LogEvent(&fxevent.Started{}) })
}
