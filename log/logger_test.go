package log

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/errors"
	"github.com/croessner/fuzzstat/log/level"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggingLevels(t *testing.T) {
	tests := []struct {
		name     string
		level    int
		expected []string
	}{
		{name: "none", level: definitions.LogLevelNone, expected: nil},
		{name: "error", level: definitions.LogLevelError, expected: []string{"m-error"}},
		{name: "warn", level: definitions.LogLevelWarn, expected: []string{"m-warn", "m-error"}},
		{name: "info", level: definitions.LogLevelInfo, expected: []string{"m-info", "m-warn", "m-error"}},
		{name: "debug", level: definitions.LogLevelDebug, expected: []string{"m-debug", "m-info", "m-warn", "m-error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}

			logger := SetupLoggingTo(buf, Options{Level: tt.level, Color: definitions.ColorModeNever, Instance: "test"})
			assert.Same(t, logger, Logger)

			level.Debug(logger).Log(definitions.LogKeyMsg, "m-debug")
			level.Info(logger).Log(definitions.LogKeyMsg, "m-info")
			level.Warn(logger).Log(definitions.LogKeyMsg, "m-warn")
			level.Error(logger).Log(definitions.LogKeyMsg, "m-error")

			out := buf.String()
			for _, msg := range []string{"m-debug", "m-info", "m-warn", "m-error"} {
				if slices.Contains(tt.expected, msg) {
					assert.Contains(t, out, "msg="+msg)
				} else {
					assert.NotContains(t, out, "msg="+msg)
				}
			}

			if len(tt.expected) > 0 {
				assert.Contains(t, out, "instance=test")
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, Options{Level: definitions.LogLevelInfo, JSON: true, Instance: "json"})

	level.Info(logger).Log(definitions.LogKeyMsg, "hello", definitions.LogKeyIterations, uint64(42))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "json", entry[definitions.LogKeyInstance])
	assert.EqualValues(t, 42, entry[definitions.LogKeyIterations])
}

func TestColorOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, Options{Level: definitions.LogLevelInfo, Color: definitions.ColorModeAlways, Instance: "c"})

	level.Error(logger).Log(definitions.LogKeyMsg, "red")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\x1b[31m"), "error lines use red in the light theme: %q", out)
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestGeneratedInstance(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, Options{Level: definitions.LogLevelInfo, JSON: true})

	level.Info(logger).Log(definitions.LogKeyMsg, "x")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	instance, ok := entry[definitions.LogKeyInstance].(string)
	require.True(t, ok)

	_, err := ksuid.Parse(instance)
	assert.NoError(t, err)
}

func TestLevelFromName(t *testing.T) {
	tests := []struct {
		name     string
		expected int
	}{
		{"none", definitions.LogLevelNone},
		{"error", definitions.LogLevelError},
		{"WARN", definitions.LogLevelWarn},
		{" info ", definitions.LogLevelInfo},
		{"", definitions.LogLevelInfo},
		{"debug", definitions.LogLevelDebug},
	}

	for _, tt := range tests {
		got, err := LevelFromName(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.expected, got, tt.name)
	}

	_, err := LevelFromName("verbose")
	assert.ErrorIs(t, err, errors.ErrInvalidLogLevel)
}

func TestUseColor(t *testing.T) {
	buf := &bytes.Buffer{}

	assert.True(t, UseColor(definitions.ColorModeAlways, buf))
	assert.False(t, UseColor(definitions.ColorModeNever, buf))
	assert.False(t, UseColor(definitions.ColorModeAuto, buf), "a buffer is never a terminal")
}
