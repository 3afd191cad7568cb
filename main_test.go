package main

import (
	"testing"
	"time"

	"github.com/croessner/fuzzstat/config"
	"github.com/croessner/fuzzstat/definitions"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
)

func TestAppOptionsValidate(t *testing.T) {
	cfg := &config.Config{
		Display:  config.DisplaySection{Interval: time.Second, Mode: definitions.DisplayModeNever},
		Fuzz:     config.FuzzSection{Threads: 1},
		Workload: config.WorkloadSection{Enabled: true},
	}

	assert.NoError(t, fx.ValidateApp(fx.NopLogger, appOptions(cfg, time.Now())))
}
