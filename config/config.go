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

// Package config loads the run configuration from defaults, an optional
// configuration file, FUZZSTAT_* environment variables and command line flags,
// in increasing order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/display"
	"github.com/croessner/fuzzstat/errors"
	"github.com/croessner/fuzzstat/log"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the complete run configuration.
type Config struct {
	Display  DisplaySection  `mapstructure:"display"`
	Log      LogSection      `mapstructure:"log"`
	Metrics  MetricsSection  `mapstructure:"metrics"`
	Fuzz     FuzzSection     `mapstructure:"fuzz"`
	Workload WorkloadSection `mapstructure:"workload"`

	// ConfigFile is the configuration file in use, if any.
	ConfigFile string `mapstructure:"-"`

	// FileCount is the number of input files found below Fuzz.Input.
	FileCount int `mapstructure:"-"`

	// ShowVersion is set by --version.
	ShowVersion bool `mapstructure:"-"`

	logLevel int
}

// DisplaySection configures the status report.
type DisplaySection struct {
	Interval   time.Duration `mapstructure:"interval"`
	Mode       string        `mapstructure:"mode"`
	BufferSize int           `mapstructure:"buffer_size"`
}

// LogSection configures the process logger.
type LogSection struct {
	Level    string `mapstructure:"level"`
	JSON     bool   `mapstructure:"json"`
	Color    string `mapstructure:"color"`
	Theme    string `mapstructure:"theme"`
	Instance string `mapstructure:"instance"`
}

// MetricsSection configures the Prometheus endpoint. An empty Listen disables it.
type MetricsSection struct {
	Listen string `mapstructure:"listen" validate:"omitempty,hostname_port"`
	Pprof  bool   `mapstructure:"pprof"`
}

// FuzzSection describes the fuzzing run shown in the report.
type FuzzSection struct {
	Input         string                    `mapstructure:"input"`
	CmdLine       string                    `mapstructure:"cmdline"`
	Threads       int                       `mapstructure:"threads"`
	MutationsMax  uint64                    `mapstructure:"mutations_max"`
	FlipRate      float64                   `mapstructure:"flip_rate"`
	Verifier      bool                      `mapstructure:"verifier"`
	DynFileMethod definitions.DynFileMethod `mapstructure:"dynfile_method"`
	MaxFileSize   uint64                    `mapstructure:"max_file_size"`
	SanCov        bool                      `mapstructure:"sancov"`
	RemotePID     int                       `mapstructure:"remote_pid"`
	RemoteCmd     string                    `mapstructure:"remote_cmd"`
}

// WorkloadSection configures the built-in synthetic workers.
type WorkloadSection struct {
	Enabled     bool          `mapstructure:"enabled"`
	Rate        float64       `mapstructure:"rate" validate:"gte=0"`
	CrashProb   float64       `mapstructure:"crash_prob"`
	TimeoutProb float64       `mapstructure:"timeout_prob"`
	Duration    time.Duration `mapstructure:"duration" validate:"gte=0"`
}

// LogLevel returns the parsed log level. It is valid after Validate.
func (c *Config) LogLevel() int {
	return c.logLevel
}

// Validate checks all values and resolves the log level.
func (c *Config) Validate() error {
	if c.Display.Interval <= 0 {
		return fmt.Errorf("%w: %s", errors.ErrInvalidInterval, c.Display.Interval)
	}

	if c.Display.BufferSize < definitions.MinDisplayBufferSize {
		return fmt.Errorf("%w: %d < %d", errors.ErrInvalidBufferSize, c.Display.BufferSize, definitions.MinDisplayBufferSize)
	}

	switch c.Display.Mode {
	case definitions.DisplayModeAuto, definitions.DisplayModeAlways, definitions.DisplayModeNever:
	default:
		return fmt.Errorf("%w: %q", errors.ErrInvalidDisplayMode, c.Display.Mode)
	}

	switch c.Log.Color {
	case definitions.ColorModeAuto, definitions.ColorModeAlways, definitions.ColorModeNever:
	default:
		return fmt.Errorf("%w: %q", errors.ErrInvalidColorMode, c.Log.Color)
	}

	lvl, err := log.LevelFromName(c.Log.Level)
	if err != nil {
		return err
	}

	c.logLevel = lvl

	if c.Fuzz.Threads <= 0 {
		return fmt.Errorf("%w: %d", errors.ErrInvalidThreads, c.Fuzz.Threads)
	}

	if c.Fuzz.FlipRate < 0 || c.Fuzz.FlipRate > 1 {
		return fmt.Errorf("%w: %g", errors.ErrInvalidFlipRate, c.Fuzz.FlipRate)
	}

	if c.Fuzz.RemotePID < 0 {
		return fmt.Errorf("%w: %d", errors.ErrInvalidRemotePID, c.Fuzz.RemotePID)
	}

	probabilities := []struct {
		key   string
		value float64
	}{
		{"workload.crash_prob", c.Workload.CrashProb},
		{"workload.timeout_prob", c.Workload.TimeoutProb},
	}

	for _, p := range probabilities {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%w: %s=%g", errors.ErrInvalidProbability, p.key, p.value)
		}
	}

	if err = validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	return nil
}

// RenderConfig returns the static part of the status report for a run started at start.
func (c *Config) RenderConfig(start time.Time) *display.RenderConfig {
	return &display.RenderConfig{
		StartTime:      start,
		Interval:       c.Display.Interval,
		MutationsMax:   c.Fuzz.MutationsMax,
		InputPath:      c.Fuzz.Input,
		CmdLine:        c.Fuzz.CmdLine,
		RemotePID:      c.Fuzz.RemotePID,
		RemoteCmd:      c.Fuzz.RemoteCmd,
		Threads:        c.Fuzz.Threads,
		FileCount:      c.FileCount,
		FlipRate:       c.Fuzz.FlipRate,
		UseVerifier:    c.Fuzz.Verifier,
		DynFileMethod:  c.Fuzz.DynFileMethod,
		MaxFileSize:    c.Fuzz.MaxFileSize,
		MaxDynFileIter: definitions.MaxDynFileIter,
		UseSanCov:      c.Fuzz.SanCov,
	}
}

// DisplayOptions returns the renderer options. The output defaults to stdout.
func (c *Config) DisplayOptions() display.Options {
	return display.Options{BufferSize: c.Display.BufferSize}
}

// LogOptions returns the logger options.
func (c *Config) LogOptions() log.Options {
	return log.Options{
		Level:    c.logLevel,
		JSON:     c.Log.JSON,
		Color:    c.Log.Color,
		Theme:    c.Log.Theme,
		Instance: c.Log.Instance,
	}
}
