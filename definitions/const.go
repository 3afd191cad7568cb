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

// Package definitions holds constants and small enum types shared by all other packages.
package definitions

import "time"

const (
	// AppName is the binary and metrics namespace name.
	AppName = "fuzzstat"

	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "FUZZSTAT"
)

// Terminal control sequences. No other escape sequences are emitted by the report.
const (
	// EscClear moves the cursor home and clears the whole screen.
	EscClear = "\x1b[H\x1b[2J"

	// EscBold turns on bold emphasis.
	EscBold = "\x1b[1m"

	// EscReset resets all attributes.
	EscReset = "\x1b[0m"
)

const (
	// DisplayBufferSize is the default upper bound for a single rendered frame in bytes.
	DisplayBufferSize = 4 * 1024

	// MinDisplayBufferSize is the smallest accepted frame buffer.
	MinDisplayBufferSize = 256

	// DisplayInterval is the default time between two frames.
	DisplayInterval = time.Second

	// BannerWidth is the width of the section banners in terminal cells.
	BannerWidth = 66

	// BannerFill is the rune used to pad banners.
	BannerFill = "="

	// BannerStat is the title of the header banner.
	BannerStat = "STAT"

	// BannerLogs is the title of the footer banner. Log output follows it on screen.
	BannerLogs = "LOGS"

	// MaxTextFieldCells caps free-text values like the command line.
	MaxTextFieldCells = 512

	// TextFieldTail marks a truncated free-text value.
	TextFieldTail = "..."

	// MaxDynFileIter is the maximum number of iterations a dynamic file seed is kept.
	MaxDynFileIter = 0x2000

	// MaxFileSize is the default upper bound for generated inputs.
	MaxFileSize = 1024 * 1024

	// FlipRate is the default mutation flip rate. A flip rate of zero means dry run.
	FlipRate = 0.001

	// StartTimeLayout renders the start time as local date and time.
	StartTimeLayout = "2006-01-02 15:04:05"
)

// Display modes.
const (
	// DisplayModeAuto renders the full-screen report only when stdout is a terminal.
	DisplayModeAuto = "auto"

	// DisplayModeAlways always renders the full-screen report.
	DisplayModeAlways = "always"

	// DisplayModeNever disables the full-screen report and logs status lines instead.
	DisplayModeNever = "never"
)

// Color modes for log output.
const (
	ColorModeAuto   = "auto"
	ColorModeAlways = "always"
	ColorModeNever  = "never"
)

// Log level.
const (
	// LogLevelNone disables logging
	LogLevelNone = iota

	// LogLevelError only logs errors
	LogLevelError

	// LogLevelWarn logs warnings and errors
	LogLevelWarn

	// LogLevelInfo is the default log level
	LogLevelInfo

	// LogLevelDebug logs everything
	LogLevelDebug
)

// Log level names as used in the configuration.
const (
	LogLevelNameNone  = "none"
	LogLevelNameError = "error"
	LogLevelNameWarn  = "warn"
	LogLevelNameInfo  = "info"
	LogLevelNameDebug = "debug"
)

const (
	// LogKeyMsg represents the message content in log entries.
	LogKeyMsg = "msg"

	// LogKeyError represents error information in log entries.
	LogKeyError = "error"

	// LogKeyInstance represents the run identifier in log entries.
	LogKeyInstance = "instance"

	// LogKeyIterations is the (clamped) iteration count.
	LogKeyIterations = "iterations"

	// LogKeyRate is the number of iterations since the previous frame.
	LogKeyRate = "execs_per_interval"

	// LogKeyAverage is the average number of iterations per second.
	LogKeyAverage = "execs_avg"

	// LogKeyCrashes is the total crash count.
	LogKeyCrashes = "crashes"

	// LogKeyTimeouts is the total timeout count.
	LogKeyTimeouts = "timeouts"

	// LogKeyElapsed is the elapsed run time.
	LogKeyElapsed = "elapsed"

	// LogKeyBytes is the number of bytes of a rendered frame.
	LogKeyBytes = "bytes"

	// LogKeyWritten is the number of bytes that reached the output.
	LogKeyWritten = "written"

	// LogKeyTruncated flags a truncated frame.
	LogKeyTruncated = "truncated"

	// LogKeyThreads is the number of worker goroutines.
	LogKeyThreads = "threads"

	// LogKeyInterval is the render interval.
	LogKeyInterval = "interval"

	// LogKeyMode is the display mode.
	LogKeyMode = "mode"

	// LogKeyAddress is a listen address.
	LogKeyAddress = "address"

	// LogKeyConfigFile is the configuration file in use.
	LogKeyConfigFile = "config_file"

	// LogKeyGUID is the request identifier of an HTTP request.
	LogKeyGUID = "guid"

	// LogKeyClientIP is the remote address of an HTTP request.
	LogKeyClientIP = "client_ip"

	// LogKeyMethod is the HTTP method.
	LogKeyMethod = "method"

	// LogKeyHTTPStatus is the HTTP response status.
	LogKeyHTTPStatus = "status"

	// LogKeyLatency is the time taken to answer an HTTP request.
	LogKeyLatency = "latency"

	// LogKeyUriPath is the requested path.
	LogKeyUriPath = "uri_path"

	// LogKeyVersion is the program version.
	LogKeyVersion = "version"

	// LogKeySignal is the signal that ended the run.
	LogKeySignal = "signal"

	// LogKeyFunction names a constructor or hook of the fx container.
	LogKeyFunction = "function"

	// LogKeyModule names an fx module.
	LogKeyModule = "module"

	// LogKeyRuntime is the run time of an fx hook.
	LogKeyRuntime = "runtime"

	// LogKeyType is a Go type name.
	LogKeyType = "type"
)

// HTTP endpoints of the metrics listener.
const (
	// MetricsPath serves the Prometheus exposition format.
	MetricsPath = "/metrics"

	// StatusPath serves the JSON status document.
	StatusPath = "/status"
)

// Metrics listener timeouts.
const (
	MetricsReadHeaderTimeout = 10 * time.Second
	MetricsWriteTimeout      = 30 * time.Second
	MetricsIdleTimeout       = time.Minute
)
