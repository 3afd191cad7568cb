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

package metrics

import (
	"time"

	"github.com/croessner/fuzzstat/counters"
	"github.com/croessner/fuzzstat/display"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigFastest

// Status is the JSON document served on the status endpoint.
type Status struct {
	StartTime      time.Time         `json:"start_time"`
	ElapsedSeconds uint64            `json:"elapsed_seconds"`
	Iterations     uint64            `json:"iterations"`
	IterationsMax  uint64            `json:"iterations_max,omitempty"`
	ExecsAverage   uint64            `json:"execs_avg"`
	Counters       map[string]uint64 `json:"counters"`
}

// NewStatus reads every counter of source once. Iterations are clamped like on the report.
func NewStatus(source counters.Source, cfg *display.RenderConfig, now time.Time) Status {
	fields := counters.Fields()
	status := Status{
		StartTime:     cfg.StartTime,
		IterationsMax: cfg.MutationsMax,
		Counters:      make(map[string]uint64, len(fields)),
	}

	for _, f := range fields {
		status.Counters[f.String()] = source.Load(f)
	}

	if !cfg.StartTime.IsZero() {
		if elapsed := now.Sub(cfg.StartTime); elapsed > 0 {
			status.ElapsedSeconds = uint64(elapsed / time.Second)
		}
	}

	status.Iterations = display.ClampIterations(status.Counters[counters.Iterations.String()], cfg.MutationsMax)
	status.ExecsAverage = display.Average(status.Iterations, status.ElapsedSeconds)

	return status
}

// Marshal encodes the status document.
func (s Status) Marshal() ([]byte, error) {
	return json.Marshal(s)
}
