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

// Package metrics exposes the run counters to Prometheus and as a JSON status document.
package metrics

import (
	"github.com/croessner/fuzzstat/counters"
	"github.com/croessner/fuzzstat/definitions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// monotonic lists the fields that only ever grow. All other fields are exported as gauges.
var monotonic = map[counters.Field]bool{
	counters.Iterations:         true,
	counters.Crashes:            true,
	counters.UniqueCrashes:      true,
	counters.BlacklistedCrashes: true,
	counters.VerifiedCrashes:    true,
	counters.Timeouts:           true,
	counters.SanCovNewBlocks:    true,
	counters.SanCovCrashes:      true,
}

var help = map[counters.Field]string{
	counters.Iterations:         "Number of fuzzing iterations started.",
	counters.Crashes:            "Number of crashes observed.",
	counters.UniqueCrashes:      "Number of crashes with a new signature.",
	counters.BlacklistedCrashes: "Number of crashes matching a blacklisted stack hash.",
	counters.VerifiedCrashes:    "Number of crashes confirmed by the verifier.",
	counters.Timeouts:           "Number of iterations killed by the time limit.",
	counters.DynFileIterExpire:  "Iterations left before the dynamic file seed expires.",
	counters.DynFileBestSize:    "Size of the best dynamic file in bytes.",
	counters.CPUInstructions:    "Best CPU instruction count.",
	counters.CPUBranches:        "Best CPU branch count.",
	counters.BTSBlocks:          "Unique basic blocks seen by BTS.",
	counters.BTSEdges:           "Unique edges seen by BTS.",
	counters.IPTBlocks:          "Unique basic blocks seen by Intel PT.",
	counters.CustomCounter:      "Value of the custom feedback counter.",
	counters.SanCovHitBlocks:    "Sanitizer coverage blocks hit.",
	counters.SanCovTotalBlocks:  "Sanitizer coverage blocks in total.",
	counters.SanCovDSOs:         "Instrumented modules reporting sanitizer coverage.",
	counters.SanCovNewBlocks:    "Sanitizer coverage blocks found since start.",
	counters.SanCovCrashes:      "Crashes reported with sanitizer coverage.",
}

type metric struct {
	field     counters.Field
	desc      *prometheus.Desc
	valueType prometheus.ValueType
}

// Collector reads the counters at scrape time. It never writes to the source.
type Collector struct {
	source  counters.Source
	metrics []metric
}

// NewCollector returns a Collector for source.
func NewCollector(source counters.Source) *Collector {
	fields := counters.Fields()
	c := &Collector{source: source, metrics: make([]metric, 0, len(fields))}

	for _, f := range fields {
		name := f.String()
		valueType := prometheus.GaugeValue

		if monotonic[f] {
			name += "_total"
			valueType = prometheus.CounterValue
		}

		c.metrics = append(c.metrics, metric{
			field:     f,
			desc:      prometheus.NewDesc(prometheus.BuildFQName(definitions.AppName, "", name), help[f], nil, nil),
			valueType: valueType,
		})
	}

	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, float64(c.source.Load(m.field)))
	}
}

// NewRegistry returns a registry with the counter collector, the host CPU collector and the Go runtime and
// process collectors.
func NewRegistry(source counters.Source) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	for _, c := range []prometheus.Collector{
		NewCollector(source),
		NewHostCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

var _ prometheus.Collector = (*Collector)(nil)
