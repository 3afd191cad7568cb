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
	"sync"

	"github.com/croessner/fuzzstat/definitions"
	"github.com/mackerelio/go-osstat/cpu"
	"github.com/prometheus/client_golang/prometheus"
)

// HostCollector exports the host CPU utilization since the previous scrape. The first scrape
// reports the utilization since boot.
type HostCollector struct {
	mu   sync.Mutex
	prev cpu.Stats
	read func() (*cpu.Stats, error)

	user   *prometheus.Desc
	system *prometheus.Desc
	idle   *prometheus.Desc
}

// NewHostCollector returns a HostCollector reading the CPU statistics of the operating system.
func NewHostCollector() *HostCollector {
	return newHostCollector(cpu.Get)
}

func newHostCollector(read func() (*cpu.Stats, error)) *HostCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(definitions.AppName, "host", name), help, nil, nil)
	}

	return &HostCollector{
		read:   read,
		user:   desc("cpu_user_usage_percent", "Host CPU user usage in percent."),
		system: desc("cpu_system_usage_percent", "Host CPU system usage in percent."),
		idle:   desc("cpu_idle_usage_percent", "Host CPU idle usage in percent."),
	}
}

// Describe implements prometheus.Collector.
func (c *HostCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.user
	ch <- c.system
	ch <- c.idle
}

// Collect implements prometheus.Collector. Nothing is exported if the statistics are unavailable.
func (c *HostCollector) Collect(ch chan<- prometheus.Metric) {
	current, err := c.read()
	if err != nil || current == nil {
		return
	}

	c.mu.Lock()
	prev := c.prev
	c.prev = *current
	c.mu.Unlock()

	if current.Total <= prev.Total {
		return
	}

	total := float64(current.Total - prev.Total)

	ch <- prometheus.MustNewConstMetric(c.user, prometheus.GaugeValue, float64(current.User-prev.User)/total*100)
	ch <- prometheus.MustNewConstMetric(c.system, prometheus.GaugeValue, float64(current.System-prev.System)/total*100)
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(current.Idle-prev.Idle)/total*100)
}

var _ prometheus.Collector = (*HostCollector)(nil)
