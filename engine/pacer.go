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

package engine

import (
	"sync"
	"time"
)

// Pacer hands out permits at a fixed rate per second. Permits that are not picked up are dropped,
// so a stalled consumer does not cause a burst later.
type Pacer struct {
	mu       sync.Mutex
	rate     float64
	ticker   *time.Ticker
	ch       chan time.Time
	stopC    chan struct{}
	stopOnce sync.Once
}

// NewPacer starts a Pacer. A rate of zero or less is treated as one permit per second.
func NewPacer(rate float64) *Pacer {
	if rate <= 0 {
		rate = 1
	}

	p := &Pacer{
		rate:   rate,
		ticker: time.NewTicker(intervalFor(rate)),
		ch:     make(chan time.Time, 1),
		stopC:  make(chan struct{}),
	}

	go p.loop()

	return p
}

func intervalFor(rate float64) time.Duration {
	interval := time.Duration(float64(time.Second) / rate)
	if interval <= 0 {
		interval = time.Nanosecond
	}

	return interval
}

func (p *Pacer) loop() {
	defer p.ticker.Stop()

	for {
		select {
		case now := <-p.ticker.C:
			select {
			case p.ch <- now:
			default:
			}
		case <-p.stopC:
			return
		}
	}
}

// SetRate changes the number of permits per second.
func (p *Pacer) SetRate(rate float64) {
	if rate <= 0 {
		rate = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.rate = rate
	p.ticker.Reset(intervalFor(rate))
}

// Rate returns the current number of permits per second.
func (p *Pacer) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rate
}

// Tick returns the permit channel.
func (p *Pacer) Tick() <-chan time.Time {
	return p.ch
}

// Stop terminates the pacer. It is safe to call Stop more than once.
func (p *Pacer) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopC)
	})
}
