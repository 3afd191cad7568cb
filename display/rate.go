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

package display

// RateTracker derives the number of iterations since the previous observation.
//
// It has a single owner and is not safe for concurrent use.
type RateTracker struct {
	previous uint64
}

// Observe returns current minus the previously observed value and remembers current.
// The first call returns current itself. A value below the previous one yields 0.
func (t *RateTracker) Observe(current uint64) uint64 {
	var rate uint64

	if current >= t.previous {
		rate = current - t.previous
	}

	t.previous = current

	return rate
}

// Previous returns the last observed value.
func (t *RateTracker) Previous() uint64 {
	return t.previous
}

// ClampIterations limits raw to maximum if a maximum is configured.
// Workers count iterations unconditionally, so the raw counter may overshoot.
func ClampIterations(raw, maximum uint64) uint64 {
	if maximum > 0 && raw > maximum {
		return maximum
	}

	return raw
}

// Average returns total/elapsed, or 0 if no full second has elapsed.
func Average(total, elapsed uint64) uint64 {
	if elapsed == 0 {
		return 0
	}

	return total / elapsed
}
