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

// Package counters holds the shared progress and outcome counters of a fuzzing run.
//
// Any number of worker goroutines may update a Set concurrently. Every update
// and every read is a single atomic operation on one field; there is no
// ordering between different fields, so a reader may observe a combination of
// values that never existed at one instant. That is fine for a display.
package counters

import (
	"sync/atomic"
)

// Field identifies a single counter.
type Field int

// Counter fields. The order is the storage order and carries no meaning.
const (
	Iterations Field = iota
	Crashes
	UniqueCrashes
	BlacklistedCrashes
	VerifiedCrashes
	Timeouts
	DynFileIterExpire
	DynFileBestSize
	CPUInstructions
	CPUBranches
	BTSBlocks
	BTSEdges
	IPTBlocks
	CustomCounter
	SanCovHitBlocks
	SanCovTotalBlocks
	SanCovDSOs
	SanCovNewBlocks
	SanCovCrashes

	numFields
)

var fieldNames = [numFields]string{
	Iterations:         "iterations",
	Crashes:            "crashes",
	UniqueCrashes:      "unique_crashes",
	BlacklistedCrashes: "blacklisted_crashes",
	VerifiedCrashes:    "verified_crashes",
	Timeouts:           "timeouts",
	DynFileIterExpire:  "dynfile_iter_expire",
	DynFileBestSize:    "dynfile_best_size",
	CPUInstructions:    "cpu_instructions",
	CPUBranches:        "cpu_branches",
	BTSBlocks:          "bts_blocks",
	BTSEdges:           "bts_edges",
	IPTBlocks:          "ipt_blocks",
	CustomCounter:      "custom_counter",
	SanCovHitBlocks:    "sancov_hit_blocks",
	SanCovTotalBlocks:  "sancov_total_blocks",
	SanCovDSOs:         "sancov_dsos",
	SanCovNewBlocks:    "sancov_new_blocks",
	SanCovCrashes:      "sancov_crashes",
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, numFields)
	for f, name := range fieldNames {
		m[name] = Field(f)
	}

	return m
}()

// Valid reports whether f names a known counter.
func (f Field) Valid() bool {
	return f >= 0 && f < numFields
}

func (f Field) String() string {
	if !f.Valid() {
		return "unknown"
	}

	return fieldNames[f]
}

// Fields returns all known fields in storage order.
func Fields() []Field {
	fields := make([]Field, numFields)
	for i := range fields {
		fields[i] = Field(i)
	}

	return fields
}

// FieldByName resolves a snake_case counter name.
func FieldByName(name string) (Field, bool) {
	f, ok := fieldsByName[name]

	return f, ok
}

// Source is a read-only view of the counters.
//
// Load must never block and never fail. Unknown fields and fields that are
// not maintained by the current configuration read as zero.
type Source interface {
	Load(f Field) uint64
}

// ReadField loads a counter by its snake_case name. Unknown names read as zero.
func ReadField(src Source, name string) uint64 {
	f, ok := FieldByName(name)
	if !ok || src == nil {
		return 0
	}

	return src.Load(f)
}

// Set is the concurrently updated counter store. The zero value is ready to use.
type Set struct {
	values [numFields]atomic.Uint64
}

// NewSet returns an empty counter set.
func NewSet() *Set {
	return &Set{}
}

// Load returns the current value of f.
func (s *Set) Load(f Field) uint64 {
	if !f.Valid() {
		return 0
	}

	return s.values[f].Load()
}

// Add increments f by delta and returns the new value.
func (s *Set) Add(f Field, delta uint64) uint64 {
	if !f.Valid() {
		return 0
	}

	return s.values[f].Add(delta)
}

// Inc increments f by one and returns the new value.
func (s *Set) Inc(f Field) uint64 {
	return s.Add(f, 1)
}

// Store overwrites f. Used for gauge-like values such as the best dynamic file size.
func (s *Set) Store(f Field, v uint64) {
	if !f.Valid() {
		return
	}

	s.values[f].Store(v)
}

// StoreMax raises f to v if v is larger than the current value.
func (s *Set) StoreMax(f Field, v uint64) {
	if !f.Valid() {
		return
	}

	for {
		cur := s.values[f].Load()
		if v <= cur || s.values[f].CompareAndSwap(cur, v) {
			return
		}
	}
}

var _ Source = (*Set)(nil)
