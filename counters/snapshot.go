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

package counters

// Hardware holds the CPU performance counter values.
type Hardware struct {
	Instructions uint64
	Branches     uint64
	BTSBlocks    uint64
	BTSEdges     uint64
	IPTBlocks    uint64
	Custom       uint64
}

// SanCov holds the sanitizer coverage values.
type SanCov struct {
	HitBlocks   uint64
	TotalBlocks uint64
	DSOs        uint64
	NewBlocks   uint64
	Crashes     uint64
}

// Snapshot is a point-in-time copy of all counters, read field by field.
type Snapshot struct {
	Iterations         uint64
	Crashes            uint64
	UniqueCrashes      uint64
	BlacklistedCrashes uint64
	VerifiedCrashes    uint64
	Timeouts           uint64
	DynFileIterExpire  uint64
	DynFileBestSize    uint64

	Hardware Hardware
	SanCov   SanCov
}

// Take reads every counter of src once. A nil source yields an all-zero snapshot.
func Take(src Source) Snapshot {
	if src == nil {
		return Snapshot{}
	}

	return Snapshot{
		Iterations:         src.Load(Iterations),
		Crashes:            src.Load(Crashes),
		UniqueCrashes:      src.Load(UniqueCrashes),
		BlacklistedCrashes: src.Load(BlacklistedCrashes),
		VerifiedCrashes:    src.Load(VerifiedCrashes),
		Timeouts:           src.Load(Timeouts),
		DynFileIterExpire:  src.Load(DynFileIterExpire),
		DynFileBestSize:    src.Load(DynFileBestSize),
		Hardware: Hardware{
			Instructions: src.Load(CPUInstructions),
			Branches:     src.Load(CPUBranches),
			BTSBlocks:    src.Load(BTSBlocks),
			BTSEdges:     src.Load(BTSEdges),
			IPTBlocks:    src.Load(IPTBlocks),
			Custom:       src.Load(CustomCounter),
		},
		SanCov: SanCov{
			HitBlocks:   src.Load(SanCovHitBlocks),
			TotalBlocks: src.Load(SanCovTotalBlocks),
			DSOs:        src.Load(SanCovDSOs),
			NewBlocks:   src.Load(SanCovNewBlocks),
			Crashes:     src.Load(SanCovCrashes),
		},
	}
}
