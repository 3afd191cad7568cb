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

package definitions

import "strings"

// DynFileMethod is a bitmask of the feedback sources that drive the dynamic input file.
type DynFileMethod uint32

// Feedback sources. DynFileNone means no dynamic file feedback.
const (
	DynFileNone        DynFileMethod = 0
	DynFileInstrCount  DynFileMethod = 1 << 0
	DynFileBranchCount DynFileMethod = 1 << 1
	DynFileBTSBlock    DynFileMethod = 1 << 2
	DynFileBTSEdge     DynFileMethod = 1 << 3
	DynFileIPTBlock    DynFileMethod = 1 << 4
	DynFileCustom      DynFileMethod = 1 << 5
)

// Names of the feedback sources as used in the configuration.
const (
	DynFileNoneName        = "none"
	DynFileInstrCountName  = "instr"
	DynFileBranchCountName = "branch"
	DynFileBTSBlockName    = "bts_block"
	DynFileBTSEdgeName     = "bts_edge"
	DynFileIPTBlockName    = "ipt_block"
	DynFileCustomName      = "custom"
)

var dynFileMethodNames = []struct {
	method DynFileMethod
	name   string
}{
	{DynFileInstrCount, DynFileInstrCountName},
	{DynFileBranchCount, DynFileBranchCountName},
	{DynFileBTSBlock, DynFileBTSBlockName},
	{DynFileBTSEdge, DynFileBTSEdgeName},
	{DynFileIPTBlock, DynFileIPTBlockName},
	{DynFileCustom, DynFileCustomName},
}

// Has reports whether all bits of flag are set.
func (m DynFileMethod) Has(flag DynFileMethod) bool {
	return flag != DynFileNone && m&flag == flag
}

// HasHardware reports whether any of the CPU counter based sources is enabled.
func (m DynFileMethod) HasHardware() bool {
	return m&(DynFileInstrCount|DynFileBranchCount|DynFileBTSBlock|DynFileBTSEdge|DynFileIPTBlock|DynFileCustom) != 0
}

func (m DynFileMethod) String() string {
	if m == DynFileNone {
		return DynFileNoneName
	}

	names := make([]string, 0, len(dynFileMethodNames))

	for _, entry := range dynFileMethodNames {
		if m.Has(entry.method) {
			names = append(names, entry.name)
		}
	}

	return strings.Join(names, ",")
}

// DynFileMethodByName returns the method bit for a configuration name.
func DynFileMethodByName(name string) (DynFileMethod, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == DynFileNoneName {
		return DynFileNone, true
	}

	for _, entry := range dynFileMethodNames {
		if entry.name == name {
			return entry.method, true
		}
	}

	return DynFileNone, false
}
