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

package config

import (
	"os"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"
)

// DefaultThreads returns half the number of logical CPUs, at least 1.
func DefaultThreads() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 1 {
		return 1
	}

	return n / 2
}

// CountInputFiles returns the number of regular files directly inside path if it is a directory,
// 1 for a regular file and 0 otherwise.
func CountInputFiles(path string) int {
	if path == "" {
		return 0
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0
	}

	if info.Mode().IsRegular() {
		return 1
	}

	if !info.IsDir() {
		return 0
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}

	count := 0

	for _, entry := range entries {
		if entry.Type().IsRegular() {
			count++
		}
	}

	return count
}

// RemoteCmdLine reads the command line of pid from the process table.
// It returns an empty string if the process cannot be inspected.
func RemoteCmdLine(pid int) string {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return ""
	}

	cmdline, err := proc.Cmdline()
	if err != nil {
		return ""
	}

	return strings.TrimSpace(cmdline)
}
