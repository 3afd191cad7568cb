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

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// FDWriter writes to a file descriptor with exactly one write(2) per call.
// Unlike os.File it does not loop on partial writes, so a frame reaches the terminal in one piece or is reported short.
type FDWriter struct {
	fd int
}

// NewFDWriter wraps fd.
func NewFDWriter(fd uintptr) *FDWriter {
	return &FDWriter{fd: int(fd)}
}

// Stdout returns an FDWriter for the process standard output.
func Stdout() *FDWriter {
	return NewFDWriter(os.Stdout.Fd())
}

// Write issues a single write system call. EINTR is reported like any other error.
func (w *FDWriter) Write(p []byte) (int, error) {
	n, err := unix.Write(w.fd, p)
	if n < 0 {
		n = 0
	}

	return n, err
}

// IsTTY reports whether standard output is a terminal.
func IsTTY() bool {
	fd := os.Stdout.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
