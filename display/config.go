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
	"io"
	"time"

	"github.com/croessner/fuzzstat/definitions"
)

// RenderConfig is the static part of the report. It is set once at startup and never modified.
type RenderConfig struct {
	// StartTime is the start of the run. Elapsed time is measured from here.
	StartTime time.Time

	// Interval is the time between two frames. It only affects the rate label.
	Interval time.Duration

	// MutationsMax caps the displayed iteration count. Zero means unlimited.
	MutationsMax uint64

	InputPath string
	CmdLine   string

	// RemotePID is the pid of an externally started target. Zero or less hides the line.
	RemotePID int
	RemoteCmd string

	Threads   int
	FileCount int

	// FlipRate of zero together with UseVerifier is a dry run over the input corpus.
	FlipRate    float64
	UseVerifier bool

	DynFileMethod  definitions.DynFileMethod
	MaxFileSize    uint64
	MaxDynFileIter uint64

	UseSanCov bool
}

// Options configure the terminal renderer.
type Options struct {
	// BufferSize bounds a single frame. Zero selects definitions.DisplayBufferSize.
	BufferSize int

	// Output receives the frames. Nil selects a single-write stdout writer.
	Output io.Writer
}
