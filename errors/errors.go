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

package errors

import (
	"errors"
)

// display.

var (
	ErrShortWrite     = errors.New("short write of display frame")
	ErrNoWriter       = errors.New("no output writer configured")
	ErrNoSource       = errors.New("no counter source configured")
	ErrNoRenderConfig = errors.New("no render configuration")
)

// config.

var (
	ErrInvalidDynFileMethod = errors.New("invalid dynamic file method")
	ErrInvalidInterval      = errors.New("display interval must be positive")
	ErrInvalidBufferSize    = errors.New("display buffer size too small")
	ErrInvalidThreads       = errors.New("thread count must be positive")
	ErrInvalidDisplayMode   = errors.New("invalid display mode")
	ErrInvalidColorMode     = errors.New("invalid color mode")
	ErrInvalidLogLevel      = errors.New("invalid log level")
	ErrInvalidFlipRate      = errors.New("flip rate must be within [0, 1]")
	ErrInvalidProbability   = errors.New("probability must be within [0, 1]")
	ErrInvalidRemotePID     = errors.New("remote pid must not be negative")
	ErrInvalidConfig        = errors.New("invalid configuration")
)

// metrics.

var (
	ErrMetricsListen = errors.New("metrics listener failed")
)
