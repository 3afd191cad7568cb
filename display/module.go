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
	"github.com/croessner/fuzzstat/counters"
	"go.uber.org/fx"
)

// Module provides the fx module for the status display.
var Module = fx.Module("display",
	fx.Provide(
		NewRendererFromOptions,
		NewDisplayFromConfig,
	),
)

// NewRendererFromOptions provides a Renderer. Without an explicit output the frames go to stdout.
func NewRendererFromOptions(opts Options) *Renderer {
	out := opts.Output
	if out == nil {
		out = Stdout()
	}

	return NewRenderer(out, opts.BufferSize)
}

// NewDisplayFromConfig provides a Display using the wall clock.
func NewDisplayFromConfig(source counters.Source, cfg *RenderConfig, renderer *Renderer) (*Display, error) {
	return NewDisplay(source, cfg, renderer, RealClock{})
}
