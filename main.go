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

package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/croessner/fuzzstat/config"
	"github.com/croessner/fuzzstat/counters"
	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/display"
	"github.com/croessner/fuzzstat/engine"
	"github.com/croessner/fuzzstat/log"
	"github.com/croessner/fuzzstat/log/level"
	"github.com/croessner/fuzzstat/log/logfx"
	"github.com/croessner/fuzzstat/metrics"

	"github.com/spf13/pflag"
	"go.uber.org/fx"
)

var (
	version   = "dev"
	buildTime = ""
)

// appOptions assembles the fx graph for a loaded configuration.
func appOptions(cfg *config.Config, start time.Time) fx.Option {
	return fx.Options(
		fx.Supply(cfg, cfg.RenderConfig(start), cfg.DisplayOptions()),
		fx.Provide(
			counters.NewSet,
			func(set *counters.Set) counters.Source { return set },
		),
		logfx.Module,
		display.Module,
		engine.Module,
		metrics.Module,
	)
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}

		fmt.Fprintln(os.Stderr, "Unable to load the configuration. Error:", err)

		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Printf("%s %s %s\n", definitions.AppName, version, buildTime)

		os.Exit(0)
	}

	logger := log.SetupLogging(cfg.LogOptions())

	level.Info(logger).Log(
		definitions.LogKeyMsg, "starting",
		definitions.LogKeyVersion, version,
		definitions.LogKeyConfigFile, cfg.ConfigFile,
	)

	fx.New(
		logfx.WithLogger(),
		appOptions(cfg, time.Now()),
	).Run()
}
