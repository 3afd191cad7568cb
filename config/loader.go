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
	"fmt"
	"reflect"
	"strings"

	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagBindings maps configuration keys to command line flags.
var flagBindings = []struct {
	key  string
	flag string
}{
	{"display.interval", "interval"},
	{"display.mode", "display-mode"},
	{"display.buffer_size", "buffer-size"},
	{"log.level", "log-level"},
	{"log.json", "log-json"},
	{"log.color", "log-color"},
	{"log.theme", "log-theme"},
	{"log.instance", "instance"},
	{"metrics.listen", "metrics-listen"},
	{"metrics.pprof", "metrics-pprof"},
	{"fuzz.input", "input"},
	{"fuzz.cmdline", "cmdline"},
	{"fuzz.threads", "threads"},
	{"fuzz.mutations_max", "mutations-max"},
	{"fuzz.flip_rate", "flip-rate"},
	{"fuzz.verifier", "verifier"},
	{"fuzz.dynfile_method", "dynfile-method"},
	{"fuzz.max_file_size", "max-file-size"},
	{"fuzz.sancov", "sancov"},
	{"fuzz.remote_pid", "pid"},
	{"fuzz.remote_cmd", "remote-cmd"},
	{"workload.enabled", "workload"},
	{"workload.rate", "workload-rate"},
	{"workload.crash_prob", "crash-prob"},
	{"workload.timeout_prob", "timeout-prob"},
	{"workload.duration", "run-for"},
}

func setDefaults() {
	viper.SetDefault("display.interval", definitions.DisplayInterval)
	viper.SetDefault("display.mode", definitions.DisplayModeAuto)
	viper.SetDefault("display.buffer_size", definitions.DisplayBufferSize)

	viper.SetDefault("log.level", definitions.LogLevelNameInfo)
	viper.SetDefault("log.json", false)
	viper.SetDefault("log.color", definitions.ColorModeAuto)
	viper.SetDefault("log.theme", "light")
	viper.SetDefault("log.instance", "")

	viper.SetDefault("metrics.listen", "")
	viper.SetDefault("metrics.pprof", false)

	viper.SetDefault("fuzz.input", "")
	viper.SetDefault("fuzz.cmdline", "")
	viper.SetDefault("fuzz.threads", DefaultThreads())
	viper.SetDefault("fuzz.mutations_max", uint64(0))
	viper.SetDefault("fuzz.flip_rate", definitions.FlipRate)
	viper.SetDefault("fuzz.verifier", false)
	viper.SetDefault("fuzz.dynfile_method", []string{})
	viper.SetDefault("fuzz.max_file_size", uint64(definitions.MaxFileSize))
	viper.SetDefault("fuzz.sancov", false)
	viper.SetDefault("fuzz.remote_pid", 0)
	viper.SetDefault("fuzz.remote_cmd", "")

	viper.SetDefault("workload.enabled", false)
	viper.SetDefault("workload.rate", 0.0)
	viper.SetDefault("workload.crash_prob", 0.0001)
	viper.SetDefault("workload.timeout_prob", 0.0005)
	viper.SetDefault("workload.duration", 0)
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(definitions.AppName, pflag.ContinueOnError)

	fs.String("config", "", "path to a configuration file (yaml, json, toml, ...)")
	fs.Bool("version", false, "print version and exit")

	fs.Duration("interval", definitions.DisplayInterval, "time between two status frames")
	fs.String("display-mode", definitions.DisplayModeAuto, "full-screen status report: auto, always or never")
	fs.Int("buffer-size", definitions.DisplayBufferSize, "maximum size of a status frame in bytes")

	fs.String("log-level", definitions.LogLevelNameInfo, "log level: none, error, warn, info or debug")
	fs.Bool("log-json", false, "log in JSON format")
	fs.String("log-color", definitions.ColorModeAuto, "colored log lines: auto, always or never")
	fs.String("log-theme", "light", "log color theme: light or dark")
	fs.String("instance", "", "run identifier added to every log line (default: random)")

	fs.String("metrics-listen", "", "address of the Prometheus endpoint, e.g. 127.0.0.1:9100 (default: disabled)")
	fs.Bool("metrics-pprof", false, "serve the Go profiler below /debug/pprof on the metrics listener")

	fs.StringP("input", "i", "", "input file or corpus directory")
	fs.String("cmdline", "", "fuzzed command line (default: the arguments after --)")
	fs.IntP("threads", "n", DefaultThreads(), "number of fuzzing threads")
	fs.Uint64P("mutations-max", "N", 0, "maximum number of iterations (0: unlimited)")
	fs.Float64P("flip-rate", "r", definitions.FlipRate, "mutation flip rate (0 with --verifier: dry run)")
	fs.BoolP("verifier", "V", false, "verify crashes")
	fs.StringSliceP("dynfile-method", "d", nil, "feedback sources: instr, branch, bts_block, bts_edge, ipt_block, custom")
	fs.Uint64P("max-file-size", "F", definitions.MaxFileSize, "maximum size of generated inputs")
	fs.BoolP("sancov", "C", false, "sanitizer coverage feedback")
	fs.IntP("pid", "p", 0, "pid of an externally started target")
	fs.String("remote-cmd", "", "command line of the remote target (default: read from the process table)")

	fs.Bool("workload", false, "run built-in synthetic workers")
	fs.Float64("workload-rate", 0, "total iterations per second shared by all workers (0: unthrottled)")
	fs.Float64("crash-prob", 0.0001, "probability of a synthetic crash")
	fs.Float64("timeout-prob", 0.0005, "probability of a synthetic timeout")
	fs.Duration("run-for", 0, "stop after this duration (0: until interrupted)")

	return fs
}

// Load builds the configuration from args (without the program name).
// It returns pflag.ErrHelp if help was requested.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	setDefaults()

	for _, binding := range flagBindings {
		if err := viper.BindPFlag(binding.key, fs.Lookup(binding.flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", binding.flag, err)
		}
	}

	viper.SetEnvPrefix(definitions.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if rest := fs.Args(); len(rest) > 0 {
		viper.Set("fuzz.cmdline", strings.Join(rest, " "))
	}

	configFile, _ := fs.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)

		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}

	if err := viper.Unmarshal(cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	cfg.ConfigFile = configFile
	cfg.ShowVersion, _ = fs.GetBool("version")

	if cfg.ShowVersion {
		return cfg, nil
	}

	cfg.FileCount = CountInputFiles(cfg.Fuzz.Input)

	if cfg.Fuzz.RemotePID > 0 && cfg.Fuzz.RemoteCmd == "" {
		cfg.Fuzz.RemoteCmd = RemoteCmdLine(cfg.Fuzz.RemotePID)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		dynFileMethodHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// dynFileMethodHook turns a list of method names, or a comma separated string, into the bitmask.
func dynFileMethodHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeFor[definitions.DynFileMethod]()

	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != target {
			return data, nil
		}

		var names []string

		switch v := data.(type) {
		case string:
			names = []string{v}
		case []string:
			names = v
		case []any:
			for _, item := range v {
				names = append(names, fmt.Sprint(item))
			}
		default:
			return data, nil
		}

		return ParseDynFileMethod(names)
	}
}

// ParseDynFileMethod combines method names into a bitmask. Names may be comma separated.
func ParseDynFileMethod(names []string) (definitions.DynFileMethod, error) {
	method := definitions.DynFileNone

	for _, entry := range names {
		for name := range strings.SplitSeq(entry, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}

			bit, ok := definitions.DynFileMethodByName(name)
			if !ok {
				return definitions.DynFileNone, fmt.Errorf("%w: %q", errors.ErrInvalidDynFileMethod, name)
			}

			method |= bit
		}
	}

	return method, nil
}
