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

package logfx

import (
	"fmt"
	"log/slog"

	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/log/level"

	"go.uber.org/fx/fxevent"
)

// FxEventLogger routes fx lifecycle events through the process logger.
// Container details go to debug, only shutdown and failures are visible at info and above.
type FxEventLogger struct {
	logger *slog.Logger
}

// NewFxEventLogger returns an fxevent.Logger writing to logger.
func NewFxEventLogger(logger *slog.Logger) fxevent.Logger {
	return &FxEventLogger{logger: logger}
}

// record is one log line derived from an fx event.
type record struct {
	log     func(*slog.Logger) level.Logger
	msg     string
	err     error
	keyvals []any
}

// LogEvent implements fxevent.Logger.
func (l *FxEventLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	r := describe(event)

	// Any attached error raises the record to the error level.
	if r.err != nil {
		r.log = level.Error
		r.msg += " failed"
		r.keyvals = append(r.keyvals, definitions.LogKeyError, r.err)
	}

	r.log(l.logger).Log(append([]any{definitions.LogKeyMsg, r.msg}, r.keyvals...)...)
}

func describe(event fxevent.Event) record {
	switch e := event.(type) {
	case *fxevent.Started:
		return record{log: level.Debug, msg: "fx start", err: e.Err}
	case *fxevent.Stopping:
		return record{log: level.Info, msg: "shutting down", keyvals: []any{definitions.LogKeySignal, e.Signal.String()}}
	case *fxevent.Stopped:
		return record{log: level.Debug, msg: "fx stop", err: e.Err}
	case *fxevent.RollingBack:
		return record{log: level.Warn, msg: "fx rolling back", keyvals: []any{definitions.LogKeyError, e.StartErr}}
	case *fxevent.RolledBack:
		return record{log: level.Warn, msg: "fx roll back", err: e.Err}
	case *fxevent.OnStartExecuted:
		return hook("fx start hook", e.FunctionName, e.Runtime.String(), e.Err)
	case *fxevent.OnStopExecuted:
		return hook("fx stop hook", e.FunctionName, e.Runtime.String(), e.Err)
	case *fxevent.Provided:
		return record{
			log:     level.Debug,
			msg:     "fx provide",
			err:     e.Err,
			keyvals: []any{definitions.LogKeyFunction, e.ConstructorName, definitions.LogKeyModule, e.ModuleName},
		}
	case *fxevent.Invoked:
		return record{
			log:     level.Debug,
			msg:     "fx invoke",
			err:     e.Err,
			keyvals: []any{definitions.LogKeyFunction, e.FunctionName, definitions.LogKeyModule, e.ModuleName},
		}
	default:
		return record{log: level.Debug, msg: "fx event", keyvals: []any{definitions.LogKeyType, fmt.Sprintf("%T", event)}}
	}
}

func hook(msg, function, runtime string, err error) record {
	r := record{log: level.Debug, msg: msg, err: err, keyvals: []any{definitions.LogKeyFunction, function}}

	if err == nil {
		r.keyvals = append(r.keyvals, definitions.LogKeyRuntime, runtime)
	}

	return r
}
