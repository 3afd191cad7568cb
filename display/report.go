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
	"fmt"
	"strings"

	"github.com/croessner/fuzzstat/counters"
	"github.com/croessner/fuzzstat/definitions"
)

// SectionName identifies a part of the report.
type SectionName string

// Report sections in output order.
const (
	SectionHeader   SectionName = "header"
	SectionCore     SectionName = "core"
	SectionDryRun   SectionName = "dry_run"
	SectionOutcome  SectionName = "outcome"
	SectionFeedback SectionName = "feedback"
	SectionHardware SectionName = "hardware"
	SectionSanCov   SectionName = "sancov"
	SectionFooter   SectionName = "footer"
)

// Section is a rendered part of the report. Text ends with a newline.
type Section struct {
	Name SectionName
	Text string
}

// Frame is the per-tick input of the report.
type Frame struct {
	// Snapshot holds the counters. Iterations is already clamped to the configured maximum.
	Snapshot counters.Snapshot

	// Rate is the number of iterations since the previous frame.
	Rate uint64

	// Elapsed is the number of whole seconds since the start of the run.
	Elapsed uint64
}

type sectionBuilder struct {
	name    SectionName
	enabled func(cfg *RenderConfig) bool
	write   func(b *strings.Builder, f *Frame, cfg *RenderConfig)
}

// pipeline fixes the section order. Every entry is gated on its own.
var pipeline = [...]sectionBuilder{
	{name: SectionHeader, enabled: always, write: writeHeader},
	{name: SectionCore, enabled: always, write: writeCore},
	{name: SectionDryRun, enabled: isDryRun, write: writeDryRun},
	{name: SectionOutcome, enabled: always, write: writeOutcome},
	{name: SectionFeedback, enabled: hasFeedback, write: writeFeedback},
	{name: SectionHardware, enabled: hasHardware, write: writeHardware},
	{name: SectionSanCov, enabled: hasSanCov, write: writeSanCov},
	{name: SectionFooter, enabled: always, write: writeFooter},
}

// Build renders all enabled sections for one frame. It has no side effects.
func Build(f Frame, cfg *RenderConfig) []Section {
	if cfg == nil {
		cfg = &RenderConfig{}
	}

	sections := make([]Section, 0, len(pipeline))

	for i := range pipeline {
		step := &pipeline[i]
		if !step.enabled(cfg) {
			continue
		}

		var b strings.Builder

		step.write(&b, &f, cfg)

		sections = append(sections, Section{Name: step.name, Text: b.String()})
	}

	return sections
}

func always(*RenderConfig) bool {
	return true
}

func isDryRun(cfg *RenderConfig) bool {
	return cfg.FlipRate == 0 && cfg.UseVerifier
}

func hasFeedback(cfg *RenderConfig) bool {
	return cfg.DynFileMethod != definitions.DynFileNone || cfg.UseSanCov
}

func hasHardware(cfg *RenderConfig) bool {
	return cfg.DynFileMethod.HasHardware()
}

func hasSanCov(cfg *RenderConfig) bool {
	return cfg.UseSanCov
}

func writeHeader(b *strings.Builder, _ *Frame, _ *RenderConfig) {
	b.WriteString(definitions.EscClear)
	b.WriteString(banner(definitions.BannerStat))
	b.WriteByte('\n')
}

func writeCore(b *strings.Builder, f *Frame, cfg *RenderConfig) {
	fmt.Fprintf(b, "Iterations: %s", bold.U(f.Snapshot.Iterations))

	if cfg.MutationsMax > 0 {
		fmt.Fprintf(b, " (out of: %s)", bold.U(cfg.MutationsMax))
	}

	b.WriteByte('\n')

	fmt.Fprintf(b, "Start time: %s (%s seconds elapsed)\n", bold.S(startTime(cfg.StartTime)), bold.U(f.Elapsed))
	fmt.Fprintf(b, "Input file/dir: '%s'\n", bold.S(text(cfg.InputPath)))
	fmt.Fprintf(b, "Fuzzed cmd: '%s'\n", bold.S(text(cfg.CmdLine)))

	if cfg.RemotePID > 0 {
		fmt.Fprintf(b, "Remote cmd [%s]: '%s'\n", bold.I(cfg.RemotePID), bold.S(text(cfg.RemoteCmd)))
	}

	fmt.Fprintf(b, "Fuzzing threads: %s\n", bold.I(cfg.Threads))
	fmt.Fprintf(b, "Execs per %s: %s (avg: %s)\n",
		rateLabel(cfg.Interval), bold.U(f.Rate), bold.U(Average(f.Snapshot.Iterations, f.Elapsed)))
}

func writeDryRun(b *strings.Builder, _ *Frame, cfg *RenderConfig) {
	fmt.Fprintf(b, "Input Files: '%s'\n", bold.I(cfg.FileCount))
}

func writeOutcome(b *strings.Builder, f *Frame, _ *RenderConfig) {
	s := &f.Snapshot

	fmt.Fprintf(b, "Crashes: %s (unique: %s, blacklist: %s, verified: %s)\n",
		bold.U(s.Crashes), bold.U(s.UniqueCrashes), bold.U(s.BlacklistedCrashes), bold.U(s.VerifiedCrashes))
	fmt.Fprintf(b, "Timeouts: %s\n", bold.U(s.Timeouts))
}

func writeFeedback(b *strings.Builder, f *Frame, cfg *RenderConfig) {
	fmt.Fprintf(b, "Dynamic file size: %s (max: %s)\n", bold.U(f.Snapshot.DynFileBestSize), bold.U(cfg.MaxFileSize))
	fmt.Fprintf(b, "Dynamic file max iterations keep for chosen seed (%s/%s)\n",
		bold.U(f.Snapshot.DynFileIterExpire), bold.U(cfg.MaxDynFileIter))
	b.WriteString("Coverage (max):\n")
}

var hardwareLines = [...]struct {
	method definitions.DynFileMethod
	label  string
	value  func(hw *counters.Hardware) uint64
}{
	{definitions.DynFileInstrCount, "cpu instructions:  ", func(hw *counters.Hardware) uint64 { return hw.Instructions }},
	{definitions.DynFileBranchCount, "cpu branches:      ", func(hw *counters.Hardware) uint64 { return hw.Branches }},
	{definitions.DynFileBTSBlock, "BTS unique blocks: ", func(hw *counters.Hardware) uint64 { return hw.BTSBlocks }},
	{definitions.DynFileBTSEdge, "BTS unique edges:  ", func(hw *counters.Hardware) uint64 { return hw.BTSEdges }},
	{definitions.DynFileIPTBlock, "PT unique blocks:  ", func(hw *counters.Hardware) uint64 { return hw.IPTBlocks }},
	{definitions.DynFileCustom, "custom counter:    ", func(hw *counters.Hardware) uint64 { return hw.Custom }},
}

func writeHardware(b *strings.Builder, f *Frame, cfg *RenderConfig) {
	for _, line := range hardwareLines {
		if !cfg.DynFileMethod.Has(line.method) {
			continue
		}

		fmt.Fprintf(b, "  - %s%s\n", line.label, bold.U(line.value(&f.Snapshot.Hardware)))
	}
}

func writeSanCov(b *strings.Builder, f *Frame, _ *RenderConfig) {
	sc := &f.Snapshot.SanCov

	fmt.Fprintf(b, "  - total hit #bb:  %s (coverage %s%%)\n", bold.U(sc.HitBlocks), bold.U(CoveragePercent(sc.HitBlocks, sc.TotalBlocks)))
	fmt.Fprintf(b, "  - total #dso:     %s (instrumented only)\n", bold.U(sc.DSOs))
	fmt.Fprintf(b, "  - discovered #bb: %s (new from input seed)\n", bold.U(sc.NewBlocks))
	fmt.Fprintf(b, "  - crashes:        %s\n", bold.U(sc.Crashes))
}

func writeFooter(b *strings.Builder, _ *Frame, _ *RenderConfig) {
	b.WriteString(banner(definitions.BannerLogs))
	b.WriteByte('\n')
}
