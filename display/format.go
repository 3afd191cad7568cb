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
	"math/bits"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/croessner/fuzzstat/definitions"
	"github.com/mattn/go-runewidth"
)

type emphasisStyle struct {
	open  string
	close string
}

// S wraps s in the style's open and close sequences.
func (es emphasisStyle) S(s string) string {
	return es.open + s + es.close
}

// U formats an unsigned value with the style.
func (es emphasisStyle) U(v uint64) string {
	return es.S(strconv.FormatUint(v, 10))
}

// I formats a signed value with the style.
func (es emphasisStyle) I(v int) string {
	return es.S(strconv.Itoa(v))
}

// bold is unconditional. The report assumes an ANSI terminal.
var bold = emphasisStyle{open: definitions.EscBold, close: definitions.EscReset}

// banner centers " title " in a line of BannerWidth cells.
func banner(title string) string {
	label := " " + title + " "
	width := runewidth.StringWidth(label)

	free := max(definitions.BannerWidth-width, 0)
	left := free / 2
	right := free - left

	return strings.Repeat(definitions.BannerFill, left) + label + strings.Repeat(definitions.BannerFill, right)
}

// text makes a free-text value safe for the report: control characters are
// replaced, so a command line can neither inject escape sequences nor break
// lines, and the result is limited to MaxTextFieldCells.
func text(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '?'
		}

		return r
	}, s)

	if runewidth.StringWidth(s) > definitions.MaxTextFieldCells {
		s = runewidth.Truncate(s, definitions.MaxTextFieldCells, definitions.TextFieldTail)
	}

	return s
}

// CoveragePercent returns hit*100/total truncated to an integer in [0, 100].
// A total of zero yields 0.
func CoveragePercent(hit, total uint64) uint64 {
	if total == 0 {
		return 0
	}

	// Fields are read independently; hit may briefly run ahead of total.
	hit = min(hit, total)

	// hit <= total keeps the high word below total, so Div64 cannot panic.
	hi, lo := bits.Mul64(hit, 100)
	quo, _ := bits.Div64(hi, lo, total)

	return quo
}

// rateLabel names the unit of the per-frame rate.
func rateLabel(interval time.Duration) string {
	if interval <= 0 || interval == time.Second {
		return "second"
	}

	return interval.String()
}

// startTime formats the run start in local time.
func startTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Local().Format(definitions.StartTimeLayout)
}
