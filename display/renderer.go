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
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/croessner/fuzzstat/definitions"
	"github.com/croessner/fuzzstat/errors"
)

// Outcome describes a single render call.
type Outcome struct {
	// Size is the length of the untruncated frame.
	Size int

	// Written is the number of bytes the writer accepted.
	Written int

	// Truncated is set if the frame did not fit the buffer.
	Truncated bool
}

// Renderer serializes report sections into one bounded buffer and writes it with a single Write call.
//
// The buffer is reused between frames. A Renderer is not safe for concurrent use.
type Renderer struct {
	out   io.Writer
	limit int
	buf   []byte
}

// NewRenderer returns a Renderer writing to out. A limit of zero or less selects definitions.DisplayBufferSize.
func NewRenderer(out io.Writer, limit int) *Renderer {
	if limit <= 0 {
		limit = definitions.DisplayBufferSize
	}

	return &Renderer{
		out:   out,
		limit: limit,
		buf:   make([]byte, 0, limit),
	}
}

// Limit returns the maximum frame size in bytes.
func (r *Renderer) Limit() int {
	return r.limit
}

// Render concatenates the sections and writes them. Overflow truncates the frame silently.
// A failed or partial write is returned to the caller and never retried.
func (r *Renderer) Render(sections []Section) (Outcome, error) {
	var outcome Outcome

	if r.out == nil {
		return outcome, errors.ErrNoWriter
	}

	r.buf = r.buf[:0]

	for _, section := range sections {
		outcome.Size += len(section.Text)

		if room := r.limit - len(r.buf); room > 0 {
			r.buf = append(r.buf, section.Text[:min(room, len(section.Text))]...)
		}
	}

	if outcome.Size > r.limit {
		outcome.Truncated = true
		r.buf = cut(r.buf, r.limit)
	}

	n, err := r.out.Write(r.buf)
	outcome.Written = n

	if err != nil {
		return outcome, fmt.Errorf("write display frame: %w", err)
	}

	if n < len(r.buf) {
		return outcome, fmt.Errorf("%w: %d of %d bytes", errors.ErrShortWrite, n, len(r.buf))
	}

	return outcome, nil
}

// cut shortens an overflowing frame to at most limit bytes. It prefers the end of the last complete line.
// Without any complete line the cut is placed on a rune boundary outside of an escape sequence and
// followed by a reset, so emphasis does not leak into the following output.
func cut(buf []byte, limit int) []byte {
	buf = buf[:min(len(buf), limit)]

	if i := bytes.LastIndexByte(buf, '\n'); i >= 0 {
		return buf[:i+1]
	}

	reset := len(definitions.EscReset)
	if limit <= reset {
		reset = 0
	}

	n := min(limit-reset, len(buf))

	for n > 0 && n < len(buf) && !utf8.RuneStart(buf[n]) {
		n--
	}

	if esc := bytes.LastIndexByte(buf[:n], 0x1b); esc >= 0 && !terminated(buf[esc+1:n]) {
		n = esc
	}

	buf = buf[:n]

	if reset > 0 {
		buf = append(buf, definitions.EscReset...)
	}

	return buf
}

// terminated reports whether seq, the bytes following an ESC, contain a complete CSI sequence.
func terminated(seq []byte) bool {
	if len(seq) < 2 || seq[0] != '[' {
		return false
	}

	for _, c := range seq[1:] {
		if c >= 0x40 && c <= 0x7e {
			return true
		}
	}

	return false
}
