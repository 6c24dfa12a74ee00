/*
	SMIS toolchain — shared CLI plumbing

	Copyright (c) 2024, SMIS toolchain contributors

	Permission is hereby granted, free of charge, to any person obtaining a
	copy of this software and associated documentation files (the "Software"),
	to deal in the Software without restriction, including without limitation
	the rights to use, copy, modify, merge, publish, distribute, sublicense,
	and/or sell copies of the Software, and to permit persons to whom the
	Software is furnished to do so, subject to the following conditions:

	The above copyright notice and this permission notice shall be included in
	all copies or substantial portions of the Software.

	THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
	IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
	FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
	THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
	IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
	CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package toolio holds the plumbing shared by the three command-line
// tools: a one-line-per-record slog handler, and the open-input,
// create-output, validate-extension dance each tool performs identically.
package toolio

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LineHandler is a slog.Handler that renders each record as a single
// "time level message attrs..." line, written to an optional log file
// and, for warnings and above, to stderr. Modeled on the teacher's
// hand-rolled slog handler rather than the stock text/JSON handlers,
// since every cmd/ tool wants the same terse diagnostic line.
type LineHandler struct {
	out   io.Writer
	inner slog.Handler
	mu    *sync.Mutex
}

// NewLineHandler builds a LineHandler that writes every record at level
// or above to file (which may be nil), and copies records at warning
// level and above to stderr.
func NewLineHandler(file io.Writer, level slog.Leveler) *LineHandler {
	return &LineHandler{
		out:   file,
		inner: slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level}),
		mu:    &sync.Mutex{},
	}
}

func (h *LineHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LineHandler{out: h.out, inner: h.inner.WithAttrs(attrs), mu: h.mu}
}

func (h *LineHandler) WithGroup(name string) slog.Handler {
	return &LineHandler{out: h.out, inner: h.inner.WithGroup(name), mu: h.mu}
}

func (h *LineHandler) Handle(ctx context.Context, r slog.Record) error {
	parts := []string{r.Time.Format("2006/01/02 15:04:05"), r.Level.String() + ":", r.Message}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, a.Value.String())
		return true
	})
	line := strings.Join(parts, " ") + "\n"
	b := []byte(line)

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	if r.Level >= slog.LevelWarn {
		_, err = os.Stderr.Write(b)
	}
	return err
}

// NewLogger builds the slog.Logger every cmd/ main uses: debug level and
// above to an optional log file, warnings and above also to stderr.
func NewLogger(logFile io.Writer) *slog.Logger {
	return slog.New(NewLineHandler(logFile, slog.LevelDebug))
}
