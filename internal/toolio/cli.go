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

package toolio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Exit codes every cmd/ tool returns. ExitOK and ExitUsage follow Unix
// convention; ExitInternal is reserved for faults in the tool itself as
// opposed to faults in the program it was asked to process.
const (
	ExitOK = iota
	ExitUsage
	ExitError
	ExitInternal
)

// CheckExtension reports an error if path's extension (case-insensitive)
// is not one of want. Each entry in want must include the leading dot,
// e.g. ".sm".
func CheckExtension(path string, want ...string) error {
	got := strings.ToLower(filepath.Ext(path))
	for _, ext := range want {
		if got == ext {
			return nil
		}
	}
	return fmt.Errorf("%s: expected extension %s, got %q", path, strings.Join(want, " or "), got)
}

// OpenInput opens path for reading. The caller is responsible for
// closing it on every exit path.
func OpenInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

// CreateOutput creates (or truncates) path for writing. The caller is
// responsible for closing it on every exit path.
func CreateOutput(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}
