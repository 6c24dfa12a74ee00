/*
	SMIS symbol table

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

// Package symtab is the ordered (name, address) table shared by the
// assembler's pass 1 (label definitions) and the disassembler's pass 1
// (synthetic labels discovered from jump targets).
package symtab

import "fmt"

// Table maps label names to word addresses and back. Names are unique;
// addresses need not be.
type Table struct {
	names  []string
	byName map[string]uint16
	byAddr map[uint16]string
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{
		byName: make(map[string]uint16),
		byAddr: make(map[uint16]string),
	}
}

// Define records a label at an address. It is the assembler's pass-1
// operation: a duplicate name is a fatal error.
func (t *Table) Define(name string, addr uint16) error {
	if _, exists := t.byName[name]; exists {
		return fmt.Errorf("duplicate label %q", name)
	}
	t.byName[name] = addr
	if _, taken := t.byAddr[addr]; !taken {
		t.byAddr[addr] = name
	}
	t.names = append(t.names, name)
	return nil
}

// Lookup resolves a label name to its address.
func (t *Table) Lookup(name string) (uint16, bool) {
	addr, ok := t.byName[name]
	return addr, ok
}

// NameAt returns the label recorded at an address, if any.
func (t *Table) NameAt(addr uint16) (string, bool) {
	name, ok := t.byAddr[addr]
	return name, ok
}

// EnsureLabel is the disassembler's pass-1 operation: if addr already has
// a label, its name is returned unchanged; otherwise a synthetic name is
// minted via namer(index) — index is the 0-based insertion order — and
// recorded. Every fresh address therefore gets exactly one label, shared
// by every jump that targets it.
func (t *Table) EnsureLabel(addr uint16, namer func(index int) string) string {
	if name, ok := t.byAddr[addr]; ok {
		return name
	}
	name := namer(len(t.names))
	t.byName[name] = addr
	t.byAddr[addr] = name
	t.names = append(t.names, name)
	return name
}

// Len reports how many labels have been recorded.
func (t *Table) Len() int {
	return len(t.names)
}

// SyntheticName renders the disassembler's synthetic label naming
// convention: Label_<k> for the k-th newly discovered jump target.
func SyntheticName(index int) string {
	return fmt.Sprintf("Label_%d", index)
}
