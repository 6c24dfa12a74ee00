/*
	SMIS Disassembler

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

// Package disasm is the two-pass disassembler: pass 1 discovers labels
// from jump targets, pass 2 renders each word back to canonical mnemonic
// form.
package disasm

import (
	"fmt"
	"io"

	"github.com/rcornwell/smis/isa"
	"github.com/rcornwell/smis/symtab"
)

// Disassemble reads a binary of 32-bit big-endian instruction words and
// renders it as canonical SMIS assembly text.
func Disassemble(bin io.Reader) (string, error) {
	data, err := io.ReadAll(bin)
	if err != nil {
		return "", fmt.Errorf("reading binary: %w", err)
	}
	if len(data)%4 != 0 {
		return "", fmt.Errorf("binary length %d is not a multiple of 4", len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		var b [4]byte
		copy(b[:], data[i*4:i*4+4])
		words[i] = isa.FromBytes(b)
	}

	table := discoverLabels(words)
	return render(words, table)
}

// discoverLabels is pass 1: every J-type target gets a label, shared
// across every jump instruction that targets the same address.
func discoverLabels(words []uint32) *symtab.Table {
	table := symtab.New()
	for _, w := range words {
		op := isa.OpcodeOf(w)
		if !isJump(op) {
			continue
		}
		target := isa.Imm16Of(w)
		table.EnsureLabel(target, symtab.SyntheticName)
	}
	return table
}

func isJump(op isa.Opcode) bool {
	switch op {
	case isa.JUMP, isa.JUMPIFZERO, isa.JUMPIFNOTZERO, isa.JUMPLINK:
		return true
	default:
		return false
	}
}

// render is pass 2: walk the words again, emitting a label line before
// any instruction whose address was recorded in pass 1 (except address
// 0), then the decoded instruction itself.
func render(words []uint32, table *symtab.Table) (string, error) {
	var out []byte
	addr := uint16(0)
	for i, w := range words {
		if name, ok := table.NameAt(addr); ok {
			if addr != 0 {
				out = append(out, '\n')
			}
			out = append(out, name+":\n"...)
		}

		line, err := renderInstruction(w, table)
		if err != nil {
			return "", fmt.Errorf("instruction %d: %w", i, err)
		}
		out = append(out, line+"\n"...)

		addr += 2
	}
	return string(out), nil
}

func renderInstruction(w uint32, table *symtab.Table) (string, error) {
	op := isa.OpcodeOf(w)
	m, ok := isa.LookupOpcode(op)
	if !ok {
		return "", fmt.Errorf("unknown opcode %#02x", uint8(op))
	}

	a := isa.RegAOf(w)
	b := isa.RegBOf(w)
	c := isa.RegCOf(w)
	i := isa.Imm16Of(w)

	switch m.Form {
	case isa.FormR:
		return fmt.Sprintf("%s %s %s %s", m.Name, isa.RegisterName(a), isa.RegisterName(b), isa.RegisterName(c)), nil
	case isa.FormI:
		return fmt.Sprintf("%s %s %s #%d", m.Name, isa.RegisterName(a), isa.RegisterName(b), i), nil
	case isa.FormJ:
		name, ok := table.NameAt(i)
		if !ok {
			return "", fmt.Errorf("%w: jump target %d missing from symbol table", isa.ErrInternal, i)
		}
		return fmt.Sprintf("%s %s", m.Name, name), nil
	case isa.FormSet:
		return fmt.Sprintf("%s %s #%d", m.Name, isa.RegisterName(a), i), nil
	case isa.FormCopyNot:
		return fmt.Sprintf("%s %s %s", m.Name, isa.RegisterName(a), isa.RegisterName(b)), nil
	case isa.FormCompare:
		return fmt.Sprintf("%s %s %s", m.Name, isa.RegisterName(b), isa.RegisterName(c)), nil
	case isa.FormCompareImm:
		return fmt.Sprintf("%s %s #%d", m.Name, isa.RegisterName(b), i), nil
	case isa.FormHalt:
		return m.Name, nil
	default:
		return "", fmt.Errorf("%w: unhandled form for %s", isa.ErrInternal, m.Name)
	}
}
