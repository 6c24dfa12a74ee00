/*
	SMIS Assembler

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

// Package asm is the two-pass assembler: pass 1 builds the symbol table
// from label definitions, pass 2 encodes each instruction line into its
// 32-bit word.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rcornwell/smis/isa"
	"github.com/rcornwell/smis/symtab"
)

// MaxLineLength bounds a raw source line; longer lines are a lexical
// error rather than being silently truncated.
const MaxLineLength = 120

type lineKind int

const (
	kindBlank lineKind = iota
	kindComment
	kindLabel
	kindInstruction
)

// Assemble translates an assembly-language source stream into the
// concatenation of its encoded instruction words, with no header or
// padding.
func Assemble(src io.Reader) ([]byte, error) {
	lines, err := readLines(src)
	if err != nil {
		return nil, err
	}

	table, err := buildSymbols(lines)
	if err != nil {
		return nil, err
	}

	return encodeAll(lines, table)
}

// readLines buffers the whole source once so pass 1 and pass 2 can both
// iterate it, per the teacher's note that re-reading is acceptable but a
// single buffered pass is just as simple.
func readLines(src io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, MaxLineLength+1), MaxLineLength+1)

	var lines []string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if len(line) > MaxLineLength {
			return nil, fmt.Errorf("line %d: line exceeds maximum length of %d: %s", lineNo, MaxLineLength, line)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return lines, nil
}

func classify(raw string) (lineKind, string) {
	trimmed := strings.TrimRight(raw, " \t")
	content := strings.TrimLeft(trimmed, " \t")
	if content == "" {
		return kindBlank, ""
	}
	if strings.HasPrefix(content, "//") {
		return kindComment, ""
	}
	if strings.HasSuffix(content, ":") {
		return kindLabel, strings.TrimSuffix(content, ":")
	}
	return kindInstruction, content
}

// buildSymbols is pass 1: scan lines in order, recording each label at
// the address of the next not-yet-counted instruction.
func buildSymbols(lines []string) (*symtab.Table, error) {
	table := symtab.New()
	addr := uint16(0)
	for i, raw := range lines {
		lineNo := i + 1
		kind, content := classify(raw)
		switch kind {
		case kindBlank, kindComment:
			continue
		case kindLabel:
			if content == "" {
				return nil, fmt.Errorf("line %d: empty label: %s", lineNo, raw)
			}
			if err := table.Define(content, addr); err != nil {
				return nil, fmt.Errorf("line %d: %w: %s", lineNo, err, raw)
			}
		case kindInstruction:
			addr += 2
		}
	}
	return table, nil
}

// encodeAll is pass 2: re-scan the buffered lines and encode each
// instruction, resolving jump labels against the table pass 1 built.
func encodeAll(lines []string, table *symtab.Table) ([]byte, error) {
	out := make([]byte, 0, len(lines)*4)
	for i, raw := range lines {
		lineNo := i + 1
		kind, content := classify(raw)
		if kind != kindInstruction {
			continue
		}
		word, err := encodeInstruction(content, table)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %s", lineNo, err, raw)
		}
		bytes := isa.ToBytes(word)
		out = append(out, bytes[:]...)
	}
	return out, nil
}

// tokenize splits an instruction line on single spaces, rejecting any
// run of two or more consecutive spaces as a lexical error.
func tokenize(content string) ([]string, error) {
	if strings.Contains(content, "  ") {
		return nil, fmt.Errorf("double space between tokens")
	}
	return strings.Split(content, " "), nil
}

func encodeInstruction(content string, table *symtab.Table) (uint32, error) {
	tokens, err := tokenize(content)
	if err != nil {
		return 0, err
	}
	mnemonic := tokens[0]
	args := tokens[1:]

	m, ok := isa.Lookup(mnemonic)
	if !ok {
		return 0, fmt.Errorf("undefined opcode %s", mnemonic)
	}

	switch m.Form {
	case isa.FormR:
		return encodeR(m, args)
	case isa.FormI:
		return encodeI(m, args)
	case isa.FormJ:
		return encodeJ(m, args, table)
	case isa.FormSet:
		return encodeSet(args)
	case isa.FormCopyNot:
		return encodeCopyNot(m, args)
	case isa.FormCompare:
		return encodeCompare(args)
	case isa.FormCompareImm:
		return encodeCompareImm(args)
	case isa.FormHalt:
		return encodeHalt(m, args)
	default:
		return 0, fmt.Errorf("%w: unhandled form for %s", isa.ErrInternal, mnemonic)
	}
}

func wantArgs(mnemonic string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", mnemonic, n, len(args))
	}
	return nil
}

func reg(mnemonic, tok string) (uint8, error) {
	r, ok := isa.ParseRegister(tok)
	if !ok {
		return 0, fmt.Errorf("%s: invalid register operand %q", mnemonic, tok)
	}
	return r, nil
}

func imm(mnemonic, tok string) (uint16, error) {
	if !strings.HasPrefix(tok, "#") {
		return 0, fmt.Errorf("%s: invalid immediate operand %q", mnemonic, tok)
	}
	n, err := strconv.ParseUint(tok[1:], 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%s: immediate out of range 0..65535: %q", mnemonic, tok)
	}
	return uint16(n), nil
}

func encodeR(m isa.Mnemonic, args []string) (uint32, error) {
	if err := wantArgs(m.Name, args, 3); err != nil {
		return 0, err
	}
	d, err := reg(m.Name, args[0])
	if err != nil {
		return 0, err
	}
	o1, err := reg(m.Name, args[1])
	if err != nil {
		return 0, err
	}
	o2, err := reg(m.Name, args[2])
	if err != nil {
		return 0, err
	}
	return isa.EncodeR(m.Op, d, o1, o2), nil
}

func encodeI(m isa.Mnemonic, args []string) (uint32, error) {
	if err := wantArgs(m.Name, args, 3); err != nil {
		return 0, err
	}
	d, err := reg(m.Name, args[0])
	if err != nil {
		return 0, err
	}
	o1, err := reg(m.Name, args[1])
	if err != nil {
		return 0, err
	}
	i, err := imm(m.Name, args[2])
	if err != nil {
		return 0, err
	}
	return isa.EncodeI(m.Op, d, o1, i), nil
}

func encodeJ(m isa.Mnemonic, args []string, table *symtab.Table) (uint32, error) {
	if err := wantArgs(m.Name, args, 1); err != nil {
		return 0, err
	}
	addr, ok := table.Lookup(args[0])
	if !ok {
		return 0, fmt.Errorf("%s: undefined label %q", m.Name, args[0])
	}
	return isa.EncodeJ(m.Op, addr), nil
}

func encodeSet(args []string) (uint32, error) {
	if err := wantArgs("SET", args, 2); err != nil {
		return 0, err
	}
	d, err := reg("SET", args[0])
	if err != nil {
		return 0, err
	}
	i, err := imm("SET", args[1])
	if err != nil {
		return 0, err
	}
	return isa.EncodeSet(d, i), nil
}

func encodeCopyNot(m isa.Mnemonic, args []string) (uint32, error) {
	if err := wantArgs(m.Name, args, 2); err != nil {
		return 0, err
	}
	d, err := reg(m.Name, args[0])
	if err != nil {
		return 0, err
	}
	s, err := reg(m.Name, args[1])
	if err != nil {
		return 0, err
	}
	return isa.EncodeCopyNot(m.Op, d, s), nil
}

func encodeCompare(args []string) (uint32, error) {
	if err := wantArgs("COMPARE", args, 2); err != nil {
		return 0, err
	}
	o1, err := reg("COMPARE", args[0])
	if err != nil {
		return 0, err
	}
	o2, err := reg("COMPARE", args[1])
	if err != nil {
		return 0, err
	}
	return isa.EncodeCompare(o1, o2), nil
}

func encodeCompareImm(args []string) (uint32, error) {
	if err := wantArgs("COMPARE-IMM", args, 2); err != nil {
		return 0, err
	}
	o1, err := reg("COMPARE-IMM", args[0])
	if err != nil {
		return 0, err
	}
	i, err := imm("COMPARE-IMM", args[1])
	if err != nil {
		return 0, err
	}
	return isa.EncodeCompareImm(o1, i), nil
}

func encodeHalt(m isa.Mnemonic, args []string) (uint32, error) {
	if err := wantArgs(m.Name, args, 0); err != nil {
		return 0, err
	}
	return isa.EncodeHalt(), nil
}
