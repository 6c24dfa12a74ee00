/*
	SMIS instruction set architecture

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

// Package isa is the shared encoding core: the opcode table, the 32-bit
// instruction layout, and the register naming convention used bit-for-bit
// by the assembler, the disassembler and the emulator.
package isa

import (
	"errors"
	"strconv"
)

// ErrInternal marks a decoding/encoding invariant violation: a case where
// the opcode table in this package and the switch statements in asm,
// disasm and vm that walk it have fallen out of sync. It should never be
// reachable through any well-formed program; seeing it means a bug in
// this repo rather than a fault in the program being processed.
var ErrInternal = errors.New("internal error")

// Opcode is the 8-bit opcode field (bits 31-24 of an instruction word).
type Opcode uint8

// Canonical opcode numbering. Binding on the binary format: every
// assembled, disassembled or emulated word agrees on this table.
const (
	SET Opcode = 1 + iota
	COPY
	ADD
	SUBTRACT
	MULTIPLY
	DIVIDE
	MODULO
	COMPARE
	SHIFTLEFT
	SHIFTRIGHT
	AND
	OR
	XOR
	NAND
	NOR
	NOT
	ADDIMM
	SUBTRACTIMM
	MULTIPLYIMM
	DIVIDEIMM
	MODULOIMM
	COMPAREIMM
	SHIFTLEFTIMM
	SHIFTRIGHTIMM
	ANDIMM
	ORIMM
	XORIMM
	NANDIMM
	NORIMM
	LOAD
	STORE
	JUMP
	JUMPIFZERO
	JUMPIFNOTZERO
	JUMPLINK
	HALT
)

// Form classifies the operand shape of a mnemonic, and therefore how its
// 32-bit word is laid out.
type Form uint8

const (
	// FormR is a three-register instruction: op|rDest|rOp1|rOp2|0000.
	FormR Form = 1 + iota
	// FormI is two registers plus a 16-bit immediate: op|rDest|rOp1|imm16.
	FormI
	// FormJ is a bare 16-bit jump target: op|0000|0000|target16.
	FormJ
	// FormSet is SET: op|rDest|0000|imm16.
	FormSet
	// FormCopyNot is COPY/NOT: op|rDest|rSrc|0000|0000.
	FormCopyNot
	// FormCompare is COMPARE: op|0000|rOp1|rOp2|0000 (no destination).
	FormCompare
	// FormCompareImm is COMPARE-IMM: op|0000|rOp1|imm16 (no destination).
	FormCompareImm
	// FormHalt takes no operands: op|0000|0000|0000.
	FormHalt
)

// Mnemonic describes one opcode's assembly-level identity: its canonical
// text form, its binary opcode number and its operand shape.
type Mnemonic struct {
	Name string
	Op   Opcode
	Form Form
}

// mnemonics is the single static table every component decodes from. The
// order here matches the canonical numbering in the data model.
var mnemonics = []Mnemonic{
	{"SET", SET, FormSet},
	{"COPY", COPY, FormCopyNot},
	{"ADD", ADD, FormR},
	{"SUBTRACT", SUBTRACT, FormR},
	{"MULTIPLY", MULTIPLY, FormR},
	{"DIVIDE", DIVIDE, FormR},
	{"MODULO", MODULO, FormR},
	{"COMPARE", COMPARE, FormCompare},
	{"SHIFT-LEFT", SHIFTLEFT, FormR},
	{"SHIFT-RIGHT", SHIFTRIGHT, FormR},
	{"AND", AND, FormR},
	{"OR", OR, FormR},
	{"XOR", XOR, FormR},
	{"NAND", NAND, FormR},
	{"NOR", NOR, FormR},
	{"NOT", NOT, FormCopyNot},
	{"ADD-IMM", ADDIMM, FormI},
	{"SUBTRACT-IMM", SUBTRACTIMM, FormI},
	{"MULTIPLY-IMM", MULTIPLYIMM, FormI},
	{"DIVIDE-IMM", DIVIDEIMM, FormI},
	{"MODULO-IMM", MODULOIMM, FormI},
	{"COMPARE-IMM", COMPAREIMM, FormCompareImm},
	{"SHIFT-LEFT-IMM", SHIFTLEFTIMM, FormI},
	{"SHIFT-RIGHT-IMM", SHIFTRIGHTIMM, FormI},
	{"AND-IMM", ANDIMM, FormI},
	{"OR-IMM", ORIMM, FormI},
	{"XOR-IMM", XORIMM, FormI},
	{"NAND-IMM", NANDIMM, FormI},
	{"NOR-IMM", NORIMM, FormI},
	{"LOAD", LOAD, FormI},
	{"STORE", STORE, FormI},
	{"JUMP", JUMP, FormJ},
	{"JUMP-IF-ZERO", JUMPIFZERO, FormJ},
	{"JUMP-IF-NOTZERO", JUMPIFNOTZERO, FormJ},
	{"JUMP-LINK", JUMPLINK, FormJ},
	{"HALT", HALT, FormHalt},
}

// byName and byOp are built once from the mnemonics table and serve the
// assembler (name -> encoding) and the disassembler (opcode -> rendering)
// respectively, so both tools decode the same 36-entry contract.
var (
	byName = make(map[string]Mnemonic, len(mnemonics))
	byOp   = make(map[Opcode]Mnemonic, len(mnemonics))
)

func init() {
	for _, m := range mnemonics {
		byName[m.Name] = m
		byOp[m.Op] = m
	}
}

// Lookup finds a mnemonic by its exact, case-sensitive text form.
func Lookup(name string) (Mnemonic, bool) {
	m, ok := byName[name]
	return m, ok
}

// LookupOpcode finds a mnemonic by its binary opcode number.
func LookupOpcode(op Opcode) (Mnemonic, bool) {
	m, ok := byOp[op]
	return m, ok
}

// Register aliases: R0 is hard-wired zero, R15/R14/R13 carry conventional
// roles as stack pointer, base pointer and link register.
const (
	RZR uint8 = 0
	RLR uint8 = 13
	RBP uint8 = 14
	RSP uint8 = 15
)

var registerAliases = map[string]uint8{
	"RZR": RZR,
	"RSP": RSP,
	"RBP": RBP,
	"RLR": RLR,
}

var aliasNames = map[uint8]string{
	RZR: "RZR",
	RLR: "RLR",
	RBP: "RBP",
	RSP: "RSP",
}

// RegisterName renders a register number the way the disassembler does:
// the alias for R0/R13/R14/R15, otherwise "R<n>".
func RegisterName(n uint8) string {
	if name, ok := aliasNames[n]; ok {
		return name
	}
	return "R" + strconv.Itoa(int(n))
}

// ParseRegister resolves a register token (an alias or "R<0-15>") to its
// register number.
func ParseRegister(tok string) (uint8, bool) {
	if n, ok := registerAliases[tok]; ok {
		return n, true
	}
	if len(tok) < 2 || tok[0] != 'R' {
		return 0, false
	}
	n, err := strconv.ParseUint(tok[1:], 10, 8)
	if err != nil || n > 15 {
		return 0, false
	}
	return uint8(n), true
}

// Word layout accessors. Bit positions are fixed by the data model:
// opcode occupies bits 31-24, register/immediate fields split the low 24
// bits as described on each Form.

// OpcodeOf extracts the 8-bit opcode field from an instruction word.
func OpcodeOf(word uint32) Opcode {
	return Opcode(word >> 24)
}

// RegAOf extracts register field A (bits 23-20).
func RegAOf(word uint32) uint8 {
	return uint8((word >> 20) & 0xF)
}

// RegBOf extracts register field B (bits 19-16).
func RegBOf(word uint32) uint8 {
	return uint8((word >> 16) & 0xF)
}

// RegCOf extracts register field C (bits 15-12).
func RegCOf(word uint32) uint8 {
	return uint8((word >> 12) & 0xF)
}

// Imm16Of extracts the 16-bit immediate/target field (bits 15-0), which
// overlaps register fields B and C for I-type and J-type instructions.
func Imm16Of(word uint32) uint16 {
	return uint16(word & 0xFFFF)
}

// EncodeR builds an R-type word: op|rDest|rOp1|rOp2|0000.
func EncodeR(op Opcode, dest, op1, op2 uint8) uint32 {
	return word(op, dest, op1, op2)
}

// EncodeI builds an I-type word: op|rDest|rOp1|imm16.
func EncodeI(op Opcode, dest, op1 uint8, imm uint16) uint32 {
	return wordImm(op, dest, op1, imm)
}

// EncodeJ builds a J-type word: op|0000|0000|target16.
func EncodeJ(op Opcode, target uint16) uint32 {
	return wordImm(op, 0, 0, target)
}

// EncodeSet builds a SET word: op|rDest|0000|imm16.
func EncodeSet(dest uint8, imm uint16) uint32 {
	return wordImm(SET, dest, 0, imm)
}

// EncodeCopyNot builds a COPY/NOT word: op|rDest|rSrc|0000|0000.
func EncodeCopyNot(op Opcode, dest, src uint8) uint32 {
	return word(op, dest, src, 0)
}

// EncodeCompare builds a COMPARE word: op|0000|rOp1|rOp2|0000.
func EncodeCompare(op1, op2 uint8) uint32 {
	return word(COMPARE, 0, op1, op2)
}

// EncodeCompareImm builds a COMPARE-IMM word: op|0000|rOp1|imm16.
func EncodeCompareImm(op1 uint8, imm uint16) uint32 {
	return wordImm(COMPAREIMM, 0, op1, imm)
}

// EncodeHalt builds the HALT word: op|0000|0000|0000.
func EncodeHalt() uint32 {
	return word(HALT, 0, 0, 0)
}

func word(op Opcode, a, b, c uint8) uint32 {
	return uint32(op)<<24 | uint32(a&0xF)<<20 | uint32(b&0xF)<<16 | uint32(c&0xF)<<12
}

func wordImm(op Opcode, a, b uint8, imm uint16) uint32 {
	return uint32(op)<<24 | uint32(a&0xF)<<20 | uint32(b&0xF)<<16 | uint32(imm)
}

// ToBytes renders an instruction word as its 4 big-endian bytes, ready for
// the binary file format: byte 0 is the opcode, byte 3 is the low byte of
// the immediate/target field.
func ToBytes(word uint32) [4]byte {
	return [4]byte{
		byte(word >> 24),
		byte(word >> 16),
		byte(word >> 8),
		byte(word),
	}
}

// FromBytes reconstructs an instruction word from its 4 big-endian bytes.
func FromBytes(b [4]byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
