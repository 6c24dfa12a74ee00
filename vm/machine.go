/*
	SMIS Emulator

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

// Package vm is the register-machine emulator: the register file, the
// flat word-addressed memory, the flags, and the fetch-decode-execute
// loop. Unlike the teacher's IBM 370 simulator, which keeps CPU state in
// package-level globals, all state here hangs off an explicit *Machine
// so a process can run more than one machine and tests never share state.
package vm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcornwell/smis/isa"
)

const memSize = 1 << 16 // 2^16 word-addressable 16-bit cells.

// Machine is the complete state of one SMIS register machine: sixteen
// 16-bit registers, the flat memory array, the flags and the PC.
type Machine struct {
	Registers [16]uint16
	Memory    [memSize]uint16
	PC        uint16
	ZF        bool
	SF        bool

	// Trace, if set, receives a log line after every executed
	// instruction other than HALT. Left nil it costs nothing; set it to
	// enable the smisem -t tracing flag.
	Trace *slog.Logger
}

// New returns a freshly reset machine: zeroed registers and memory, PC
// at 0, flags clear.
func New() *Machine {
	return &Machine{}
}

var (
	// ErrDivideByZero is returned by DIVIDE/DIVIDE-IMM/MODULO/MODULO-IMM
	// when the divisor is zero.
	ErrDivideByZero = errors.New("divide by zero")
	// ErrUnknownOpcode is returned when a decoded instruction word's
	// opcode field doesn't match any entry in the opcode table.
	ErrUnknownOpcode = errors.New("unknown opcode")
)

// Load deposits an assembled binary into memory, two 16-bit cells per
// 32-bit instruction word (high half then low half), and writes a HALT
// terminator into the cell immediately following the last loaded
// instruction so that runaway execution past the end of the program
// halts instead of reading uninitialized memory as instructions.
func (m *Machine) Load(words []uint32) error {
	if len(words)*2+1 > memSize {
		return fmt.Errorf("program of %d words does not fit in memory", len(words))
	}
	for i, w := range words {
		m.Memory[2*i] = uint16(w >> 16)
		m.Memory[2*i+1] = uint16(w)
	}
	m.Memory[len(words)*2] = uint16(isa.HALT) << 8
	return nil
}

// Run executes instructions until a HALT executes or a zero instruction
// word is fetched (the termination sentinel for memory past the loaded
// program and its HALT terminator).
func (m *Machine) Run() error {
	for {
		ir := uint32(m.Memory[m.PC])<<16 | uint32(m.Memory[m.PC+1])
		m.PC += 2

		if ir == 0 {
			return nil
		}

		op := isa.OpcodeOf(ir)
		if op == isa.HALT {
			return nil
		}

		if err := m.execute(op, ir); err != nil {
			return err
		}

		// RZR is re-cleared after every instruction: reads always see
		// zero, writes to it are discarded.
		m.Registers[isa.RZR] = 0

		if m.Trace != nil {
			m.Trace.Debug("executed", "pc", m.PC-2, "opcode", op)
		}
	}
}
