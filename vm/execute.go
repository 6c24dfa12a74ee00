/*
	SMIS Emulator — instruction semantics

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

package vm

import (
	"fmt"

	"github.com/rcornwell/smis/isa"
)

// execute decodes and performs the effect of one non-HALT instruction.
// All arithmetic is unsigned 16-bit with wrap-around overflow: Go's
// uint16 arithmetic already implements modular overflow, so no explicit
// masking is needed beyond what the types themselves provide.
func (m *Machine) execute(op isa.Opcode, ir uint32) error {
	a := isa.RegAOf(ir)
	b := isa.RegBOf(ir)
	c := isa.RegCOf(ir)
	imm := isa.Imm16Of(ir)

	switch op {
	case isa.SET:
		m.Registers[a] = imm
		return nil

	case isa.COPY:
		m.Registers[a] = m.Registers[b]
		return nil

	case isa.ADD:
		return m.aluR(a, b, c, func(x, y uint16) (uint16, error) { return x + y, nil })
	case isa.SUBTRACT:
		return m.aluR(a, b, c, func(x, y uint16) (uint16, error) { return x - y, nil })
	case isa.MULTIPLY:
		return m.aluR(a, b, c, func(x, y uint16) (uint16, error) { return x * y, nil })
	case isa.DIVIDE:
		return m.aluR(a, b, c, divide)
	case isa.MODULO:
		return m.aluR(a, b, c, modulo)
	case isa.SHIFTLEFT:
		return m.aluR(a, b, c, func(x, y uint16) (uint16, error) { return shiftLeft(x, y&0x1F), nil })
	case isa.SHIFTRIGHT:
		return m.aluR(a, b, c, func(x, y uint16) (uint16, error) { return shiftRight(x, y&0x1F), nil })
	case isa.AND:
		return m.aluR(a, b, c, func(x, y uint16) (uint16, error) { return x & y, nil })
	case isa.OR:
		return m.aluR(a, b, c, func(x, y uint16) (uint16, error) { return x | y, nil })
	case isa.XOR:
		return m.aluR(a, b, c, func(x, y uint16) (uint16, error) { return x ^ y, nil })
	case isa.NAND:
		return m.aluR(a, b, c, func(x, y uint16) (uint16, error) { return ^(x & y), nil })
	case isa.NOR:
		return m.aluR(a, b, c, func(x, y uint16) (uint16, error) { return ^(x | y), nil })

	case isa.NOT:
		result := ^m.Registers[b]
		m.Registers[a] = result
		m.setFlags(result)
		return nil

	case isa.ADDIMM:
		return m.aluI(a, b, imm, func(x, y uint16) (uint16, error) { return x + y, nil })
	case isa.SUBTRACTIMM:
		return m.aluI(a, b, imm, func(x, y uint16) (uint16, error) { return x - y, nil })
	case isa.MULTIPLYIMM:
		return m.aluI(a, b, imm, func(x, y uint16) (uint16, error) { return x * y, nil })
	case isa.DIVIDEIMM:
		return m.aluI(a, b, imm, divide)
	case isa.MODULOIMM:
		return m.aluI(a, b, imm, modulo)
	case isa.SHIFTLEFTIMM:
		return m.aluI(a, b, imm, func(x, y uint16) (uint16, error) { return shiftLeft(x, y), nil })
	case isa.SHIFTRIGHTIMM:
		return m.aluI(a, b, imm, func(x, y uint16) (uint16, error) { return shiftRight(x, y), nil })
	case isa.ANDIMM:
		return m.aluI(a, b, imm, func(x, y uint16) (uint16, error) { return x & y, nil })
	case isa.ORIMM:
		return m.aluI(a, b, imm, func(x, y uint16) (uint16, error) { return x | y, nil })
	case isa.XORIMM:
		return m.aluI(a, b, imm, func(x, y uint16) (uint16, error) { return x ^ y, nil })
	case isa.NANDIMM:
		return m.aluI(a, b, imm, func(x, y uint16) (uint16, error) { return ^(x & y), nil })
	case isa.NORIMM:
		return m.aluI(a, b, imm, func(x, y uint16) (uint16, error) { return ^(x | y), nil })

	case isa.COMPARE:
		diff := m.Registers[b] - m.Registers[c]
		m.setFlags(diff)
		return nil
	case isa.COMPAREIMM:
		diff := m.Registers[b] - imm
		m.setFlags(diff)
		return nil

	case isa.LOAD:
		addr := m.Registers[b] + imm
		m.Registers[a] = m.Memory[addr]
		return nil
	case isa.STORE:
		addr := m.Registers[b] + imm
		m.Memory[addr] = m.Registers[a]
		return nil

	case isa.JUMP:
		m.PC = imm
		return nil
	case isa.JUMPIFZERO:
		if m.ZF {
			m.PC = imm
		}
		return nil
	case isa.JUMPIFNOTZERO:
		if !m.ZF {
			m.PC = imm
		}
		return nil
	case isa.JUMPLINK:
		m.Registers[isa.RLR] = m.PC
		m.PC = imm
		return nil

	default:
		// A value that isa.LookupOpcode recognizes as one of the 36
		// canonical opcodes but that isn't handled above means this
		// switch has fallen out of sync with the opcode table — a bug
		// in this package, not bad program data.
		if m, ok := isa.LookupOpcode(op); ok {
			return fmt.Errorf("%w: opcode %s has no execute case", isa.ErrInternal, m.Name)
		}
		return fmt.Errorf("%w: %#02x", ErrUnknownOpcode, uint8(op))
	}
}

// aluR performs a three-register ALU op: rDest = rOp1 <op> rOp2.
func (m *Machine) aluR(dest, op1, op2 uint8, fn func(x, y uint16) (uint16, error)) error {
	result, err := fn(m.Registers[op1], m.Registers[op2])
	if err != nil {
		return err
	}
	m.Registers[dest] = result
	m.setFlags(result)
	return nil
}

// aluI performs a two-register-plus-immediate ALU op: rDest = rOp1 <op> imm.
func (m *Machine) aluI(dest, op1 uint8, imm uint16, fn func(x, y uint16) (uint16, error)) error {
	result, err := fn(m.Registers[op1], imm)
	if err != nil {
		return err
	}
	m.Registers[dest] = result
	m.setFlags(result)
	return nil
}

func divide(x, y uint16) (uint16, error) {
	if y == 0 {
		return 0, ErrDivideByZero
	}
	return x / y, nil
}

func modulo(x, y uint16) (uint16, error) {
	if y == 0 {
		return 0, ErrDivideByZero
	}
	return x % y, nil
}

// shiftLeft and shiftRight are logical shifts; a count of 16 or more
// always yields zero.
func shiftLeft(x, count uint16) uint16 {
	if count >= 16 {
		return 0
	}
	return x << count
}

func shiftRight(x, count uint16) uint16 {
	if count >= 16 {
		return 0
	}
	return x >> count
}

// setFlags implements the flag law: ZF is set when the result is zero,
// SF is set when the result's most significant bit is 1.
func (m *Machine) setFlags(result uint16) {
	m.ZF = result == 0
	m.SF = result >= 0x8000
}
