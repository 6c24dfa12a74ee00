package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/rcornwell/smis/asm"
	"github.com/rcornwell/smis/isa"
)

func assembleWords(t *testing.T, src string) []uint32 {
	t.Helper()
	bin, err := asm.Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	words := make([]uint32, len(bin)/4)
	for i := range words {
		var b [4]byte
		copy(b[:], bin[i*4:i*4+4])
		words[i] = isa.FromBytes(b)
	}
	return words
}

func runProgram(t *testing.T, src string) *Machine {
	t.Helper()
	m := New()
	if err := m.Load(assembleWords(t, src)); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return m
}

func TestSubtractScenario(t *testing.T) {
	// SET R1 #5; SET R2 #3; SUBTRACT R3 R1 R2; HALT -> R3=2, ZF=0, SF=0.
	m := runProgram(t, "SET R1 #5\nSET R2 #3\nSUBTRACT R3 R1 R2\nHALT\n")
	if m.Registers[3] != 2 {
		t.Errorf("R3 = %d, want 2", m.Registers[3])
	}
	if m.ZF || m.SF {
		t.Errorf("ZF=%v SF=%v, want both false", m.ZF, m.SF)
	}
}

func TestModularAddOverflow(t *testing.T) {
	// SET R1 #65535; ADD-IMM R1 R1 #1; HALT -> R1=0, ZF=1.
	m := runProgram(t, "SET R1 #65535\nADD-IMM R1 R1 #1\nHALT\n")
	if m.Registers[1] != 0 {
		t.Errorf("R1 = %d, want 0", m.Registers[1])
	}
	if !m.ZF {
		t.Error("ZF should be set after wrap-around to zero")
	}
}

func TestRZRImmutable(t *testing.T) {
	m := runProgram(t, "SET R0 #42\nADD R0 R0 R0\nHALT\n")
	if m.Registers[0] != 0 {
		t.Errorf("R0 = %d, want 0 (writes to RZR are discarded)", m.Registers[0])
	}
}

func TestCompareSubtractsAndSetsFlagsOnly(t *testing.T) {
	m := New()
	m.Registers[1] = 5
	m.Registers[2] = 5
	if err := m.Load(assembleWords(t, "COMPARE R1 R2\nHALT\n")); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !m.ZF {
		t.Error("COMPARE of equal registers should set ZF")
	}
	if m.Registers[1] != 5 || m.Registers[2] != 5 {
		t.Error("COMPARE must not modify its operand registers")
	}
}

func TestUnrecognizedOpcodeIsRuntimeErrorNotInternal(t *testing.T) {
	// Opcode 0xFF is not in the isa table at all, so this is bad program
	// data (a Runtime error), not the internal-invariant case where a
	// recognized opcode has no execute() case.
	m := New()
	word := uint32(0xFF) << 24
	if err := m.Load([]uint32{word}); err != nil {
		t.Fatalf("load: %v", err)
	}
	err := m.Run()
	if !errors.Is(err, ErrUnknownOpcode) {
		t.Errorf("got %v, want ErrUnknownOpcode", err)
	}
	if errors.Is(err, isa.ErrInternal) {
		t.Error("an unrecognized opcode must not be reported as an internal error")
	}
}

func TestDivideByZeroIsRuntimeError(t *testing.T) {
	m := New()
	if err := m.Load(assembleWords(t, "SET R1 #10\nSET R2 #0\nDIVIDE R3 R1 R2\nHALT\n")); err != nil {
		t.Fatalf("load: %v", err)
	}
	err := m.Run()
	if err == nil {
		t.Fatal("expected divide-by-zero error")
	}
}

func TestShiftByAtLeast16YieldsZero(t *testing.T) {
	m := runProgram(t, "SET R1 #1\nSHIFT-LEFT-IMM R2 R1 #16\nHALT\n")
	if m.Registers[2] != 0 {
		t.Errorf("R2 = %d, want 0", m.Registers[2])
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	m := New()
	if err := m.Load(assembleWords(t, "SET R1 #7\nSTORE R1 R0 #100\nLOAD R2 R0 #100\nHALT\n")); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if m.Registers[2] != 7 {
		t.Errorf("R2 = %d, want 7", m.Registers[2])
	}
}

func TestJumpLinkSetsRLRToReturnAddress(t *testing.T) {
	src := "JUMP-LINK sub\nHALT\nsub:\nHALT\n"
	m := runProgram(t, src)
	// JUMP-LINK is at address 0; its successor instruction is at 2.
	if m.Registers[isa.RLR] != 2 {
		t.Errorf("RLR = %d, want 2", m.Registers[isa.RLR])
	}
}

func TestHaltTerminatorStopsRunawayExecution(t *testing.T) {
	m := New()
	if err := m.Load(assembleWords(t, "SET R1 #1\n")); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("run should stop cleanly at the synthesized HALT terminator: %v", err)
	}
}
