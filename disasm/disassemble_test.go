package disasm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rcornwell/smis/asm"
	"github.com/rcornwell/smis/isa"
)

func disassembleBytes(t *testing.T, b []byte) string {
	t.Helper()
	out, err := Disassemble(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}
	return out
}

func TestDisassembleThreeRegister(t *testing.T) {
	w := isa.EncodeR(isa.ADD, 1, 2, 3)
	b := isa.ToBytes(w)
	got := disassembleBytes(t, b[:])
	want := "ADD R1 R2 R3\n"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestDisassembleSet(t *testing.T) {
	w := isa.EncodeSet(4, 42)
	b := isa.ToBytes(w)
	got := disassembleBytes(t, b[:])
	want := "SET R4 #42\n"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestDisassembleHalt(t *testing.T) {
	w := isa.EncodeHalt()
	b := isa.ToBytes(w)
	got := disassembleBytes(t, b[:])
	if got != "HALT\n" {
		t.Errorf("got %q want HALT", got)
	}
}

func TestDisassembleCompareIgnoresFieldA(t *testing.T) {
	// Put a non-zero value in field A; the rendering must not show it.
	w := isa.EncodeCompare(1, 2) | uint32(7)<<20
	b := isa.ToBytes(w)
	got := disassembleBytes(t, b[:])
	if got != "COMPARE R1 R2\n" {
		t.Errorf("got %q want COMPARE R1 R2", got)
	}
}

func TestDisassembleNoBlankLineBeforeLabelAtAddressZero(t *testing.T) {
	// A jump to address 0 must not print a leading blank line.
	w1 := isa.EncodeJ(isa.JUMP, 0)
	w2 := isa.EncodeHalt()
	var buf bytes.Buffer
	for _, w := range []uint32{w1, w2} {
		b := isa.ToBytes(w)
		buf.Write(b[:])
	}
	got := disassembleBytes(t, buf.Bytes())
	if strings.HasPrefix(got, "\n") {
		t.Errorf("leading blank line before first label: %q", got)
	}
	if !strings.HasPrefix(got, "Label_0:\n") {
		t.Errorf("expected label at address 0, got %q", got)
	}
}

func TestDisassembleBadLengthIsError(t *testing.T) {
	_, err := Disassemble(bytes.NewReader([]byte{1, 2, 3}))
	if err == nil {
		t.Fatal("expected error for binary length not a multiple of 4")
	}
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	_, err := Disassemble(bytes.NewReader([]byte{0xFF, 0, 0, 0}))
	if err == nil {
		t.Fatal("expected error for unknown opcode")
	}
}

func TestRoundTripAssembleDisassembleAssemble(t *testing.T) {
	src := "start:\nADD R1 R2 R3\nJUMP start\n"
	first, err := asm.Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("first assemble failed: %v", err)
	}

	text, err := Disassemble(bytes.NewReader(first))
	if err != nil {
		t.Fatalf("disassemble failed: %v", err)
	}

	second, err := asm.Assemble(strings.NewReader(text))
	if err != nil {
		t.Fatalf("second assemble failed: %v\nrendered source:\n%s", err, text)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("round trip mismatch:\nfirst:  % x\nsecond: % x\nrendered:\n%s", first, second, text)
	}
}

func TestRoundTripSharedJumpTarget(t *testing.T) {
	src := "JUMP-IF-ZERO target\nJUMP-IF-NOTZERO target\ntarget:\nHALT\n"
	first, err := asm.Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	text, err := Disassemble(bytes.NewReader(first))
	if err != nil {
		t.Fatalf("disassemble failed: %v", err)
	}
	if strings.Count(text, "Label_0:") != 1 {
		t.Errorf("expected exactly one definition of the shared label, got:\n%s", text)
	}
	second, err := asm.Assemble(strings.NewReader(text))
	if err != nil {
		t.Fatalf("re-assemble failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("round trip mismatch")
	}
}
