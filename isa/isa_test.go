package isa

import "testing"

func TestEncodeRThreeRegister(t *testing.T) {
	// ADD R1 R2 R3 -> 0x03123000 per the concrete scenario in the spec.
	got := EncodeR(ADD, 1, 2, 3)
	want := uint32(0x03123000)
	if got != want {
		t.Errorf("EncodeR(ADD,1,2,3) = %#08x, want %#08x", got, want)
	}
}

func TestEncodeSet(t *testing.T) {
	// SET R4 #42 -> 0x0140002A.
	got := EncodeSet(4, 42)
	want := uint32(0x0140002A)
	if got != want {
		t.Errorf("EncodeSet(4,42) = %#08x, want %#08x", got, want)
	}
}

func TestEncodeJump(t *testing.T) {
	// JUMP to address 6 -> 0x20000006.
	got := EncodeJ(JUMP, 6)
	want := uint32(0x20000006)
	if got != want {
		t.Errorf("EncodeJ(JUMP,6) = %#08x, want %#08x", got, want)
	}
}

func TestToBytesBigEndian(t *testing.T) {
	b := ToBytes(0x03123000)
	want := [4]byte{0x03, 0x12, 0x30, 0x00}
	if b != want {
		t.Errorf("ToBytes = %v, want %v", b, want)
	}
	if FromBytes(b) != 0x03123000 {
		t.Errorf("FromBytes(ToBytes(w)) != w")
	}
}

func TestFieldAccessors(t *testing.T) {
	w := EncodeR(SUBTRACT, 3, 1, 2)
	if OpcodeOf(w) != SUBTRACT {
		t.Errorf("OpcodeOf = %d, want %d", OpcodeOf(w), SUBTRACT)
	}
	if RegAOf(w) != 3 || RegBOf(w) != 1 || RegCOf(w) != 2 {
		t.Errorf("fields = %d,%d,%d want 3,1,2", RegAOf(w), RegBOf(w), RegCOf(w))
	}
}

func TestLookupRoundTrip(t *testing.T) {
	for name, m := range byName {
		found, ok := LookupOpcode(m.Op)
		if !ok || found.Name != name {
			t.Errorf("LookupOpcode(%d) = %+v, want name %s", m.Op, found, name)
		}
	}
}

func TestRegisterAliases(t *testing.T) {
	cases := []struct {
		tok  string
		want uint8
	}{
		{"RZR", 0}, {"RSP", 15}, {"RBP", 14}, {"RLR", 13},
		{"R0", 0}, {"R15", 15}, {"R7", 7},
	}
	for _, c := range cases {
		got, ok := ParseRegister(c.tok)
		if !ok || got != c.want {
			t.Errorf("ParseRegister(%q) = %d,%v want %d,true", c.tok, got, ok, c.want)
		}
	}
	if _, ok := ParseRegister("R16"); ok {
		t.Error("ParseRegister(R16) should fail, out of range")
	}
	if _, ok := ParseRegister("RX"); ok {
		t.Error("ParseRegister(RX) should fail")
	}
}

func TestRegisterName(t *testing.T) {
	if RegisterName(0) != "RZR" || RegisterName(15) != "RSP" ||
		RegisterName(14) != "RBP" || RegisterName(13) != "RLR" {
		t.Error("alias rendering wrong")
	}
	if RegisterName(7) != "R7" {
		t.Errorf("RegisterName(7) = %s, want R7", RegisterName(7))
	}
}

func TestOpcodeNumbering(t *testing.T) {
	// Pin the canonical numbering from the data model so a future edit
	// can't silently renumber the binary format.
	want := map[string]Opcode{
		"SET": 1, "COPY": 2, "ADD": 3, "SUBTRACT": 4, "MULTIPLY": 5,
		"DIVIDE": 6, "MODULO": 7, "COMPARE": 8, "SHIFT-LEFT": 9,
		"SHIFT-RIGHT": 10, "AND": 11, "OR": 12, "XOR": 13, "NAND": 14,
		"NOR": 15, "NOT": 16, "ADD-IMM": 17, "SUBTRACT-IMM": 18,
		"MULTIPLY-IMM": 19, "DIVIDE-IMM": 20, "MODULO-IMM": 21,
		"COMPARE-IMM": 22, "SHIFT-LEFT-IMM": 23, "SHIFT-RIGHT-IMM": 24,
		"AND-IMM": 25, "OR-IMM": 26, "XOR-IMM": 27, "NAND-IMM": 28,
		"NOR-IMM": 29, "LOAD": 30, "STORE": 31, "JUMP": 32,
		"JUMP-IF-ZERO": 33, "JUMP-IF-NOTZERO": 34, "JUMP-LINK": 35, "HALT": 36,
	}
	for name, op := range want {
		m, ok := Lookup(name)
		if !ok || m.Op != op {
			t.Errorf("Lookup(%s).Op = %d, want %d", name, m.Op, op)
		}
	}
}
