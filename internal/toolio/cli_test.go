package toolio

import "testing"

func TestCheckExtensionAccepts(t *testing.T) {
	if err := CheckExtension("prog.TXT", ".txt"); err != nil {
		t.Errorf("case-insensitive match should succeed: %v", err)
	}
}

func TestCheckExtensionRejects(t *testing.T) {
	if err := CheckExtension("prog.bin", ".txt"); err == nil {
		t.Error("expected error for mismatched extension")
	}
}

func TestCheckExtensionAcceptsAnyOfSeveral(t *testing.T) {
	if err := CheckExtension("prog.bin", ".txt", ".bin"); err != nil {
		t.Errorf("should match second candidate: %v", err)
	}
}
