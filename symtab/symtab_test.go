package symtab

import "testing"

func TestDefineAndLookup(t *testing.T) {
	tbl := New()
	if err := tbl.Define("loop", 6); err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	addr, ok := tbl.Lookup("loop")
	if !ok || addr != 6 {
		t.Errorf("Lookup(loop) = %d,%v want 6,true", addr, ok)
	}
}

func TestDuplicateDefineIsFatal(t *testing.T) {
	tbl := New()
	if err := tbl.Define("start", 0); err != nil {
		t.Fatalf("first Define failed: %v", err)
	}
	if err := tbl.Define("start", 4); err == nil {
		t.Error("duplicate label did not return an error")
	}
}

func TestEnsureLabelSharesAddress(t *testing.T) {
	tbl := New()
	n1 := tbl.EnsureLabel(10, SyntheticName)
	n2 := tbl.EnsureLabel(10, SyntheticName)
	if n1 != n2 {
		t.Errorf("two jumps to the same address got different labels: %s vs %s", n1, n2)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
}

func TestEnsureLabelInsertionOrder(t *testing.T) {
	tbl := New()
	first := tbl.EnsureLabel(20, SyntheticName)
	second := tbl.EnsureLabel(4, SyntheticName)
	if first != "Label_0" || second != "Label_1" {
		t.Errorf("labels = %s, %s want Label_0, Label_1", first, second)
	}
}

func TestNameAt(t *testing.T) {
	tbl := New()
	_ = tbl.Define("foo", 2)
	name, ok := tbl.NameAt(2)
	if !ok || name != "foo" {
		t.Errorf("NameAt(2) = %s,%v want foo,true", name, ok)
	}
	if _, ok := tbl.NameAt(99); ok {
		t.Error("NameAt(99) should not be found")
	}
}
