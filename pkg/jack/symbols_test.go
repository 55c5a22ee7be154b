package jack

import (
	"testing"

	"github.com/arkwright-dev/jackc/pkg/vm"
)

func TestSymbolTableDefine(t *testing.T) {
	test := func(st *SymbolTable, lookup string, expected SymbolEntry, found bool) {
		entry, ok := st.Entry(lookup)
		if ok != found {
			t.Fatalf("expected Entry(%q) found=%v, got found=%v", lookup, found, ok)
		}
		if found && entry != expected {
			t.Errorf("expected %q to resolve to %+v, got %+v", lookup, expected, entry)
		}
	}

	t.Run("Static and field share no index space", func(t *testing.T) {
		st := NewSymbolTable()
		st.Define("a", "int", vm.Static)
		st.Define("b", "char", fieldSegment)
		st.Define("c", "int", vm.Static)
		st.Define("d", "boolean", fieldSegment)

		test(st, "a", SymbolEntry{Type: "int", Segment: vm.Static, Index: 0}, true)
		test(st, "c", SymbolEntry{Type: "int", Segment: vm.Static, Index: 1}, true)
		test(st, "b", SymbolEntry{Type: "char", Segment: vm.This, Index: 0}, true)
		test(st, "d", SymbolEntry{Type: "boolean", Segment: vm.This, Index: 1}, true)

		if got := st.VarCount(vm.Static); got != 2 {
			t.Errorf("expected static count 2, got %d", got)
		}
		if got := st.VarCount(fieldSegment); got != 2 {
			t.Errorf("expected field/this count 2, got %d", got)
		}
	})

	t.Run("Redefinition overwrites silently", func(t *testing.T) {
		st := NewSymbolTable()
		st.Define("x", "int", vm.Local)
		st.Define("x", "char", vm.Local)

		test(st, "x", SymbolEntry{Type: "char", Segment: vm.Local, Index: 1}, true)
		if got := st.VarCount(vm.Local); got != 2 {
			t.Errorf("expected the counter to still advance on redefinition, got %d", got)
		}
	})

	t.Run("Reset clears entries and counters", func(t *testing.T) {
		st := NewSymbolTable()
		st.Define("x", "int", vm.Argument)
		st.Reset()

		test(st, "x", SymbolEntry{}, false)
		if got := st.VarCount(vm.Argument); got != 0 {
			t.Errorf("expected counter reset to 0, got %d", got)
		}
	})

	t.Run("Unknown name", func(t *testing.T) {
		st := NewSymbolTable()
		test(st, "nope", SymbolEntry{}, false)
		if st.Contains("nope") {
			t.Errorf("expected Contains to report false for an undefined name")
		}
	})
}

func TestDefineThisReceiver(t *testing.T) {
	st := NewSymbolTable()
	st.DefineThisReceiver("Point")

	entry, ok := st.Entry("this")
	if !ok {
		t.Fatalf("expected 'this' to resolve after DefineThisReceiver")
	}
	if entry.Segment != vm.Argument || entry.Index != 0 || entry.Type != "Point" {
		t.Errorf("expected this to occupy argument 0 with type Point, got %+v", entry)
	}
}
