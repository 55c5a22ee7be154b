package jack

import "github.com/arkwright-dev/jackc/pkg/vm"

// ----------------------------------------------------------------------------
// Symbol table

// fieldSegment is the surface-syntax name for a field declaration; it is
// never stored in a SymbolEntry because Define normalizes it to vm.This
// immediately — field and this are one segment for counting purposes, the
// difference is only which keyword the source used to declare it.
const fieldSegment vm.SegmentType = "field"

// SymbolEntry is the (declared type, VM segment, index-within-segment)
// triple a name resolves to.
type SymbolEntry struct {
	Type    string // a primitive keyword (int/char/boolean) or a class identifier
	Segment vm.SegmentType
	Index   uint16
}

// SymbolTable maps identifiers to SymbolEntry values for a single scope,
// tracking one counter per segment so each new entry's index is the prior
// count and counters only ever grow between resets. Two instances are used
// by the translator: one for class scope (static/this) that persists for
// the whole class, and one for subroutine scope (argument/local) that is
// reset at the start of every subroutine.
type SymbolTable struct {
	entries map[string]SymbolEntry
	order   []string // insertion order, used only by the debug dump
	counts  map[vm.SegmentType]uint16
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		entries: make(map[string]SymbolEntry),
		counts:  make(map[vm.SegmentType]uint16),
	}
}

// Reset clears every entry and zeroes every segment counter, readying the
// table for a new scope.
func (st *SymbolTable) Reset() {
	st.entries = make(map[string]SymbolEntry)
	st.order = nil
	st.counts = make(map[vm.SegmentType]uint16)
}

// Define inserts name at the current counter for segment (normalizing
// fieldSegment to vm.This) and then increments that counter. The source
// this translator is grounded on overwrites silently on redefinition
// within the same scope; this reimplementation keeps that behavior
// deliberately (see DESIGN.md, spec §9(b)) but it does mean a shadowed
// name loses its old index irrecoverably, so callers should not rely on
// being able to reach an earlier definition of the same name.
func (st *SymbolTable) Define(name, declaredType string, segment vm.SegmentType) {
	if segment == fieldSegment {
		segment = vm.This
	}
	index := st.counts[segment]
	if _, exists := st.entries[name]; !exists {
		st.order = append(st.order, name)
	}
	st.entries[name] = SymbolEntry{Type: declaredType, Segment: segment, Index: index}
	st.counts[segment]++
}

// DefineThisReceiver installs the synthetic 'this' entry a method's
// receiver occupies, at argument index 0, before any declared parameter is
// processed.
func (st *SymbolTable) DefineThisReceiver(className string) {
	st.Define(string(KwThis), className, vm.Argument)
}

// Contains reports whether name has an entry in this table.
func (st *SymbolTable) Contains(name string) bool {
	_, ok := st.entries[name]
	return ok
}

// Entry returns name's entry and whether it was found.
func (st *SymbolTable) Entry(name string) (SymbolEntry, bool) {
	e, ok := st.entries[name]
	return e, ok
}

// VarCount returns the current counter for segment (normalizing
// fieldSegment to vm.This).
func (st *SymbolTable) VarCount(segment vm.SegmentType) uint16 {
	if segment == fieldSegment {
		segment = vm.This
	}
	return st.counts[segment]
}
