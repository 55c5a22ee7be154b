package jack

import (
	"fmt"
	"io"
)

// ----------------------------------------------------------------------------
// Optional debug dump

// dumpSymbolTable appends a human-readable dump of table to sink, tagged
// with tag (e.g. "Foo class" or "new method"). This is diagnostic only —
// downstream VM tooling never reads it — so a nil sink silently disables
// the feature instead of erroring.
//
// The header/trailer shape (tag line, one "name: type segment index" line
// per entry in declaration order, a "------" trailer) is carried over from
// SymbolTable.dumpTable in the source this translator was distilled from;
// see SPEC_FULL.md §4 for why it's preserved rather than reinvented.
func dumpSymbolTable(sink io.Writer, table *SymbolTable, tag string) error {
	if sink == nil {
		return nil
	}

	if _, err := fmt.Fprintln(sink, tag); err != nil {
		return err
	}
	for _, name := range table.order {
		entry := table.entries[name]
		if _, err := fmt.Fprintf(sink, "%s: %s %s %d\n", name, entry.Type, entry.Segment, entry.Index); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(sink, "------")
	return err
}
