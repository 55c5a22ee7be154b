package vm

import (
	"fmt"
	"io"
)

// ----------------------------------------------------------------------------
// VM Writer

// Writer formats and appends VM instructions to an output sink as the
// translator discovers them. There is no buffering beyond what io.Writer
// itself does: each Write* call writes at most one line straight to the sink, so
// the emission order observed by the sink is the emission order the caller
// requested — this is what makes the translator's output deterministic and
// reproducible byte-for-byte for a given input (see the translator package).
//
// Every instruction but 'label' and 'function' is indented by a single tab,
// matching the convention of the reference Jack toolchain; the indentation
// is cosmetic and carries no semantic weight for downstream consumers.
type Writer struct {
	out io.Writer
	err error // First write error encountered, sticky so callers can check once at the end
}

// NewWriter returns a Writer that appends formatted VM instructions to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// Err returns the first error encountered by any Write* call, or nil.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) emit(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, err := fmt.Fprintf(w.out, format+"\n", args...)
	if err != nil {
		w.err = fmt.Errorf("vm: unable to write instruction: %w", err)
	}
}

// WritePush emits 'push <segment> <index>'.
func (w *Writer) WritePush(segment SegmentType, index uint16) {
	if err := boundsCheck(segment, index); err != nil {
		if w.err == nil {
			w.err = err
		}
		return
	}
	w.emit("\tpush %s %d", segment, index)
}

// WritePop emits 'pop <segment> <index>'.
func (w *Writer) WritePop(segment SegmentType, index uint16) {
	if err := boundsCheck(segment, index); err != nil {
		if w.err == nil {
			w.err = err
		}
		return
	}
	w.emit("\tpop %s %d", segment, index)
}

// WriteConstant is the convenience form 'push constant <k>'.
func (w *Writer) WriteConstant(k uint16) { w.WritePush(Constant, k) }

// WritePushThis is the convenience form 'push pointer 0'.
func (w *Writer) WritePushThis() { w.WritePush(Pointer, 0) }

// WritePopThis is the convenience form 'pop pointer 0'.
func (w *Writer) WritePopThis() { w.WritePop(Pointer, 0) }

// WritePushThat is the convenience form 'push pointer 1'.
func (w *Writer) WritePushThat() { w.WritePush(Pointer, 1) }

// WritePopThat is the convenience form 'pop pointer 1'.
func (w *Writer) WritePopThat() { w.WritePop(Pointer, 1) }

// WriteArithmetic emits one of: add sub neg eq gt lt and or not.
func (w *Writer) WriteArithmetic(op ArithOpType) {
	w.emit("\t%s", op)
}

// WriteLabel emits 'label <Label>', unindented.
func (w *Writer) WriteLabel(label string) {
	w.emit("label %s", label)
}

// WriteGoto emits 'goto <Label>'.
func (w *Writer) WriteGoto(label string) {
	w.emit("\tgoto %s", label)
}

// WriteIfGoto emits 'if-goto <Label>'.
func (w *Writer) WriteIfGoto(label string) {
	w.emit("\tif-goto %s", label)
}

// WriteCall emits 'call <Name> <nArgs>'.
func (w *Writer) WriteCall(name string, nArgs int) {
	w.emit("\tcall %s %d", name, nArgs)
}

// WriteFunction emits 'function <Name> <nLocals>', unindented.
func (w *Writer) WriteFunction(name string, nLocals int) {
	w.emit("function %s %d", name, nLocals)
}

// WriteReturn emits 'return'.
func (w *Writer) WriteReturn() {
	w.emit("\treturn")
}

// boundsCheck rejects offsets that cannot exist on the target platform: the
// 'pointer' segment has exactly 2 slots (this/that) and 'temp' has 8.
func boundsCheck(segment SegmentType, index uint16) error {
	if segment == Pointer && index > 1 {
		return fmt.Errorf("vm: invalid 'pointer' offset %d, must be 0 or 1", index)
	}
	if segment == Temp && index > 7 {
		return fmt.Errorf("vm: invalid 'temp' offset %d, valid range is 0-7", index)
	}
	return nil
}
