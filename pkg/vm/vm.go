// Package vm defines the vocabulary of the stack-based virtual machine that
// the Jack translator targets, and the Writer that formats instructions in
// that vocabulary to a text sink.
package vm

// ----------------------------------------------------------------------------
// General information

// This section contains the shared vocabulary of the VM language: the memory
// segments an instruction can address and the arithmetic/logical operations
// the machine understands. Unlike the teacher's AST-based backend there is
// no in-memory instruction tree here — the Writer formats and appends each
// instruction as the translator drives it, so these constants only need to
// describe a single instruction at a time, never a whole program.

// SegmentType names a region of the VM's virtual memory model.
type SegmentType string

const (
	Temp     SegmentType = "temp"     // Real segment used to store intermediate computations
	Constant SegmentType = "constant" // Virtual segment used to access numeric constants

	Local    SegmentType = "local"    // Real segment used to store local function variables
	Static   SegmentType = "static"   // Real segment used to store shared/static variables
	Argument SegmentType = "argument" // Real segment used to store function's arguments

	This    SegmentType = "this"    // Real segment backing the current object's fields
	That    SegmentType = "that"    // Virtual segment used to dereference arbitrary addresses
	Pointer SegmentType = "pointer" // Real segment w/ 2 locations used to set 'this'/'that'
)

// OperationType distinguishes the two memory operations the machine supports.
type OperationType string

const (
	Push OperationType = "push"
	Pop  OperationType = "pop"
)

// ArithOpType enumerates the arithmetic, comparison and bitwise operations
// that act on the top of the stack.
type ArithOpType string

const (
	Eq ArithOpType = "eq" // Comparison operations
	Gt ArithOpType = "gt"
	Lt ArithOpType = "lt"

	Add ArithOpType = "add" // Arithmetic operations
	Sub ArithOpType = "sub"
	Neg ArithOpType = "neg"

	Not ArithOpType = "not" // Bitwise operations
	And ArithOpType = "and"
	Or  ArithOpType = "or"
)

// JumpType distinguishes the two control-flow operations emitted for loops
// and conditionals; 'goto' is unconditional, 'if-goto' pops and tests.
type JumpType string

const (
	Goto   JumpType = "goto"
	IfGoto JumpType = "if-goto"
)
