package frame

import (
	"fmt"

	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/object"
)

// TraceFunc is the signature of a frame-local trace callback installed
// by the tracing hook interface. event is one of
// "call", "line", "opcode", "return", "exception".
type TraceFunc func(f *Frame, event string, arg object.Value) (TraceFunc, error)

// Frame is exactly one activation of a CodeObject.
//
// Note on the exception "triple": CPython's own evaluator pushes
// (traceback, value, type) as three raw stack slots when entering an
// except-handler block so that
// END_FINALLY/POP_EXCEPT can pop them generically. Here an
// *object.Exception already carries its own type and traceback, so the
// triple is represented as that single boxed value on the stack — one
// slot standing in for CPython's three. Stack-level bookkeeping
// (Block.Level) is computed consistently against this representation
// throughout, so observable stack-depth and block-level invariants
// still hold; only the literal slot count of the wire format differs.
type Frame struct {
	Code     *bytecode.CodeObject
	Globals  map[string]object.Value
	Builtins map[string]object.Value
	Back     *Frame

	IP    int
	Stack []object.Value

	Locals     map[string]object.Value
	BlockStack []Block
	Cells      map[string]*object.Cell

	line int

	TraceLines   bool
	TraceOpcodes bool
	Trace        TraceFunc

	// Owner is set when this frame backs a Generator/Coroutine/
	// AsyncGenerator; nil for frames owned transitively by the VM's own
	// frame chain.
	Owner any
}

// New builds a fresh activation record. builtins is stored as given:
// New neither inherits it from back nor looks it up under
// "__builtins__" in globals.
func New(code *bytecode.CodeObject, globals, builtins map[string]object.Value, back *Frame) *Frame {
	f := &Frame{
		Code:     code,
		Globals:  globals,
		Builtins: builtins,
		Back:     back,
		Locals:   make(map[string]object.Value),
		Cells:    make(map[string]*object.Cell),
		line:     code.FirstLine,
	}
	return f
}

// Line returns the cached current source line, recomputed on demand by
// the evaluator when IP crosses into a new line's range.
func (f *Frame) Line() int { return f.line }

// SetLine updates the cached current line.
func (f *Frame) SetLine(l int) { f.line = l }

// --- value stack -----------------------------------------------------

// Push appends values to the stack, left to right.
func (f *Frame) Push(vs ...object.Value) {
	f.Stack = append(f.Stack, vs...)
}

// Top returns the topmost value without popping it.
func (f *Frame) Top() object.Value {
	return f.Stack[len(f.Stack)-1]
}

// Peek returns the value i slots below the top (Peek(0) == Top()).
func (f *Frame) Peek(i int) object.Value {
	return f.Stack[len(f.Stack)-1-i]
}

// Pop removes and returns the i-th-from-top value, default the top
//`), compacting the stack beneath it.
func (f *Frame) Pop(i ...int) object.Value {
	idx := 0
	if len(i) > 0 {
		idx = i[0]
	}
	pos := len(f.Stack) - 1 - idx
	v := f.Stack[pos]
	f.Stack = append(f.Stack[:pos], f.Stack[pos+1:]...)
	return v
}

// PopN removes and returns the top n values, in stack order (bottom to
// top of the popped run).
func (f *Frame) PopN(n int) []object.Value {
	if n == 0 {
		return nil
	}
	start := len(f.Stack) - n
	out := make([]object.Value, n)
	copy(out, f.Stack[start:])
	f.Stack = f.Stack[:start]
	return out
}

// Depth is the current value-stack size.
func (f *Frame) Depth() int { return len(f.Stack) }

// Jump sets the instruction cursor to an absolute byte offset.
func (f *Frame) Jump(offset int) { f.IP = offset }

// --- block stack -------------------------------------------------------

// PushBlock pushes a new block, defaulting its recorded level to the
// current stack depth.
func (f *Frame) PushBlock(t BlockType, handler int, level ...int) {
	lvl := f.Depth()
	if len(level) > 0 {
		lvl = level[0]
	}
	f.BlockStack = append(f.BlockStack, Block{Type: t, Handler: handler, Level: lvl})
}

// PopBlock removes and returns the topmost block.
func (f *Frame) PopBlock() Block {
	b := f.BlockStack[len(f.BlockStack)-1]
	f.BlockStack = f.BlockStack[:len(f.BlockStack)-1]
	return b
}

// TopBlock returns the topmost block without popping it.
func (f *Frame) TopBlock() Block { return f.BlockStack[len(f.BlockStack)-1] }

// HasBlocks reports whether any block remains on the stack.
func (f *Frame) HasBlocks() bool { return len(f.BlockStack) > 0 }

// UnwindBlock pops the value stack down to b's recorded level.
func (f *Frame) UnwindBlock(b Block) {
	if f.Depth() > b.Level {
		f.Stack = f.Stack[:b.Level]
	}
}

// UnwindExceptHandler pops down to b.Level+1 (the single-slot "previous
// exception" triple, see the Frame doc comment) and returns that value,
// for the caller to restore as the current exception.
func (f *Frame) UnwindExceptHandler(b Block) object.Value {
	target := b.Level + 1
	if f.Depth() < target {
		panic(fmt.Sprintf("except-handler block level %d exceeds stack depth %d", target, f.Depth()))
	}
	prev := f.Stack[target-1]
	f.Stack = f.Stack[:target-1]
	return prev
}
