// Package eval implements the fetch-decode-dispatch evaluation loop
// that drives a Frame to completion: the main interpreter of this
// module, tying together bytecode.CodeObject, frame.Frame,
// function.Function and generator.Generator into a running program.
package eval

import (
	"context"
	"fmt"

	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/generator"
	"github.com/shardpy/pybc/internal/object"
)

// VirtualMachineError reports an internal inconsistency the evaluator
// detected on its own (an opcode unsupported in the frame's target
// version, an opcode with no handler, a POP_EXCEPT whose popped block is
// not an except-handler, an unrecognized END_FINALLY discriminator) —
// never something bytecode-level exception handling can catch.
type VirtualMachineError struct {
	Msg string
}

func (e *VirtualMachineError) Error() string { return "VirtualMachineError: " + e.Msg }

// Evaluator is the process-wide scratch state a running program needs
// beyond any one Frame: the return-value/exception registers the
// block-unwinding policy reads and writes, the active frame chain, the
// builtin/exception-class namespace, and optional tracing. Bundling
// this as a single value (rather than free-floating globals) is what
// lets a generator or coroutine pause mid-evaluation and resume later
// without disturbing any other frame chain sharing the same Evaluator.
type Evaluator struct {
	Version bytecode.Version

	Builtins map[string]object.Value
	Classes  *generator.Classes
	Errors   *ExceptionClasses

	// Modules is the import namespace IMPORT_NAME resolves against.
	// Nothing is registered here on its own — embedders populate it
	// with whatever host-provided modules a program should be able to
	// import.
	Modules map[string]*object.Module

	// GlobalTrace, if set, is fired with a "call" event every time
	// NewFrame builds an activation record, mirroring sys.settrace's
	// call→local-tracer handoff: whatever TraceFunc it returns becomes
	// that frame's own f.Trace for its subsequent line/opcode/return/
	// exception events. internal/trace's Session.Recorder is the usual
	// source of one of these; it's a plain field rather than a fixed
	// type so a caller can wire up something simpler directly.
	GlobalTrace frame.TraceFunc

	current *frame.Frame

	returnValue    object.Value
	lastException  *object.Exception
	currentExc     *object.Exception
	opargExtension int
	opStart        int

	// vmErr is sticky: once fatal sets it, it is never cleared, and
	// step's poison check re-asserts WhyFatal on every frame still on
	// the call chain until the error reaches RunModule.
	vmErr *VirtualMachineError

	Ctx context.Context
}

// New builds an Evaluator targeting version v, with a fresh builtin
// namespace and exception-class registry.
func New(v bytecode.Version) *Evaluator {
	ev := &Evaluator{Version: v}
	ev.Errors = newExceptionClasses()
	ev.Classes = ev.Errors.generatorClasses()
	ev.Builtins = newBuiltins(ev)
	ev.Modules = map[string]*object.Module{}
	return ev
}

// --- frame.Signals -----------------------------------------------------

func (ev *Evaluator) ReturnValue() object.Value                { return ev.returnValue }
func (ev *Evaluator) SetReturnValue(v object.Value)             { ev.returnValue = v }
func (ev *Evaluator) LastException() *object.Exception          { return ev.lastException }
func (ev *Evaluator) SetLastException(e *object.Exception)      { ev.lastException = e }
func (ev *Evaluator) ClearLastException()                       { ev.lastException = nil }
func (ev *Evaluator) CurrentException() *object.Exception       { return ev.currentExc }
func (ev *Evaluator) SetCurrentException(e *object.Exception)   { ev.currentExc = e }

var _ frame.Signals = (*Evaluator)(nil)

// NewFrame builds a fresh activation record for code, chained onto
// back (nil for a top-level module frame). Every frame gets the
// evaluator's own Builtins map: builtins are not inherited from back,
// and no "__builtins__" entry in globals is consulted.
func (ev *Evaluator) NewFrame(code *bytecode.CodeObject, globals map[string]object.Value, back *frame.Frame) *frame.Frame {
	f := frame.New(code, globals, ev.Builtins, back)
	if ev.GlobalTrace != nil {
		if local, err := ev.GlobalTrace(f, "call", object.None); err == nil && local != nil {
			f.Trace = local
			f.TraceLines = true
		}
	}
	return f
}

// RunModule executes code as a fresh top-level frame and returns the
// value of its RETURN_VALUE, or None if the frame runs off the end of
// its code or yields.
func (ev *Evaluator) RunModule(code *bytecode.CodeObject) (object.Value, error) {
	globals := map[string]object.Value{}
	f := ev.NewFrame(code, globals, nil)
	v, why, exc := ev.Run(f, nil)
	if why == frame.WhyFatal {
		return nil, ev.vmErr
	}
	if exc != nil {
		return nil, exc
	}
	if why == frame.WhyReturn {
		return v, nil
	}
	return object.None, nil
}

// runner adapts Evaluator.Run to the generator.Runner signature. It links
// f.Back to the frame that was on top when Send/Throw/Close resumed this
// generator, runs the loop, then unlinks it, so f_back only reflects the
// caller-chain during the resumption itself.
func (ev *Evaluator) runner(f *frame.Frame, inject *object.Exception) (object.Value, frame.Why, *object.Exception) {
	prev := ev.current
	f.Back = prev
	ev.current = f
	v, why, exc := ev.Run(f, inject)
	ev.current = prev
	f.Back = nil
	return v, why, exc
}

func (ev *Evaluator) newErr(cls *object.Class, format string, args ...any) *object.Exception {
	return &object.Exception{ExcType: cls, Message: fmt.Sprintf(format, args...)}
}

// fatal records a VirtualMachineError for an internal inconsistency the
// evaluator detected on its own, sticking it in vmErr (never lastException/
// currentExc, so no bytecode-level except/finally can observe or catch it)
// and returning the Why that unwinds every frame on the call chain past it.
func (ev *Evaluator) fatal(format string, args ...any) frame.Why {
	if ev.vmErr == nil {
		ev.vmErr = &VirtualMachineError{Msg: fmt.Sprintf(format, args...)}
	}
	return frame.WhyFatal
}
