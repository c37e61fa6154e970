package eval

import (
	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/object"
)

// Run drives f to completion: it fetches, decodes and dispatches
// instructions until the frame returns, yields, or an exception
// escapes every block on its stack. inject, if non-nil, is raised
// immediately at f's current suspension point before fetching resumes
// (a generator throw, or resuming a frame that was left mid-exception).
func (ev *Evaluator) Run(f *frame.Frame, inject *object.Exception) (object.Value, frame.Why, *object.Exception) {
	prev := ev.current
	ev.current = f
	defer func() { ev.current = prev }()

	why := frame.WhyNone
	if inject != nil {
		ev.lastException = inject
		why = frame.WhyException
	}

	for {
		if why == frame.WhyFatal {
			break
		}
		if why != frame.WhyNone {
			if f.HasBlocks() {
				why = frame.ManageBlockStack(f, why, ev)
				continue
			}
			break
		}
		if f.IP >= len(f.Code.Code) {
			why = frame.WhyReturn
			ev.returnValue = object.None
			continue
		}

		if f.TraceOpcodes && f.Trace != nil {
			ev.fireTrace(f, "opcode")
		}
		ev.maybeTraceLine(f)

		op, arg, start := ev.fetch(&f.IP, f.Code.Code, f.Code.Version)
		ev.opStart = start
		why = ev.step(f, op, arg)
	}

	switch why {
	case frame.WhyReturn:
		if f.TraceLines && f.Trace != nil {
			ev.fireTrace(f, "return")
		}
		return ev.returnValue, frame.WhyReturn, nil
	case frame.WhyYield:
		return ev.returnValue, frame.WhyYield, nil
	case frame.WhyFatal:
		return nil, frame.WhyFatal, nil
	default:
		exc := ev.lastException
		if exc == nil {
			exc = ev.currentExc
		}
		if f.Trace != nil {
			ev.fireTrace(f, "exception")
		}
		return nil, frame.WhyException, exc
	}
}

func (ev *Evaluator) maybeTraceLine(f *frame.Frame) {
	if !f.TraceLines || f.Trace == nil {
		return
	}
	line := f.Code.LineForOffset(f.IP)
	if line != f.Line() {
		f.SetLine(line)
		ev.fireTrace(f, "line")
	}
}

func (ev *Evaluator) fireTrace(f *frame.Frame, event string) {
	next, err := f.Trace(f, event, object.None)
	if err == nil {
		f.Trace = next
	}
}

// raise installs exc as the pending exception and returns the why the
// main loop should continue with.
func (ev *Evaluator) raise(exc *object.Exception) frame.Why {
	ev.lastException = exc
	return frame.WhyException
}

// step executes exactly one decoded instruction and returns the
// continuation reason.
func (ev *Evaluator) step(f *frame.Frame, op bytecode.Op, arg int) frame.Why {
	if ev.vmErr != nil {
		return frame.WhyFatal
	}
	if !opSupported(op, f.Code.Version) {
		return ev.fatal("opcode %s not supported in target version %s", op.Name(), f.Code.Version)
	}

	switch op {

	// --- stack shuffling -------------------------------------------------
	case bytecode.POP_TOP:
		f.Pop()
	case bytecode.ROT_TWO:
		a, b := f.Pop(), f.Pop()
		f.Push(a, b)
	case bytecode.ROT_THREE:
		a, b, c := f.Pop(), f.Pop(), f.Pop()
		f.Push(a, c, b)
	case bytecode.ROT_FOUR:
		a, b, c, d := f.Pop(), f.Pop(), f.Pop(), f.Pop()
		f.Push(a, d, c, b)
	case bytecode.DUP_TOP:
		f.Push(f.Top())
	case bytecode.DUP_TOP_TWO:
		a, b := f.Peek(1), f.Peek(0)
		f.Push(a, b)
	case bytecode.NOP:
		// no-op

	// --- unary arithmetic --------------------------------------------------
	case bytecode.UNARY_POSITIVE, bytecode.UNARY_NEGATIVE, bytecode.UNARY_NOT, bytecode.UNARY_INVERT:
		return ev.execUnary(f, op)

	// --- binary / in-place arithmetic --------------------------------------
	case bytecode.BINARY_ADD, bytecode.BINARY_SUBTRACT, bytecode.BINARY_MULTIPLY,
		bytecode.BINARY_TRUE_DIVIDE, bytecode.BINARY_FLOOR_DIVIDE, bytecode.BINARY_MODULO,
		bytecode.BINARY_POWER, bytecode.BINARY_LSHIFT, bytecode.BINARY_RSHIFT,
		bytecode.BINARY_AND, bytecode.BINARY_OR, bytecode.BINARY_XOR,
		bytecode.INPLACE_ADD, bytecode.INPLACE_SUBTRACT, bytecode.INPLACE_MULTIPLY,
		bytecode.INPLACE_TRUE_DIVIDE, bytecode.INPLACE_FLOOR_DIVIDE, bytecode.INPLACE_MODULO,
		bytecode.INPLACE_POWER, bytecode.INPLACE_LSHIFT, bytecode.INPLACE_RSHIFT,
		bytecode.INPLACE_AND, bytecode.INPLACE_OR, bytecode.INPLACE_XOR:
		return ev.execBinary(f, op)

	case bytecode.BINARY_SUBSCR:
		return ev.execSubscr(f)
	case bytecode.STORE_SUBSCR:
		return ev.execStoreSubscr(f)
	case bytecode.DELETE_SUBSCR:
		return ev.execDeleteSubscr(f)

	case bytecode.COMPARE_OP:
		return ev.execCompare(f, arg)

	// --- name resolution ----------------------------------------------------
	case bytecode.LOAD_CONST:
		f.Push(f.Code.Consts[arg])
	case bytecode.LOAD_FAST:
		return ev.loadFast(f, arg)
	case bytecode.STORE_FAST:
		f.Locals[f.Code.VarNames[arg]] = f.Pop()
	case bytecode.DELETE_FAST:
		delete(f.Locals, f.Code.VarNames[arg])
	case bytecode.LOAD_NAME:
		return ev.loadName(f, f.Code.Names[arg])
	case bytecode.STORE_NAME:
		f.Locals[f.Code.Names[arg]] = f.Pop()
	case bytecode.DELETE_NAME:
		delete(f.Locals, f.Code.Names[arg])
	case bytecode.LOAD_GLOBAL:
		return ev.loadGlobal(f, f.Code.Names[arg])
	case bytecode.STORE_GLOBAL:
		f.Globals[f.Code.Names[arg]] = f.Pop()
	case bytecode.DELETE_GLOBAL:
		delete(f.Globals, f.Code.Names[arg])
	case bytecode.LOAD_ATTR:
		return ev.loadAttr(f, f.Code.Names[arg])
	case bytecode.STORE_ATTR:
		return ev.storeAttr(f, f.Code.Names[arg])
	case bytecode.DELETE_ATTR:
		return ev.deleteAttr(f, f.Code.Names[arg])
	case bytecode.LOAD_DEREF, bytecode.LOAD_CLASSDEREF:
		return ev.loadDeref(f, arg)
	case bytecode.STORE_DEREF:
		f.Cells[f.Code.CellOrFreeName(arg)].Set(f.Pop())
	case bytecode.DELETE_DEREF:
		f.Cells[f.Code.CellOrFreeName(arg)].Clear()
	case bytecode.LOAD_CLOSURE:
		f.Push(f.Cells[f.Code.CellOrFreeName(arg)])

	// --- container construction ---------------------------------------------
	case bytecode.BUILD_TUPLE:
		f.Push(&object.Tuple{Items: f.PopN(arg)})
	case bytecode.BUILD_LIST:
		f.Push(&object.List{Items: f.PopN(arg)})
	case bytecode.BUILD_SET:
		s := object.NewSet()
		for _, v := range f.PopN(arg) {
			s.Add(object.Hash(v), v, object.Equal)
		}
		f.Push(s)
	case bytecode.BUILD_MAP:
		return ev.buildMap(f, arg)
	case bytecode.BUILD_CONST_KEY_MAP:
		return ev.buildConstKeyMap(f, arg)
	case bytecode.BUILD_STRING:
		return ev.buildString(f, arg)
	case bytecode.BUILD_TUPLE_UNPACK, bytecode.BUILD_LIST_UNPACK,
		bytecode.BUILD_SET_UNPACK, bytecode.BUILD_MAP_UNPACK, bytecode.BUILD_MAP_UNPACK_WITH_CALL:
		return ev.buildUnpack(f, op, arg)
	case bytecode.UNPACK_SEQUENCE:
		return ev.unpackSequence(f, arg)
	case bytecode.UNPACK_EX:
		return ev.unpackEx(f, arg)

	case bytecode.LIST_APPEND:
		v := f.Pop()
		f.Peek(arg - 1).(*object.List).Items = append(f.Peek(arg-1).(*object.List).Items, v)
	case bytecode.SET_ADD:
		v := f.Pop()
		s := f.Peek(arg - 1).(*object.Set)
		s.Add(object.Hash(v), v, object.Equal)
	case bytecode.MAP_ADD:
		val, key := f.Pop(), f.Pop()
		d := f.Peek(arg - 1).(*object.Dict)
		d.Set(object.Hash(key), key, val, object.Equal)

	// --- iteration -----------------------------------------------------------
	case bytecode.GET_ITER, bytecode.GET_YIELD_FROM_ITER:
		return ev.getIter(f)
	case bytecode.FOR_ITER:
		return ev.forIter(f, arg)

	// --- jumps -----------------------------------------------------------------
	case bytecode.JUMP_FORWARD:
		f.Jump(f.IP + arg)
	case bytecode.JUMP_ABSOLUTE:
		f.Jump(arg)
	case bytecode.POP_JUMP_IF_TRUE:
		if object.Truthy(f.Pop()) {
			f.Jump(arg)
		}
	case bytecode.POP_JUMP_IF_FALSE:
		if !object.Truthy(f.Pop()) {
			f.Jump(arg)
		}
	case bytecode.JUMP_IF_TRUE_OR_POP:
		if object.Truthy(f.Top()) {
			f.Jump(arg)
		} else {
			f.Pop()
		}
	case bytecode.JUMP_IF_FALSE_OR_POP:
		if !object.Truthy(f.Top()) {
			f.Jump(arg)
		} else {
			f.Pop()
		}

	// --- structured blocks -----------------------------------------------------
	case bytecode.SETUP_LOOP:
		f.PushBlock(frame.BlockLoop, f.IP+arg)
	case bytecode.SETUP_EXCEPT:
		f.PushBlock(frame.BlockSetupExcept, f.IP+arg)
	case bytecode.SETUP_FINALLY:
		f.PushBlock(frame.BlockFinally, f.IP+arg)
	case bytecode.POP_BLOCK:
		f.PopBlock()
	case bytecode.POP_EXCEPT:
		b := f.PopBlock()
		if b.Type != frame.BlockExceptHandler {
			return ev.fatal("POP_EXCEPT: popped block is %v, not an except-handler", b.Type)
		}
		prev := f.UnwindExceptHandler(b)
		if exc, ok := prev.(*object.Exception); ok {
			ev.currentExc = exc
		} else {
			ev.currentExc = nil
		}
	case bytecode.BREAK_LOOP:
		return frame.WhyBreak
	case bytecode.CONTINUE_LOOP:
		ev.returnValue = object.MakeInt(int64(arg))
		return frame.WhyContinue
	case bytecode.RAISE_VARARGS:
		return ev.execRaise(f, arg)
	case bytecode.END_FINALLY:
		return ev.execEndFinally(f)

	case bytecode.BEGIN_FINALLY:
		f.Push(object.None)
	case bytecode.CALL_FINALLY:
		f.Push(object.MakeInt(int64(f.IP)))
		f.Jump(f.IP + arg)
	case bytecode.POP_FINALLY:
		return ev.execPopFinally(f, arg)

	// --- with statement (simplified: synchronous __enter__/__exit__) ----------
	case bytecode.SETUP_WITH, bytecode.SETUP_ASYNC_WITH:
		return ev.execSetupWith(f, arg)
	case bytecode.BEFORE_ASYNC_WITH:
		return ev.execBeforeWith(f)
	case bytecode.WITH_CLEANUP_START:
		return ev.execWithCleanupStart(f)
	case bytecode.WITH_CLEANUP_FINISH:
		return ev.execWithCleanupFinish(f)

	// --- calls and functions ---------------------------------------------------
	case bytecode.MAKE_FUNCTION:
		return ev.execMakeFunction(f, arg)
	case bytecode.CALL_FUNCTION:
		return ev.execCallFunction(f, arg)
	case bytecode.CALL_FUNCTION_KW:
		return ev.execCallFunctionKW(f, arg)
	case bytecode.CALL_FUNCTION_EX:
		return ev.execCallFunctionEx(f, arg)
	case bytecode.LOAD_METHOD:
		return ev.execLoadMethod(f, f.Code.Names[arg])
	case bytecode.CALL_METHOD:
		return ev.execCallMethod(f, arg)
	case bytecode.RETURN_VALUE:
		ev.returnValue = f.Pop()
		return frame.WhyReturn

	case bytecode.LOAD_BUILD_CLASS:
		f.Push(&object.BuiltinFunc{Name: "__build_class__", Fn: ev.buildClass})

	// --- generators / coroutines -----------------------------------------------
	case bytecode.YIELD_VALUE:
		ev.returnValue = f.Pop()
		return frame.WhyYield
	case bytecode.YIELD_FROM:
		return ev.execYieldFrom(f)
	case bytecode.GET_AWAITABLE:
		return ev.execGetAwaitable(f)
	case bytecode.GET_AITER:
		return ev.execGetAIter(f)
	case bytecode.GET_ANEXT:
		return ev.execGetANext(f)
	case bytecode.END_ASYNC_FOR:
		return ev.execEndAsyncFor(f)

	// --- misc --------------------------------------------------------------
	case bytecode.FORMAT_VALUE:
		return ev.execFormatValue(f, arg)
	case bytecode.PRINT_EXPR:
		f.Pop()
	case bytecode.IMPORT_NAME:
		return ev.execImportName(f, f.Code.Names[arg])
	case bytecode.IMPORT_FROM:
		return ev.execImportFrom(f, f.Code.Names[arg])
	case bytecode.IMPORT_STAR:
		return ev.execImportStar(f)

	default:
		return ev.fatal("unsupported opcode %s for target version", op.Name())
	}

	return frame.WhyNone
}
