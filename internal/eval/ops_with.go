package eval

import (
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/object"
)

// execSetupWith implements SETUP_WITH: look up __enter__/__exit__ on
// the context manager, stash the bound __exit__ for cleanup, push a
// finally block over the with-body, then call __enter__.
func (ev *Evaluator) execSetupWith(f *frame.Frame, jrel int) frame.Why {
	cm := f.Pop()
	exitFn, exc := ev.getAttr(cm, "__exit__")
	if exc != nil {
		return ev.raise(exc)
	}
	enterFn, exc := ev.getAttr(cm, "__enter__")
	if exc != nil {
		return ev.raise(exc)
	}
	f.Push(exitFn)
	f.PushBlock(frame.BlockFinally, f.IP+jrel)
	result, cexc := ev.Call(enterFn, nil, nil)
	if cexc != nil {
		return ev.raise(cexc)
	}
	f.Push(result)
	return frame.WhyNone
}

// execBeforeWith implements BEFORE_ASYNC_WITH: the async counterpart,
// looking up __aenter__/__aexit__. Awaiting the coroutines they return
// is left to the surrounding GET_AWAITABLE/YIELD_FROM pair the codegen
// emits around the call, not to this opcode.
func (ev *Evaluator) execBeforeWith(f *frame.Frame) frame.Why {
	cm := f.Pop()
	exitFn, exc := ev.getAttr(cm, "__aexit__")
	if exc != nil {
		return ev.raise(exc)
	}
	enterFn, exc := ev.getAttr(cm, "__aenter__")
	if exc != nil {
		return ev.raise(exc)
	}
	f.Push(exitFn)
	result, cexc := ev.Call(enterFn, nil, nil)
	if cexc != nil {
		return ev.raise(cexc)
	}
	f.Push(result)
	return frame.WhyNone
}

// execWithCleanupStart implements WITH_CLEANUP_START: call the stashed
// __exit__ with either (None, None, None) on a clean exit, or the
// propagating exception's triple.
func (ev *Evaluator) execWithCleanupStart(f *frame.Frame) frame.Why {
	excOrNone := f.Pop()
	exitFn := f.Pop()

	var excArg object.Value = object.None
	if exc, ok := excOrNone.(*object.Exception); ok {
		excArg = exc
	}
	result, cexc := ev.Call(exitFn, []object.Value{excArg, excArg, object.None}, nil)
	if cexc != nil {
		return ev.raise(cexc)
	}
	f.Push(excOrNone)
	f.Push(result)
	return frame.WhyNone
}

// execWithCleanupFinish implements WITH_CLEANUP_FINISH: if __exit__
// returned a truthy value while an exception was propagating, the
// exception is suppressed by replacing it with None before END_FINALLY
// sees it.
func (ev *Evaluator) execWithCleanupFinish(f *frame.Frame) frame.Why {
	result := f.Pop()
	excOrNone := f.Pop()
	if _, ok := excOrNone.(*object.Exception); ok && object.Truthy(result) {
		f.Push(object.None)
		return frame.WhyNone
	}
	f.Push(excOrNone)
	return frame.WhyNone
}
