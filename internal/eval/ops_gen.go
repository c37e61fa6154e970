package eval

import (
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/generator"
	"github.com/shardpy/pybc/internal/object"
)

// ownerGenerator unwraps f.Owner (set by generator.New) down to its
// embedded *generator.Generator, across the Coroutine/AsyncGenerator
// wrapper types, or nil if f does not back a suspendable activation.
func ownerGenerator(f *frame.Frame) *generator.Generator {
	switch o := f.Owner.(type) {
	case *generator.Generator:
		return o
	case *generator.Coroutine:
		return o.Generator
	case *generator.AsyncGenerator:
		return o.Generator
	}
	return nil
}

// execYieldFrom implements YIELD_FROM. The stack holds the sub-iterator
// (or sub-generator) at TOS1 and the value to feed it at TOS: a fresh
// LOAD_CONST None on first entry, or the value resumed into this frame
// on every later entry. Throw delegation into an active
// YieldFrom sub-generator is handled entirely inside
// generator.Generator.Throw before this opcode ever runs again, so this
// handler only has to drive the plain send path.
func (ev *Evaluator) execYieldFrom(f *frame.Frame) frame.Why {
	sent := f.Pop()
	sub := f.Top()
	g := ownerGenerator(f)

	var value object.Value
	var done bool
	var exc *object.Exception

	switch it := sub.(type) {
	case *generator.Generator:
		value, done, exc = it.Send(sent, nil)
	case *generator.Coroutine:
		value, done, exc = it.Send(sent, nil)
	case *generator.ASend:
		value, done, exc = it.Step()
	case *generator.AThrow:
		value, done, exc = it.Step()
	case Iterator:
		v, more := it.Next()
		if !more {
			done = true
		} else {
			value = v
		}
	default:
		return ev.raise(ev.newErr(ev.Errors.TypeError, "cannot delegate to non-iterable '%s'", object.TypeName(sub)))
	}

	if done {
		f.Pop()
		if g != nil {
			g.YieldFrom = nil
		}
		if exc != nil {
			if exc.IsInstanceOf(ev.Errors.StopIteration) {
				result := object.Value(object.None)
				if exc.Args != nil && len(exc.Args.Items) > 0 {
					result = exc.Args.Items[0]
				}
				f.Push(result)
				return frame.WhyNone
			}
			return ev.raise(exc)
		}
		f.Push(object.None)
		return frame.WhyNone
	}

	if g != nil {
		g.YieldFrom = sub
	}
	ev.returnValue = value
	f.IP = ev.opStart
	return frame.WhyYield
}

// execGetAwaitable implements GET_AWAITABLE: coerce TOS into the
// iterator form GET_AWAITABLE/YIELD_FROM expects (a native Coroutine,
// or whatever an Awaitable's own Await method returns).
func (ev *Evaluator) execGetAwaitable(f *frame.Frame) frame.Why {
	it, exc := generator.GetAwaitableIter(f.Pop(), ev.Errors.TypeError)
	if exc != nil {
		return ev.raise(exc)
	}
	f.Push(it)
	return frame.WhyNone
}

// execGetAIter implements GET_AITER: resolve __aiter__ on TOS via the
// plain attribute path and call it to obtain the async iterator.
func (ev *Evaluator) execGetAIter(f *frame.Frame) frame.Why {
	obj := f.Pop()
	aiterFn, exc := ev.getAttr(obj, "__aiter__")
	if exc != nil {
		return ev.raise(exc)
	}
	it, cexc := ev.Call(aiterFn, nil, nil)
	if cexc != nil {
		return ev.raise(cexc)
	}
	f.Push(it)
	return frame.WhyNone
}

// execGetANext implements GET_ANEXT: call __anext__ on TOS (without
// popping it — END_ASYNC_FOR or the next GET_ANEXT needs it again) and
// push the resulting awaitable.
func (ev *Evaluator) execGetANext(f *frame.Frame) frame.Why {
	obj := f.Top()
	anextFn, exc := ev.getAttr(obj, "__anext__")
	if exc != nil {
		return ev.raise(exc)
	}
	result, cexc := ev.Call(anextFn, nil, nil)
	if cexc != nil {
		return ev.raise(cexc)
	}
	f.Push(result)
	return frame.WhyNone
}

// execEndAsyncFor implements END_ASYNC_FOR: if the propagating
// exception is StopAsyncIteration, the async for loop ends cleanly
// (pop the iterator, fall through); anything else re-raises.
func (ev *Evaluator) execEndAsyncFor(f *frame.Frame) frame.Why {
	top := f.Pop()
	exc, ok := top.(*object.Exception)
	if !ok {
		return frame.WhyNone
	}
	f.Pop() // the async iterator, still on stack beneath the exception marker
	if exc.IsInstanceOf(ev.Errors.StopAsyncIteration) {
		return frame.WhyNone
	}
	return ev.raise(exc)
}
