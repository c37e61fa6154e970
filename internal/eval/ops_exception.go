package eval

import (
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/object"
)

func (ev *Evaluator) toException(v object.Value) (*object.Exception, *object.Exception) {
	switch t := v.(type) {
	case *object.Exception:
		return t, nil
	case *object.Class:
		return &object.Exception{ExcType: t, Message: t.Name}, nil
	case *object.Instance:
		return &object.Exception{ExcType: t.Class, Message: t.Class.Name}, nil
	}
	return nil, ev.newErr(ev.Errors.TypeError, "exceptions must derive from BaseException")
}

// execRaise implements RAISE_VARARGS: 0 args re-raises the active
// exception, 1 raises a new one, 2 also chains an explicit `from` cause.
func (ev *Evaluator) execRaise(f *frame.Frame, argc int) frame.Why {
	switch argc {
	case 0:
		if ev.currentExc == nil {
			return ev.raise(ev.newErr(ev.Errors.RuntimeError, "No active exception to re-raise"))
		}
		return ev.raise(ev.currentExc)
	case 1:
		exc, excErr := ev.toException(f.Pop())
		if excErr != nil {
			return ev.raise(excErr)
		}
		return ev.raise(exc)
	case 2:
		cause := f.Pop()
		exc, excErr := ev.toException(f.Pop())
		if excErr != nil {
			return ev.raise(excErr)
		}
		if causeExc, ok := cause.(*object.Exception); ok {
			exc.Cause = causeExc
		}
		return ev.raise(exc)
	}
	return ev.raise(ev.newErr(ev.Errors.RuntimeError, "bad RAISE_VARARGS argument count %d", argc))
}

// execEndFinally implements END_FINALLY. Classic (<=3.7) blocks leave one
// of three markers on the stack: None (clean completion), a
// "return"/"continue" string paired with its value (a finally that ran
// during an in-flight return/continue), or the exception still
// propagating through this finally. The 3.8 model instead reaches
// END_FINALLY via CALL_FINALLY's normal-completion path, which pushed an
// Int return address (dispatch.go's CALL_FINALLY case) that execution
// must jump back to. Anything else on the stack is an evaluator
// invariant violation, not a user-catchable condition.
func (ev *Evaluator) execEndFinally(f *frame.Frame) frame.Why {
	top := f.Pop()
	switch v := top.(type) {
	case object.NoneType:
		return frame.WhyNone
	case *object.String:
		switch v.Value {
		case "return":
			ev.returnValue = f.Pop()
			return frame.WhyReturn
		case "continue":
			ev.returnValue = f.Pop()
			return frame.WhyContinue
		}
		return frame.WhyNone
	case *object.Exception:
		if f.HasBlocks() && f.TopBlock().Type == frame.BlockExceptHandler {
			b := f.PopBlock()
			prev := f.UnwindExceptHandler(b)
			if pe, ok := prev.(*object.Exception); ok {
				ev.currentExc = pe
			} else {
				ev.currentExc = nil
			}
		}
		return ev.raise(v)
	case *object.Int:
		f.Jump(int(v.Value))
		return frame.WhyNone
	default:
		return ev.fatal("END_FINALLY: unrecognized discriminator %s", object.TypeName(top))
	}
}

// execPopFinally implements the 3.8 replacement for unconditional
// POP_BLOCK+END_FINALLY pairs: it discards the finally marker the same
// way END_FINALLY does, optionally preserving the value above it (TOS).
func (ev *Evaluator) execPopFinally(f *frame.Frame, preserveTOS int) frame.Why {
	var saved object.Value
	if preserveTOS != 0 {
		saved = f.Pop()
	}
	why := ev.execEndFinally(f)
	if preserveTOS != 0 {
		f.Push(saved)
	}
	return why
}
