package frame

import "github.com/shardpy/pybc/internal/object"

// Signals is the slice of evaluator-wide scratch state that the
// block-unwinding policy reads and writes. Frame does not hold these
// itself — they belong to whichever Evaluator is currently running
// this frame, which is what makes generator resumption's frame-chain
// relinking safe.
type Signals interface {
	ReturnValue() object.Value
	SetReturnValue(object.Value)
	LastException() *object.Exception
	SetLastException(*object.Exception)
	ClearLastException()
	CurrentException() *object.Exception
	SetCurrentException(*object.Exception)
}

// ManageBlockStack consumes one block reacting to why, returning the (possibly changed)
// why the evaluator should continue with. The caller is expected to
// call this repeatedly while both why and the block stack are non-empty.
func ManageBlockStack(f *Frame, why Why, sig Signals) Why {
	b := f.TopBlock()

	switch {
	case b.Type == BlockLoop && why == WhyContinue:
		f.Jump(int(toInt(sig.ReturnValue())))
		return WhyNone

	case b.Type == BlockLoop && why == WhyBreak:
		f.PopBlock()
		f.UnwindBlock(b)
		f.Jump(b.Handler)
		return WhyNone

	case b.Type == BlockExceptHandler:
		f.PopBlock()
		prev := f.UnwindExceptHandler(b)
		if exc, ok := prev.(*object.Exception); ok {
			sig.SetCurrentException(exc)
		} else {
			sig.SetCurrentException(nil)
		}
		return why

	case (b.Type == BlockSetupExcept || b.Type == BlockFinally) && why == WhyException:
		f.PopBlock()
		prevExc := sig.CurrentException()
		f.Push(prevExc)
		f.PushBlock(BlockExceptHandler, -1, f.Depth()-1)
		pending := sig.LastException()
		f.Push(pending)
		sig.SetCurrentException(pending)
		sig.ClearLastException()
		f.Jump(b.Handler)
		return WhyNone

	case b.Type == BlockFinally && (why == WhyReturn || why == WhyContinue):
		f.PopBlock()
		f.Push(sig.ReturnValue())
		f.Push(&object.String{Value: why.String()})
		f.Jump(b.Handler)
		return WhyNone

	default:
		f.PopBlock()
		f.UnwindBlock(b)
		return why
	}
}

func toInt(v object.Value) int64 {
	if i, ok := v.(*object.Int); ok {
		return i.Value
	}
	return 0
}
