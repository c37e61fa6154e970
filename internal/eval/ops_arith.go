package eval

import (
	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/object"
)

func (ev *Evaluator) arithErr(err error) frame.Why {
	ae, ok := err.(*object.ArithError)
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.TypeError, "%s", err.Error()))
	}
	return ev.raise(ev.newErr(ev.Errors.ClassForArithKind(ae.Kind), "%s", ae.Msg))
}

func (ev *Evaluator) execUnary(f *frame.Frame, op bytecode.Op) frame.Why {
	v := f.Pop()
	var result object.Value
	var err error
	switch op {
	case bytecode.UNARY_POSITIVE:
		result, err = object.UnaryPos(v)
	case bytecode.UNARY_NEGATIVE:
		result, err = object.UnaryNeg(v)
	case bytecode.UNARY_NOT:
		result = object.MakeBool(!object.Truthy(v))
	case bytecode.UNARY_INVERT:
		result, err = object.UnaryInvert(v)
	}
	if err != nil {
		return ev.arithErr(err)
	}
	f.Push(result)
	return frame.WhyNone
}

func (ev *Evaluator) execBinary(f *frame.Frame, op bytecode.Op) frame.Why {
	b, a := f.Pop(), f.Pop()
	var result object.Value
	var err error
	switch op {
	case bytecode.BINARY_ADD, bytecode.INPLACE_ADD:
		result, err = object.BinaryAdd(a, b)
	case bytecode.BINARY_SUBTRACT, bytecode.INPLACE_SUBTRACT:
		result, err = object.BinarySub(a, b)
	case bytecode.BINARY_MULTIPLY, bytecode.INPLACE_MULTIPLY:
		result, err = object.BinaryMul(a, b)
	case bytecode.BINARY_TRUE_DIVIDE, bytecode.INPLACE_TRUE_DIVIDE:
		result, err = object.BinaryTrueDiv(a, b)
	case bytecode.BINARY_FLOOR_DIVIDE, bytecode.INPLACE_FLOOR_DIVIDE:
		result, err = object.BinaryFloorDiv(a, b)
	case bytecode.BINARY_MODULO, bytecode.INPLACE_MODULO:
		result, err = object.BinaryMod(a, b)
	case bytecode.BINARY_POWER, bytecode.INPLACE_POWER:
		result, err = object.BinaryPow(a, b)
	case bytecode.BINARY_LSHIFT, bytecode.INPLACE_LSHIFT:
		result, err = object.BinaryBitwise("<<", a, b)
	case bytecode.BINARY_RSHIFT, bytecode.INPLACE_RSHIFT:
		result, err = object.BinaryBitwise(">>", a, b)
	case bytecode.BINARY_AND, bytecode.INPLACE_AND:
		result, err = object.BinaryBitwise("&", a, b)
	case bytecode.BINARY_OR, bytecode.INPLACE_OR:
		result, err = object.BinaryBitwise("|", a, b)
	case bytecode.BINARY_XOR, bytecode.INPLACE_XOR:
		result, err = object.BinaryBitwise("^", a, b)
	}
	if err != nil {
		return ev.arithErr(err)
	}
	f.Push(result)
	return frame.WhyNone
}

func (ev *Evaluator) execCompare(f *frame.Frame, arg int) frame.Why {
	b, a := f.Pop(), f.Pop()
	if arg < 0 || arg >= len(bytecode.CompareOps) {
		return ev.raise(ev.newErr(ev.Errors.RuntimeError, "bad COMPARE_OP argument %d", arg))
	}
	op := bytecode.CompareOps[arg]
	switch op {
	case "==":
		f.Push(object.MakeBool(object.Equal(a, b)))
	case "!=":
		f.Push(object.MakeBool(!object.Equal(a, b)))
	case "is":
		f.Push(object.MakeBool(object.Is(a, b)))
	case "is not":
		f.Push(object.MakeBool(!object.Is(a, b)))
	case "in":
		ok, why := ev.containsCheck(b, a)
		if why != frame.WhyNone {
			return why
		}
		f.Push(object.MakeBool(ok))
	case "not in":
		ok, why := ev.containsCheck(b, a)
		if why != frame.WhyNone {
			return why
		}
		f.Push(object.MakeBool(!ok))
	case "exception-match":
		exc, ok := a.(*object.Exception)
		cls, clsOk := b.(*object.Class)
		f.Push(object.MakeBool(ok && clsOk && exc.IsInstanceOf(cls)))
	default:
		result, err := object.Compare(op, a, b)
		if err != nil {
			return ev.arithErr(err)
		}
		f.Push(object.MakeBool(result))
	}
	return frame.WhyNone
}

func (ev *Evaluator) containsCheck(container, item object.Value) (bool, frame.Why) {
	switch c := container.(type) {
	case *object.List:
		for _, v := range c.Items {
			if object.Equal(v, item) {
				return true, frame.WhyNone
			}
		}
		return false, frame.WhyNone
	case *object.Tuple:
		for _, v := range c.Items {
			if object.Equal(v, item) {
				return true, frame.WhyNone
			}
		}
		return false, frame.WhyNone
	case *object.Set:
		return c.Contains(object.Hash(item), item, object.Equal), frame.WhyNone
	case *object.Dict:
		_, ok := c.Get(object.Hash(item), item, object.Equal)
		return ok, frame.WhyNone
	case *object.String:
		if s, ok := item.(*object.String); ok {
			return containsSubstring(c.Value, s.Value), frame.WhyNone
		}
	}
	return false, ev.raise(ev.newErr(ev.Errors.TypeError, "argument of type '%s' is not iterable", object.TypeName(container)))
}

func containsSubstring(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
