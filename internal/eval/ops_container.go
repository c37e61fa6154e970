package eval

import (
	"strings"

	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/object"
)

func (ev *Evaluator) buildMap(f *frame.Frame, n int) frame.Why {
	pairs := f.PopN(n * 2)
	d := object.NewDict()
	for i := 0; i < len(pairs); i += 2 {
		k, v := pairs[i], pairs[i+1]
		d.Set(object.Hash(k), k, v, object.Equal)
	}
	f.Push(d)
	return frame.WhyNone
}

func (ev *Evaluator) buildConstKeyMap(f *frame.Frame, n int) frame.Why {
	keysTuple, ok := f.Pop().(*object.Tuple)
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.RuntimeError, "BUILD_CONST_KEY_MAP: keys constant is not a tuple"))
	}
	values := f.PopN(n)
	d := object.NewDict()
	for i, k := range keysTuple.Items {
		d.Set(object.Hash(k), k, values[i], object.Equal)
	}
	f.Push(d)
	return frame.WhyNone
}

func (ev *Evaluator) buildString(f *frame.Frame, n int) frame.Why {
	parts := f.PopN(n)
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(object.Str(p))
	}
	f.Push(&object.String{Value: b.String()})
	return frame.WhyNone
}

func (ev *Evaluator) buildUnpack(f *frame.Frame, op bytecode.Op, n int) frame.Why {
	parts := f.PopN(n)
	switch op {
	case bytecode.BUILD_TUPLE_UNPACK:
		var items []object.Value
		for _, p := range parts {
			seq, exc := ev.toSlice(p)
			if exc != nil {
				return ev.raise(exc)
			}
			items = append(items, seq...)
		}
		f.Push(&object.Tuple{Items: items})
	case bytecode.BUILD_LIST_UNPACK:
		var items []object.Value
		for _, p := range parts {
			seq, exc := ev.toSlice(p)
			if exc != nil {
				return ev.raise(exc)
			}
			items = append(items, seq...)
		}
		f.Push(&object.List{Items: items})
	case bytecode.BUILD_SET_UNPACK:
		s := object.NewSet()
		for _, p := range parts {
			seq, exc := ev.toSlice(p)
			if exc != nil {
				return ev.raise(exc)
			}
			for _, v := range seq {
				s.Add(object.Hash(v), v, object.Equal)
			}
		}
		f.Push(s)
	case bytecode.BUILD_MAP_UNPACK, bytecode.BUILD_MAP_UNPACK_WITH_CALL:
		d := object.NewDict()
		for _, p := range parts {
			src, ok := p.(*object.Dict)
			if !ok {
				return ev.raise(ev.newErr(ev.Errors.TypeError, "argument is not a mapping"))
			}
			for _, k := range src.Keys() {
				v, _ := src.Get(object.Hash(k), k, object.Equal)
				d.Set(object.Hash(k), k, v, object.Equal)
			}
		}
		f.Push(d)
	}
	return frame.WhyNone
}

func (ev *Evaluator) toSlice(v object.Value) ([]object.Value, *object.Exception) {
	switch c := v.(type) {
	case *object.List:
		return c.Items, nil
	case *object.Tuple:
		return c.Items, nil
	case *object.Set:
		return c.Items(), nil
	}
	return nil, ev.newErr(ev.Errors.TypeError, "'%s' object is not iterable", object.TypeName(v))
}

func (ev *Evaluator) unpackSequence(f *frame.Frame, n int) frame.Why {
	items, exc := ev.toSlice(f.Pop())
	if exc != nil {
		return ev.raise(exc)
	}
	if len(items) != n {
		return ev.raise(ev.newErr(ev.Errors.ValueError,
			"not enough values to unpack (expected %d, got %d)", n, len(items)))
	}
	for i := len(items) - 1; i >= 0; i-- {
		f.Push(items[i])
	}
	return frame.WhyNone
}

func (ev *Evaluator) unpackEx(f *frame.Frame, arg int) frame.Why {
	before := arg & 0xFF
	after := (arg >> 8) & 0xFF
	items, exc := ev.toSlice(f.Pop())
	if exc != nil {
		return ev.raise(exc)
	}
	if len(items) < before+after {
		return ev.raise(ev.newErr(ev.Errors.ValueError, "not enough values to unpack"))
	}
	tail := items[len(items)-after:]
	middle := items[before : len(items)-after]
	head := items[:before]

	for i := len(tail) - 1; i >= 0; i-- {
		f.Push(tail[i])
	}
	f.Push(&object.List{Items: append([]object.Value(nil), middle...)})
	for i := len(head) - 1; i >= 0; i-- {
		f.Push(head[i])
	}
	return frame.WhyNone
}

func (ev *Evaluator) getIter(f *frame.Frame) frame.Why {
	it, exc := ev.toIterator(f.Pop())
	if exc != nil {
		return ev.raise(exc)
	}
	f.Push(it)
	return frame.WhyNone
}

func (ev *Evaluator) forIter(f *frame.Frame, arg int) frame.Why {
	it, ok := f.Top().(Iterator)
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.TypeError, "'%s' object is not an iterator", object.TypeName(f.Top())))
	}
	v, more := it.Next()
	if !more {
		f.Pop()
		f.Jump(f.IP + arg)
		return frame.WhyNone
	}
	f.Push(v)
	return frame.WhyNone
}
