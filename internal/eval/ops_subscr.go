package eval

import (
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/object"
)

func (ev *Evaluator) execSubscr(f *frame.Frame) frame.Why {
	index, container := f.Pop(), f.Pop()
	v, exc := ev.subscr(container, index)
	if exc != nil {
		return ev.raise(exc)
	}
	f.Push(v)
	return frame.WhyNone
}

func (ev *Evaluator) subscr(container, index object.Value) (object.Value, *object.Exception) {
	switch c := container.(type) {
	case *object.List:
		i, err := ev.sliceIndex(len(c.Items), index)
		if err != nil {
			return nil, err
		}
		return c.Items[i], nil
	case *object.Tuple:
		i, err := ev.sliceIndex(len(c.Items), index)
		if err != nil {
			return nil, err
		}
		return c.Items[i], nil
	case *object.String:
		runes := []rune(c.Value)
		i, err := ev.sliceIndex(len(runes), index)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: string(runes[i])}, nil
	case *object.Dict:
		v, ok := c.Get(object.Hash(index), index, object.Equal)
		if !ok {
			return nil, ev.newErr(ev.Errors.KeyError, "%s", object.Str(index))
		}
		return v, nil
	}
	return nil, ev.newErr(ev.Errors.TypeError, "'%s' object is not subscriptable", object.TypeName(container))
}

func (ev *Evaluator) sliceIndex(length int, index object.Value) (int, *object.Exception) {
	i, ok := index.(*object.Int)
	if !ok {
		return 0, ev.newErr(ev.Errors.TypeError, "indices must be integers, not %s", object.TypeName(index))
	}
	idx := int(i.Value)
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return 0, ev.newErr(ev.Errors.IndexError, "index out of range")
	}
	return idx, nil
}

func (ev *Evaluator) execStoreSubscr(f *frame.Frame) frame.Why {
	index, container, value := f.Pop(), f.Pop(), f.Pop()
	switch c := container.(type) {
	case *object.List:
		i, exc := ev.sliceIndex(len(c.Items), index)
		if exc != nil {
			return ev.raise(exc)
		}
		c.Items[i] = value
	case *object.Dict:
		c.Set(object.Hash(index), index, value, object.Equal)
	default:
		return ev.raise(ev.newErr(ev.Errors.TypeError, "'%s' object does not support item assignment", object.TypeName(container)))
	}
	return frame.WhyNone
}

func (ev *Evaluator) execDeleteSubscr(f *frame.Frame) frame.Why {
	index, container := f.Pop(), f.Pop()
	switch c := container.(type) {
	case *object.Dict:
		if !c.Delete(object.Hash(index), index, object.Equal) {
			return ev.raise(ev.newErr(ev.Errors.KeyError, "%s", object.Str(index)))
		}
	case *object.List:
		i, exc := ev.sliceIndex(len(c.Items), index)
		if exc != nil {
			return ev.raise(exc)
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	default:
		return ev.raise(ev.newErr(ev.Errors.TypeError, "'%s' object doesn't support item deletion", object.TypeName(container)))
	}
	return frame.WhyNone
}
