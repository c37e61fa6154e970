package eval

import (
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/generator"
	"github.com/shardpy/pybc/internal/object"
)

func (ev *Evaluator) loadFast(f *frame.Frame, arg int) frame.Why {
	name := f.Code.VarNames[arg]
	v, ok := f.Locals[name]
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.UnboundLocalError,
			"local variable '%s' referenced before assignment", name))
	}
	f.Push(v)
	return frame.WhyNone
}

func (ev *Evaluator) loadName(f *frame.Frame, name string) frame.Why {
	if v, ok := f.Locals[name]; ok {
		f.Push(v)
		return frame.WhyNone
	}
	if v, ok := f.Globals[name]; ok {
		f.Push(v)
		return frame.WhyNone
	}
	if v, ok := f.Builtins[name]; ok {
		f.Push(v)
		return frame.WhyNone
	}
	return ev.raise(ev.newErr(ev.Errors.NameError, "name '%s' is not defined", name))
}

func (ev *Evaluator) loadGlobal(f *frame.Frame, name string) frame.Why {
	if v, ok := f.Globals[name]; ok {
		f.Push(v)
		return frame.WhyNone
	}
	if v, ok := f.Builtins[name]; ok {
		f.Push(v)
		return frame.WhyNone
	}
	return ev.raise(ev.newErr(ev.Errors.NameError, "name '%s' is not defined", name))
}

func (ev *Evaluator) loadDeref(f *frame.Frame, arg int) frame.Why {
	name := f.Code.CellOrFreeName(arg)
	cell, ok := f.Cells[name]
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.NameError, "free variable '%s' referenced before assignment", name))
	}
	v, set := cell.Get()
	if !set {
		return ev.raise(ev.newErr(ev.Errors.UnboundLocalError,
			"local variable '%s' referenced before assignment", name))
	}
	f.Push(v)
	return frame.WhyNone
}

func (ev *Evaluator) loadAttr(f *frame.Frame, name string) frame.Why {
	obj := f.Pop()
	v, exc := ev.getAttr(obj, name)
	if exc != nil {
		return ev.raise(exc)
	}
	f.Push(v)
	return frame.WhyNone
}

func (ev *Evaluator) getAttr(obj object.Value, name string) (object.Value, *object.Exception) {
	switch o := obj.(type) {
	case *object.Instance:
		if v, ok := o.GetAttr(name); ok {
			return v, nil
		}
	case *object.Class:
		if v, ok := o.Lookup(name); ok {
			return v, nil
		}
	case *object.Exception:
		switch name {
		case "args":
			if o.Args != nil {
				return o.Args, nil
			}
			return &object.Tuple{}, nil
		case "__cause__":
			if o.Cause != nil {
				return o.Cause, nil
			}
			return object.None, nil
		}
	case *generator.AsyncGenerator:
		switch name {
		case "__aiter__":
			return &object.BuiltinFunc{Name: "__aiter__", Fn: func(args []object.Value, kwargs map[string]object.Value) (object.Value, error) {
				return o, nil
			}}, nil
		case "__anext__":
			return &object.BuiltinFunc{Name: "__anext__", Fn: func(args []object.Value, kwargs map[string]object.Value) (object.Value, error) {
				return o.ASend(object.None), nil
			}}, nil
		}
	}
	return nil, ev.newErr(ev.Errors.AttributeError, "'%s' object has no attribute '%s'", object.TypeName(obj), name)
}

func (ev *Evaluator) storeAttr(f *frame.Frame, name string) frame.Why {
	obj, value := f.Pop(), f.Pop()
	inst, ok := obj.(*object.Instance)
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.AttributeError, "'%s' object attributes are read-only", object.TypeName(obj)))
	}
	inst.Dict[name] = value
	return frame.WhyNone
}

func (ev *Evaluator) deleteAttr(f *frame.Frame, name string) frame.Why {
	obj := f.Pop()
	inst, ok := obj.(*object.Instance)
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.AttributeError, "'%s' object attributes are read-only", object.TypeName(obj)))
	}
	if _, ok := inst.Dict[name]; !ok {
		return ev.raise(ev.newErr(ev.Errors.AttributeError, "'%s' object has no attribute '%s'", object.TypeName(obj), name))
	}
	delete(inst.Dict, name)
	return frame.WhyNone
}
