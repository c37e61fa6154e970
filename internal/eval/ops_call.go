package eval

import (
	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/function"
	"github.com/shardpy/pybc/internal/object"
)

// execMakeFunction implements MAKE_FUNCTION. Wordcode versions (3.6+)
// encode which extra pieces follow as a bitmask in arg: 0x01 defaults
// tuple, 0x02 kwdefaults dict, 0x04 annotations dict, 0x08 closure
// tuple. Pre-wordcode versions instead pack default/kw-only/annotation
// counts directly into arg; no closure is attached to the function on
// those versions (this opcode set has no MAKE_CLOSURE).
func (ev *Evaluator) execMakeFunction(f *frame.Frame, arg int) frame.Why {
	qualname, _ := f.Pop().(*object.String)
	codeVal := f.Pop()
	code, ok := codeVal.(*bytecode.CodeObject)
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.RuntimeError, "MAKE_FUNCTION: TOS1 is not a code object"))
	}

	fn := &function.Function{
		Code:    code,
		Globals: f.Globals,
		Name:    code.Name,
	}
	if qualname != nil {
		fn.Qualname = qualname.Value
	} else {
		fn.Qualname = code.Name
	}

	if f.Code.Version.Wordcode() {
		if arg&0x08 != 0 {
			closureTuple, _ := f.Pop().(*object.Tuple)
			if closureTuple != nil {
				fn.Closure = make([]*object.Cell, len(closureTuple.Items))
				for i, v := range closureTuple.Items {
					if c, ok := v.(*object.Cell); ok {
						fn.Closure[i] = c
					}
				}
			}
		}
		if arg&0x04 != 0 {
			if ann, ok := f.Pop().(*object.Dict); ok {
				fn.Annotations = dictToMap(ann)
			}
		}
		if arg&0x02 != 0 {
			if kwd, ok := f.Pop().(*object.Dict); ok {
				fn.KwDefaults = dictToMap(kwd)
			}
		}
		if arg&0x01 != 0 {
			if defs, ok := f.Pop().(*object.Tuple); ok {
				fn.Defaults = defs.Items
			}
		}
	} else {
		numDefaults := arg & 0xFF
		numKwOnlyPairs := (arg >> 8) & 0xFF
		numAnnotations := (arg >> 16) & 0xFFFF

		if numAnnotations > 0 {
			if names, ok := f.Pop().(*object.Tuple); ok {
				anns := f.PopN(len(names.Items))
				fn.Annotations = map[string]object.Value{}
				for i, n := range names.Items {
					if s, ok := n.(*object.String); ok {
						fn.Annotations[s.Value] = anns[i]
					}
				}
			}
		}
		if numKwOnlyPairs > 0 {
			fn.KwDefaults = map[string]object.Value{}
			pairs := f.PopN(numKwOnlyPairs * 2)
			for i := 0; i < len(pairs); i += 2 {
				if s, ok := pairs[i].(*object.String); ok {
					fn.KwDefaults[s.Value] = pairs[i+1]
				}
			}
		}
		if numDefaults > 0 {
			fn.Defaults = f.PopN(numDefaults)
		}
	}

	f.Push(fn)
	return frame.WhyNone
}

func dictToMap(d *object.Dict) map[string]object.Value {
	m := map[string]object.Value{}
	for _, k := range d.Keys() {
		if s, ok := k.(*object.String); ok {
			v, _ := d.Get(object.Hash(k), k, object.Equal)
			m[s.Value] = v
		}
	}
	return m
}

func (ev *Evaluator) execCallFunction(f *frame.Frame, argc int) frame.Why {
	args := f.PopN(argc)
	callee := f.Pop()
	result, exc := ev.Call(callee, args, nil)
	if exc != nil {
		return ev.raise(exc)
	}
	f.Push(result)
	return frame.WhyNone
}

// execCallFunctionKW implements CALL_FUNCTION_KW: a tuple of keyword
// names sits on top, with that many trailing positional-slot values
// actually carrying the keyword arguments.
func (ev *Evaluator) execCallFunctionKW(f *frame.Frame, argc int) frame.Why {
	namesTuple, ok := f.Pop().(*object.Tuple)
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.RuntimeError, "CALL_FUNCTION_KW: TOS is not a name tuple"))
	}
	all := f.PopN(argc)
	nKw := len(namesTuple.Items)
	nPos := argc - nKw
	kwargs := make(map[string]object.Value, nKw)
	for i, n := range namesTuple.Items {
		if s, ok := n.(*object.String); ok {
			kwargs[s.Value] = all[nPos+i]
		}
	}
	callee := f.Pop()
	result, exc := ev.Call(callee, all[:nPos], kwargs)
	if exc != nil {
		return ev.raise(exc)
	}
	f.Push(result)
	return frame.WhyNone
}

// execCallFunctionEx implements CALL_FUNCTION_EX: arguments arrive
// pre-collected as an iterable (*args) and, if flags&0x01, a mapping
// (**kwargs).
func (ev *Evaluator) execCallFunctionEx(f *frame.Frame, flags int) frame.Why {
	var kwargs map[string]object.Value
	if flags&0x01 != 0 {
		kwDict, ok := f.Pop().(*object.Dict)
		if !ok {
			return ev.raise(ev.newErr(ev.Errors.TypeError, "argument after ** must be a mapping"))
		}
		kwargs = dictToMap(kwDict)
	}
	args, exc := ev.toSlice(f.Pop())
	if exc != nil {
		return ev.raise(exc)
	}
	callee := f.Pop()
	result, exc := ev.Call(callee, args, kwargs)
	if exc != nil {
		return ev.raise(exc)
	}
	f.Push(result)
	return frame.WhyNone
}

// execLoadMethod implements the 3.7+ LOAD_METHOD fast path: if the
// attribute resolves to an unbound function on the object's class, push
// (unbound function, self) so CALL_METHOD can skip Method allocation;
// otherwise push (bound value, NULL-sentinel) like a plain attribute
// load.
func (ev *Evaluator) execLoadMethod(f *frame.Frame, name string) frame.Why {
	obj := f.Pop()
	if inst, ok := obj.(*object.Instance); ok {
		if _, owned := inst.Dict[name]; !owned {
			if v, found := inst.Class.Lookup(name); found && object.IsFunction(v) {
				f.Push(v)
				f.Push(obj)
				return frame.WhyNone
			}
		}
	}
	v, exc := ev.getAttr(obj, name)
	if exc != nil {
		return ev.raise(exc)
	}
	f.Push(v)
	f.Push(nil)
	return frame.WhyNone
}

// execCallMethod implements CALL_METHOD, pairing with LOAD_METHOD's
// two-slot push: a nil self marks a plain (already-bound) callable,
// anything else is prepended as the first positional argument.
func (ev *Evaluator) execCallMethod(f *frame.Frame, argc int) frame.Why {
	args := f.PopN(argc)
	self := f.Pop()
	callee := f.Pop()
	if self != nil {
		full := make([]object.Value, 0, len(args)+1)
		full = append(full, self)
		full = append(full, args...)
		args = full
	}
	result, exc := ev.Call(callee, args, nil)
	if exc != nil {
		return ev.raise(exc)
	}
	f.Push(result)
	return frame.WhyNone
}

// buildClass backs the __build_class__ builtin LOAD_BUILD_CLASS pushes:
// it runs the class body's function to populate a namespace dict, then
// builds the Class from that namespace plus the given bases.
func (ev *Evaluator) buildClass(args []object.Value, kwargs map[string]object.Value) (object.Value, error) {
	if len(args) < 2 {
		return nil, &classBuildError{"__build_class__: not enough arguments"}
	}
	bodyFn, ok := args[0].(*function.Function)
	if !ok {
		return nil, &classBuildError{"__build_class__: func must be a function"}
	}
	name, ok := args[1].(*object.String)
	if !ok {
		return nil, &classBuildError{"__build_class__: name must be a string"}
	}

	var bases []*object.Class
	for _, b := range args[2:] {
		if c, ok := b.(*object.Class); ok {
			bases = append(bases, c)
		}
	}

	nsFrame := ev.NewFrame(bodyFn.Code, bodyFn.Globals, ev.current)
	nsFrame.Locals = map[string]object.Value{}
	ev.bindClosure(nsFrame, bodyFn)
	_, why, exc := ev.Run(nsFrame, nil)
	if why == frame.WhyFatal {
		return nil, &classBuildError{"internal evaluator error building class body"}
	}
	if exc != nil {
		return nil, &classBuildError{exc.Message}
	}

	dict := map[string]object.Value{}
	for k, v := range nsFrame.Locals {
		dict[k] = v
	}
	return object.NewClass(name.Value, bases, dict), nil
}

type classBuildError struct{ msg string }

func (e *classBuildError) Error() string { return e.msg }
