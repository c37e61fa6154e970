package eval

import (
	"fmt"

	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/function"
	"github.com/shardpy/pybc/internal/generator"
	"github.com/shardpy/pybc/internal/object"
)

// Call invokes any callable value: a builtin, a bound method, a
// user-defined function (producing either a fresh run or a suspended
// generator/coroutine/async-generator wrapper, depending on the
// function's flags), or a class (instantiation).
func (ev *Evaluator) Call(callee object.Value, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	switch fn := callee.(type) {
	case *object.BuiltinFunc:
		v, err := fn.Fn(args, kwargs)
		if err != nil {
			return nil, ev.newErr(ev.Errors.TypeError, "%s", err.Error())
		}
		return v, nil

	case *object.Method:
		full := make([]object.Value, 0, len(args)+1)
		full = append(full, fn.Instance)
		full = append(full, args...)
		return ev.Call(fn.Func, full, kwargs)

	case *function.Function:
		return ev.callFunction(fn, args, kwargs)

	case *object.Class:
		return ev.instantiate(fn, args, kwargs)

	default:
		return nil, ev.newErr(ev.Errors.TypeError, "'%s' object is not callable", object.TypeName(callee))
	}
}

func (ev *Evaluator) callFunction(fn *function.Function, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	locals, err := function.Bind(fn, args, kwargs)
	if err != nil {
		return nil, ev.newErr(ev.Errors.TypeError, "%s", err.Error())
	}

	f := ev.NewFrame(fn.Code, fn.Globals, ev.current)
	f.Locals = locals
	ev.bindClosure(f, fn)

	if fn.Code.Flags.Suspendable() {
		return ev.wrapSuspendable(f, fn), nil
	}

	v, why, exc := ev.Run(f, nil)
	if why == frame.WhyFatal {
		// ev.vmErr is already set; the next step anywhere on the call
		// chain re-asserts WhyFatal, so a safe dummy value is fine here.
		return object.None, nil
	}
	if exc != nil {
		return nil, exc
	}
	if why == frame.WhyReturn {
		return v, nil
	}
	return object.None, nil
}

// bindClosure populates f.Cells: one fresh cell per CellVar (shared
// with any nested function that closes over it), and the inherited
// cells from fn.Closure for each FreeVar.
func (ev *Evaluator) bindClosure(f *frame.Frame, fn *function.Function) {
	for _, name := range fn.Code.CellVars {
		f.Cells[name] = &object.Cell{}
	}
	for i, name := range fn.Code.FreeVars {
		if i < len(fn.Closure) {
			f.Cells[name] = fn.Closure[i]
		}
	}
}

func (ev *Evaluator) wrapSuspendable(f *frame.Frame, fn *function.Function) object.Value {
	kind := generator.KindGenerator
	switch {
	case fn.Code.Flags.Has(bytecode.FlagAsyncGenerator):
		kind = generator.KindAsyncGenerator
	case fn.Code.Flags.Has(bytecode.FlagIterableCoroutine):
		kind = generator.KindIterableCoroutine
	case fn.Code.Flags.Has(bytecode.FlagCoroutine):
		kind = generator.KindCoroutine
	}
	g := generator.New(f, kind, fn.Name, ev.runner, ev.Classes)
	switch kind {
	case generator.KindCoroutine, generator.KindIterableCoroutine:
		return generator.NewCoroutine(g)
	case generator.KindAsyncGenerator:
		return generator.NewAsyncGenerator(g)
	default:
		return g
	}
}

func (ev *Evaluator) instantiate(cls *object.Class, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	inst := &object.Instance{Class: cls, Dict: map[string]object.Value{}}
	if initFn, ok := cls.Lookup("__init__"); ok {
		full := make([]object.Value, 0, len(args)+1)
		full = append(full, inst)
		full = append(full, args...)
		if _, exc := ev.Call(initFn, full, kwargs); exc != nil {
			return nil, exc
		}
	}
	return inst, nil
}

// callableName returns a best-effort display name for error messages.
func callableName(v object.Value) string {
	switch fn := v.(type) {
	case *object.BuiltinFunc:
		return fn.Name
	case *function.Function:
		return fn.Name
	case *object.Class:
		return fn.Name
	default:
		return fmt.Sprintf("%v", v)
	}
}
