package eval

import (
	"fmt"
	"sort"

	"github.com/shardpy/pybc/internal/object"
)

// newBuiltins registers the builtin namespace every module frame falls
// back to once a name lookup misses locals and globals: print, len,
// range, abs, min/max/sum, repr, isinstance and the exception classes
// themselves (so "except ValueError" can resolve a name to a class).
func newBuiltins(ev *Evaluator) map[string]object.Value {
	b := map[string]object.Value{}

	b["print"] = &object.BuiltinFunc{Name: "print", Fn: func(args []object.Value, kwargs map[string]object.Value) (object.Value, error) {
		sep, end := " ", "\n"
		if v, ok := kwargs["sep"]; ok {
			if s, ok := v.(*object.String); ok {
				sep = s.Value
			}
		}
		if v, ok := kwargs["end"]; ok {
			if s, ok := v.(*object.String); ok {
				end = s.Value
			}
		}
		for i, a := range args {
			if i > 0 {
				fmt.Print(sep)
			}
			fmt.Print(object.Str(a))
		}
		fmt.Print(end)
		return object.None, nil
	}}

	b["len"] = &object.BuiltinFunc{Name: "len", Fn: func(args []object.Value, _ map[string]object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("len() takes exactly one argument (%d given)", len(args))
		}
		switch v := args[0].(type) {
		case *object.List:
			return object.MakeInt(int64(len(v.Items))), nil
		case *object.Tuple:
			return object.MakeInt(int64(len(v.Items))), nil
		case *object.String:
			return object.MakeInt(int64(len([]rune(v.Value)))), nil
		case *object.Bytes:
			return object.MakeInt(int64(len(v.Value))), nil
		case *object.Dict:
			return object.MakeInt(int64(v.Len())), nil
		case *object.Set:
			return object.MakeInt(int64(v.Len())), nil
		case *object.Range:
			return object.MakeInt(int64(v.Len())), nil
		}
		return nil, fmt.Errorf("object of type '%s' has no len()", object.TypeName(args[0]))
	}}

	b["range"] = &object.BuiltinFunc{Name: "range", Fn: func(args []object.Value, _ map[string]object.Value) (object.Value, error) {
		var start, stop, step int64 = 0, 0, 1
		toInt := func(v object.Value) (int64, bool) {
			if i, ok := v.(*object.Int); ok {
				return i.Value, true
			}
			return 0, false
		}
		switch len(args) {
		case 1:
			n, ok := toInt(args[0])
			if !ok {
				return nil, fmt.Errorf("'%s' object cannot be interpreted as an integer", object.TypeName(args[0]))
			}
			stop = n
		case 2:
			start, _ = toInt(args[0])
			stop, _ = toInt(args[1])
		case 3:
			start, _ = toInt(args[0])
			stop, _ = toInt(args[1])
			step, _ = toInt(args[2])
		default:
			return nil, fmt.Errorf("range expected 1 to 3 arguments, got %d", len(args))
		}
		if step == 0 {
			return nil, fmt.Errorf("range() arg 3 must not be zero")
		}
		return &object.Range{Start: start, Stop: stop, Step: step}, nil
	}}

	b["abs"] = &object.BuiltinFunc{Name: "abs", Fn: func(args []object.Value, _ map[string]object.Value) (object.Value, error) {
		switch v := args[0].(type) {
		case *object.Int:
			if v.Value < 0 {
				return object.MakeInt(-v.Value), nil
			}
			return v, nil
		case *object.Float:
			if v.Value < 0 {
				return &object.Float{Value: -v.Value}, nil
			}
			return v, nil
		}
		return nil, fmt.Errorf("bad operand type for abs(): '%s'", object.TypeName(args[0]))
	}}

	b["repr"] = &object.BuiltinFunc{Name: "repr", Fn: func(args []object.Value, _ map[string]object.Value) (object.Value, error) {
		return &object.String{Value: object.Str(args[0])}, nil
	}}

	b["bool"] = &object.BuiltinFunc{Name: "bool", Fn: func(args []object.Value, _ map[string]object.Value) (object.Value, error) {
		if len(args) == 0 {
			return object.False, nil
		}
		return object.MakeBool(object.Truthy(args[0])), nil
	}}

	b["sum"] = &object.BuiltinFunc{Name: "sum", Fn: func(args []object.Value, _ map[string]object.Value) (object.Value, error) {
		items, err := iterableItems(args[0])
		if err != nil {
			return nil, err
		}
		var total object.Value = object.MakeInt(0)
		if len(args) > 1 {
			total = args[1]
		}
		for _, it := range items {
			v, err := object.BinaryAdd(total, it)
			if err != nil {
				return nil, err
			}
			total = v
		}
		return total, nil
	}}

	b["min"] = minMaxBuiltin("min", func(a, b object.Value) (bool, error) { return object.Compare("<", a, b) })
	b["max"] = minMaxBuiltin("max", func(a, b object.Value) (bool, error) { return object.Compare(">", a, b) })

	b["sorted"] = &object.BuiltinFunc{Name: "sorted", Fn: func(args []object.Value, _ map[string]object.Value) (object.Value, error) {
		items, err := iterableItems(args[0])
		if err != nil {
			return nil, err
		}
		out := append([]object.Value(nil), items...)
		var sortErr error
		sort.SliceStable(out, func(i, j int) bool {
			lt, err := object.Compare("<", out[i], out[j])
			if err != nil {
				sortErr = err
			}
			return lt
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return &object.List{Items: out}, nil
	}}

	for name, cls := range map[string]*object.Class{
		"BaseException": ev.Errors.BaseException, "Exception": ev.Errors.Exception,
		"StopIteration": ev.Errors.StopIteration, "StopAsyncIteration": ev.Errors.StopAsyncIteration,
		"GeneratorExit": ev.Errors.GeneratorExit, "TypeError": ev.Errors.TypeError,
		"ValueError": ev.Errors.ValueError, "NameError": ev.Errors.NameError,
		"UnboundLocalError": ev.Errors.UnboundLocalError, "AttributeError": ev.Errors.AttributeError,
		"KeyError": ev.Errors.KeyError, "IndexError": ev.Errors.IndexError,
		"ZeroDivisionError": ev.Errors.ZeroDivisionError, "RuntimeError": ev.Errors.RuntimeError,
		"NotImplementedError": ev.Errors.NotImplementedError, "ImportError": ev.Errors.ImportError,
		"MemoryError": ev.Errors.MemoryError,
	} {
		b[name] = cls
	}

	b["isinstance"] = &object.BuiltinFunc{Name: "isinstance", Fn: func(args []object.Value, _ map[string]object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("isinstance expected 2 arguments, got %d", len(args))
		}
		cls, ok := args[1].(*object.Class)
		if !ok {
			return nil, fmt.Errorf("isinstance() arg 2 must be a type")
		}
		inst, ok := args[0].(*object.Instance)
		if !ok {
			return object.False, nil
		}
		return object.MakeBool(inst.Class.IsSubclass(cls)), nil
	}}

	return b
}

func minMaxBuiltin(name string, less func(a, b object.Value) (bool, error)) *object.BuiltinFunc {
	return &object.BuiltinFunc{Name: name, Fn: func(args []object.Value, _ map[string]object.Value) (object.Value, error) {
		var items []object.Value
		if len(args) == 1 {
			var err error
			items, err = iterableItems(args[0])
			if err != nil {
				return nil, err
			}
		} else {
			items = args
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("%s() arg is an empty sequence", name)
		}
		best := items[0]
		for _, it := range items[1:] {
			better, err := less(it, best)
			if err != nil {
				return nil, err
			}
			if better {
				best = it
			}
		}
		return best, nil
	}}
}

// iterableItems materializes a list/tuple/range/set/dict(keys) as a Go
// slice, for builtins that need random access rather than the
// evaluator's own GET_ITER/FOR_ITER protocol.
func iterableItems(v object.Value) ([]object.Value, error) {
	switch it := v.(type) {
	case *object.List:
		return it.Items, nil
	case *object.Tuple:
		return it.Items, nil
	case *object.Set:
		return it.Items(), nil
	case *object.Dict:
		return it.Keys(), nil
	case *object.Range:
		out := make([]object.Value, 0, it.Len())
		if it.Step > 0 {
			for i := it.Start; i < it.Stop; i += it.Step {
				out = append(out, object.MakeInt(i))
			}
		} else {
			for i := it.Start; i > it.Stop; i += it.Step {
				out = append(out, object.MakeInt(i))
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("'%s' object is not iterable", object.TypeName(v))
}
