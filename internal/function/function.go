// Package function implements the callable object built from a code
// object and its binding environment, plus the argument-binding
// algorithm that turns a call's positional/keyword arguments into a
// frame's locals.
package function

import (
	"fmt"

	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/object"
)

// Function is a closure over a CodeObject: captured globals, defaults,
// and the cells satisfying its free variables.
type Function struct {
	Code       *bytecode.CodeObject
	Globals    map[string]object.Value
	Defaults   []object.Value
	KwDefaults map[string]object.Value
	Closure    []*object.Cell
	Name       string
	Qualname   string
	Annotations map[string]object.Value
}

func (fn *Function) Type() string       { return "function" }
func (fn *Function) String() string     { return fmt.Sprintf("<function %s>", fn.Name) }
func (fn *Function) IsUserFunction() bool { return true }

// BindError is raised when argument binding fails; the evaluator turns
// it into a TypeError naming the function and the missing or
// unexpected arguments.
type BindError struct {
	Msg string
}

func (e *BindError) Error() string { return e.Msg }

// Bind builds the new frame's locals map
// from the call arguments, the function's defaults/kwdefaults, and its
// *args/**kwargs flags. It does not construct the Frame itself (that is
// internal/eval's job, since frame construction also needs to resolve
// builtins and decide on suspendable wrapping) — it returns the bound
// locals map plus an optional **kwargs dict and *args tuple already
// installed under their parameter names.
func Bind(fn *Function, args []object.Value, kwargs map[string]object.Value) (map[string]object.Value, error) {
	code := fn.Code
	argc := code.ArgCount
	kwOnly := code.KwOnlyArgCount
	hasVarArgs := code.Flags.Has(bytecode.FlagVarArgs)
	hasVarKw := code.Flags.Has(bytecode.FlagVarKeywords)

	nParams := argc + kwOnly
	if hasVarArgs {
		nParams++
	}
	if hasVarKw {
		nParams++
	}
	if nParams > len(code.VarNames) {
		nParams = len(code.VarNames)
	}
	params := code.VarNames[:nParams]

	locals := make(map[string]object.Value, nParams)

	// Step 4: prefill positional defaults, right-aligned over argc.
	if len(fn.Defaults) > 0 {
		offset := argc - len(fn.Defaults)
		for i, d := range fn.Defaults {
			if offset+i >= 0 && offset+i < argc {
				locals[params[offset+i]] = d
			}
		}
	}
	// kw-only defaults.
	for name, d := range fn.KwDefaults {
		locals[name] = d
	}

	// Step 5: zip positionals left to right over named params.
	nPos := len(args)
	if nPos > argc && !hasVarArgs {
		return nil, &BindError{Msg: fmt.Sprintf(
			"%s() takes %d positional argument(s) but %d were given", fn.Name, argc, nPos)}
	}
	limit := nPos
	if limit > argc {
		limit = argc
	}
	for i := 0; i < limit; i++ {
		locals[params[i]] = args[i]
	}

	// Step 6: overflow positionals into *args.
	if hasVarArgs {
		varArgsName := code.VarNames[argc+kwOnly]
		var overflow []object.Value
		if nPos > argc {
			overflow = append(overflow, args[argc:]...)
		}
		locals[varArgsName] = &object.Tuple{Items: overflow}
	}

	varKwName := ""
	if hasVarKw {
		varKwName = code.VarNames[nParams-1]
		locals[varKwName] = object.NewDict()
	}

	// Step 8/9: consume keyword arguments.
	named := map[string]bool{}
	for i := 0; i < argc+kwOnly; i++ {
		named[params[i]] = true
	}
	for name, v := range kwargs {
		if named[name] {
			locals[name] = v
			continue
		}
		if hasVarKw {
			d := locals[varKwName].(*object.Dict)
			key := &object.String{Value: name}
			d.Set(object.Hash(key), key, v, object.Equal)
			continue
		}
		return nil, &BindError{Msg: fmt.Sprintf(
			"%s() got an unexpected keyword argument '%s'", fn.Name, name)}
	}

	// Step 9: compute missing required parameters.
	var missing []string
	requiredPos := argc - len(fn.Defaults)
	for i := 0; i < requiredPos; i++ {
		if _, ok := locals[params[i]]; !ok {
			missing = append(missing, params[i])
		}
	}
	for i := argc; i < argc+kwOnly; i++ {
		if _, ok := locals[params[i]]; !ok {
			missing = append(missing, params[i])
		}
	}
	if len(missing) > 0 {
		return nil, &BindError{Msg: fmt.Sprintf(
			"%s() missing %d required argument(s): %v", fn.Name, len(missing), missing)}
	}

	return locals, nil
}
