package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardpy/pybc/internal/asm"
	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/eval"
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/generator"
	"github.com/shardpy/pybc/internal/object"
)

// TestRunModuleFunctionCall drives MAKE_FUNCTION/CALL_FUNCTION through the
// real dispatch loop: the module builds an "add" function from a nested
// code object and calls it with two arguments.
func TestRunModuleFunctionCall(t *testing.T) {
	addCode, err := asm.AssembleVersion(`
.argcount 2
.varnames a, b
LOAD_FAST a
LOAD_FAST b
BINARY_ADD
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble add()")

	moduleCode, err := asm.AssembleVersion(`
.consts "add", 3, 4
LOAD_CONST 3
LOAD_CONST 0
MAKE_FUNCTION 0
LOAD_CONST 1
LOAD_CONST 2
CALL_FUNCTION 2
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble module")
	moduleCode.Consts = append(moduleCode.Consts, addCode)

	ev := eval.New(bytecode.Py38)
	result, err := ev.RunModule(moduleCode)
	require.NoError(t, err)
	i, ok := result.(*object.Int)
	require.True(t, ok, "result should be an Int, got %T", result)
	assert.Equal(t, int64(7), i.Value)
}

// TestRunModuleGeneratorYield drives a real generator through YIELD_VALUE
// using the actual Evaluator, not a hand-scripted Runner.
func TestRunModuleGeneratorYield(t *testing.T) {
	genCode, err := asm.AssembleVersion(`
.flags GENERATOR
.consts 1, 2
LOAD_CONST 0
YIELD_VALUE
POP_TOP
LOAD_CONST 1
YIELD_VALUE
POP_TOP
LOAD_CONST 0
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble generator body")

	moduleCode, err := asm.AssembleVersion(`
.consts "gen"
LOAD_CONST 1
LOAD_CONST 0
MAKE_FUNCTION 0
CALL_FUNCTION 0
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble module")
	moduleCode.Consts = append(moduleCode.Consts, genCode)

	ev := eval.New(bytecode.Py38)
	result, err := ev.RunModule(moduleCode)
	require.NoError(t, err)

	gen, ok := result.(*generator.Generator)
	require.True(t, ok, "result should be a Generator, got %T", result)

	v, done, exc := gen.Send(object.None, nil)
	require.Nil(t, exc)
	require.False(t, done)
	i, ok := v.(*object.Int)
	require.True(t, ok)
	assert.Equal(t, int64(1), i.Value)

	v, done, exc = gen.Send(object.None, nil)
	require.Nil(t, exc)
	require.False(t, done)
	i, ok = v.(*object.Int)
	require.True(t, ok)
	assert.Equal(t, int64(2), i.Value)

	_, done, exc = gen.Send(object.None, nil)
	require.True(t, done)
	require.NotNil(t, exc, "generator should end with StopIteration")
	assert.True(t, exc.IsInstanceOf(ev.Errors.StopIteration))
}

// TestCoroutineAwaitDelegatesThroughYieldFrom drives GET_AWAITABLE/
// YIELD_FROM over a real *generator.Coroutine, the path execYieldFrom's
// switch used to miss entirely (falling to TypeError for every await).
func TestCoroutineAwaitDelegatesThroughYieldFrom(t *testing.T) {
	innerCode, err := asm.AssembleVersion(`
.flags COROUTINE
.consts 42
LOAD_CONST 0
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble inner coroutine")

	outerCode, err := asm.AssembleVersion(`
.flags COROUTINE
.consts "inner"
LOAD_CONST 1
LOAD_CONST 0
MAKE_FUNCTION 0
CALL_FUNCTION 0
GET_AWAITABLE
LOAD_CONST 2
YIELD_FROM
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble outer coroutine")
	outerCode.Consts = append(outerCode.Consts, innerCode, object.None)

	moduleCode, err := asm.AssembleVersion(`
.consts "outer"
LOAD_CONST 1
LOAD_CONST 0
MAKE_FUNCTION 0
CALL_FUNCTION 0
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble module")
	moduleCode.Consts = append(moduleCode.Consts, outerCode)

	ev := eval.New(bytecode.Py38)
	result, err := ev.RunModule(moduleCode)
	require.NoError(t, err)

	coro, ok := result.(*generator.Coroutine)
	require.True(t, ok, "result should be a Coroutine, got %T", result)

	_, done, exc := coro.Send(object.None, nil)
	require.True(t, done, "await of an immediately-returning coroutine should complete in one step")
	require.NotNil(t, exc)
	require.True(t, exc.IsInstanceOf(ev.Errors.StopIteration))
	require.Len(t, exc.Args.Items, 1)
	i, ok := exc.Args.Items[0].(*object.Int)
	require.True(t, ok)
	assert.Equal(t, int64(42), i.Value, "the awaited value should flow back through YIELD_FROM")
}

// TestAsyncGeneratorIterationThroughGetAIterGetANext drives GET_AITER/
// GET_ANEXT/YIELD_FROM over a real *generator.AsyncGenerator. Before the
// getAttr fix, GET_AITER/GET_ANEXT always raised AttributeError; before the
// execYieldFrom fix, the ASend it produces was never a case YIELD_FROM
// recognized.
func TestAsyncGeneratorIterationThroughGetAIterGetANext(t *testing.T) {
	innerCode, err := asm.AssembleVersion(`
.name inner_asyncgen
.flags ASYNC_GENERATOR
.consts 7
LOAD_CONST 0
YIELD_VALUE
POP_TOP
LOAD_CONST 0
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble inner async generator")

	outerCode, err := asm.AssembleVersion(`
.flags GENERATOR
.consts "agen"
LOAD_CONST 1
LOAD_CONST 0
MAKE_FUNCTION 0
CALL_FUNCTION 0
GET_AITER
GET_ANEXT
LOAD_CONST 2
YIELD_FROM
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble outer driving generator")
	outerCode.Consts = append(outerCode.Consts, innerCode, object.None)

	moduleCode, err := asm.AssembleVersion(`
.consts "outer"
LOAD_CONST 1
LOAD_CONST 0
MAKE_FUNCTION 0
CALL_FUNCTION 0
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble module")
	moduleCode.Consts = append(moduleCode.Consts, outerCode)

	ev := eval.New(bytecode.Py38)
	result, err := ev.RunModule(moduleCode)
	require.NoError(t, err)

	outerGen, ok := result.(*generator.Generator)
	require.True(t, ok, "result should be a Generator, got %T", result)

	v, done, exc := outerGen.Send(object.None, nil)
	require.Nil(t, exc)
	require.False(t, done, "the first GET_ANEXT should suspend on the async generator's yield")
	i, ok := v.(*object.Int)
	require.True(t, ok, "yielded value should be an Int, got %T", v)
	assert.Equal(t, int64(7), i.Value)

	_, done, exc = outerGen.Send(object.None, nil)
	require.True(t, done)
	require.NotNil(t, exc)
	assert.True(t, exc.IsInstanceOf(ev.Errors.StopAsyncIteration),
		"the async generator's completion should surface as StopAsyncIteration")
}

// TestGeneratorResumeLinksBackToCallerFrame exercises frame.Back: wired at
// construction time via NewFrame, and relinked to the resuming caller's
// frame for the duration of each Generator.Send before being unlinked
// again.
func TestGeneratorResumeLinksBackToCallerFrame(t *testing.T) {
	innerCode, err := asm.AssembleVersion(`
.name inner_gen
.flags GENERATOR
.consts 5
LOAD_CONST 0
YIELD_VALUE
POP_TOP
LOAD_CONST 0
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble inner generator")

	outerCode, err := asm.AssembleVersion(`
.flags GENERATOR
.consts "inner"
LOAD_CONST 1
LOAD_CONST 0
MAKE_FUNCTION 0
CALL_FUNCTION 0
LOAD_CONST 2
YIELD_FROM
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble outer generator")
	outerCode.Consts = append(outerCode.Consts, innerCode, object.None)

	moduleCode, err := asm.AssembleVersion(`
.consts "outer"
LOAD_CONST 1
LOAD_CONST 0
MAKE_FUNCTION 0
CALL_FUNCTION 0
RETURN_VALUE
`, bytecode.Py38)
	require.NoError(t, err, "assemble module")
	moduleCode.Consts = append(moduleCode.Consts, outerCode)

	ev := eval.New(bytecode.Py38)

	var innerFrame *frame.Frame
	var backDuringRun *frame.Frame
	ev.GlobalTrace = func(f *frame.Frame, event string, arg object.Value) (frame.TraceFunc, error) {
		if f.Code.Name != "inner_gen" {
			return nil, nil
		}
		innerFrame = f
		f.TraceOpcodes = true
		return func(f *frame.Frame, event string, arg object.Value) (frame.TraceFunc, error) {
			if event == "opcode" && backDuringRun == nil {
				backDuringRun = f.Back
			}
			return nil, nil
		}, nil
	}

	result, err := ev.RunModule(moduleCode)
	require.NoError(t, err)

	outerGen, ok := result.(*generator.Generator)
	require.True(t, ok, "result should be a Generator, got %T", result)

	v, done, exc := outerGen.Send(object.None, nil)
	require.Nil(t, exc)
	require.False(t, done)
	i, ok := v.(*object.Int)
	require.True(t, ok)
	assert.Equal(t, int64(5), i.Value)

	require.NotNil(t, innerFrame, "inner generator frame should have been constructed")
	assert.Same(t, outerGen.Frame, backDuringRun,
		"inner frame's Back should point to the outer generator's frame while it runs")
	assert.Nil(t, innerFrame.Back, "Back should be unlinked again once the resume call returns")
}

// TestEndFinallyCallFinallyReturnsToSavedAddress covers the 3.8 block
// model: a return executed inside a try runs the finally body via
// CALL_FINALLY, and END_FINALLY must jump back to the saved return
// address instead of silently falling through.
func TestEndFinallyCallFinallyReturnsToSavedAddress(t *testing.T) {
	result, err := runSrc(t, `
.version 3.8
.consts 1

SETUP_FINALLY finally
LOAD_CONST 0
CALL_FINALLY finally
POP_BLOCK
RETURN_VALUE
finally:
END_FINALLY
`)
	require.NoError(t, err)
	i, ok := result.(*object.Int)
	require.True(t, ok, "result should be an Int, got %T", result)
	assert.Equal(t, int64(1), i.Value, "the value computed before CALL_FINALLY must survive the round trip through the finally handler")
}

// TestTryFinallyAroundLoopRunsOnNormalCompletion covers a for loop wrapped
// in try/finally whose finally body runs once the loop completes normally.
func TestTryFinallyAroundLoopRunsOnNormalCompletion(t *testing.T) {
	result, err := runSrc(t, `
.version 3.8
.varnames sum, x
.consts 0, 1, 2, 3, 100

SETUP_FINALLY finally
LOAD_CONST 0
STORE_FAST sum
LOAD_CONST 1
LOAD_CONST 2
LOAD_CONST 3
BUILD_LIST 3
GET_ITER
loop:
FOR_ITER loopdone
LOAD_FAST sum
BINARY_ADD
STORE_FAST sum
JUMP_ABSOLUTE loop
loopdone:
POP_BLOCK
BEGIN_FINALLY
finally:
LOAD_FAST sum
LOAD_CONST 4
BINARY_ADD
STORE_FAST sum
END_FINALLY
LOAD_FAST sum
RETURN_VALUE
`)
	require.NoError(t, err)
	i, ok := result.(*object.Int)
	require.True(t, ok, "result should be an Int, got %T", result)
	assert.Equal(t, int64(106), i.Value, "sum of 1+2+3 plus the finally's +100 side effect")
}

// TestOpcodeUnsupportedInTargetVersionIsFatalNotCatchable covers comment 4:
// an internal-invariant failure (an opcode unsupported in the frame's
// target version) must surface as a *eval.VirtualMachineError, not an
// ordinary *object.Exception a bytecode-level except block can catch.
func TestOpcodeUnsupportedInTargetVersionIsFatalNotCatchable(t *testing.T) {
	code, err := asm.AssembleVersion(`
.version 3.4

SETUP_EXCEPT handler
LOAD_METHOD 0
POP_BLOCK
JUMP_FORWARD done
handler:
POP_EXCEPT
done:
LOAD_CONST 0
RETURN_VALUE
`, bytecode.Py34)
	require.NoError(t, err)
	code.Names = []string{"whatever"}
	code.Consts = []object.Value{object.MakeInt(1)}

	ev := eval.New(bytecode.Py34)
	_, err = ev.RunModule(code)
	require.Error(t, err, "LOAD_METHOD under 3.4 should be fatal")

	var vmErr *eval.VirtualMachineError
	require.ErrorAs(t, err, &vmErr, "the error must be a VirtualMachineError, not a catchable exception wrapped by SETUP_EXCEPT")
}
