package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardpy/pybc/internal/asm"
	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/eval"
	"github.com/shardpy/pybc/internal/object"
)

func runSrc(t *testing.T, src string) (object.Value, error) {
	t.Helper()
	code, err := asm.Assemble(src)
	require.NoError(t, err, "Assemble")
	ev := eval.New(code.Version)
	return ev.RunModule(code)
}

func TestRunModuleArithmetic(t *testing.T) {
	result, err := runSrc(t, `
.consts 2, 3

LOAD_CONST 0
LOAD_CONST 1
BINARY_ADD
RETURN_VALUE
`)
	require.NoError(t, err)
	i, ok := result.(*object.Int)
	require.True(t, ok, "result should be an Int, got %T", result)
	assert.Equal(t, int64(5), i.Value)
}

func TestRunModuleBackwardJumpLoop(t *testing.T) {
	// sum = 0; i = 0; while i < 4 { sum += i; i += 1 }; return sum
	result, err := runSrc(t, `
.varnames sum, i
.consts 0, 4, 1

LOAD_CONST 0
STORE_FAST sum
LOAD_CONST 0
STORE_FAST i
loop:
LOAD_FAST i
LOAD_CONST 1
COMPARE_OP 0
POP_JUMP_IF_FALSE done
LOAD_FAST sum
LOAD_FAST i
BINARY_ADD
STORE_FAST sum
LOAD_FAST i
LOAD_CONST 2
BINARY_ADD
STORE_FAST i
JUMP_ABSOLUTE loop
done:
LOAD_FAST sum
RETURN_VALUE
`)
	require.NoError(t, err)
	i, ok := result.(*object.Int)
	require.True(t, ok, "result should be an Int, got %T", result)
	assert.Equal(t, int64(6), i.Value)
}

func TestRunModuleForIterOverList(t *testing.T) {
	// sum = 0; for x in [1, 2, 3]: sum += x; return sum
	result, err := runSrc(t, `
.varnames sum, x
.consts 0, 1, 2, 3

LOAD_CONST 0
STORE_FAST sum
LOAD_CONST 1
LOAD_CONST 2
LOAD_CONST 3
BUILD_LIST 3
GET_ITER
loop:
FOR_ITER done
STORE_FAST x
LOAD_FAST sum
LOAD_FAST x
BINARY_ADD
STORE_FAST sum
JUMP_ABSOLUTE loop
done:
LOAD_FAST sum
RETURN_VALUE
`)
	require.NoError(t, err)
	i, ok := result.(*object.Int)
	require.True(t, ok, "result should be an Int, got %T", result)
	assert.Equal(t, int64(6), i.Value)
}

func TestRunModuleCaughtException(t *testing.T) {
	// try: 1 / 0
	// except: return 99
	result, err := runSrc(t, `
.version 3.7
.consts 1, 0, 99

SETUP_EXCEPT handler
LOAD_CONST 0
LOAD_CONST 1
BINARY_TRUE_DIVIDE
POP_TOP
POP_BLOCK
JUMP_FORWARD done
handler:
POP_EXCEPT
done:
LOAD_CONST 2
RETURN_VALUE
`)
	require.NoError(t, err)
	i, ok := result.(*object.Int)
	require.True(t, ok, "result should be an Int, got %T", result)
	assert.Equal(t, int64(99), i.Value)
}

func TestRunModuleUncaughtExceptionPropagates(t *testing.T) {
	_, err := runSrc(t, `
.consts 1, 0

LOAD_CONST 0
LOAD_CONST 1
BINARY_TRUE_DIVIDE
RETURN_VALUE
`)
	require.Error(t, err, "division by zero should propagate out of RunModule")
}

func TestRunModuleContainerBuild(t *testing.T) {
	result, err := runSrc(t, `
.consts 1, 2, 3

LOAD_CONST 0
LOAD_CONST 1
LOAD_CONST 2
BUILD_TUPLE 3
RETURN_VALUE
`)
	require.NoError(t, err)
	tup, ok := result.(*object.Tuple)
	require.True(t, ok, "result should be a Tuple, got %T", result)
	require.Len(t, tup.Items, 3)
	for idx, want := range []int64{1, 2, 3} {
		i, ok := tup.Items[idx].(*object.Int)
		require.True(t, ok, "item %d should be an Int, got %T", idx, tup.Items[idx])
		assert.Equal(t, want, i.Value)
	}
}

func TestRunModuleOpcodeUnsupportedInTargetVersion(t *testing.T) {
	code, err := asm.AssembleVersion(`
LOAD_METHOD 0
`, bytecode.Py34)
	require.NoError(t, err)
	code.Names = []string{"whatever"}

	ev := eval.New(bytecode.Py34)
	_, err = ev.RunModule(code)
	assert.Error(t, err, "LOAD_METHOD should be rejected as unsupported under 3.4")
}
