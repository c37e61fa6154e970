package bytecode

// Op is a single opcode's numeric identity. The same numeric space is
// shared across all five versions; the evaluator's opSupported check
// (internal/eval) decides which Ops a given version accepts, and
// dispatching one it rejects raises VirtualMachineError.
type Op byte

// famNoneWithArg lists the FamNone opcodes that still carry a real
// operand byte in the ≤3.5 variable-width encoding — a raw count or
// flag word rather than a table index, but not absent the way a plain
// POP_TOP or BINARY_ADD is. Every other family already implies an
// operand (it indexes a const/name/local/free slot, a jump target, or
// the comparison table), so HasArgument only needs this one exception
// list on top of FamilyOf.
var famNoneWithArg = map[Op]bool{
	RAISE_VARARGS: true,
	BUILD_TUPLE: true, BUILD_LIST: true, BUILD_SET: true, BUILD_MAP: true,
	BUILD_STRING:               true,
	BUILD_TUPLE_UNPACK:         true,
	BUILD_LIST_UNPACK:          true,
	BUILD_SET_UNPACK:           true,
	BUILD_MAP_UNPACK:           true,
	BUILD_MAP_UNPACK_WITH_CALL: true,
	UNPACK_SEQUENCE:            true,
	UNPACK_EX:                  true,
	LIST_APPEND:                true,
	SET_ADD:                    true,
	MAP_ADD:                    true,
	CALL_FUNCTION:              true,
	CALL_FUNCTION_KW:           true,
	CALL_FUNCTION_EX:           true,
	CALL_METHOD:                true,
	MAKE_FUNCTION:              true,
	FORMAT_VALUE:               true,
	POP_FINALLY:                true,
	EXTENDED_ARG:               true,
}

// HasArgument reports whether op carries an operand byte at all in the
// ≤3.5 variable-width encoding. 3.6+ wordcode instructions always carry
// an argument byte regardless of this, even if unused.
func HasArgument(op Op) bool {
	if FamilyOf(op) != FamNone {
		return true
	}
	return famNoneWithArg[op]
}

// Family classifies how an opcode's decoded argument must be
// interpreted.
type Family int

const (
	FamNone    Family = iota // argument unused, or a raw small integer (counts, flags)
	FamConst                // index into CodeObject.Consts
	FamLocal                // index into CodeObject.VarNames
	FamName                 // index into CodeObject.Names
	FamFree                 // index into cellvars++freevars
	FamJRel                 // relative jump target: cursor + arg
	FamJAbs                 // absolute jump target
	FamCompare              // index into the fixed comparison-operator table
)

// Spec is the static, version-independent description of one opcode:
// its name (for disassembly/errors) and its argument family. Per-version
// tables decide which opcodes exist and what they do; this describes
// what the argument *means* once decoded, which does not change across
// versions for opcodes that are shared.
type Spec struct {
	Name   string
	Family Family
}

// The following are the full set of opcode identities across every
// supported version. Numeric values are assigned once, grouped by
// argument family, so cross-version tables can agree on what a given
// Op constant denotes even when a given version removes or repurposes
// it.
const (
	POP_TOP Op = iota
	ROT_TWO
	ROT_THREE
	ROT_FOUR // 3.8+
	DUP_TOP
	DUP_TOP_TWO
	NOP

	UNARY_POSITIVE
	UNARY_NEGATIVE
	UNARY_NOT
	UNARY_INVERT

	BINARY_ADD
	BINARY_SUBTRACT
	BINARY_MULTIPLY
	BINARY_TRUE_DIVIDE
	BINARY_FLOOR_DIVIDE
	BINARY_MODULO
	BINARY_POWER
	BINARY_MATRIX_MULTIPLY
	BINARY_LSHIFT
	BINARY_RSHIFT
	BINARY_AND
	BINARY_OR
	BINARY_XOR
	BINARY_SUBSCR

	INPLACE_ADD
	INPLACE_SUBTRACT
	INPLACE_MULTIPLY
	INPLACE_TRUE_DIVIDE
	INPLACE_FLOOR_DIVIDE
	INPLACE_MODULO
	INPLACE_POWER
	INPLACE_LSHIFT
	INPLACE_RSHIFT
	INPLACE_AND
	INPLACE_OR
	INPLACE_XOR

	STORE_SUBSCR
	DELETE_SUBSCR

	COMPARE_OP

	LOAD_CONST
	LOAD_NAME
	STORE_NAME
	DELETE_NAME
	LOAD_FAST
	STORE_FAST
	DELETE_FAST
	LOAD_GLOBAL
	STORE_GLOBAL
	DELETE_GLOBAL
	LOAD_ATTR
	STORE_ATTR
	DELETE_ATTR
	LOAD_DEREF
	STORE_DEREF
	DELETE_DEREF
	LOAD_CLASSDEREF
	LOAD_CLOSURE

	BUILD_TUPLE
	BUILD_LIST
	BUILD_SET
	BUILD_MAP
	BUILD_CONST_KEY_MAP // 3.6+
	BUILD_STRING        // 3.6+
	BUILD_TUPLE_UNPACK
	BUILD_LIST_UNPACK
	BUILD_SET_UNPACK
	BUILD_MAP_UNPACK
	BUILD_MAP_UNPACK_WITH_CALL
	UNPACK_SEQUENCE
	UNPACK_EX

	LIST_APPEND
	SET_ADD
	MAP_ADD

	GET_ITER
	FOR_ITER

	JUMP_FORWARD
	JUMP_ABSOLUTE
	POP_JUMP_IF_TRUE
	POP_JUMP_IF_FALSE
	JUMP_IF_TRUE_OR_POP
	JUMP_IF_FALSE_OR_POP

	SETUP_LOOP    // ≤3.7
	SETUP_EXCEPT  // ≤3.7
	SETUP_FINALLY
	POP_BLOCK
	POP_EXCEPT
	BREAK_LOOP    // ≤3.7
	CONTINUE_LOOP // ≤3.7
	RAISE_VARARGS
	END_FINALLY

	BEGIN_FINALLY // 3.8
	CALL_FINALLY  // 3.8
	POP_FINALLY   // 3.8

	SETUP_WITH
	WITH_CLEANUP_START
	WITH_CLEANUP_FINISH
	BEFORE_ASYNC_WITH // 3.5+
	SETUP_ASYNC_WITH  // 3.5+

	MAKE_FUNCTION
	CALL_FUNCTION
	CALL_FUNCTION_KW
	CALL_FUNCTION_EX
	CALL_METHOD  // 3.7+
	LOAD_METHOD  // 3.7+
	RETURN_VALUE

	LOAD_BUILD_CLASS

	YIELD_VALUE
	YIELD_FROM
	GET_YIELD_FROM_ITER // 3.5+
	GET_AWAITABLE       // 3.5+
	GET_AITER           // 3.5+
	GET_ANEXT           // 3.5+
	END_ASYNC_FOR       // 3.8

	FORMAT_VALUE // 3.6+
	PRINT_EXPR
	IMPORT_NAME
	IMPORT_FROM
	IMPORT_STAR
	EXTENDED_ARG

	numOps
)

// FamilyOf returns the argument family for an opcode that is shared
// across versions. Version-specific opcode tables may still assign a
// different handler, but the decoding rule below is constant.
func FamilyOf(op Op) Family {
	switch op {
	case LOAD_CONST, BUILD_CONST_KEY_MAP:
		return FamConst
	case LOAD_FAST, STORE_FAST, DELETE_FAST:
		return FamLocal
	case LOAD_NAME, STORE_NAME, DELETE_NAME,
		LOAD_GLOBAL, STORE_GLOBAL, DELETE_GLOBAL,
		LOAD_ATTR, STORE_ATTR, DELETE_ATTR,
		IMPORT_NAME, IMPORT_FROM:
		return FamName
	case LOAD_DEREF, STORE_DEREF, DELETE_DEREF, LOAD_CLASSDEREF, LOAD_CLOSURE:
		return FamFree
	case JUMP_FORWARD, FOR_ITER, SETUP_LOOP, SETUP_EXCEPT, SETUP_FINALLY,
		SETUP_WITH, SETUP_ASYNC_WITH, CALL_FINALLY:
		return FamJRel
	case JUMP_ABSOLUTE, POP_JUMP_IF_TRUE, POP_JUMP_IF_FALSE,
		JUMP_IF_TRUE_OR_POP, JUMP_IF_FALSE_OR_POP, CONTINUE_LOOP:
		return FamJAbs
	case COMPARE_OP:
		return FamCompare
	default:
		return FamNone
	}
}

// CompareOps is the fixed 11-entry relation table COMPARE_OP indexes
// into, the last one ("exception-match") used only by the evaluator's
// own exception-dispatch, not reachable from surface-language code.
var CompareOps = [...]string{
	"<", "<=", "==", "!=", ">", ">=", "in", "not in", "is", "is not", "exception-match",
}
