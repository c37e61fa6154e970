package bytecode

// opNames gives every Op constant its CPython-style display name, used
// by disassembly and VirtualMachineError messages naming an opcode.
var opNames = map[Op]string{
	POP_TOP: "POP_TOP", ROT_TWO: "ROT_TWO", ROT_THREE: "ROT_THREE", ROT_FOUR: "ROT_FOUR",
	DUP_TOP: "DUP_TOP", DUP_TOP_TWO: "DUP_TOP_TWO", NOP: "NOP",
	UNARY_POSITIVE: "UNARY_POSITIVE", UNARY_NEGATIVE: "UNARY_NEGATIVE",
	UNARY_NOT: "UNARY_NOT", UNARY_INVERT: "UNARY_INVERT",
	BINARY_ADD: "BINARY_ADD", BINARY_SUBTRACT: "BINARY_SUBTRACT", BINARY_MULTIPLY: "BINARY_MULTIPLY",
	BINARY_TRUE_DIVIDE: "BINARY_TRUE_DIVIDE", BINARY_FLOOR_DIVIDE: "BINARY_FLOOR_DIVIDE",
	BINARY_MODULO: "BINARY_MODULO", BINARY_POWER: "BINARY_POWER",
	BINARY_MATRIX_MULTIPLY: "BINARY_MATRIX_MULTIPLY",
	BINARY_LSHIFT:           "BINARY_LSHIFT", BINARY_RSHIFT: "BINARY_RSHIFT",
	BINARY_AND: "BINARY_AND", BINARY_OR: "BINARY_OR", BINARY_XOR: "BINARY_XOR",
	BINARY_SUBSCR: "BINARY_SUBSCR",
	INPLACE_ADD:   "INPLACE_ADD", INPLACE_SUBTRACT: "INPLACE_SUBTRACT", INPLACE_MULTIPLY: "INPLACE_MULTIPLY",
	INPLACE_TRUE_DIVIDE: "INPLACE_TRUE_DIVIDE", INPLACE_FLOOR_DIVIDE: "INPLACE_FLOOR_DIVIDE",
	INPLACE_MODULO: "INPLACE_MODULO", INPLACE_POWER: "INPLACE_POWER",
	INPLACE_LSHIFT: "INPLACE_LSHIFT", INPLACE_RSHIFT: "INPLACE_RSHIFT",
	INPLACE_AND: "INPLACE_AND", INPLACE_OR: "INPLACE_OR", INPLACE_XOR: "INPLACE_XOR",
	STORE_SUBSCR: "STORE_SUBSCR", DELETE_SUBSCR: "DELETE_SUBSCR",
	COMPARE_OP: "COMPARE_OP",
	LOAD_CONST: "LOAD_CONST", LOAD_NAME: "LOAD_NAME", STORE_NAME: "STORE_NAME", DELETE_NAME: "DELETE_NAME",
	LOAD_FAST: "LOAD_FAST", STORE_FAST: "STORE_FAST", DELETE_FAST: "DELETE_FAST",
	LOAD_GLOBAL: "LOAD_GLOBAL", STORE_GLOBAL: "STORE_GLOBAL", DELETE_GLOBAL: "DELETE_GLOBAL",
	LOAD_ATTR: "LOAD_ATTR", STORE_ATTR: "STORE_ATTR", DELETE_ATTR: "DELETE_ATTR",
	LOAD_DEREF: "LOAD_DEREF", STORE_DEREF: "STORE_DEREF", DELETE_DEREF: "DELETE_DEREF",
	LOAD_CLASSDEREF: "LOAD_CLASSDEREF", LOAD_CLOSURE: "LOAD_CLOSURE",
	BUILD_TUPLE: "BUILD_TUPLE", BUILD_LIST: "BUILD_LIST", BUILD_SET: "BUILD_SET", BUILD_MAP: "BUILD_MAP",
	BUILD_CONST_KEY_MAP: "BUILD_CONST_KEY_MAP", BUILD_STRING: "BUILD_STRING",
	BUILD_TUPLE_UNPACK: "BUILD_TUPLE_UNPACK", BUILD_LIST_UNPACK: "BUILD_LIST_UNPACK",
	BUILD_SET_UNPACK: "BUILD_SET_UNPACK", BUILD_MAP_UNPACK: "BUILD_MAP_UNPACK",
	BUILD_MAP_UNPACK_WITH_CALL: "BUILD_MAP_UNPACK_WITH_CALL",
	UNPACK_SEQUENCE:            "UNPACK_SEQUENCE", UNPACK_EX: "UNPACK_EX",
	LIST_APPEND: "LIST_APPEND", SET_ADD: "SET_ADD", MAP_ADD: "MAP_ADD",
	GET_ITER: "GET_ITER", FOR_ITER: "FOR_ITER",
	JUMP_FORWARD: "JUMP_FORWARD", JUMP_ABSOLUTE: "JUMP_ABSOLUTE",
	POP_JUMP_IF_TRUE: "POP_JUMP_IF_TRUE", POP_JUMP_IF_FALSE: "POP_JUMP_IF_FALSE",
	JUMP_IF_TRUE_OR_POP: "JUMP_IF_TRUE_OR_POP", JUMP_IF_FALSE_OR_POP: "JUMP_IF_FALSE_OR_POP",
	SETUP_LOOP: "SETUP_LOOP", SETUP_EXCEPT: "SETUP_EXCEPT", SETUP_FINALLY: "SETUP_FINALLY",
	POP_BLOCK: "POP_BLOCK", POP_EXCEPT: "POP_EXCEPT",
	BREAK_LOOP: "BREAK_LOOP", CONTINUE_LOOP: "CONTINUE_LOOP",
	RAISE_VARARGS: "RAISE_VARARGS", END_FINALLY: "END_FINALLY",
	BEGIN_FINALLY: "BEGIN_FINALLY", CALL_FINALLY: "CALL_FINALLY", POP_FINALLY: "POP_FINALLY",
	SETUP_WITH: "SETUP_WITH", WITH_CLEANUP_START: "WITH_CLEANUP_START", WITH_CLEANUP_FINISH: "WITH_CLEANUP_FINISH",
	BEFORE_ASYNC_WITH: "BEFORE_ASYNC_WITH", SETUP_ASYNC_WITH: "SETUP_ASYNC_WITH",
	MAKE_FUNCTION: "MAKE_FUNCTION", CALL_FUNCTION: "CALL_FUNCTION", CALL_FUNCTION_KW: "CALL_FUNCTION_KW",
	CALL_FUNCTION_EX: "CALL_FUNCTION_EX", CALL_METHOD: "CALL_METHOD", LOAD_METHOD: "LOAD_METHOD",
	RETURN_VALUE: "RETURN_VALUE", LOAD_BUILD_CLASS: "LOAD_BUILD_CLASS",
	YIELD_VALUE: "YIELD_VALUE", YIELD_FROM: "YIELD_FROM", GET_YIELD_FROM_ITER: "GET_YIELD_FROM_ITER",
	GET_AWAITABLE: "GET_AWAITABLE", GET_AITER: "GET_AITER", GET_ANEXT: "GET_ANEXT",
	END_ASYNC_FOR: "END_ASYNC_FOR", FORMAT_VALUE: "FORMAT_VALUE", PRINT_EXPR: "PRINT_EXPR",
	IMPORT_NAME: "IMPORT_NAME", IMPORT_FROM: "IMPORT_FROM", IMPORT_STAR: "IMPORT_STAR",
	EXTENDED_ARG: "EXTENDED_ARG",
}

// Name returns op's display name, or a numeric placeholder if unknown.
func (op Op) Name() string {
	if n, ok := opNames[op]; ok {
		return n
	}
	return "<" + string(rune('0'+int(op)%10)) + ">"
}

var opByName map[string]Op

func init() {
	opByName = make(map[string]Op, len(opNames))
	for op, name := range opNames {
		opByName[name] = op
	}
}

// ParseOp looks an Op up by its display name, for assemblers and
// disassemblers round-tripping mnemonics.
func ParseOp(name string) (Op, bool) {
	op, ok := opByName[name]
	return op, ok
}
