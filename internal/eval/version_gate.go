package eval

import "github.com/shardpy/pybc/internal/bytecode"

// opSupported reports whether op is meaningful for version — the
// handful of opcodes whose existence changed across 3.4-3.8 rather
// than just their numeric encoding. Anything not listed here is
// assumed present across the whole supported range.
func opSupported(op bytecode.Op, version bytecode.Version) bool {
	switch op {
	case bytecode.SETUP_LOOP, bytecode.SETUP_EXCEPT, bytecode.BREAK_LOOP, bytecode.CONTINUE_LOOP:
		return version.HasLegacyBlocks()
	case bytecode.BEGIN_FINALLY, bytecode.CALL_FINALLY, bytecode.POP_FINALLY, bytecode.END_ASYNC_FOR:
		return !version.HasLegacyBlocks()
	case bytecode.BUILD_CONST_KEY_MAP, bytecode.BUILD_STRING, bytecode.FORMAT_VALUE:
		return version >= bytecode.Py36
	case bytecode.GET_AITER, bytecode.GET_ANEXT, bytecode.SETUP_ASYNC_WITH:
		return version >= bytecode.Py35
	case bytecode.LOAD_METHOD, bytecode.CALL_METHOD:
		return version >= bytecode.Py37
	}
	return true
}
