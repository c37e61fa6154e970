package eval

import "github.com/shardpy/pybc/internal/bytecode"

// fetch reads the next logical instruction at f.IP, transparently
// folding any EXTENDED_ARG prefix chain into the returned argument and
// advancing IP past all of it.
// The returned start is the offset of the final (non-EXTENDED_ARG)
// opcode byte, for handlers that need to rewind IP back onto their own
// instruction (YIELD_FROM resuming mid-delegation).
func (ev *Evaluator) fetch(ip *int, code []byte, version bytecode.Version) (op bytecode.Op, arg int, start int) {
	wordcode := version.Wordcode()
	shift := version.ExtendedArgShift()
	ext := 0

	for {
		start = *ip
		op = bytecode.Op(code[*ip])
		*ip++
		var a int
		if wordcode {
			a = int(code[*ip])
			*ip++
		} else if bytecode.HasArgument(op) {
			a = int(code[*ip]) | int(code[*ip+1])<<8
			*ip += 2
		}
		if op == bytecode.EXTENDED_ARG {
			ext = (ext | a) << shift
			continue
		}
		return op, a | ext, start
	}
}
