package asm

import "github.com/shardpy/pybc/internal/bytecode"

// operand is an instruction's unresolved operand: at most one of the
// fields is meaningful, decided by the mnemonic's argument family.
type operand struct {
	present  bool
	isIdent  bool
	isLabel  bool
	intVal   int
	identVal string
}

type instrNode struct {
	labels []string // labels defined immediately before this instruction
	mnem   string
	op     bytecode.Op
	arg    operand
	line   int
}

// directiveNode is a parsed ".name value, value, ..." line.
type directiveNode struct {
	name string
	args []token
	line int
}

// program is the parsed, not-yet-assembled source: header directives
// plus the instruction stream.
type program struct {
	directives []directiveNode
	instrs     []instrNode
}
