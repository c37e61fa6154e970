package asm

import (
	"testing"

	"github.com/shardpy/pybc/internal/bytecode"
)

func TestAssembleSimpleArithmetic(t *testing.T) {
	src := `
.version 3.8
.name add
.consts 2, 3

LOAD_CONST 0
LOAD_CONST 1
BINARY_ADD
RETURN_VALUE
`
	code, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if code.Version != bytecode.Py38 {
		t.Errorf("version = %v, want 3.8", code.Version)
	}
	want := []byte{
		byte(bytecode.LOAD_CONST), 0,
		byte(bytecode.LOAD_CONST), 1,
		byte(bytecode.BINARY_ADD), 0,
		byte(bytecode.RETURN_VALUE), 0,
	}
	if string(code.Code) != string(want) {
		t.Errorf("code bytes = %v, want %v", code.Code, want)
	}
}

func TestAssembleBackwardJumpLoop(t *testing.T) {
	src := `
.version 3.8
.varnames i
.consts 0, 1, 5

LOAD_CONST 0
STORE_FAST i
loop:
LOAD_FAST i
LOAD_CONST 2
COMPARE_OP 0
POP_JUMP_IF_FALSE done
LOAD_FAST i
LOAD_CONST 1
BINARY_ADD
STORE_FAST i
JUMP_ABSOLUTE loop
done:
LOAD_FAST i
RETURN_VALUE
`
	code, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// loop: starts right after the first two instructions (2 bytes each = offset 4).
	// POP_JUMP_IF_FALSE is absolute; confirm it targets "done" past the
	// back-edge, not zero.
	popJumpOffset := 4 + 2 + 2 + 2 // loop's three instructions before POP_JUMP_IF_FALSE
	gotArg := int(code.Code[popJumpOffset+1])
	if gotArg <= popJumpOffset {
		t.Errorf("POP_JUMP_IF_FALSE target %d should be past its own offset %d", gotArg, popJumpOffset)
	}
	// JUMP_ABSOLUTE back to loop must target offset 4.
	jumpAbsOffset := len(code.Code) - 2 - 2 - 2 // before done's LOAD_FAST and RETURN_VALUE
	if gotBack := int(code.Code[jumpAbsOffset+1]); gotBack != 4 {
		t.Errorf("JUMP_ABSOLUTE target = %d, want 4", gotBack)
	}
}

func TestAssembleUnknownMnemonicErrors(t *testing.T) {
	_, err := Assemble(".version 3.8\nNOT_REAL_OP 0\n")
	if err == nil {
		t.Error("expected an error for an unknown mnemonic")
	}
}

func TestAssembleUndefinedLabelErrors(t *testing.T) {
	_, err := Assemble(".version 3.8\nJUMP_ABSOLUTE nowhere\n")
	if err == nil {
		t.Error("expected an error for a jump to an undefined label")
	}
}

func TestAssemblePreWordcodeEncoding(t *testing.T) {
	src := `
.version 3.4
.consts 1

LOAD_CONST 0
RETURN_VALUE
`
	code, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// LOAD_CONST carries a two-byte index pre-3.6; RETURN_VALUE carries
	// nothing at all.
	want := []byte{byte(bytecode.LOAD_CONST), 0, 0, byte(bytecode.RETURN_VALUE)}
	if string(code.Code) != string(want) {
		t.Errorf("code bytes = %v, want %v", code.Code, want)
	}
}

func TestHasArgumentMatchesFamily(t *testing.T) {
	if bytecode.HasArgument(bytecode.RETURN_VALUE) {
		t.Error("RETURN_VALUE should carry no operand pre-wordcode")
	}
	if bytecode.HasArgument(bytecode.POP_TOP) {
		t.Error("POP_TOP should carry no operand pre-wordcode")
	}
	if !bytecode.HasArgument(bytecode.LOAD_CONST) {
		t.Error("LOAD_CONST should carry an operand pre-wordcode")
	}
	if !bytecode.HasArgument(bytecode.COMPARE_OP) {
		t.Error("COMPARE_OP should carry an operand pre-wordcode")
	}
	if !bytecode.HasArgument(bytecode.BUILD_TUPLE) {
		t.Error("BUILD_TUPLE should carry an operand pre-wordcode")
	}
}
