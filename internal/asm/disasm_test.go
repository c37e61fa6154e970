package asm

import (
	"regexp"
	"strings"
	"testing"
)

func TestDisassembleAnnotatesConstsAndJumps(t *testing.T) {
	src := `
.version 3.8
.varnames i
.consts 0, 5

LOAD_CONST 0
STORE_FAST i
loop:
LOAD_FAST i
LOAD_CONST 1
COMPARE_OP 2
POP_JUMP_IF_FALSE done
JUMP_ABSOLUTE loop
done:
LOAD_FAST i
RETURN_VALUE
`
	code, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	out := Disassemble(code)
	if !strings.Contains(out, "LOAD_FAST") || !strings.Contains(out, "(i)") {
		t.Errorf("expected LOAD_FAST annotated with local name, got:\n%s", out)
	}
	if !strings.Contains(out, "COMPARE_OP") || !strings.Contains(out, "(==)") {
		t.Errorf("expected COMPARE_OP annotated with the relation, got:\n%s", out)
	}
	if !strings.Contains(out, "JUMP_ABSOLUTE") || !strings.Contains(out, "-> 4") {
		t.Errorf("expected JUMP_ABSOLUTE annotated with its target offset, got:\n%s", out)
	}
	if regexp.MustCompile(`LOAD_FAST +0`).MatchString(out) {
		t.Errorf("plain Disassemble should omit the raw oparg once it has a resolved name, got:\n%s", out)
	}

	withOparg := DisassembleOparg(code)
	if !regexp.MustCompile(`LOAD_FAST +0 +\(i\)`).MatchString(withOparg) {
		t.Errorf("DisassembleOparg should keep the raw index alongside the resolved name, got:\n%s", withOparg)
	}
}
