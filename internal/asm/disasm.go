package asm

import (
	"fmt"
	"strings"

	"github.com/shardpy/pybc/internal/bytecode"
)

// Disassemble renders code as one mnemonic per line, annotated with the
// resolved name each operand indexes (a const, a local, a jump target)
// — the inverse of Assemble's instruction encoding. The raw numeric
// operand itself is omitted in favor of that resolved name; use
// DisassembleOparg to keep it alongside.
func Disassemble(code *bytecode.CodeObject) string {
	return disassemble(code, false)
}

// DisassembleOparg renders code the same way as Disassemble but keeps
// the raw operand value printed alongside its resolved name, for
// inspecting exactly what byte sequence an instruction encodes to.
func DisassembleOparg(code *bytecode.CodeObject) string {
	return disassemble(code, true)
}

func disassemble(code *bytecode.CodeObject, showOparg bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (version %s, %d bytes)\n", code.Name, code.Version, len(code.Code))

	wordcode := code.Version.Wordcode()
	ip := 0
	for ip < len(code.Code) {
		start := ip
		op := bytecode.Op(code.Code[ip])
		ip++
		arg := 0
		hasArg := false
		if wordcode {
			arg = int(code.Code[ip])
			ip++
			hasArg = true
		} else if bytecode.HasArgument(op) {
			arg = int(code.Code[ip]) | int(code.Code[ip+1])<<8
			ip += 2
			hasArg = true
		}

		fmt.Fprintf(&sb, "%6d  %-24s", start, op.Name())
		if hasArg {
			note := annotateOperand(code, op, arg, ip)
			if showOparg || note == "" {
				fmt.Fprintf(&sb, " %-6d", arg)
			}
			if note != "" {
				fmt.Fprintf(&sb, " (%s)", note)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func annotateOperand(code *bytecode.CodeObject, op bytecode.Op, arg, nextOffset int) string {
	switch bytecode.FamilyOf(op) {
	case bytecode.FamJRel:
		return fmt.Sprintf("-> %d", nextOffset+arg)
	case bytecode.FamJAbs:
		return fmt.Sprintf("-> %d", arg)
	case bytecode.FamConst:
		if arg >= 0 && arg < len(code.Consts) {
			return fmt.Sprintf("%v", code.Consts[arg])
		}
	case bytecode.FamLocal:
		if arg >= 0 && arg < len(code.VarNames) {
			return code.VarNames[arg]
		}
	case bytecode.FamName:
		if arg >= 0 && arg < len(code.Names) {
			return code.Names[arg]
		}
	case bytecode.FamFree:
		if arg >= 0 && arg < code.NFreeSlots() {
			return code.CellOrFreeName(arg)
		}
	case bytecode.FamCompare:
		if arg >= 0 && arg < len(bytecode.CompareOps) {
			return bytecode.CompareOps[arg]
		}
	}
	return ""
}
