package asm

import (
	"fmt"

	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/object"
)

var flagNames = map[string]bytecode.Flags{
	"OPTIMIZED":           bytecode.FlagOptimized,
	"NEWLOCALS":           bytecode.FlagNewLocals,
	"VARARGS":             bytecode.FlagVarArgs,
	"VARKEYWORDS":         bytecode.FlagVarKeywords,
	"NESTED":              bytecode.FlagNested,
	"GENERATOR":           bytecode.FlagGenerator,
	"NOFREE":              bytecode.FlagNoFree,
	"COROUTINE":           bytecode.FlagCoroutine,
	"ITERABLE_COROUTINE":  bytecode.FlagIterableCoroutine,
	"ASYNC_GENERATOR":     bytecode.FlagAsyncGenerator,
}

// Assemble parses src and emits a CodeObject targeting Py38 unless a
// .version directive overrides it. See AssembleVersion for the form that
// lets a caller (cmd/pybc's --target, say) supply a different default.
func Assemble(src string) (*bytecode.CodeObject, error) {
	return AssembleVersion(src, bytecode.Py38)
}

// AssembleVersion parses src and emits a CodeObject. Every operand that
// names a family-indexed table entry (a local, a name, a cell/free slot)
// may be written either as that table's declared identifier or as a raw
// integer index; a jump target may be written as a label identifier or
// as a raw integer, which is encoded unchanged.
// Operands are assumed to fit the target version's native argument width
// (one byte for 3.6+ wordcode, two bytes before) — this is a test/CLI
// tool for hand-built fixtures, not a general codegen backend, so it
// does not synthesize EXTENDED_ARG chains to spill oversized operands.
//
// def is the version used when src has no .version directive of its own;
// a directive always wins over it.
func AssembleVersion(src string, def bytecode.Version) (*bytecode.CodeObject, error) {
	prog, err := parse(src)
	if err != nil {
		return nil, err
	}

	code := &bytecode.CodeObject{
		Name:      "<asm>",
		Filename:  "<asm>",
		FirstLine: 1,
		Version:   def,
	}

	for _, d := range prog.directives {
		if err := applyDirective(code, d); err != nil {
			return nil, err
		}
	}

	offsets, labels, err := layout(prog.instrs, code.Version)
	if err != nil {
		return nil, err
	}

	// Every instruction is attributed to FirstLine (Lnotab stays empty):
	// per-instruction line tracking would need directives interleaved
	// with instructions rather than collected up front, which this
	// format doesn't support. Fine for hand-built fixtures; a real
	// front end would emit a proper line table.
	var codeBytes []byte
	for idx, ins := range prog.instrs {
		arg, err := resolveOperand(code, ins, offsets[idx+1], labels)
		if err != nil {
			return nil, err
		}
		codeBytes = appendInstr(codeBytes, ins.op, arg, code.Version)
	}

	code.Code = codeBytes
	if code.StackSize == 0 {
		code.StackSize = 64
	}
	return code, nil
}

func applyDirective(code *bytecode.CodeObject, d directiveNode) error {
	switch d.name {
	case "version":
		if len(d.args) != 1 {
			return fmt.Errorf("line %d: .version wants exactly one argument", d.line)
		}
		v, ok := bytecode.ParseVersion(d.args[0].text)
		if !ok {
			return fmt.Errorf("line %d: unknown version %q", d.line, d.args[0].text)
		}
		code.Version = v
	case "name":
		code.Name = oneArgText(d)
	case "filename":
		code.Filename = oneArgText(d)
	case "firstline":
		code.FirstLine = oneArgInt(d)
	case "argcount":
		code.ArgCount = oneArgInt(d)
	case "kwonlyargcount":
		code.KwOnlyArgCount = oneArgInt(d)
	case "stacksize":
		code.StackSize = oneArgInt(d)
	case "flags":
		for _, a := range d.args {
			fl, ok := flagNames[a.text]
			if !ok {
				return fmt.Errorf("line %d: unknown flag %q", d.line, a.text)
			}
			code.Flags |= fl
		}
	case "varnames":
		code.VarNames = append(code.VarNames, textsOf(d.args)...)
	case "names":
		code.Names = append(code.Names, textsOf(d.args)...)
	case "cellvars":
		code.CellVars = append(code.CellVars, textsOf(d.args)...)
	case "freevars":
		code.FreeVars = append(code.FreeVars, textsOf(d.args)...)
	case "consts":
		for _, a := range d.args {
			v, err := constValue(a)
			if err != nil {
				return fmt.Errorf("line %d: %w", d.line, err)
			}
			code.Consts = append(code.Consts, v)
		}
	default:
		return fmt.Errorf("line %d: unknown directive .%s", d.line, d.name)
	}
	return nil
}

func oneArgText(d directiveNode) string {
	if len(d.args) == 0 {
		return ""
	}
	return d.args[0].text
}

func oneArgInt(d directiveNode) int {
	if len(d.args) == 0 {
		return 0
	}
	return int(d.args[0].ival)
}

func textsOf(args []token) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.text
	}
	return out
}

func constValue(t token) (object.Value, error) {
	switch t.kind {
	case tokInt:
		return object.MakeInt(t.ival), nil
	case tokFloat:
		return &object.Float{Value: t.fval}, nil
	case tokString:
		return &object.String{Value: t.text}, nil
	case tokIdent:
		switch t.text {
		case "None":
			return object.None, nil
		case "True":
			return object.True, nil
		case "False":
			return object.False, nil
		}
	}
	return nil, fmt.Errorf("bad constant literal %q", t.text)
}

// instrSize is how many bytes ins occupies once encoded, fixed per
// version regardless of the operand's value (see Assemble's doc comment
// on why EXTENDED_ARG spilling isn't synthesized).
func instrSize(op bytecode.Op, version bytecode.Version) int {
	if version.Wordcode() {
		return 2
	}
	if bytecode.HasArgument(op) {
		return 3
	}
	return 1
}

// layout assigns a byte offset to every instruction (offsets[i]) plus
// one past the last (offsets[len]), and resolves each label to the
// offset of the instruction it decorates.
func layout(instrs []instrNode, version bytecode.Version) (offsets []int, labels map[string]int, err error) {
	offsets = make([]int, len(instrs)+1)
	labels = map[string]int{}
	cursor := 0
	for i, ins := range instrs {
		offsets[i] = cursor
		for _, l := range ins.labels {
			if _, dup := labels[l]; dup {
				return nil, nil, fmt.Errorf("line %d: label %q defined more than once", ins.line, l)
			}
			labels[l] = cursor
		}
		cursor += instrSize(ins.op, version)
	}
	offsets[len(instrs)] = cursor
	return offsets, labels, nil
}

func indexOf(names []string, name string) (int, bool) {
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func resolveOperand(code *bytecode.CodeObject, ins instrNode, nextOffset int, labels map[string]int) (int, error) {
	fam := bytecode.FamilyOf(ins.op)
	a := ins.arg
	if !a.present {
		return 0, nil
	}
	switch fam {
	case bytecode.FamJRel, bytecode.FamJAbs:
		if !a.isIdent {
			return a.intVal, nil
		}
		target, ok := labels[a.identVal]
		if !ok {
			return 0, fmt.Errorf("line %d: undefined label %q", ins.line, a.identVal)
		}
		if fam == bytecode.FamJAbs {
			return target, nil
		}
		return target - nextOffset, nil
	case bytecode.FamLocal:
		return resolveTableIndex(ins, a, code.VarNames)
	case bytecode.FamName:
		return resolveTableIndex(ins, a, code.Names)
	case bytecode.FamFree:
		all := append(append([]string{}, code.CellVars...), code.FreeVars...)
		return resolveTableIndex(ins, a, all)
	default:
		if a.isIdent {
			return 0, fmt.Errorf("line %d: %s does not take a name operand", ins.line, ins.mnem)
		}
		return a.intVal, nil
	}
}

func resolveTableIndex(ins instrNode, a operand, table []string) (int, error) {
	if !a.isIdent {
		return a.intVal, nil
	}
	idx, ok := indexOf(table, a.identVal)
	if !ok {
		return 0, fmt.Errorf("line %d: %q is not declared in the relevant table", ins.line, a.identVal)
	}
	return idx, nil
}

func appendInstr(buf []byte, op bytecode.Op, arg int, version bytecode.Version) []byte {
	if version.Wordcode() {
		return append(buf, byte(op), byte(arg))
	}
	if !bytecode.HasArgument(op) {
		return append(buf, byte(op))
	}
	return append(buf, byte(op), byte(arg&0xff), byte((arg>>8)&0xff))
}
