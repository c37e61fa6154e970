package asm

import (
	"fmt"

	"github.com/shardpy/pybc/internal/bytecode"
)

// parse tokenizes src in full and builds a program tree. Statements are
// newline-terminated; a line may open with one or more "label:" prefixes
// before its directive or instruction.
func parse(src string) (*program, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &program{}
	i := 0
	var pendingLabels []string

	for i < len(toks) && toks[i].kind != tokEOF {
		t := toks[i]
		switch t.kind {
		case tokNewline:
			i++
		case tokLabel:
			pendingLabels = append(pendingLabels, t.text)
			i++
		case tokDirective:
			i++
			var args []token
			for i < len(toks) && toks[i].kind != tokNewline && toks[i].kind != tokEOF {
				if toks[i].kind == tokComma {
					i++
					continue
				}
				args = append(args, toks[i])
				i++
			}
			p.directives = append(p.directives, directiveNode{name: t.text, args: args, line: t.line})
		case tokIdent:
			op, ok := bytecode.ParseOp(t.text)
			if !ok {
				return nil, fmt.Errorf("line %d: unknown mnemonic %q", t.line, t.text)
			}
			i++
			var arg operand
			if i < len(toks) && toks[i].kind != tokNewline && toks[i].kind != tokEOF {
				switch toks[i].kind {
				case tokInt:
					arg = operand{present: true, intVal: int(toks[i].ival)}
					i++
				case tokIdent:
					arg = operand{present: true, isIdent: true, identVal: toks[i].text}
					i++
				default:
					return nil, fmt.Errorf("line %d: bad operand for %s", toks[i].line, t.text)
				}
			}
			p.instrs = append(p.instrs, instrNode{labels: pendingLabels, mnem: t.text, op: op, arg: arg, line: t.line})
			pendingLabels = nil
		case tokEOF:
		default:
			return nil, fmt.Errorf("line %d: unexpected token %v", t.line, t)
		}
	}
	if len(pendingLabels) > 0 {
		return nil, fmt.Errorf("label(s) %v at end of file have no following instruction", pendingLabels)
	}
	return p, nil
}

func tokenize(src string) ([]token, error) {
	l := newLexer(src)
	var toks []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks, nil
		}
	}
}
