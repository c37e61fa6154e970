package eval

import (
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/object"
)

// execFormatValue implements FORMAT_VALUE. arg's low two bits select a
// conversion (0 none, 1 str, 2 repr, 3 ascii — all equivalent here,
// since this evaluator's str/repr aren't yet distinguished) and bit
// 0x04 marks that a format-spec string was pushed above the value.
func (ev *Evaluator) execFormatValue(f *frame.Frame, arg int) frame.Why {
	var spec string
	if arg&0x04 != 0 {
		if s, ok := f.Pop().(*object.String); ok {
			spec = s.Value
		}
	}
	v := f.Pop()
	text := object.Str(v)
	if spec != "" {
		formatted, exc := applyFormatSpec(text, v, spec)
		if exc != nil {
			return ev.raise(ev.newErr(ev.Errors.ValueError, "%s", exc.Error()))
		}
		text = formatted
	}
	f.Push(&object.String{Value: text})
	return frame.WhyNone
}

// execImportName implements IMPORT_NAME: TOS1/TOS carry the fromlist
// and import level (unused — relative/package imports are out of
// scope), and the opcode resolves name against the evaluator's module
// registry rather than the filesystem.
func (ev *Evaluator) execImportName(f *frame.Frame, name string) frame.Why {
	f.Pop() // fromlist
	f.Pop() // level
	mod, ok := ev.Modules[name]
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.ImportError, "No module named '%s'", name))
	}
	f.Push(mod)
	return frame.WhyNone
}

func (ev *Evaluator) execImportFrom(f *frame.Frame, name string) frame.Why {
	mod, ok := f.Top().(*object.Module)
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.ImportError, "cannot import name '%s'", name))
	}
	v, ok := mod.Get(name)
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.ImportError, "cannot import name '%s' from '%s'", name, mod.Name))
	}
	f.Push(v)
	return frame.WhyNone
}

func (ev *Evaluator) execImportStar(f *frame.Frame) frame.Why {
	mod, ok := f.Pop().(*object.Module)
	if !ok {
		return ev.raise(ev.newErr(ev.Errors.ImportError, "import * requires a module"))
	}
	for name, v := range mod.Dict {
		if len(name) > 0 && name[0] != '_' {
			f.Locals[name] = v
		}
	}
	return frame.WhyNone
}
