package eval

import (
	"github.com/shardpy/pybc/internal/generator"
	"github.com/shardpy/pybc/internal/object"
)

// ExceptionClasses is the builtin exception hierarchy the evaluator
// raises against and tests with IsInstanceOf. It is shallow: Exception
// and GeneratorExit derive directly from BaseException, and every other
// class derives directly from Exception (so UnboundLocalError is not a
// NameError subclass here).
type ExceptionClasses struct {
	BaseException      *object.Class
	Exception          *object.Class
	StopIteration      *object.Class
	StopAsyncIteration *object.Class
	GeneratorExit      *object.Class
	TypeError          *object.Class
	ValueError         *object.Class
	NameError          *object.Class
	UnboundLocalError  *object.Class
	AttributeError     *object.Class
	KeyError           *object.Class
	IndexError         *object.Class
	ZeroDivisionError  *object.Class
	RuntimeError        *object.Class
	NotImplementedError *object.Class
	ImportError         *object.Class
	StopExceptionGroup  *object.Class // placeholder for exception-group support
	MemoryError         *object.Class
}

func newExceptionClasses() *ExceptionClasses {
	base := object.NewClass("BaseException", nil, nil)
	exc := object.NewClass("Exception", []*object.Class{base}, nil)
	mk := func(name string) *object.Class { return object.NewClass(name, []*object.Class{exc}, nil) }

	return &ExceptionClasses{
		BaseException:       base,
		Exception:            exc,
		StopIteration:        mk("StopIteration"),
		StopAsyncIteration:   mk("StopAsyncIteration"),
		GeneratorExit:        object.NewClass("GeneratorExit", []*object.Class{base}, nil),
		TypeError:            mk("TypeError"),
		ValueError:           mk("ValueError"),
		NameError:            mk("NameError"),
		UnboundLocalError:    mk("UnboundLocalError"),
		AttributeError:       mk("AttributeError"),
		KeyError:             mk("KeyError"),
		IndexError:           mk("IndexError"),
		ZeroDivisionError:    mk("ZeroDivisionError"),
		RuntimeError:         mk("RuntimeError"),
		NotImplementedError:  mk("NotImplementedError"),
		ImportError:          mk("ImportError"),
		MemoryError:          mk("MemoryError"),
	}
}

func (ec *ExceptionClasses) generatorClasses() *generator.Classes {
	return &generator.Classes{
		StopIteration:      ec.StopIteration,
		StopAsyncIteration: ec.StopAsyncIteration,
		GeneratorExit:      ec.GeneratorExit,
		RuntimeError:       ec.RuntimeError,
		TypeError:          ec.TypeError,
		ValueError:         ec.ValueError,
	}
}

// ClassForArithKind maps an object.ArithError's Kind string to the
// matching builtin class, for opcode handlers that catch one.
func (ec *ExceptionClasses) ClassForArithKind(kind string) *object.Class {
	switch kind {
	case "ZeroDivisionError":
		return ec.ZeroDivisionError
	case "ValueError":
		return ec.ValueError
	default:
		return ec.TypeError
	}
}
