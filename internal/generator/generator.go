// Package generator implements the suspendable-activation wrappers
// around a Frame: Generator, Coroutine and
// AsyncGenerator. None of them re-implement the evaluation loop; each
// holds a Frame and a Runner callback supplied by internal/eval that
// resumes it, so this package has no dependency on internal/eval and
// internal/eval can freely depend on this one.
package generator

import (
	"fmt"

	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/object"
)

// State is a Generator's lifecycle position.
type State int

const (
	Created State = iota
	Running
	Suspended
	Finished
)

// Kind distinguishes the four suspendable-activation flavors.
type Kind int

const (
	KindGenerator Kind = iota
	KindCoroutine
	KindIterableCoroutine
	KindAsyncGenerator
)

// Runner resumes frame f, injecting exc if non-nil (a generator
// `throw`, or the evaluator's own internal continuation of a pending
// exception). It runs until the frame yields, returns, or raises.
type Runner func(f *frame.Frame, exc *object.Exception) (value object.Value, why frame.Why, raised *object.Exception)

// Classes is the slice of the builtin exception-class registry the
// generator machinery needs to construct StopIteration/GeneratorExit/
// RuntimeError/TypeError instances without this package owning a
// builtins table of its own.
type Classes struct {
	StopIteration      *object.Class
	StopAsyncIteration *object.Class
	GeneratorExit      *object.Class
	RuntimeError       *object.Class
	TypeError          *object.Class
	ValueError         *object.Class
}

// Generator is the common implementation backing plain generators,
// coroutines, iterable-coroutines and async generators — they differ
// only in Kind and in the thin wrapper types (Coroutine, AsyncGenerator)
// built on top for their distinct send/throw/close surface.
type Generator struct {
	Frame *frame.Frame
	State State
	Kind  Kind
	Name  string

	// YieldFrom is the sub-iterator a YIELD_FROM instruction is
	// currently delegating to, set by the opcode handler that suspends
	// on it and consulted by Throw/Close to forward appropriately
	//.
	YieldFrom object.Value

	run     Runner
	classes *Classes
}

// New constructs a Generator wrapper around f, not yet started.
func New(f *frame.Frame, kind Kind, name string, run Runner, classes *Classes) *Generator {
	g := &Generator{Frame: f, Kind: kind, Name: name, run: run, classes: classes}
	f.Owner = g
	return g
}

func (g *Generator) Type() string { return "generator" }
func (g *Generator) String() string {
	return fmt.Sprintf("<generator object %s>", g.Name)
}

// Started reports whether the frame has executed at least one
// instruction.
func (g *Generator) Started() bool { return g.Frame.IP != 0 }

// Send resumes the generator with value as the result of the pending
// yield expression, returning the next yielded value or, if the
// generator returns or raises, done=true with the terminating
// exception (StopIteration on a clean return).
func (g *Generator) Send(value object.Value, inject *object.Exception) (object.Value, bool, *object.Exception) {
	if g.State == Running {
		return nil, false, g.err(g.classes.ValueError, "generator already executing")
	}
	if g.State == Finished {
		return nil, true, g.stopIteration(nil)
	}
	if !g.Started() && inject == nil && !isNoneLike(value) {
		return nil, false, g.err(g.classes.TypeError, "can't send non-None value to a just-started generator")
	}
	return g.resume(value, inject)
}

func (g *Generator) resume(value object.Value, inject *object.Exception) (object.Value, bool, *object.Exception) {
	if g.Started() {
		g.Frame.Push(valueOrNone(value))
	}
	g.State = Running
	result, why, raised := g.run(g.Frame, inject)

	switch why {
	case frame.WhyYield:
		g.State = Suspended
		return result, false, nil
	case frame.WhyReturn:
		g.State = Finished
		return nil, true, g.stopIteration(result)
	default:
		g.State = Finished
		if raised != nil {
			return nil, true, raised
		}
		return nil, true, g.stopIteration(nil)
	}
}

// Throw raises exc at the generator's suspension point, delegating
// through an active YIELD_FROM sub-iterator first when one is set.
func (g *Generator) Throw(exc *object.Exception) (object.Value, bool, *object.Exception) {
	if g.YieldFrom != nil {
		sub := g.YieldFrom
		if exc.IsInstanceOf(g.classes.GeneratorExit) {
			if subGen, ok := sub.(*Generator); ok {
				_, _, _ = subGen.Close()
			}
		} else if subGen, ok := sub.(*Generator); ok {
			v, done, subErr := subGen.Throw(exc)
			if !done {
				return g.resume(v, nil)
			}
			if subErr != nil {
				exc = subErr
			}
		}
	}
	if g.State == Finished {
		return nil, true, exc
	}
	return g.resume(nil, exc)
}

// Close raises GeneratorExit at the generator's suspension point and
// drives it to completion, reporting an error if it ignores the
// exception by yielding again instead of exiting or re-raising it.
func (g *Generator) Close() (object.Value, bool, *object.Exception) {
	if g.State == Finished {
		return nil, true, nil
	}
	if g.YieldFrom != nil {
		if subGen, ok := g.YieldFrom.(*Generator); ok {
			_, _, _ = subGen.Close()
		}
	}
	if !g.Started() {
		g.State = Finished
		return nil, true, nil
	}
	exitExc := &object.Exception{ExcType: g.classes.GeneratorExit, Message: "generator closed"}
	_, done, raised := g.resume(nil, exitExc)
	if raised != nil && raised.IsInstanceOf(g.classes.StopIteration) {
		return nil, true, nil
	}
	if raised != nil && raised.IsInstanceOf(g.classes.GeneratorExit) {
		return nil, true, nil
	}
	if !done {
		return nil, false, g.err(g.classes.RuntimeError, "generator ignored GeneratorExit")
	}
	return nil, true, raised
}

func (g *Generator) stopIteration(value object.Value) *object.Exception {
	args := &object.Tuple{}
	if value != nil && !isNoneLike(value) {
		args.Items = []object.Value{value}
	}
	return &object.Exception{ExcType: g.classes.StopIteration, Args: args, Message: "StopIteration"}
}

func (g *Generator) err(cls *object.Class, msg string) *object.Exception {
	return &object.Exception{ExcType: cls, Message: msg}
}

func valueOrNone(v object.Value) object.Value {
	if v == nil {
		return object.None
	}
	return v
}

func isNoneLike(v object.Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(object.NoneType)
	return ok
}
