package generator

import "github.com/shardpy/pybc/internal/object"

// Coroutine is a Generator restricted to the native coroutine surface:
// no iteration protocol, send/throw/close plus await support.
type Coroutine struct {
	*Generator
}

func NewCoroutine(g *Generator) *Coroutine { return &Coroutine{Generator: g} }

func (c *Coroutine) Type() string   { return "coroutine" }
func (c *Coroutine) String() string { return "<coroutine object " + c.Name + ">" }

// Await returns the iterator this coroutine presents to GET_AWAITABLE:
// itself, since a native coroutine is already its own awaitable.
func (c *Coroutine) Await() object.Value { return c }

// GetAwaitableIter coerces o into something a GET_AWAITABLE/YIELD_FROM
// pair can drive: a native Coroutine returns itself, anything exposing
// an __await__-style Awaitable method is asked for its iterator, and
// anything else fails with TypeError.
func GetAwaitableIter(o object.Value, typeErr *object.Class) (object.Value, *object.Exception) {
	switch v := o.(type) {
	case *Coroutine:
		return v, nil
	case Awaitable:
		return v.Await(), nil
	default:
		return nil, &object.Exception{ExcType: typeErr, Message: "object is not awaitable"}
	}
}

// Awaitable is implemented by any value GET_AWAITABLE can coerce to an
// iterator (native coroutines, and generator-based coroutines wrapped
// with types.coroutine in the source language).
type Awaitable interface {
	object.Value
	Await() object.Value
}
