package generator

import "github.com/shardpy/pybc/internal/object"

// AsyncGenerator wraps a Generator whose frame was compiled with both
// a yield expression and `async def`: its driving surface is asend/
// athrow/aclose, each returning a one-shot awaitable rather than a
// direct value, since the underlying frame may itself suspend on an
// await before it next yields.
type AsyncGenerator struct {
	*Generator
}

func NewAsyncGenerator(g *Generator) *AsyncGenerator { return &AsyncGenerator{Generator: g} }

func (a *AsyncGenerator) Type() string   { return "async_generator" }
func (a *AsyncGenerator) String() string { return "<async_generator object " + a.Name + ">" }

// asyncState is the lifecycle of a one-shot ASend/AThrow/AClose
// wrapper: it can be driven to completion exactly once.
type asyncState int

const (
	asyncInit asyncState = iota
	asyncIter
	asyncClosed
)

// ASend is the awaitable returned by AsyncGenerator.asend(value): each
// `await` on it resumes the underlying generator once and, since a
// single logical asend may itself need several awaits to cross a
// nested await point, stays in asyncIter across yields and is closed
// only once the generator returns or raises.
type ASend struct {
	gen   *AsyncGenerator
	value object.Value
	state asyncState
}

func (a *AsyncGenerator) ASend(value object.Value) *ASend {
	return &ASend{gen: a, value: value}
}

func (s *ASend) Type() string   { return "async_generator_asend" }
func (s *ASend) String() string { return "<async_generator_asend>" }

// Step drives the wrapper once. A yield of the generator comes back as
// its value with done=false; it is passed straight through and is not
// turned into the result of the asend. done is true only when the
// generator returns (reported as StopAsyncIteration) or raises (that
// exception).
func (s *ASend) Step() (value object.Value, done bool, raised *object.Exception) {
	if s.state == asyncClosed {
		return nil, true, &object.Exception{ExcType: s.gen.classes.StopIteration, Message: "asend already exhausted"}
	}
	v, fin, exc := s.gen.Send(s.value, nil)
	s.value = object.None
	s.state = asyncIter
	if fin {
		s.state = asyncClosed
		if exc != nil && exc.IsInstanceOf(s.gen.classes.StopIteration) {
			return nil, true, &object.Exception{ExcType: s.gen.classes.StopAsyncIteration, Message: "async generator exhausted"}
		}
		return nil, true, exc
	}
	return v, false, nil
}

// AThrow mirrors ASend but injects an exception on its first step.
type AThrow struct {
	gen   *AsyncGenerator
	exc   *object.Exception
	state asyncState
}

func (a *AsyncGenerator) AThrow(exc *object.Exception) *AThrow {
	return &AThrow{gen: a, exc: exc}
}

func (t *AThrow) Type() string   { return "async_generator_athrow" }
func (t *AThrow) String() string { return "<async_generator_athrow>" }

func (t *AThrow) Step() (value object.Value, done bool, raised *object.Exception) {
	if t.state == asyncClosed {
		return nil, true, &object.Exception{ExcType: t.gen.classes.StopAsyncIteration, Message: "athrow already exhausted"}
	}
	v, fin, exc := t.gen.Throw(t.exc)
	t.state = asyncIter
	if fin {
		t.state = asyncClosed
		if exc != nil && exc.IsInstanceOf(t.gen.classes.StopIteration) {
			return nil, true, &object.Exception{ExcType: t.gen.classes.StopAsyncIteration, Message: "async generator exhausted"}
		}
		return nil, true, exc
	}
	return v, false, nil
}

// AClose drives the generator to completion via GeneratorExit,
// swallowing the StopIteration/GeneratorExit it produces on
// success the same way Generator.Close does for sync generators.
type AClose struct {
	gen   *AsyncGenerator
	state asyncState
}

func (a *AsyncGenerator) AClose() *AClose { return &AClose{gen: a} }

func (c *AClose) Type() string   { return "async_generator_aclose" }
func (c *AClose) String() string { return "<async_generator_aclose>" }

func (c *AClose) Step() (done bool, raised *object.Exception) {
	if c.state == asyncClosed {
		return true, nil
	}
	c.state = asyncClosed
	_, _, exc := c.gen.Close()
	return true, exc
}
