package generator

import (
	"testing"

	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/object"
)

func testClasses() *Classes {
	return &Classes{
		StopIteration:      object.NewClass("StopIteration", nil, nil),
		StopAsyncIteration: object.NewClass("StopAsyncIteration", nil, nil),
		GeneratorExit:      object.NewClass("GeneratorExit", nil, nil),
		RuntimeError:       object.NewClass("RuntimeError", nil, nil),
		TypeError:          object.NewClass("TypeError", nil, nil),
		ValueError:         object.NewClass("ValueError", nil, nil),
	}
}

func testFrame() *frame.Frame {
	co := &bytecode.CodeObject{Name: "gen", Filename: "<test>", Flags: bytecode.FlagGenerator}
	return frame.New(co, map[string]object.Value{}, map[string]object.Value{}, nil)
}

// scriptedRunner replays a fixed sequence of (why, value) outcomes,
// one per call, simulating a frame that yields twice then returns.
func scriptedRunner(steps []struct {
	why   frame.Why
	value object.Value
}) Runner {
	i := 0
	return func(f *frame.Frame, exc *object.Exception) (object.Value, frame.Why, *object.Exception) {
		s := steps[i]
		i++
		return s.value, s.why, nil
	}
}

func TestGeneratorSendYieldsThenReturns(t *testing.T) {
	run := scriptedRunner([]struct {
		why   frame.Why
		value object.Value
	}{
		{frame.WhyYield, object.MakeInt(1)},
		{frame.WhyYield, object.MakeInt(2)},
		{frame.WhyReturn, object.MakeInt(99)},
	})
	g := New(testFrame(), KindGenerator, "g", run, testClasses())
	g.Frame.IP = 1 // pretend it already started so Send(None) is legal pre-first-call in this harness

	v, done, exc := g.Send(object.None, nil)
	if done || exc != nil {
		t.Fatalf("first send: done=%v exc=%v", done, exc)
	}
	if v.(*object.Int).Value != 1 {
		t.Errorf("yielded %v, want 1", v)
	}

	v, done, exc = g.Send(object.None, nil)
	if done || exc != nil {
		t.Fatalf("second send: done=%v exc=%v", done, exc)
	}
	if v.(*object.Int).Value != 2 {
		t.Errorf("yielded %v, want 2", v)
	}

	_, done, exc = g.Send(object.None, nil)
	if !done {
		t.Fatal("third send should finish the generator")
	}
	if exc == nil || !exc.IsInstanceOf(g.classes.StopIteration) {
		t.Errorf("expected StopIteration, got %v", exc)
	}
	if len(exc.Args.Items) != 1 || exc.Args.Items[0].(*object.Int).Value != 99 {
		t.Errorf("StopIteration.value = %v, want 99", exc.Args)
	}
}

func TestGeneratorSendNonNoneBeforeStartFails(t *testing.T) {
	run := scriptedRunner(nil)
	g := New(testFrame(), KindGenerator, "g", run, testClasses())
	_, _, exc := g.Send(object.MakeInt(5), nil)
	if exc == nil || !exc.IsInstanceOf(g.classes.TypeError) {
		t.Fatalf("expected TypeError, got %v", exc)
	}
}

func TestGeneratorCloseOnUnstartedIsNoop(t *testing.T) {
	g := New(testFrame(), KindGenerator, "g", scriptedRunner(nil), testClasses())
	_, done, exc := g.Close()
	if !done || exc != nil {
		t.Fatalf("close on unstarted generator: done=%v exc=%v", done, exc)
	}
	if g.State != Finished {
		t.Errorf("state = %v, want Finished", g.State)
	}
}

func TestGeneratorCloseSwallowsGeneratorExit(t *testing.T) {
	run := scriptedRunner([]struct {
		why   frame.Why
		value object.Value
	}{
		{frame.WhyReturn, object.None}, // frame exits cleanly on injected GeneratorExit
	})
	g := New(testFrame(), KindGenerator, "g", run, testClasses())
	g.Frame.IP = 1

	_, done, exc := g.Close()
	if !done || exc != nil {
		t.Fatalf("close: done=%v exc=%v, want done with no error", done, exc)
	}
}

func TestGeneratorSendAfterFinishedRaisesStopIteration(t *testing.T) {
	g := New(testFrame(), KindGenerator, "g", scriptedRunner(nil), testClasses())
	g.State = Finished
	_, done, exc := g.Send(object.None, nil)
	if !done || exc == nil || !exc.IsInstanceOf(g.classes.StopIteration) {
		t.Fatalf("done=%v exc=%v", done, exc)
	}
}

func TestAsyncGeneratorASendWrapsStopIteration(t *testing.T) {
	run := scriptedRunner([]struct {
		why   frame.Why
		value object.Value
	}{
		{frame.WhyReturn, object.None},
	})
	g := New(testFrame(), KindAsyncGenerator, "ag", run, testClasses())
	g.Frame.IP = 1
	ag := NewAsyncGenerator(g)

	_, done, exc := ag.ASend(object.None).Step()
	if !done {
		t.Fatal("expected asend to finish")
	}
	if exc == nil || !exc.IsInstanceOf(g.classes.StopAsyncIteration) {
		t.Errorf("expected StopAsyncIteration, got %v", exc)
	}
}
