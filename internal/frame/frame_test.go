package frame

import (
	"testing"

	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/object"
)

func newTestFrame() *Frame {
	co := &bytecode.CodeObject{Name: "<test>", Filename: "<test>", FirstLine: 1}
	return New(co, map[string]object.Value{}, map[string]object.Value{}, nil)
}

func TestPushPopRoundTrip(t *testing.T) {
	f := newTestFrame()
	v := object.MakeInt(42)
	f.Push(v)
	if got := f.Pop(); got != object.Value(v) {
		t.Errorf("Pop() = %v, want %v", got, v)
	}
	if f.Depth() != 0 {
		t.Errorf("depth after push/pop = %d, want 0", f.Depth())
	}
}

func TestPushBlockPopBlockLeavesStackAndCursorUnchanged(t *testing.T) {
	f := newTestFrame()
	f.Push(object.MakeInt(1), object.MakeInt(2))
	f.IP = 10
	f.PushBlock(BlockLoop, 99)
	f.PopBlock()
	if f.Depth() != 2 {
		t.Errorf("depth = %d, want 2", f.Depth())
	}
	if f.IP != 10 {
		t.Errorf("IP = %d, want 10", f.IP)
	}
}

type fakeSignals struct {
	ret        object.Value
	lastExc    *object.Exception
	currentExc *object.Exception
}

func (s *fakeSignals) ReturnValue() object.Value               { return s.ret }
func (s *fakeSignals) SetReturnValue(v object.Value)            { s.ret = v }
func (s *fakeSignals) LastException() *object.Exception        { return s.lastExc }
func (s *fakeSignals) SetLastException(e *object.Exception)     { s.lastExc = e }
func (s *fakeSignals) ClearLastException()                      { s.lastExc = nil }
func (s *fakeSignals) CurrentException() *object.Exception      { return s.currentExc }
func (s *fakeSignals) SetCurrentException(e *object.Exception)  { s.currentExc = e }

func TestManageBlockStackLoopBreak(t *testing.T) {
	f := newTestFrame()
	f.Push(object.MakeInt(1))
	f.PushBlock(BlockLoop, 50, 0)
	f.Push(object.MakeInt(2), object.MakeInt(3)) // values pushed inside the loop body

	sig := &fakeSignals{}
	why := ManageBlockStack(f, WhyBreak, sig)
	if why != WhyNone {
		t.Fatalf("why = %v, want none", why)
	}
	if f.HasBlocks() {
		t.Error("loop block should have been popped")
	}
	if f.Depth() != 0 {
		t.Errorf("depth after break unwind = %d, want 0", f.Depth())
	}
	if f.IP != 50 {
		t.Errorf("IP = %d, want 50 (block handler)", f.IP)
	}
}

func TestManageBlockStackLoopContinueKeepsBlock(t *testing.T) {
	f := newTestFrame()
	f.PushBlock(BlockLoop, 50, 0)
	sig := &fakeSignals{ret: object.MakeInt(7)}
	why := ManageBlockStack(f, WhyContinue, sig)
	if why != WhyNone {
		t.Fatalf("why = %v, want none", why)
	}
	if !f.HasBlocks() {
		t.Error("loop block must remain on continue")
	}
	if f.IP != 7 {
		t.Errorf("IP = %d, want 7 (jump target from ReturnValue)", f.IP)
	}
}

func TestManageBlockStackSetupExceptOnException(t *testing.T) {
	f := newTestFrame()
	f.PushBlock(BlockSetupExcept, 99, 0)
	exc := &object.Exception{Message: "boom"}
	sig := &fakeSignals{lastExc: exc}

	why := ManageBlockStack(f, WhyException, sig)
	if why != WhyNone {
		t.Fatalf("why = %v, want none", why)
	}
	if f.IP != 99 {
		t.Errorf("IP = %d, want 99", f.IP)
	}
	if sig.CurrentException() != exc {
		t.Error("pending exception should become current")
	}
	if sig.LastException() != nil {
		t.Error("last exception should be cleared")
	}
	top := f.TopBlock()
	if top.Type != BlockExceptHandler {
		t.Errorf("top block type = %v, want except-handler", top.Type)
	}
}

func TestManageBlockStackExceptHandlerRestoresPrevious(t *testing.T) {
	f := newTestFrame()
	prev := &object.Exception{Message: "previous"}
	f.PushBlock(BlockExceptHandler, -1, 0)
	f.Push(prev)
	sig := &fakeSignals{}

	why := ManageBlockStack(f, WhyReturn, sig)
	if why != WhyReturn {
		t.Fatalf("why = %v, want return (passthrough)", why)
	}
	if sig.CurrentException() != prev {
		t.Error("current exception should be restored to the prior one")
	}
	if f.Depth() != 0 {
		t.Errorf("depth = %d, want 0 after popping the triple", f.Depth())
	}
}

func TestManageBlockStackFinallyOnReturnPushesMarker(t *testing.T) {
	f := newTestFrame()
	f.PushBlock(BlockFinally, 77, 0)
	sig := &fakeSignals{ret: object.MakeInt(5)}

	why := ManageBlockStack(f, WhyReturn, sig)
	if why != WhyNone {
		t.Fatalf("why = %v, want none", why)
	}
	if f.IP != 77 {
		t.Errorf("IP = %d, want 77", f.IP)
	}
	if f.Depth() != 2 {
		t.Fatalf("depth = %d, want 2 (value + marker)", f.Depth())
	}
	marker, ok := f.Top().(*object.String)
	if !ok || marker.Value != "return" {
		t.Errorf("top marker = %v, want \"return\"", f.Top())
	}
}
