// Package trace is the settrace-shaped tracing shim: a global hook an
// embedder installs on an Evaluator, fired on "call" for every frame it
// creates, mirroring Python's sys.settrace handoff where the value a
// global trace function returns becomes that frame's own per-line
// tracer for the rest of its life.
package trace

import (
	"github.com/google/uuid"

	"github.com/shardpy/pybc/internal/eval"
	"github.com/shardpy/pybc/internal/frame"
	"github.com/shardpy/pybc/internal/object"
)

// Event names one of the moments a TraceFunc can be fired for.
type Event string

const (
	Call      Event = "call"
	Line      Event = "line"
	Opcode    Event = "opcode"
	Return    Event = "return"
	Exception Event = "exception"
)

// Record is one fired trace event.
type Record struct {
	Session  string
	Event    Event
	Line     int
	CodeName string
}

// Session ties every record from one run to a single id, so logs from
// concurrent Evaluators sharing an output sink (a log line, a trace
// file) stay distinguishable.
type Session struct {
	ID      string
	Records []Record
}

// NewSession starts a session under a fresh id.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Recorder builds the frame.TraceFunc that both answers a frame's
// initial "call" event and, returned from there, becomes that frame's
// own tracer for every later event — the same function serves both
// roles, same as the trampoline a global settrace callback installs
// per frame.
func (s *Session) Recorder() frame.TraceFunc {
	var self frame.TraceFunc
	self = func(f *frame.Frame, event string, arg object.Value) (frame.TraceFunc, error) {
		s.Records = append(s.Records, Record{
			Session:  s.ID,
			Event:    Event(event),
			Line:     f.Line(),
			CodeName: f.Code.Name,
		})
		switch Event(event) {
		case Return, Exception:
			return nil, nil
		default:
			return self, nil
		}
	}
	return self
}

// Attach installs s's recorder as ev's global call hook. Frames created
// after this point pick it up; frames already running keep whatever
// tracer (or lack of one) they started with.
func Attach(ev *eval.Evaluator, s *Session) {
	ev.GlobalTrace = s.Recorder()
}

// Detach clears ev's global call hook. Existing frames keep tracing
// until they return, same as calling sys.settrace(None) mid-run.
func Detach(ev *eval.Evaluator) {
	ev.GlobalTrace = nil
}
