package trace

import (
	"testing"

	"github.com/shardpy/pybc/internal/asm"
	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/eval"
)

func TestRecorderCapturesCallAndReturn(t *testing.T) {
	code, err := asm.Assemble(`
.version 3.8
.consts 1

LOAD_CONST 0
RETURN_VALUE
`)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	ev := eval.New(bytecode.Py38)
	sess := NewSession()
	Attach(ev, sess)

	if _, err := ev.RunModule(code); err != nil {
		t.Fatalf("RunModule: %v", err)
	}

	var sawCall, sawReturn bool
	for _, r := range sess.Records {
		if r.Session != sess.ID {
			t.Errorf("record session %q, want %q", r.Session, sess.ID)
		}
		switch r.Event {
		case Call:
			sawCall = true
		case Return:
			sawReturn = true
		}
	}
	if !sawCall || !sawReturn {
		t.Errorf("expected both call and return records, got %+v", sess.Records)
	}
}

func TestDetachStopsNewFrames(t *testing.T) {
	ev := eval.New(bytecode.Py38)
	sess := NewSession()
	Attach(ev, sess)
	Detach(ev)

	code, err := asm.Assemble(".version 3.8\n.consts 1\nLOAD_CONST 0\nRETURN_VALUE\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if _, err := ev.RunModule(code); err != nil {
		t.Fatalf("RunModule: %v", err)
	}
	if len(sess.Records) != 0 {
		t.Errorf("expected no records after Detach, got %d", len(sess.Records))
	}
}
