package bytecode

import "testing"

func TestLineForOffsetWalksLnotab(t *testing.T) {
	co := &CodeObject{
		FirstLine: 1,
		// offset 0-1 -> line 1, offset 2-5 -> line 2, offset 6+ -> line 4
		Lnotab: []byte{2, 1, 4, 2},
	}
	cases := []struct {
		offset int
		line   int
	}{
		{0, 1}, {1, 1}, {2, 2}, {5, 2}, {6, 4}, {100, 4},
	}
	for _, c := range cases {
		if got := co.LineForOffset(c.offset); got != c.line {
			t.Errorf("LineForOffset(%d) = %d, want %d", c.offset, got, c.line)
		}
	}
}

func TestLineForOffsetNegativeIncrement(t *testing.T) {
	co := &CodeObject{
		FirstLine: 10,
		// line_incr byte 0xFE == -2
		Lnotab: []byte{4, 0xFE},
	}
	if got := co.LineForOffset(0); got != 10 {
		t.Errorf("line at offset 0 = %d, want 10", got)
	}
	if got := co.LineForOffset(4); got != 8 {
		t.Errorf("line at offset 4 = %d, want 8", got)
	}
}

func TestLineRangeBounds(t *testing.T) {
	co := &CodeObject{
		FirstLine: 1,
		Lnotab:    []byte{2, 1, 4, 2},
	}
	line, lb, ub := co.LineRange(3)
	if line != 2 || lb != 2 || ub != 5 {
		t.Errorf("LineRange(3) = (%d,%d,%d), want (2,2,5)", line, lb, ub)
	}
}

func TestFlagsSuspendable(t *testing.T) {
	if (FlagGenerator).Suspendable() != true {
		t.Error("generator flag should be suspendable")
	}
	if (FlagVarArgs).Suspendable() != false {
		t.Error("varargs flag alone should not be suspendable")
	}
}

func TestVersionWordcode(t *testing.T) {
	if Py35.Wordcode() {
		t.Error("3.5 should not be wordcode")
	}
	if !Py36.Wordcode() {
		t.Error("3.6 should be wordcode")
	}
	if Py35.ExtendedArgShift() != 16 {
		t.Errorf("3.5 EXTENDED_ARG shift = %d, want 16", Py35.ExtendedArgShift())
	}
	if Py38.ExtendedArgShift() != 8 {
		t.Errorf("3.8 EXTENDED_ARG shift = %d, want 8", Py38.ExtendedArgShift())
	}
}
