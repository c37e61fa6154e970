package object

import "fmt"

// Exception is a raised exception instance, carrying enough of
// traceback/cause/context to support chained exceptions and bare
// "raise" re-raise semantics.
type Exception struct {
	ExcType   *Class
	Args      *Tuple
	Message   string
	Cause     *Exception
	Context   *Exception
	Traceback []TracebackEntry
}

func (e *Exception) Type() string {
	if e.ExcType != nil {
		return e.ExcType.Name
	}
	return "Exception"
}
func (e *Exception) String() string { return e.Message }
func (e *Exception) Error() string  { return e.Message }

// TracebackEntry names one frame in a raised exception's traceback.
type TracebackEntry struct {
	Filename string
	Line     int
	Function string
}

// NewException builds an exception of the named builtin type with a
// printf-style message, for use by opcode handlers and argument binding
// that need to raise without going through user-level `raise`.
func NewException(cls *Class, format string, args ...any) *Exception {
	msg := fmt.Sprintf(format, args...)
	return &Exception{
		ExcType: cls,
		Args:    &Tuple{Items: []Value{&String{Value: msg}}},
		Message: msg,
	}
}

// IsInstanceOf reports whether e's type is cls or a subclass of it —
// the predicate COMPARE_OP's exception-match relation needs.
func (e *Exception) IsInstanceOf(cls *Class) bool {
	if e.ExcType == nil || cls == nil {
		return false
	}
	return e.ExcType.IsSubclass(cls)
}
