package object

import "reflect"

// ptr returns the address backing v, used for identity hashing/equality
// of reference types (classes, instances, functions, cells, ...).
func ptr(v Value) uintptr {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return 0
	}
	return rv.Pointer()
}

func identityHash(v Value) uint64 { return uint64(ptr(v)) }

func identityEqual(a, b Value) bool {
	return ptr(a) != 0 && ptr(a) == ptr(b)
}

// Is implements the "is" operator: identity for reference types, value
// equality for the singletons None/True/False and interned small ints.
func Is(a, b Value) bool {
	switch a.(type) {
	case NoneType:
		_, ok := b.(NoneType)
		return ok
	}
	if ap, ok := a.(*Bool); ok {
		if bp, ok := b.(*Bool); ok {
			return ap == bp
		}
		return false
	}
	return ptr(a) == ptr(b) && ptr(a) != 0
}
