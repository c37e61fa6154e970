package object

import "math"

// Hash computes a stable hash for a value usable as a Dict/Set key.
// Only types satisfying IsHashable should be passed in.
func Hash(v Value) uint64 {
	switch val := v.(type) {
	case NoneType:
		return 0x9e3779b97f4a7c15
	case *Bool:
		if val.Value {
			return 1
		}
		return 0
	case *Int:
		h := uint64(val.Value)
		h ^= h >> 33
		h *= 0xff51afd7ed558ccd
		h ^= h >> 33
		h *= 0xc4ceb9fe1a85ec53
		h ^= h >> 33
		return h
	case *Float:
		bits := math.Float64bits(val.Value)
		h := bits
		h ^= h >> 33
		h *= 0xff51afd7ed558ccd
		h ^= h >> 33
		return h
	case *String:
		return fnv1a(val.Value)
	case *Bytes:
		return fnv1a(string(val.Value))
	case *Tuple:
		h := uint64(0xcbf29ce484222325)
		for _, item := range val.Items {
			h ^= Hash(item)
			h *= 0x100000001b3
		}
		return h
	default:
		return identityHash(v)
	}
}

func fnv1a(s string) uint64 {
	h := uint64(0xcbf29ce484222325)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 0x100000001b3
	}
	return h
}

// IsHashable reports whether v may be used as a dict key / set member.
// Mutable containers are not hashable, matching the host's semantics.
func IsHashable(v Value) bool {
	switch v.(type) {
	case *List, *Dict, *Set:
		return false
	default:
		return true
	}
}

// Equal implements the value-equality the evaluator's COMPARE_OP "=="
// family and container lookups need. It deliberately does not consult
// user-defined __eq__ — that dispatch belongs to the opcode handler,
// which owns the class/instance protocol.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NoneType:
		_, ok := b.(NoneType)
		return ok
	case *Bool:
		bv, ok := b.(*Bool)
		return ok && av.Value == bv.Value
	case *Int:
		switch bv := b.(type) {
		case *Int:
			return av.Value == bv.Value
		case *Float:
			return float64(av.Value) == bv.Value
		}
		return false
	case *Float:
		switch bv := b.(type) {
		case *Float:
			return av.Value == bv.Value
		case *Int:
			return av.Value == float64(bv.Value)
		}
		return false
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Bytes:
		bv, ok := b.(*Bytes)
		return ok && string(av.Value) == string(bv.Value)
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	default:
		return identityEqual(a, b)
	}
}

// Truthy implements Python's notion of "bool(v)".
func Truthy(v Value) bool {
	switch val := v.(type) {
	case NoneType:
		return false
	case *Bool:
		return val.Value
	case *Int:
		return val.Value != 0
	case *Float:
		return val.Value != 0
	case *String:
		return len(val.Value) > 0
	case *Bytes:
		return len(val.Value) > 0
	case *List:
		return len(val.Items) > 0
	case *Tuple:
		return len(val.Items) > 0
	case *Dict:
		return val.Len() > 0
	case *Set:
		return val.Len() > 0
	case *Range:
		return val.Len() > 0
	default:
		return true
	}
}

// Str renders v the way str(v) would, for built-ins and PRINT/FORMAT_VALUE.
func Str(v Value) string {
	if o, ok := v.(Object); ok {
		return o.String()
	}
	return "?"
}

// TypeName reports the Python type name of v, as type(v).__name__ would.
func TypeName(v Value) string {
	if o, ok := v.(Object); ok {
		return o.Type()
	}
	return "object"
}
