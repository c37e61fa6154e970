package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shardpy/pybc/internal/object"
)

// applyFormatSpec implements a subset of PEP 3101 format specs for
// FORMAT_VALUE: [[fill]align][width][.precision][type]. It covers
// numeric presentation types (d, f/F, x/X, o, b, %) plus plain string
// formatting with fill/align/width; a sign option and ',' grouping are
// not recognized, and nested replacement fields are not supported.
func applyFormatSpec(fallback string, v object.Value, spec string) (string, error) {
	align := byte(0)
	fill := byte(' ')
	i := 0
	if len(spec) >= 2 && strings.ContainsRune("<>^=", rune(spec[1])) {
		fill = spec[0]
		align = spec[1]
		i = 2
	} else if len(spec) >= 1 && strings.ContainsRune("<>^=", rune(spec[0])) {
		align = spec[0]
		i = 1
	}

	rest := spec[i:]
	width := 0
	widthStr := ""
	for len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9' {
		widthStr += string(rest[0])
		rest = rest[1:]
	}
	if widthStr != "" {
		width, _ = strconv.Atoi(widthStr)
	}

	precision := -1
	if len(rest) > 0 && rest[0] == '.' {
		rest = rest[1:]
		precStr := ""
		for len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9' {
			precStr += string(rest[0])
			rest = rest[1:]
		}
		precision, _ = strconv.Atoi(precStr)
	}

	kind := byte(0)
	if len(rest) > 0 {
		kind = rest[0]
	}

	text, err := formatByKind(v, kind, precision)
	if err != nil {
		return "", err
	}
	if width > len(text) {
		pad := strings.Repeat(string(fill), width-len(text))
		switch align {
		case '<':
			text = text + pad
		case '^':
			left := (width - len(text)) / 2
			text = strings.Repeat(string(fill), left) + text + strings.Repeat(string(fill), width-len(text)-left)
		default: // '>' and '=' both right-align here; '=' sign-aware padding is not distinguished.
			text = pad + text
		}
	}
	return text, nil
}

func formatByKind(v object.Value, kind byte, precision int) (string, error) {
	switch kind {
	case 0, 's':
		return object.Str(v), nil
	case 'd':
		i, ok := v.(*object.Int)
		if !ok {
			return "", fmt.Errorf("unknown format code 'd' for object of type '%s'", object.TypeName(v))
		}
		return strconv.FormatInt(i.Value, 10), nil
	case 'x', 'X':
		i, ok := v.(*object.Int)
		if !ok {
			return "", fmt.Errorf("unknown format code '%c' for object of type '%s'", kind, object.TypeName(v))
		}
		s := strconv.FormatInt(i.Value, 16)
		if kind == 'X' {
			s = strings.ToUpper(s)
		}
		return s, nil
	case 'o':
		i, ok := v.(*object.Int)
		if !ok {
			return "", fmt.Errorf("unknown format code 'o' for object of type '%s'", object.TypeName(v))
		}
		return strconv.FormatInt(i.Value, 8), nil
	case 'b':
		i, ok := v.(*object.Int)
		if !ok {
			return "", fmt.Errorf("unknown format code 'b' for object of type '%s'", object.TypeName(v))
		}
		return strconv.FormatInt(i.Value, 2), nil
	case 'f', 'F':
		if precision < 0 {
			precision = 6
		}
		flt, ok := asFloat(v)
		if !ok {
			return "", fmt.Errorf("unknown format code '%c' for object of type '%s'", kind, object.TypeName(v))
		}
		return strconv.FormatFloat(flt, 'f', precision, 64), nil
	case '%':
		if precision < 0 {
			precision = 6
		}
		flt, ok := asFloat(v)
		if !ok {
			return "", fmt.Errorf("unknown format code '%%' for object of type '%s'", object.TypeName(v))
		}
		return strconv.FormatFloat(flt*100, 'f', precision, 64) + "%", nil
	}
	return object.Str(v), nil
}

func asFloat(v object.Value) (float64, bool) {
	switch n := v.(type) {
	case *object.Float:
		return n.Value, true
	case *object.Int:
		return float64(n.Value), true
	}
	return 0, false
}
