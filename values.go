package verdict

import "reflect"

// valuesEqual compares two values structurally. Numeric values compare
// by magnitude across integer and float widths, so 2, int64(2), and 2.0
// are equal. Everything else falls back to reflect.DeepEqual.
func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// toFloat converts any built-in numeric value to float64.
// Booleans and strings are not numeric.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// isEmptyValue reports whether a value coerces to zero for deviation
// arithmetic: nil and the empty string do, nothing else.
func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// coerceNumeric returns the numeric magnitude of a value for deviation
// arithmetic. nil and "" coerce to 0.
func coerceNumeric(v any) (float64, bool) {
	if isEmptyValue(v) {
		return 0, true
	}
	return toFloat(v)
}
