package table

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Value is a single cell of a Record. A Value is either present or
// missing; a missing value is distinct from zero, and downstream
// consumers rely on that distinction.
type Value struct {
	raw any
	ok  bool
}

// Missing returns the missing value.
func Missing() Value {
	return Value{}
}

// Some wraps a decoded JSON value as a cell. nil maps to the missing
// value; everything else is carried as-is.
func Some(v any) Value {
	if v == nil {
		return Value{}
	}
	return Value{raw: v, ok: true}
}

// Float wraps a float64 as a present cell.
func Float(f float64) Value {
	return Value{raw: f, ok: true}
}

// String wraps a string as a present cell.
func String(s string) Value {
	return Value{raw: s, ok: true}
}

// IsMissing reports whether the cell holds no value.
func (v Value) IsMissing() bool {
	return !v.ok
}

// Any returns the underlying value, or nil when missing.
func (v Value) Any() any {
	if !v.ok {
		return nil
	}
	return v.raw
}

// Float returns the cell as a float64. The second return is false when
// the cell is missing or not numeric.
func (v Value) Float() (float64, bool) {
	if !v.ok {
		return 0, false
	}
	switch n := v.raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// String renders the cell for display. Missing cells render empty.
func (v Value) String() string {
	if !v.ok {
		return ""
	}
	switch s := v.raw.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// Equal reports whether two cells hold the same value, treating two
// missing cells as equal.
func (v Value) Equal(o Value) bool {
	if v.ok != o.ok {
		return false
	}
	if !v.ok {
		return true
	}
	return reflect.DeepEqual(v.raw, o.raw)
}
