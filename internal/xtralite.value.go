package internal

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the closed set of value kinds an expression can produce
type Kind int

// Value kind constants
const (
	KindUndefined Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindObject
	KindSequence
)

// Value kind names
const (
	KindNameUndefined = "undefined"
	KindNameBoolean   = "boolean"
	KindNameNumber    = "number"
	KindNameString    = "string"
	KindNameObject    = "object"
	KindNameSequence  = "sequence"
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return KindNameBoolean
	case KindNumber:
		return KindNameNumber
	case KindString:
		return KindNameString
	case KindObject:
		return KindNameObject
	case KindSequence:
		return KindNameSequence
	default:
		return KindNameUndefined
	}
}

// Value is an immutable expression value. The zero Value is Undefined.
type Value struct {
	kind Kind
	b    bool
	n    decimal.Decimal
	s    string
	obj  any
	seq  []Value
}

// Undefined returns the undefined value
func Undefined() Value {
	return Value{}
}

// Bool returns a boolean value
func Bool(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

// Number returns a numeric value
func Number(n decimal.Decimal) Value {
	return Value{kind: KindNumber, n: n}
}

// NumberFromInt returns a numeric value from an integer
func NumberFromInt(i int64) Value {
	return Number(decimal.NewFromInt(i))
}

// NumberFromFloat returns a numeric value from a float
func NumberFromFloat(f float64) Value {
	return Number(decimal.NewFromFloat(f))
}

// ParseNumber parses a numeric literal
func ParseNumber(text string) (Value, error) {
	n, err := decimal.NewFromString(text)
	if err != nil {
		return Undefined(), err
	}
	return Number(n), nil
}

// String returns a string value
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Object wraps an arbitrary host value
func Object(obj any) Value {
	if obj == nil {
		return Undefined()
	}
	return Value{kind: KindObject, obj: obj}
}

// Sequence returns an ordered collection of values
func Sequence(items ...Value) Value {
	seq := make([]Value, len(items))
	copy(seq, items)
	return Value{kind: KindSequence, seq: seq}
}

// Kind returns the value kind
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether the value is undefined
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// AsBool returns the boolean payload and whether the value is a boolean
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBoolean }

// AsNumber returns the numeric payload and whether the value is a number
func (v Value) AsNumber() (decimal.Decimal, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string payload and whether the value is a string
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsObject returns the host payload and whether the value is an object
func (v Value) AsObject() (any, bool) { return v.obj, v.kind == KindObject }

// AsSequence returns a copy of the items and whether the value is a sequence
func (v Value) AsSequence() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	out := make([]Value, len(v.seq))
	copy(out, v.seq)
	return out, true
}

// Items returns the value as a list: a sequence's items, nothing for
// undefined, or the value itself.
func (v Value) Items() []Value {
	switch v.kind {
	case KindSequence:
		out, _ := v.AsSequence()
		return out
	case KindUndefined:
		return nil
	default:
		return []Value{v}
	}
}

// Truthy determines the truthiness of a value
// Truthiness rules:
// - undefined -> false
// - boolean -> value
// - number -> n != 0
// - string -> len(s) > 0
// - sequence -> len(items) > 0
// - object -> non-empty collections and non-nil pointers
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindNumber:
		return !v.n.IsZero()
	case KindString:
		return v.s != ""
	case KindSequence:
		return len(v.seq) > 0
	case KindObject:
		rv := reflect.ValueOf(v.obj)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return rv.Len() > 0
		case reflect.Ptr, reflect.Interface, reflect.Func:
			return !rv.IsNil()
		default:
			return true
		}
	default:
		return false
	}
}

// ToNumber converts the value to a number where a natural conversion exists
func (v Value) ToNumber() (decimal.Decimal, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindBoolean:
		if v.b {
			return decimal.NewFromInt(1), true
		}
		return decimal.Zero, true
	case KindString:
		n, err := decimal.NewFromString(strings.TrimSpace(v.s))
		if err != nil {
			return decimal.Zero, false
		}
		return n, true
	default:
		return decimal.Zero, false
	}
}

// String converts the value to its display string
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		if v.b {
			return StringValueTrue
		}
		return StringValueFalse
	case KindNumber:
		return v.n.String()
	case KindString:
		return v.s
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, item := range v.seq {
			parts[i] = item.String()
		}
		return strings.Join(parts, RenderListSep)
	case KindObject:
		if s, ok := v.obj.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprintf("%v", v.obj)
	default:
		return StringValueEmpty
	}
}

// Equal compares two values. Numbers compare numerically, sequences
// element-wise and objects by host equality where comparable.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindUndefined:
		return true
	case KindBoolean:
		return v.b == other.b
	case KindNumber:
		return v.n.Equal(other.n)
	case KindString:
		return v.s == other.s
	case KindSequence:
		if len(v.seq) != len(other.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(other.seq[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(v.obj, other.obj)
	}
}

// ToGo converts the value back to a plain Go value. Numbers become float64
// unless they are whole, in which case they become int64.
func (v Value) ToGo() any {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindNumber:
		if v.n.IsInteger() {
			return v.n.IntPart()
		}
		f, _ := v.n.Float64()
		return f
	case KindString:
		return v.s
	case KindObject:
		return v.obj
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.ToGo()
		}
		return out
	default:
		return nil
	}
}

// FromGo classifies a Go value into the closed kind set
func FromGo(x any) Value {
	if x == nil {
		return Undefined()
	}
	switch val := x.(type) {
	case Value:
		return val
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case int:
		return NumberFromInt(int64(val))
	case int8:
		return NumberFromInt(int64(val))
	case int16:
		return NumberFromInt(int64(val))
	case int32:
		return NumberFromInt(int64(val))
	case int64:
		return NumberFromInt(val)
	case uint:
		return Number(decimal.NewFromUint64(uint64(val)))
	case uint8:
		return NumberFromInt(int64(val))
	case uint16:
		return NumberFromInt(int64(val))
	case uint32:
		return NumberFromInt(int64(val))
	case uint64:
		return Number(decimal.NewFromUint64(val))
	case float32:
		return Number(decimal.NewFromFloat32(val))
	case float64:
		return NumberFromFloat(val)
	case decimal.Decimal:
		return Number(val)
	case *decimal.Decimal:
		if val == nil {
			return Undefined()
		}
		return Number(*val)
	case []any:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = FromGo(item)
		}
		return Value{kind: KindSequence, seq: items}
	case []string:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = String(item)
		}
		return Value{kind: KindSequence, seq: items}
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Undefined()
		}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Undefined()
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromGo(rv.Index(i).Interface())
		}
		return Value{kind: KindSequence, seq: items}
	}
	return Object(x)
}

// String value constants
const (
	StringValueEmpty = ""
	StringValueTrue  = "true"
	StringValueFalse = "false"
)
