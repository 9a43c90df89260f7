package codec

import "math"

type valueKind uint8

const (
	kindInt valueKind = iota + 1
	kindUint
	kindFloat
	kindString
)

// Value is a typed column value handed to the encoder. The encoder consumes
// one Value per column, in column order, and narrows it to the column's wire
// width on store. A Value whose kind is incompatible with the column's type
// code is rejected with an invalid-value error.
type Value struct {
	kind valueKind
	bits uint64
	str  string
}

// Int wraps a signed integer value for any of the integer column types.
func Int(v int64) Value {
	return Value{kind: kindInt, bits: uint64(v)}
}

// Uint wraps an unsigned integer value for any of the integer column types.
func Uint(v uint64) Value {
	return Value{kind: kindUint, bits: v}
}

// Float32 wraps a single-precision float. It is carried at double width and
// narrowed back when stored into an 'f' column.
func Float32(v float32) Value {
	return Float64(float64(v))
}

// Float64 wraps a double-precision float for 'f' and 'd' columns.
func Float64(v float64) Value {
	return Value{kind: kindFloat, bits: math.Float64bits(v)}
}

// Str wraps a string value for the fixed-width string column types.
func Str(s string) Value {
	return Value{kind: kindString, str: s}
}

func (v Value) isInteger() bool {
	return v.kind == kindInt || v.kind == kindUint
}

func (v Value) float() float64 {
	return math.Float64frombits(v.bits)
}
