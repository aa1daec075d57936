package boxscore

import (
	"math"
	"strconv"
)

// Value is a nullable numeric cell. A Value that is not Valid is missing,
// which is distinct from a stored zero.
type Value struct {
	Float float64
	Valid bool
}

// Null is the missing marker.
var Null = Value{}

// Of wraps f as a present value. NaN and infinities are treated as missing.
func Of(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null
	}
	return Value{Float: f, Valid: true}
}

// OrZero returns the float, or 0 when missing.
func (v Value) OrZero() float64 {
	if !v.Valid {
		return 0
	}
	return v.Float
}

// String renders the value for CSV output; missing renders as empty.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// MarshalJSON encodes missing values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.Float, 'f', -1, 64), nil
}

// Floats wraps a plain float slice as present values.
func Floats(in ...float64) []Value {
	out := make([]Value, len(in))
	for i, f := range in {
		out[i] = Of(f)
	}
	return out
}
