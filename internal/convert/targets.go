package convert

import (
	"math"

	"github.com/funvibe/interop/internal/config"
	"github.com/funvibe/interop/internal/foreign"
)

// I1 coerces to a one-bit boolean: zero is false, anything else is true.
// NaN compares unequal to zero and therefore yields true.
var I1 = &Table[bool]{
	Name:        config.TargetI1,
	Description: "boolean",
	FromInt:     func(v int64) bool { return v != 0 },
	FromFloat:   func(v float64) bool { return v != 0 },
	FromBool:    func(v bool) bool { return v },
	FromChar:    func(r rune) bool { return r != 0 },
	Probe:       func(iop foreign.Interop, obj any) bool { return iop.IsBoolean(obj) },
	Read:        func(iop foreign.Interop, obj any) (bool, error) { return iop.AsBoolean(obj) },
}

var I8 = intTable[int8](config.TargetI8, "i8")
var I16 = intTable[int16](config.TargetI16, "i16")
var I32 = intTable[int32](config.TargetI32, "i32")
var I64 = intTable[int64](config.TargetI64, "i64")

var Float = &Table[float32]{
	Name:        config.TargetFloat,
	Description: "float",
	FromInt:     func(v int64) float32 { return float32(v) },
	FromFloat:   func(v float64) float32 { return float32(v) },
	FromBool:    func(v bool) float32 { return float32(bit(v)) },
	FromChar:    func(r rune) float32 { return float32(r) },
	Probe:       func(iop foreign.Interop, obj any) bool { return iop.IsNumber(obj) },
	Read: func(iop foreign.Interop, obj any) (float32, error) {
		f, err := iop.AsFloat64(obj)
		return float32(f), err
	},
}

var Double = &Table[float64]{
	Name:        config.TargetDouble,
	Description: "double",
	FromInt:     func(v int64) float64 { return float64(v) },
	FromFloat:   func(v float64) float64 { return v },
	FromBool:    func(v bool) float64 { return float64(bit(v)) },
	FromChar:    func(r rune) float64 { return float64(r) },
	Probe:       func(iop foreign.Interop, obj any) bool { return iop.IsNumber(obj) },
	Read:        func(iop foreign.Interop, obj any) (float64, error) { return iop.AsFloat64(obj) },
}

type signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// intTable narrows with two's-complement truncation. Floats are truncated
// toward zero and saturated first; NaN becomes zero.
func intTable[T signed](name, desc string) *Table[T] {
	return &Table[T]{
		Name:        name,
		Description: desc,
		FromInt:     func(v int64) T { return T(v) },
		FromFloat:   func(v float64) T { return T(truncate(v, bitsOf[T]())) },
		FromBool:    func(v bool) T { return T(bit(v)) },
		FromChar:    func(r rune) T { return T(r) },
		Probe:       func(iop foreign.Interop, obj any) bool { return iop.IsNumber(obj) },
		Read: func(iop foreign.Interop, obj any) (T, error) {
			if n, err := iop.AsInt64(obj); err == nil {
				return T(n), nil
			}
			f, err := iop.AsFloat64(obj)
			if err != nil {
				return 0, err
			}
			return T(truncate(f, bitsOf[T]())), nil
		},
	}
}

func bitsOf[T signed]() int {
	var zero T
	switch any(zero).(type) {
	case int64:
		return 64
	}
	return 32
}

// truncate converts f to an integer of the given width (32 or 64),
// saturating at the bounds. Narrower targets go through 32 bits.
func truncate(f float64, bits int) int64 {
	if math.IsNaN(f) {
		return 0
	}
	if bits == 64 {
		switch {
		case f >= math.MaxInt64:
			return math.MaxInt64
		case f <= math.MinInt64:
			return math.MinInt64
		}
		return int64(f)
	}
	switch {
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int64(f)
}

func bit(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
