// Package value defines the Boundary Value: the untyped input that crosses
// from a foreign execution context into the engine.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Invalid Kind = iota
	Int8
	Int16
	Int32
	Int64
	Char
	Bool
	Float32
	Float64
	Text
	Foreign
)

var kindNames = [...]string{
	Invalid: "invalid",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Char:    "char",
	Bool:    "bool",
	Float32: "float32",
	Float64: "float64",
	Text:    "text",
	Foreign: "foreign",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s && Kind(k) != Invalid {
			return Kind(k), nil
		}
	}
	return Invalid, fmt.Errorf("unknown value kind %q", s)
}

func (k Kind) IsInteger() bool { return k >= Int8 && k <= Int64 }
func (k Kind) IsFloat() bool   { return k == Float32 || k == Float64 }
func (k Kind) IsNumber() bool  { return k.IsInteger() || k.IsFloat() }

// Value is an immutable tagged union.
// Scalars live in Data (int64 bits, float64 bits, bool as 0/1, code point);
// Text and Foreign use their own fields so no boxing is needed for scalars.
type Value struct {
	kind Kind
	data uint64
	str  string
	obj  any
}

// Constructors

func Int8Val(v int8) Value   { return Value{kind: Int8, data: uint64(int64(v))} }
func Int16Val(v int16) Value { return Value{kind: Int16, data: uint64(int64(v))} }
func Int32Val(v int32) Value { return Value{kind: Int32, data: uint64(int64(v))} }
func Int64Val(v int64) Value { return Value{kind: Int64, data: uint64(v)} }

// CharVal holds a single code point.
func CharVal(r rune) Value { return Value{kind: Char, data: uint64(uint32(r))} }

func BoolVal(v bool) Value {
	var data uint64
	if v {
		data = 1
	}
	return Value{kind: Bool, data: data}
}

// Float32Val widens v to float64; the conversion is exact so NaN and -0.0 survive.
func Float32Val(v float32) Value { return Value{kind: Float32, data: math.Float64bits(float64(v))} }
func Float64Val(v float64) Value { return Value{kind: Float64, data: math.Float64bits(v)} }

func TextVal(s string) Value { return Value{kind: Text, str: s} }

// ForeignVal wraps an opaque handle owned by another execution context.
func ForeignVal(handle any) Value { return Value{kind: Foreign, obj: handle} }

// IntVal builds a signed integer of the given bit width, truncating v.
func IntVal(width int, v int64) (Value, error) {
	switch width {
	case 8:
		return Int8Val(int8(v)), nil
	case 16:
		return Int16Val(int16(v)), nil
	case 32:
		return Int32Val(int32(v)), nil
	case 64:
		return Int64Val(v), nil
	}
	return Value{}, fmt.Errorf("unsupported integer width %d", width)
}

// FloatVal builds a floating point value of the given bit width.
func FloatVal(width int, v float64) (Value, error) {
	switch width {
	case 32:
		return Float32Val(float32(v)), nil
	case 64:
		return Float64Val(v), nil
	}
	return Value{}, fmt.Errorf("unsupported float width %d", width)
}

// Accessors

func (v Value) Kind() Kind { return v.kind }

// AsInt64 returns the sign-extended integer payload.
func (v Value) AsInt64() int64 { return int64(v.data) }

func (v Value) AsFloat64() float64 { return math.Float64frombits(v.data) }

func (v Value) AsBool() bool { return v.data == 1 }

func (v Value) AsChar() rune { return rune(uint32(v.data)) }

func (v Value) AsText() string { return v.str }

func (v Value) AsForeign() any { return v.obj }

// Width returns the bit width of numeric kinds and 0 for everything else.
func (v Value) Width() int {
	switch v.kind {
	case Int8:
		return 8
	case Int16:
		return 16
	case Int32, Char, Float32:
		return 32
	case Int64, Float64:
		return 64
	case Bool:
		return 1
	}
	return 0
}

func (v Value) IsValid() bool { return v.kind != Invalid }

// Inspect returns string representation
func (v Value) Inspect() string {
	switch v.kind {
	case Int8, Int16, Int32, Int64:
		return fmt.Sprintf("%s(%d)", v.kind, v.AsInt64())
	case Char:
		return fmt.Sprintf("char(%q)", v.AsChar())
	case Bool:
		return strconv.FormatBool(v.AsBool())
	case Float32:
		return fmt.Sprintf("float32(%g)", v.AsFloat64())
	case Float64:
		return fmt.Sprintf("float64(%g)", v.AsFloat64())
	case Text:
		return strconv.Quote(v.str)
	case Foreign:
		if s, ok := v.obj.(fmt.Stringer); ok {
			return "foreign(" + s.String() + ")"
		}
		return fmt.Sprintf("foreign(%T)", v.obj)
	default:
		return "<invalid>"
	}
}

func (v Value) String() string { return v.Inspect() }
