package interop

import (
	"reflect"

	"github.com/funvibe/interop/internal/foreign"
	"github.com/funvibe/interop/internal/value"
)

// Char marks a Go rune as a character rather than an int32.
type Char rune

// Marshaller converts Go values to Boundary Values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to a Boundary Value.
// Values without a direct representation cross as foreign handles.
func (m *Marshaller) ToValue(val interface{}) value.Value {
	switch v := val.(type) {
	case nil:
		return value.ForeignVal(&foreign.HostObject{})
	case value.Value:
		return v
	case Char:
		return value.CharVal(rune(v))
	case *foreign.HostObject:
		return value.ForeignVal(v)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int8:
		return value.Int8Val(int8(v.Int()))
	case reflect.Int16:
		return value.Int16Val(int16(v.Int()))
	case reflect.Int32:
		return value.Int32Val(int32(v.Int()))
	case reflect.Int, reflect.Int64:
		return value.Int64Val(v.Int())
	// Unsigned values widen to the next signed width; 64-bit ones keep their bits.
	case reflect.Uint8:
		return value.Int16Val(int16(v.Uint()))
	case reflect.Uint16:
		return value.Int32Val(int32(v.Uint()))
	case reflect.Uint32:
		return value.Int64Val(int64(v.Uint()))
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return value.Int64Val(int64(v.Uint()))
	case reflect.Float32:
		return value.Float32Val(float32(v.Float()))
	case reflect.Float64:
		return value.Float64Val(v.Float())
	case reflect.Bool:
		return value.BoolVal(v.Bool())
	case reflect.String:
		return value.TextVal(v.String())
	default:
		// Pointers, structs, maps, funcs: opaque reference
		return value.ForeignVal(&foreign.HostObject{Value: val})
	}
}
