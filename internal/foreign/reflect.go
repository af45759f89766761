package foreign

import (
	"fmt"
	"math"
	"reflect"
)

// Booler is implemented by host objects with an infallible truth value.
type Booler interface {
	Bool() bool
}

// BooleanObject is implemented by host objects that decide their boolean
// capability themselves. AsBoolean is only meaningful when IsBoolean is true.
type BooleanObject interface {
	IsBoolean() bool
	AsBoolean() (bool, error)
}

// Reflect discovers capabilities of plain Go values by reflection.
type Reflect struct{}

func indirect(obj any) reflect.Value {
	val := reflect.ValueOf(obj)
	for val.Kind() == reflect.Interface || val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return reflect.Value{}
		}
		val = val.Elem()
	}
	return val
}

// isNil reports a nil pointer or interface hidden behind a non-nil any.
func isNil(obj any) bool {
	val := reflect.ValueOf(obj)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface:
		return val.IsNil()
	}
	return !val.IsValid()
}

func (Reflect) IsBoolean(obj any) bool {
	if isNil(obj) {
		return false
	}
	switch o := obj.(type) {
	case BooleanObject:
		return o.IsBoolean()
	case Booler:
		return true
	}
	return indirect(obj).Kind() == reflect.Bool
}

func (r Reflect) AsBoolean(obj any) (bool, error) {
	if isNil(obj) {
		return false, unsupported("asBoolean", obj)
	}
	switch o := obj.(type) {
	case BooleanObject:
		if !o.IsBoolean() {
			return false, unsupported("asBoolean", obj)
		}
		return o.AsBoolean()
	case Booler:
		return o.Bool(), nil
	}
	val := indirect(obj)
	if val.Kind() != reflect.Bool {
		return false, unsupported("asBoolean", obj)
	}
	return val.Bool(), nil
}

func (Reflect) IsNumber(obj any) bool {
	switch indirect(obj).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// AsInt64 succeeds for integers that fit and for integral floats.
func (Reflect) AsInt64(obj any) (int64, error) {
	val := indirect(obj)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := val.Uint()
		if u > math.MaxInt64 {
			return 0, unsupported("asLong", obj)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := val.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, unsupported("asLong", obj)
		}
		return int64(f), nil
	}
	return 0, unsupported("asLong", obj)
}

func (Reflect) AsFloat64(obj any) (float64, error) {
	val := indirect(obj)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(val.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(val.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return val.Float(), nil
	}
	return 0, unsupported("asDouble", obj)
}

func (Reflect) IsString(obj any) bool {
	return indirect(obj).Kind() == reflect.String
}

func (Reflect) AsString(obj any) (string, error) {
	val := indirect(obj)
	if val.Kind() != reflect.String {
		return "", unsupported("asString", obj)
	}
	return val.String(), nil
}

func unsupported(message string, obj any) error {
	return fmt.Errorf("%w: %s on %T", ErrUnsupportedMessage, message, obj)
}
