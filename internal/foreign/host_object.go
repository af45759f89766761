package foreign

import (
	"fmt"
	"reflect"
)

// HostObject wraps a Go interface{} so it can cross the boundary as an
// opaque foreign handle. Its capabilities are discovered by reflection.
type HostObject struct {
	Value interface{}
}

func (h *HostObject) String() string {
	if h == nil {
		return "<HostObject: nil>"
	}
	return fmt.Sprintf("<HostObject: %T>", h.Value)
}

// Unwrap returns the wrapped Go value, dereferencing interfaces.
func (h *HostObject) Unwrap() interface{} {
	if h == nil || h.Value == nil {
		return nil
	}
	val := reflect.ValueOf(h.Value)
	if val.Kind() == reflect.Interface {
		val = val.Elem()
	}
	if !val.IsValid() {
		return nil
	}
	return val.Interface()
}
