// Package foreign implements the capability probe for opaque foreign handles.
//
// A handle is examined in two steps. The Library answers whether a handle
// can be unwrapped to an underlying foreign object at all; the Interop
// answers which capabilities that object exposes. Every Is* query is total
// and never fails: a missing capability is a normal false answer. Only the
// As* reads fail, with ErrUnsupportedMessage, when invoked against an object
// that lacks the capability.
package foreign

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrUnsupportedMessage is returned by As* reads on objects that lack the capability.
var ErrUnsupportedMessage = errors.New("unsupported message")

// Library unwraps foreign handles.
type Library interface {
	IsForeign(handle any) bool
	AsForeign(handle any) (any, error)
}

// Interop queries capabilities of unwrapped foreign objects.
type Interop interface {
	IsBoolean(obj any) bool
	AsBoolean(obj any) (bool, error)
	IsNumber(obj any) bool
	AsInt64(obj any) (int64, error)
	AsFloat64(obj any) (float64, error)
	IsString(obj any) bool
	AsString(obj any) (string, error)
}

type binding struct {
	lib Library
	iop Interop
}

var (
	registryMu sync.RWMutex
	registry   = map[reflect.Type]binding{}
)

// Register installs the Library and Interop used for handles of type t.
// Registration affects call sites that have not yet witnessed t.
func Register(t reflect.Type, lib Library, iop Interop) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t] = binding{lib: lib, iop: iop}
}

// Unregister removes a binding installed by Register.
func Unregister(t reflect.Type) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, t)
}

// TypeOf returns the structural discriminator of a handle.
func TypeOf(handle any) reflect.Type {
	return reflect.TypeOf(handle)
}

// Resolve returns the Library and Interop responsible for handle.
func Resolve(handle any) (Library, Interop) {
	registryMu.RLock()
	b, ok := registry[reflect.TypeOf(handle)]
	registryMu.RUnlock()
	if ok {
		return b.lib, b.iop
	}
	return HostLibrary{}, Reflect{}
}

// Probe reports whether handle unwraps to an object exposing the boolean
// capability. It never fails.
func Probe(handle any) bool {
	lib, iop := Resolve(handle)
	if !lib.IsForeign(handle) {
		return false
	}
	obj, err := lib.AsForeign(handle)
	if err != nil {
		return false
	}
	return iop.IsBoolean(obj)
}

// HostLibrary treats *HostObject as the only foreign handle.
type HostLibrary struct{}

func (HostLibrary) IsForeign(handle any) bool {
	h, ok := handle.(*HostObject)
	return ok && h != nil
}

func (l HostLibrary) AsForeign(handle any) (any, error) {
	if !l.IsForeign(handle) {
		return nil, fmt.Errorf("%w: %T is not a foreign handle", ErrUnsupportedMessage, handle)
	}
	return handle.(*HostObject).Unwrap(), nil
}
