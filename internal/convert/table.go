// Package convert coerces Boundary Values to fixed-width native representations.
//
// Every target is described by a Table of direct rules, one per input kind.
// A Node dispatches a call site's inputs through a bounded, ordered cache of
// rules learned from the kinds the site has seen; once the cache is full,
// unseen kinds take the uncached Generic path.
package convert

import (
	"github.com/funvibe/interop/internal/foreign"
	"github.com/funvibe/interop/internal/text"
	"github.com/funvibe/interop/internal/value"
)

// Rule converts a value of exactly one kind.
type Rule[T any] func(v value.Value) (T, error)

// Table is the direct rule table of one target representation.
type Table[T any] struct {
	// Name identifies the coercion in errors and logs (e.g. "i1").
	Name string
	// Description is the target as it appears in messages (e.g. "boolean").
	Description string

	FromInt   func(int64) T
	FromFloat func(float64) T
	FromBool  func(bool) T
	FromChar  func(rune) T

	// Probe reports whether an unwrapped foreign object exposes the capability
	// Read relies on. It must not fail.
	Probe func(iop foreign.Interop, obj any) bool
	// Read converts an unwrapped foreign object.
	Read func(iop foreign.Interop, obj any) (T, error)
}

// Rule returns the direct rule for kind. Foreign and Invalid have no direct
// rule: foreign handles need the capabilities witnessed by a cache entry.
func (t *Table[T]) Rule(kind value.Kind) Rule[T] {
	switch {
	case kind.IsInteger():
		return func(v value.Value) (T, error) { return t.FromInt(v.AsInt64()), nil }
	case kind.IsFloat():
		return func(v value.Value) (T, error) { return t.FromFloat(v.AsFloat64()), nil }
	}
	switch kind {
	case value.Bool:
		return func(v value.Value) (T, error) { return t.FromBool(v.AsBool()), nil }
	case value.Char:
		return func(v value.Value) (T, error) { return t.FromChar(v.AsChar()), nil }
	case value.Text:
		return t.fromText
	}
	return nil
}

func (t *Table[T]) fromText(v value.Value) (T, error) {
	r, err := text.SingleCharacterOf(v.AsText())
	if err != nil {
		var zero T
		return zero, t.malformed(v, err)
	}
	return t.FromChar(r), nil
}

// readForeign reads obj through iop, reporting a missing capability.
func (t *Table[T]) readForeign(v value.Value, iop foreign.Interop, obj any) (T, error) {
	res, err := t.Read(iop, obj)
	if err != nil {
		var zero T
		return zero, t.unsupported(v, err)
	}
	return res, nil
}

// Generic converts v without any memoization. Integers are widened to int64
// and floats to float64 so one rule covers every width; anything that is not
// a number, boolean, character or text is treated as foreign.
func (t *Table[T]) Generic(v value.Value) (T, error) {
	k := v.Kind()
	switch {
	case k.IsInteger():
		return t.FromInt(v.AsInt64()), nil
	case k.IsFloat():
		return t.FromFloat(v.AsFloat64()), nil
	case k == value.Bool:
		return t.FromBool(v.AsBool()), nil
	case k == value.Char:
		return t.FromChar(v.AsChar()), nil
	case k == value.Text:
		return t.fromText(v)
	}

	handle := v.AsForeign()
	lib, iop := foreign.Resolve(handle)
	obj, err := lib.AsForeign(handle)
	if err != nil {
		var zero T
		return zero, t.unsupported(v, err)
	}
	return t.readForeign(v, iop, obj)
}
