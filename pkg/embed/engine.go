// Package interop marshals Go arguments into native parameters through
// per-call-site coercion caches.
package interop

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/funvibe/interop/internal/config"
	"github.com/funvibe/interop/internal/convert"
	"github.com/funvibe/interop/internal/value"
)

var valueType = reflect.TypeOf(value.Value{})

// Engine binds Go functions and calls them with arguments coerced at their
// own call sites: parameter i of function f is the call site "f#argi".
type Engine struct {
	marshaller *Marshaller

	bools   *convert.Sites[bool]
	i8s     *convert.Sites[int8]
	i16s    *convert.Sites[int16]
	i32s    *convert.Sites[int32]
	i64s    *convert.Sites[int64]
	floats  *convert.Sites[float32]
	doubles *convert.Sites[float64]

	mu       sync.RWMutex
	bindings map[string]reflect.Value
}

// New creates an engine. cfg supplies per-target cache limits; opts apply to
// every call site (logger, observer).
func New(cfg *config.Config, opts ...convert.Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	with := func(target string) []convert.Option {
		return append([]convert.Option{convert.WithLimit(cfg.LimitFor(target))}, opts...)
	}
	return &Engine{
		marshaller: NewMarshaller(),
		bools:      convert.NewSites(convert.I1, with(config.TargetI1)...),
		i8s:        convert.NewSites(convert.I8, with(config.TargetI8)...),
		i16s:       convert.NewSites(convert.I16, with(config.TargetI16)...),
		i32s:       convert.NewSites(convert.I32, with(config.TargetI32)...),
		i64s:       convert.NewSites(convert.I64, with(config.TargetI64)...),
		floats:     convert.NewSites(convert.Float, with(config.TargetFloat)...),
		doubles:    convert.NewSites(convert.Double, with(config.TargetDouble)...),
		bindings:   make(map[string]reflect.Value),
	}
}

// Bind registers a Go function under name. Every parameter must be a bool,
// a signed integer, a float or value.Value; variadic functions are rejected.
func (e *Engine) Bind(name string, fn interface{}) error {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return fmt.Errorf("bind %s: expected a function, got %T", name, fn)
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return fmt.Errorf("bind %s: variadic functions are not supported", name)
	}
	for i := 0; i < ft.NumIn(); i++ {
		if !supported(ft.In(i)) {
			return fmt.Errorf("bind %s: parameter %d has unsupported type %s", name, i, ft.In(i))
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.bindings[name] = fv
	return nil
}

func supported(t reflect.Type) bool {
	if t == valueType {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Call invokes a bound function. A coercion failure aborts the call with an
// error wrapping the *convert.CoercionError; nothing is retried. A trailing
// non-nil error result is returned as the call's error.
func (e *Engine) Call(name string, args ...interface{}) ([]interface{}, error) {
	e.mu.RLock()
	fv, ok := e.bindings[name]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("function '%s' not found", name)
	}

	ft := fv.Type()
	if len(args) != ft.NumIn() {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", name, ft.NumIn(), len(args))
	}

	goArgs := make([]reflect.Value, len(args))
	for i, arg := range args {
		site := fmt.Sprintf("%s#arg%d", name, i)
		rv, err := e.coerce(site, e.marshaller.ToValue(arg), ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i, name, err)
		}
		goArgs[i] = rv
	}

	results := fv.Call(goArgs)
	out := make([]interface{}, 0, len(results))
	for i, res := range results {
		if i == len(results)-1 && ft.Out(i) == errorType {
			if !res.IsNil() {
				return out, res.Interface().(error)
			}
			break
		}
		out = append(out, res.Interface())
	}
	return out, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func (e *Engine) coerce(site string, v value.Value, t reflect.Type) (reflect.Value, error) {
	if t == valueType {
		return reflect.ValueOf(v), nil
	}

	var (
		res interface{}
		err error
	)
	switch t.Kind() {
	case reflect.Bool:
		res, err = e.bools.Get(site).Execute(v)
	case reflect.Int8:
		res, err = e.i8s.Get(site).Execute(v)
	case reflect.Int16:
		res, err = e.i16s.Get(site).Execute(v)
	case reflect.Int32:
		res, err = e.i32s.Get(site).Execute(v)
	case reflect.Int64, reflect.Int:
		res, err = e.i64s.Get(site).Execute(v)
	case reflect.Float32:
		res, err = e.floats.Get(site).Execute(v)
	case reflect.Float64:
		res, err = e.doubles.Get(site).Execute(v)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", t)
	}
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(res).Convert(t), nil
}

// CoerceBool coerces a Go value to a boolean at the named call site.
func (e *Engine) CoerceBool(site string, arg interface{}) (bool, error) {
	return e.bools.Get(site).Execute(e.marshaller.ToValue(arg))
}

// Snapshots returns the state of every call site the engine has created.
func (e *Engine) Snapshots() []convert.CacheState {
	var states []convert.CacheState
	states = append(states, e.bools.Snapshots()...)
	states = append(states, e.i8s.Snapshots()...)
	states = append(states, e.i16s.Snapshots()...)
	states = append(states, e.i32s.Snapshots()...)
	states = append(states, e.i64s.Snapshots()...)
	states = append(states, e.floats.Snapshots()...)
	states = append(states, e.doubles.Snapshots()...)
	sort.SliceStable(states, func(i, j int) bool { return states[i].Site < states[j].Site })
	return states
}
