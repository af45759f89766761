package convert

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/funvibe/interop/internal/config"
	"github.com/funvibe/interop/internal/foreign"
	"github.com/funvibe/interop/internal/value"
)

// Observer is notified when a call site changes shape.
type Observer interface {
	// Specialized is called after a rule for kind was appended; entries is
	// the new cache size.
	Specialized(site string, kind value.Kind, entries int)
	// Megamorphic is called once, when the first kind that does not fit the
	// full cache arrives.
	Megamorphic(site string, kind value.Kind)
}

type options struct {
	site     string
	limit    int
	logger   zerolog.Logger
	observer Observer
}

// Option configures a Node.
type Option func(*options)

// WithLimit sets how many kinds the call site specializes. Zero disables
// specialization entirely; negative values are ignored.
func WithLimit(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.limit = n
		}
	}
}

// WithLogger sets the logger used for specialization events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver registers an observer for specialization events.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithSiteID names the call site. Unnamed sites get a random UUID.
func WithSiteID(id string) Option {
	return func(o *options) { o.site = id }
}

// entry is immutable once published.
type entry[T any] struct {
	kind value.Kind
	rule Rule[T]

	// Foreign entries only: the handle type and the capability objects
	// witnessed when the entry was installed.
	handle reflect.Type
	lib    foreign.Library
	iop    foreign.Interop
}

// try applies the entry if v passes its guard.
func (e *entry[T]) try(t *Table[T], v value.Value) (res T, ok bool, err error) {
	if v.Kind() != e.kind {
		return res, false, nil
	}
	if e.kind != value.Foreign {
		res, err = e.rule(v)
		return res, true, err
	}
	h := v.AsForeign()
	if foreign.TypeOf(h) != e.handle || !e.lib.IsForeign(h) {
		return res, false, nil
	}
	obj, uerr := e.lib.AsForeign(h)
	if uerr != nil || !t.Probe(e.iop, obj) {
		return res, false, nil
	}
	res, err = t.readForeign(v, e.iop, obj)
	return res, true, err
}

func (e *entry[T]) sameKey(o *entry[T]) bool {
	return e.kind == o.kind && e.handle == o.handle
}

func (e *entry[T]) String() string {
	if e.kind == value.Foreign {
		return "foreign(" + e.handle.String() + ")"
	}
	return e.kind.String()
}

// Node is the dispatcher of one call site. Reads of the cache are lock
// free; appends are serialized by mu and published atomically.
type Node[T any] struct {
	table    *Table[T]
	site     string
	limit    int
	log      zerolog.Logger
	observer Observer

	mu          sync.Mutex
	entries     atomic.Pointer[[]*entry[T]]
	megamorphic atomic.Bool

	hits            atomic.Uint64
	specializations atomic.Uint64
	fallbacks       atomic.Uint64
	failures        atomic.Uint64
}

// NewNode creates an empty call site dispatching through table.
func NewNode[T any](table *Table[T], opts ...Option) *Node[T] {
	o := options{limit: config.DefaultCacheLimit, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.site == "" {
		o.site = uuid.NewString()
	}
	return &Node[T]{
		table:    table,
		site:     o.site,
		limit:    o.limit,
		observer: o.observer,
		log: o.logger.With().
			Str(config.SiteLogField, o.site).
			Str(config.TargetLogField, table.Name).
			Logger(),
	}
}

func NewToI1(opts ...Option) *Node[bool]       { return NewNode(I1, opts...) }
func NewToI8(opts ...Option) *Node[int8]       { return NewNode(I8, opts...) }
func NewToI16(opts ...Option) *Node[int16]     { return NewNode(I16, opts...) }
func NewToI32(opts ...Option) *Node[int32]     { return NewNode(I32, opts...) }
func NewToI64(opts ...Option) *Node[int64]     { return NewNode(I64, opts...) }
func NewToFloat(opts ...Option) *Node[float32] { return NewNode(Float, opts...) }
func NewToDouble(opts ...Option) *Node[float64] {
	return NewNode(Double, opts...)
}

func (n *Node[T]) Site() string { return n.site }

func (n *Node[T]) Table() *Table[T] { return n.table }

// Execute coerces v, learning a new rule if v's kind is new to this call site
// and the cache still has room.
func (n *Node[T]) Execute(v value.Value) (T, error) {
	for {
		seen := n.entries.Load()
		if seen != nil {
			for _, e := range *seen {
				if res, ok, err := e.try(n.table, v); ok {
					n.hits.Add(1)
					return res, n.count(err)
				}
			}
		}
		res, retry, err := n.specialize(v, seen)
		if !retry {
			return res, err
		}
	}
}

// specialize installs a rule for v, or routes v to the fallback. It asks
// for a retry when another goroutine published entries after seen was read.
func (n *Node[T]) specialize(v value.Value, seen *[]*entry[T]) (res T, retry bool, err error) {
	e := n.newEntry(v)
	if e == nil {
		res, err = n.fallback(v)
		return res, false, err
	}
	if size(seen) >= n.limit {
		return n.megamorphicFallback(v)
	}

	n.mu.Lock()
	if n.entries.Load() != seen {
		n.mu.Unlock()
		return res, true, nil
	}
	// A key already cached whose witnessed capabilities reject v stays as is.
	if seen != nil && slices.ContainsFunc(*seen, e.sameKey) {
		n.mu.Unlock()
		res, err = n.fallback(v)
		return res, false, err
	}
	next := make([]*entry[T], size(seen)+1)
	if seen != nil {
		copy(next, *seen)
	}
	next[len(next)-1] = e
	n.entries.Store(&next)
	n.mu.Unlock()

	n.specializations.Add(1)
	n.log.Debug().
		Str(config.KindLogField, e.String()).
		Int("entries", len(next)).
		Msg("specialized call site")
	if n.observer != nil {
		n.observer.Specialized(n.site, e.kind, len(next))
	}

	res, ok, err := e.try(n.table, v)
	if !ok {
		res, err = n.fallback(v)
		return res, false, err
	}
	return res, false, n.count(err)
}

func (n *Node[T]) megamorphicFallback(v value.Value) (res T, retry bool, err error) {
	if !n.megamorphic.Swap(true) {
		n.log.Info().
			Str(config.KindLogField, v.Kind().String()).
			Int("limit", n.limit).
			Msg("call site is megamorphic, using generic conversion")
		if n.observer != nil {
			n.observer.Megamorphic(n.site, v.Kind())
		}
	}
	res, err = n.fallback(v)
	return res, false, err
}

// newEntry builds the entry for v's kind, or nil when v cannot be
// specialized: invalid values and foreign handles whose probe fails.
func (n *Node[T]) newEntry(v value.Value) *entry[T] {
	switch k := v.Kind(); k {
	case value.Invalid:
		return nil
	case value.Foreign:
		h := v.AsForeign()
		lib, iop := foreign.Resolve(h)
		if !lib.IsForeign(h) {
			return nil
		}
		obj, err := lib.AsForeign(h)
		if err != nil || !n.table.Probe(iop, obj) {
			return nil
		}
		return &entry[T]{kind: k, handle: foreign.TypeOf(h), lib: lib, iop: iop}
	default:
		return &entry[T]{kind: k, rule: n.table.Rule(k)}
	}
}

func (n *Node[T]) fallback(v value.Value) (T, error) {
	n.fallbacks.Add(1)
	res, err := n.table.Generic(v)
	return res, n.count(err)
}

func (n *Node[T]) count(err error) error {
	if err != nil {
		n.failures.Add(1)
	}
	return err
}

func size[T any](p *[]*entry[T]) int {
	if p == nil {
		return 0
	}
	return len(*p)
}
