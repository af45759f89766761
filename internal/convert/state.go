package convert

import (
	"sort"
	"sync"
)

// Cache states of a call site.
const (
	StateEmpty   = "empty"
	StatePartial = "partial"
	StateFull    = "full"
)

// CacheState is a point-in-time view of a call site.
type CacheState struct {
	Site   string   `json:"site"`
	Target string   `json:"target"`
	Limit  int      `json:"limit"`
	State  string   `json:"state"`
	Kinds  []string `json:"kinds"`
	// Megamorphic is set once a kind arrived that the full cache could not hold.
	Megamorphic     bool   `json:"megamorphic"`
	Hits            uint64 `json:"hits"`
	Specializations uint64 `json:"specializations"`
	Fallbacks       uint64 `json:"fallbacks"`
	Failures        uint64 `json:"failures"`
}

// Snapshot returns the learned kinds in trial order and the site's counters.
func (n *Node[T]) Snapshot() CacheState {
	p := n.entries.Load()
	kinds := make([]string, 0, size(p))
	if p != nil {
		for _, e := range *p {
			kinds = append(kinds, e.String())
		}
	}

	state := StatePartial
	switch {
	case len(kinds) >= n.limit:
		state = StateFull
	case len(kinds) == 0:
		state = StateEmpty
	}

	return CacheState{
		Site:            n.site,
		Target:          n.table.Name,
		Limit:           n.limit,
		State:           state,
		Kinds:           kinds,
		Megamorphic:     n.megamorphic.Load(),
		Hits:            n.hits.Load(),
		Specializations: n.specializations.Load(),
		Fallbacks:       n.fallbacks.Load(),
		Failures:        n.failures.Load(),
	}
}

// Sites maps call-site IDs to their dispatchers for one target.
type Sites[T any] struct {
	table *Table[T]
	opts  []Option

	mu    sync.RWMutex
	nodes map[string]*Node[T]
}

// NewSites creates a registry whose nodes share opts.
func NewSites[T any](table *Table[T], opts ...Option) *Sites[T] {
	return &Sites[T]{table: table, opts: opts, nodes: make(map[string]*Node[T])}
}

// Get returns the node for id, creating it on first use.
func (s *Sites[T]) Get(id string) *Node[T] {
	s.mu.RLock()
	n, ok := s.nodes[id]
	s.mu.RUnlock()
	if ok {
		return n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[id]; ok {
		return n
	}
	opts := append(append([]Option(nil), s.opts...), WithSiteID(id))
	n = NewNode(s.table, opts...)
	s.nodes[id] = n
	return n
}

// Len returns the number of call sites created so far.
func (s *Sites[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Snapshots returns the state of every site, ordered by site ID.
func (s *Sites[T]) Snapshots() []CacheState {
	s.mu.RLock()
	states := make([]CacheState, 0, len(s.nodes))
	for _, n := range s.nodes {
		states = append(states, n.Snapshot())
	}
	s.mu.RUnlock()

	sort.Slice(states, func(i, j int) bool { return states[i].Site < states[j].Site })
	return states
}
