package memo

import "sync"

// Clearer empties one cache. Clearers are invoked only by the registry,
// never by tool logic directly.
type Clearer func()

// ClearerRegistry is an ordered, append-only collection of Clearers with
// process lifetime. Registration happens during tool setup; maintenance walks
// the list and invokes every entry best-effort.
type ClearerRegistry struct {
	mu       sync.Mutex
	clearers []Clearer
}

// NewClearerRegistry returns an empty registry.
func NewClearerRegistry() *ClearerRegistry {
	return &ClearerRegistry{}
}

// Register appends clearer to the registry. It always succeeds and performs
// no deduplication: a clearer registered twice runs twice per ClearAll.
func (r *ClearerRegistry) Register(clearer Clearer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearers = append(r.clearers, clearer)
}

// Len returns the number of registered clearers.
func (r *ClearerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.clearers)
}

// ClearAll invokes every registered clearer in registration order. A failing
// clearer never prevents the others from running and never propagates to the
// caller. Safe to call concurrently with cache population.
func (r *ClearerRegistry) ClearAll() {
	r.mu.Lock()
	clearers := make([]Clearer, len(r.clearers))
	copy(clearers, r.clearers)
	r.mu.Unlock()

	for _, clearer := range clearers {
		invokeClearer(clearer)
	}
}

func invokeClearer(clearer Clearer) {
	defer func() {
		_ = recover()
	}()

	if clearer != nil {
		clearer()
	}
}
