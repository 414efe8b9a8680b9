package knowledge

import "sync"

// LoadFunc produces a store and the warnings raised while building it.
type LoadFunc func() (*Store, []Warning)

// Loader memoizes a LoadFunc. Concurrent callers block until the single
// load finishes and all observe the same result.
type Loader struct {
	load func() (*Store, []Warning)
}

// NewLoader wraps fn behind a single-init guard.
func NewLoader(fn LoadFunc) *Loader {
	return &Loader{load: sync.OnceValues(func() (*Store, []Warning) {
		store, warnings := fn()
		if store == nil {
			store = Empty()
		}
		return store, warnings
	})}
}

// Load returns the memoized store, running the load on first use.
func (l *Loader) Load() (*Store, []Warning) { return l.load() }
