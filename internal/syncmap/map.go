package syncmap

import "sync"

// Map is a thread-safe generic map structure
type Map[T any] struct {
	mux sync.RWMutex
	m   map[string]T
}

// NewRegistry creates a new instance of Map
func NewRegistry[T any]() *Map[T] {
	return &Map[T]{
		m: make(map[string]T),
	}
}

// Get retrieves an item by name
func (r *Map[T]) Get(name string) (T, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	v, ok := r.m[name]
	return v, ok
}

// SetIfAbsent adds an item unless the name is taken and reports whether it
// was added.
func (r *Map[T]) SetIfAbsent(name string, value T) bool {
	r.mux.Lock()
	defer r.mux.Unlock()
	if _, ok := r.m[name]; ok {
		return false
	}
	r.m[name] = value
	return true
}

// Reset removes every item.
func (r *Map[T]) Reset() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.m = make(map[string]T)
}

