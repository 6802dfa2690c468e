package liststate

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Registry keeps one store per session key. The least recently used stores
// are evicted once size is reached; an evicted session starts empty again.
type Registry struct {
	mu      sync.Mutex
	stores  *lru.Cache[string, *Store]
	factory func(key string) *Store
}

// NewRegistry creates a registry holding at most size stores.
func NewRegistry(size int, factory func(key string) *Store) (*Registry, error) {
	cache, err := lru.New[string, *Store](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create state cache: %w", err)
	}
	return &Registry{stores: cache, factory: factory}, nil
}

// Get returns the store of key, creating it on first use.
func (r *Registry) Get(key string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores.Get(key); ok {
		return store
	}
	store := r.factory(key)
	r.stores.Add(key, store)
	return store
}

// Forget drops the store of key.
func (r *Registry) Forget(key string) {
	r.stores.Remove(key)
}

// Len returns the number of cached stores.
func (r *Registry) Len() int {
	return r.stores.Len()
}
