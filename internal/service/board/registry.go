package board

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// Registry keeps the most recently used per-user stores in memory. An
// evicted store is rebuilt from the row store on the next load. A store
// evicted while an operation holds it stays pinned until released, so a
// user never has two stores at once.
type Registry struct {
	mu      sync.Mutex
	stores  *lru.Cache
	pinned  map[string]*Store
	refs    map[*Store]int
	onStore func(*Store)
}

func NewRegistry(size int, onStore func(*Store)) (*Registry, error) {
	if size <= 0 {
		size = 1024
	}
	r := &Registry{
		pinned:  make(map[string]*Store),
		refs:    make(map[*Store]int),
		onStore: onStore,
	}
	// The evict callback runs inside Add, under r.mu.
	c, err := lru.NewWithEvict(size, func(key, value interface{}) {
		s := value.(*Store)
		if r.refs[s] > 0 {
			r.pinned[key.(string)] = s
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create board registry: %w", err)
	}
	r.stores = c
	return r, nil
}

// Acquire returns the store of userID, creating it on first use, and holds
// it until release is called.
func (r *Registry) Acquire(userID string) (store *Store, release func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.stores.Get(userID); ok {
		store = v.(*Store)
	} else if s, ok := r.pinned[userID]; ok {
		delete(r.pinned, userID)
		store = s
		r.stores.Add(userID, s)
	} else {
		store = NewStore(userID)
		if r.onStore != nil {
			r.onStore(store)
		}
		r.stores.Add(userID, store)
	}
	r.refs[store]++

	var once sync.Once
	return store, func() {
		once.Do(func() { r.release(userID, store) })
	}
}

func (r *Registry) release(userID string, s *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refs[s]--
	if r.refs[s] > 0 {
		return
	}
	delete(r.refs, s)
	if r.pinned[userID] == s {
		delete(r.pinned, userID)
	}
}

// Len counts the stores in the LRU, not the pinned ones.
func (r *Registry) Len() int {
	return r.stores.Len()
}
