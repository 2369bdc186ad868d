package dedup

import (
	"sync"

	"go-jobradar/internal/models"
)

// Index is a set of known record keys. Keys with an empty platform come from
// legacy rows and collide with every platform carrying the same id.
type Index struct {
	mu     sync.RWMutex
	exact  map[models.Key]struct{}
	ids    map[string]struct{}
	legacy map[string]struct{}
}

func NewIndex() *Index {
	return &Index{
		exact:  make(map[models.Key]struct{}),
		ids:    make(map[string]struct{}),
		legacy: make(map[string]struct{}),
	}
}

// IndexRows builds an index over rows with valid identifiers.
func IndexRows(rows []models.Row) *Index {
	idx := NewIndex()
	for _, r := range rows {
		if !r.ValidID() {
			continue
		}
		idx.Add(r.Key())
	}
	return idx
}

// Has reports whether key, or a legacy key with the same id, is present.
// A legacy lookup key (no platform) matches any entry with that id.
func (idx *Index) Has(key models.Key) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.has(key)
}

func (idx *Index) has(key models.Key) bool {
	if _, ok := idx.legacy[key.ID]; ok {
		return true
	}
	if key.Platform == "" {
		_, ok := idx.ids[key.ID]
		return ok
	}
	_, ok := idx.exact[key]
	return ok
}

// Add inserts key and reports whether it was new.
func (idx *Index) Add(key models.Key) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.has(key) {
		return false
	}
	if key.Platform == "" {
		idx.legacy[key.ID] = struct{}{}
	} else {
		idx.exact[key] = struct{}{}
		idx.ids[key.ID] = struct{}{}
	}
	return true
}

func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.exact) + len(idx.legacy)
}

// Clone returns an independent copy.
func (idx *Index) Clone() *Index {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	c := NewIndex()
	for k := range idx.exact {
		c.exact[k] = struct{}{}
		c.ids[k.ID] = struct{}{}
	}
	for id := range idx.legacy {
		c.legacy[id] = struct{}{}
	}
	return c
}
