package store

import (
	"cmp"
	"slices"
	"sync"
)

// Outcome reports what a reconciliation did to a collection
type Outcome int

const (
	// Applied means the collection now reflects the response
	Applied Outcome = iota
	// Absent means the entity isn't cached, so nothing changed
	Absent
	// Stale means a newer request was already applied and the response
	// was discarded
	Stale
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Absent:
		return "absent"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// Collection is an ordered cache of entities mirrored from the server.
//
// Every reconciliation carries the Ticket of the request that produced
// it. A full replace is discarded only when a newer full replace was
// applied. Single-entity changes newer than an applied replace are laid
// back over the replaced list, so a slow fetch never undoes a faster
// create, update or delete. A single-entity change is discarded when a
// newer full replace or a newer change to the same entity was applied.
type Collection[T any] struct {
	mu     sync.RWMutex
	key    func(T) int64
	items  []T
	loaded bool

	lastReplace Ticket
	entities    map[int64]change[T]
}

type changeKind int

const (
	changePrepend changeKind = iota
	changeUpdate
	changeUpsert
	changeRemove
)

// change is the last single-entity change applied for one key
type change[T any] struct {
	ticket Ticket
	kind   changeKind
	item   T
}

// NewCollection creates an empty, unloaded collection keyed by key
func NewCollection[T any](key func(T) int64) *Collection[T] {
	return &Collection[T]{
		key:      key,
		items:    []T{},
		entities: make(map[int64]change[T]),
	}
}

// Items returns a copy of the cached entities in order
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Len returns the number of cached entities
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Loaded reports whether the collection was ever replaced from a fetch
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Find returns the cached entity with the given key
func (c *Collection[T]) Find(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Replace overwrites the whole collection with items
func (c *Collection[T]) Replace(t Ticket, items []T) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t < c.lastReplace {
		return Stale
	}
	if items == nil {
		items = []T{}
	}
	c.items = slices.Clone(items)
	c.loaded = true
	c.lastReplace = t

	var newer []change[T]
	for id, ch := range c.entities {
		if ch.ticket < t {
			delete(c.entities, id)
			continue
		}
		newer = append(newer, ch)
	}
	slices.SortFunc(newer, func(a, b change[T]) int {
		return cmp.Compare(a.ticket, b.ticket)
	})
	for _, ch := range newer {
		c.reapply(ch)
	}
	return Applied
}

// reapply lays a change issued after a replace back over its list
func (c *Collection[T]) reapply(ch change[T]) {
	i := c.indexOf(c.key(ch.item))
	switch ch.kind {
	case changeRemove:
		if i >= 0 {
			c.items = slices.Delete(c.items, i, i+1)
		}
	case changePrepend:
		if i >= 0 {
			c.items = slices.Delete(c.items, i, i+1)
		}
		c.items = slices.Insert(c.items, 0, ch.item)
	case changeUpsert:
		if i >= 0 {
			c.items[i] = ch.item
		} else {
			c.items = append(c.items, ch.item)
		}
	case changeUpdate:
		if i >= 0 {
			c.items[i] = ch.item
		}
	}
}

// Prepend puts item at position 0. A cached entity with the same key is
// dropped from its old position so keys stay unique.
func (c *Collection[T]) Prepend(t Ticket, item T) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.key(item)
	if c.stale(t, id) {
		return Stale
	}
	if i := c.indexOf(id); i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
	}
	c.items = slices.Insert(c.items, 0, item)
	c.mark(change[T]{ticket: t, kind: changePrepend, item: item})
	return Applied
}

// Update replaces the cached entity with the same key in place. Entities
// that aren't cached are not added.
func (c *Collection[T]) Update(t Ticket, item T) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.key(item)
	if c.stale(t, id) {
		return Stale
	}
	i := c.indexOf(id)
	if i < 0 {
		return Absent
	}
	c.items[i] = item
	c.mark(change[T]{ticket: t, kind: changeUpdate, item: item})
	return Applied
}

// Upsert replaces the cached entity with the same key, or appends it
func (c *Collection[T]) Upsert(t Ticket, item T) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.key(item)
	if c.stale(t, id) {
		return Stale
	}
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = item
	} else {
		c.items = append(c.items, item)
	}
	c.mark(change[T]{ticket: t, kind: changeUpsert, item: item})
	return Applied
}

// Remove drops the entity with the given key
func (c *Collection[T]) Remove(t Ticket, id int64) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(t, id) {
		return Stale
	}
	i := c.indexOf(id)
	if i < 0 {
		return Absent
	}
	removed := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	c.mark(change[T]{ticket: t, kind: changeRemove, item: removed})
	return Applied
}

func (c *Collection[T]) stale(t Ticket, id int64) bool {
	return t < c.lastReplace || t < c.entities[id].ticket
}

func (c *Collection[T]) mark(ch change[T]) {
	c.entities[c.key(ch.item)] = ch
}

func (c *Collection[T]) indexOf(id int64) int {
	return slices.IndexFunc(c.items, func(item T) bool {
		return c.key(item) == id
	})
}
