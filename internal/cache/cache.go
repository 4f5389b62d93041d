// Package cache holds the client's ordered entity collections.
//
// A Cache never contains two entries with the same id. Inserting an id that
// is already present updates the entry in place, unless the present entry
// carries an equal or newer version, in which case the insert is skipped.
// Removing or updating an unknown id is a no-op. Caches are not safe for
// concurrent use; the owning view serializes access.
package cache

import (
	"slices"
	"time"
)

// Entity is anything the cache can hold.
type Entity interface {
	EntityID() string
	Version() time.Time
}

// Cache is an ordered collection of entities with unique ids.
type Cache[T Entity] struct {
	items []T
	index map[string]int
}

func New[T Entity](items ...T) *Cache[T] {
	c := &Cache[T]{index: make(map[string]int, len(items))}
	for _, item := range items {
		c.InsertAtTail(item)
	}
	return c
}

// InsertAtHead prepends item, or updates it in place when the id is present.
// Reports whether the cache changed.
func (c *Cache[T]) InsertAtHead(item T) bool {
	if changed, present := c.upsertExisting(item); present {
		return changed
	}
	c.items = slices.Insert(c.items, 0, item)
	c.reindex(0)
	return true
}

// InsertAtTail appends item, or updates it in place when the id is present.
func (c *Cache[T]) InsertAtTail(item T) bool {
	if changed, present := c.upsertExisting(item); present {
		return changed
	}
	c.items = append(c.items, item)
	c.index[item.EntityID()] = len(c.items) - 1
	return true
}

// InsertAt places item at position i (clamped to the cache bounds), or
// updates it in place when the id is present.
func (c *Cache[T]) InsertAt(i int, item T) bool {
	if changed, present := c.upsertExisting(item); present {
		return changed
	}
	i = max(0, min(i, len(c.items)))
	c.items = slices.Insert(c.items, i, item)
	c.reindex(i)
	return true
}

// Upsert updates an entry in place when the incoming version is newer and
// does nothing for unknown ids.
func (c *Cache[T]) Upsert(item T) bool {
	changed, _ := c.upsertExisting(item)
	return changed
}

func (c *Cache[T]) upsertExisting(item T) (changed, present bool) {
	i, ok := c.index[item.EntityID()]
	if !ok {
		return false, false
	}
	if !item.Version().After(c.items[i].Version()) {
		return false, true
	}
	c.items[i] = item
	return true, true
}

// UpdateByID applies patch to the entry with id. Unknown ids are ignored.
func (c *Cache[T]) UpdateByID(id string, patch func(*T)) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	patch(&c.items[i])
	return true
}

// RemoveByID deletes the entry with id. Unknown ids are ignored.
func (c *Cache[T]) RemoveByID(id string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	delete(c.index, id)
	c.reindex(i)
	return true
}

func (c *Cache[T]) Get(id string) (T, bool) {
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

func (c *Cache[T]) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// IndexOf returns the position of id, or -1.
func (c *Cache[T]) IndexOf(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Items returns a copy of the entries in order.
func (c *Cache[T]) Items() []T {
	return slices.Clone(c.items)
}

func (c *Cache[T]) Len() int {
	return len(c.items)
}

func (c *Cache[T]) Clear() {
	c.items = nil
	c.index = make(map[string]int)
}

// Clone returns an independent copy. Entries are copied by value.
func (c *Cache[T]) Clone() *Cache[T] {
	clone := &Cache[T]{
		items: slices.Clone(c.items),
		index: make(map[string]int, len(c.index)),
	}
	for id, i := range c.index {
		clone.index[id] = i
	}
	return clone
}

func (c *Cache[T]) reindex(from int) {
	for i := from; i < len(c.items); i++ {
		c.index[c.items[i].EntityID()] = i
	}
}
