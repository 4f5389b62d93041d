package cache

import (
	"slices"

	"github.com/MKhiriev/go-list-feed/models"
)

// Threads caches comments as one-level threads: roots in order, each root
// carrying its replies in Replies. A reply is stored in exactly one root.
type Threads struct {
	roots *Cache[models.Comment]
	// replyRoot maps a reply id to the id of its root.
	replyRoot map[string]string
}

func NewThreads() *Threads {
	return &Threads{
		roots:     New[models.Comment](),
		replyRoot: make(map[string]string),
	}
}

// BuildThreads groups flat comment rows into threads, keeping row order.
// Replies to a reply are attached to the root of that reply. Replies whose
// root is missing are dropped.
func BuildThreads(rows []models.Comment) *Threads {
	t := NewThreads()
	for _, c := range rows {
		if !c.IsReply() {
			t.InsertRoot(c, false)
		}
	}
	for _, c := range rows {
		if c.IsReply() {
			t.InsertReply(c)
		}
	}
	return t
}

// InsertRoot adds a root comment at the head or the tail. A present id is
// updated only when the incoming version is newer; existing replies are kept.
func (t *Threads) InsertRoot(c models.Comment, atHead bool) bool {
	if existing, ok := t.roots.Get(c.ID); ok {
		c.Replies = existing.Replies
	} else if t.isReply(c.ID) {
		return false
	}
	c.Replies = slices.Clone(c.Replies)

	var changed bool
	if atHead {
		changed = t.roots.InsertAtHead(c)
	} else {
		changed = t.roots.InsertAtTail(c)
	}
	if changed {
		for _, r := range c.Replies {
			t.replyRoot[r.ID] = c.ID
		}
	}
	return changed
}

// InsertReply appends a reply to its root. A parent that is itself a reply
// resolves to that reply's root. Replies to unknown parents are ignored.
func (t *Threads) InsertReply(c models.Comment) bool {
	if !c.IsReply() {
		return false
	}
	rootID, ok := t.RootOf(*c.ParentID)
	if !ok {
		return false
	}
	if t.roots.Contains(c.ID) {
		return false
	}

	changed := false
	t.roots.UpdateByID(rootID, func(root *models.Comment) {
		for i, r := range root.Replies {
			if r.ID == c.ID {
				if c.Version().After(r.Version()) {
					root.Replies = slices.Clone(root.Replies)
					root.Replies[i] = c
					changed = true
				}
				return
			}
		}
		root.Replies = append(slices.Clone(root.Replies), c)
		changed = true
	})
	if changed {
		t.replyRoot[c.ID] = rootID
	}
	return changed
}

// Insert routes a comment to InsertRoot (at the tail) or InsertReply.
func (t *Threads) Insert(c models.Comment) bool {
	if c.IsReply() {
		return t.InsertReply(c)
	}
	return t.InsertRoot(c, false)
}

// RootOf returns the root id of a comment id: itself for roots, the root of
// the thread for replies.
func (t *Threads) RootOf(id string) (string, bool) {
	if t.roots.Contains(id) {
		return id, true
	}
	rootID, ok := t.replyRoot[id]
	return rootID, ok
}

func (t *Threads) isReply(id string) bool {
	_, ok := t.replyRoot[id]
	return ok
}

// Get returns a root or a reply by id.
func (t *Threads) Get(id string) (models.Comment, bool) {
	if root, ok := t.roots.Get(id); ok {
		return root, true
	}
	rootID, ok := t.replyRoot[id]
	if !ok {
		return models.Comment{}, false
	}
	root, _ := t.roots.Get(rootID)
	for _, r := range root.Replies {
		if r.ID == id {
			return r, true
		}
	}
	return models.Comment{}, false
}

func (t *Threads) Contains(id string) bool {
	_, ok := t.RootOf(id)
	return ok
}

// UpdateByID patches a root or a reply. Unknown ids are ignored.
func (t *Threads) UpdateByID(id string, patch func(*models.Comment)) bool {
	if t.roots.Contains(id) {
		return t.roots.UpdateByID(id, func(root *models.Comment) {
			replies := root.Replies
			patch(root)
			root.Replies = replies
		})
	}
	rootID, ok := t.replyRoot[id]
	if !ok {
		return false
	}
	changed := false
	t.roots.UpdateByID(rootID, func(root *models.Comment) {
		for i := range root.Replies {
			if root.Replies[i].ID == id {
				root.Replies = slices.Clone(root.Replies)
				patch(&root.Replies[i])
				changed = true
				return
			}
		}
	})
	return changed
}

// RemoveByID removes a root together with its replies, or a single reply
// from its root. Unknown ids are ignored.
func (t *Threads) RemoveByID(id string) bool {
	if root, ok := t.roots.Get(id); ok {
		for _, r := range root.Replies {
			delete(t.replyRoot, r.ID)
		}
		return t.roots.RemoveByID(id)
	}
	rootID, ok := t.replyRoot[id]
	if !ok {
		return false
	}
	delete(t.replyRoot, id)
	t.roots.UpdateByID(rootID, func(root *models.Comment) {
		root.Replies = slices.DeleteFunc(slices.Clone(root.Replies), func(r models.Comment) bool {
			return r.ID == id
		})
	})
	return true
}

// Replace swaps the entry with id for c, keeping its position, which
// promotes a temporary comment to its server id. If c.ID is already
// cached the entry with id is dropped instead.
func (t *Threads) Replace(id string, c models.Comment) bool {
	if !t.Contains(id) {
		return false
	}
	if c.ID != id && t.Contains(c.ID) {
		return t.RemoveByID(id)
	}

	if t.roots.Contains(id) {
		i := t.roots.IndexOf(id)
		root, _ := t.roots.Get(id)
		c.Replies = root.Replies
		c.ParentID = nil
		t.roots.RemoveByID(id)
		t.roots.InsertAt(i, c)
		for _, r := range c.Replies {
			t.replyRoot[r.ID] = c.ID
		}
		return true
	}

	rootID := t.replyRoot[id]
	delete(t.replyRoot, id)
	t.replyRoot[c.ID] = rootID
	t.roots.UpdateByID(rootID, func(root *models.Comment) {
		root.Replies = slices.Clone(root.Replies)
		for i := range root.Replies {
			if root.Replies[i].ID == id {
				root.Replies[i] = c
				return
			}
		}
	})
	return true
}

// Roots returns the threads in order, each root carrying its replies.
func (t *Threads) Roots() []models.Comment {
	return t.roots.Items()
}

// Len counts roots and replies.
func (t *Threads) Len() int {
	return t.roots.Len() + len(t.replyRoot)
}

// Clone returns an independent copy.
func (t *Threads) Clone() *Threads {
	clone := &Threads{
		roots:     t.roots.Clone(),
		replyRoot: make(map[string]string, len(t.replyRoot)),
	}
	for k, v := range t.replyRoot {
		clone.replyRoot[k] = v
	}
	return clone
}
