// Package vectree implements a generic, ordered tree of arbitrary arity whose nodes
// live in a single growable slot pool.
// Nodes are referenced through generational Indexes instead of pointers: removing a
// node invalidates every Index to it and to its descendants, and a reused slot never
// answers to an Index issued before the reuse.
//
// A Tree is not safe for concurrent use; wrap it in a Synced when several goroutines
// share it.
package vectree

import (
	"fmt"
	"iter"
)

// Tree is an ordered tree stored in a slot pool.
// The zero value for a Tree is not ready to use; create one with New.
// Tree คือโครงสร้างต้นไม้ที่เก็บโหนดทั้งหมดไว้ใน slot pool เดียว
// ค่า zero value ยังไม่พร้อมใช้งาน ต้องสร้างผ่าน New เท่านั้น
type Tree[T any] struct {
	arena *arena[T]
	root  Index // noIndex when the tree is empty
}

// Stats describes the occupancy of a Tree's slot pool.
type Stats struct {
	Len      int // live nodes
	Capacity int // slots in the pool
	Free     int // slots ready for reuse
	Grows    int // automatic pool growths so far
}

// New creates an empty tree.
// Without options the pool starts with DefaultCapacity slots and doubles when full.
// New สร้าง Tree ว่างใหม่ โดยสามารถกำหนดขนาดเริ่มต้นและนโยบายการขยายผ่าน Option
func New[T any](opts ...Option) *Tree[T] {
	return &Tree[T]{arena: newArena[T](opts...)}
}

// Len returns the number of nodes in the tree.
func (t *Tree[T]) Len() int {
	return t.arena.len
}

// IsEmpty reports whether the tree holds no nodes.
func (t *Tree[T]) IsEmpty() bool {
	return t.arena.len == 0
}

// Capacity returns the number of slots in the pool, occupied or free.
func (t *Tree[T]) Capacity() int {
	return t.arena.capacity()
}

// Reserve adds exactly n free slots to the pool.
func (t *Tree[T]) Reserve(n int) {
	t.arena.reserve(n)
}

// Stats returns a snapshot of the pool occupancy.
func (t *Tree[T]) Stats() Stats {
	return Stats{
		Len:      t.arena.len,
		Capacity: t.arena.capacity(),
		Free:     t.arena.free(),
		Grows:    t.arena.grows,
	}
}

// Root returns the Index of the root node, if the tree is not empty.
func (t *Tree[T]) Root() (Index, bool) {
	return t.root, !t.root.IsZero()
}

// Contains reports whether i refers to a live node of this tree.
func (t *Tree[T]) Contains(i Index) bool {
	return t.arena.get(i) != nil
}

// Get returns the value stored at i.
// It returns false if i is not a live node of this tree.
// Get คืนค่า value ของโหนด i และ true หาก i ยังใช้งานได้
func (t *Tree[T]) Get(i Index) (T, bool) {
	n := t.arena.get(i)
	if n == nil {
		var zero T
		return zero, false
	}
	return n.value, true
}

// GetMut returns a pointer to the value stored at i.
// The pointer is only valid until the next operation that may grow the pool.
func (t *Tree[T]) GetMut(i Index) (*T, bool) {
	n := t.arena.get(i)
	if n == nil {
		return nil, false
	}
	return &n.value, true
}

// Set replaces the value stored at i. It returns false if i is not valid.
func (t *Tree[T]) Set(i Index, value T) bool {
	n := t.arena.get(i)
	if n == nil {
		return false
	}
	n.value = value
	return true
}

// At returns the value stored at i and panics if i is not valid.
// Use it only where i is known to be live; Get is the checked form.
func (t *Tree[T]) At(i Index) T {
	n := t.arena.get(i)
	if n == nil {
		panic(fmt.Sprintf("vectree: index %s is not a live node", i))
	}
	return n.value
}

// Parent returns the parent of i. It returns false for the root and for invalid Indexes.
func (t *Tree[T]) Parent(i Index) (Index, bool) {
	n := t.arena.get(i)
	if n == nil || n.parent.IsZero() {
		return noIndex, false
	}
	return n.parent, true
}

// InsertRoot adds value as the new root of the tree. If the tree already has a root,
// the previous root, with its whole subtree, becomes the only child of the new one.
// The pool grows when it is full, so InsertRoot cannot fail.
//
// InsertRoot เพิ่มโหนดใหม่เป็น root หากมี root อยู่แล้ว root เดิมจะกลายเป็นลูกของ root ใหม่
func (t *Tree[T]) InsertRoot(value T) Index {
	i := t.arena.allocate(value)
	t.adoptRoot(i)
	return i
}

// TryInsertRoot is InsertRoot without pool growth. When no slot is free it returns a
// *RejectedError carrying value, which matches ErrCapacity.
func (t *Tree[T]) TryInsertRoot(value T) (Index, error) {
	i, ok := t.arena.tryAllocate(value)
	if !ok {
		return noIndex, reject(value, ErrCapacity)
	}
	t.adoptRoot(i)
	return i, nil
}

// Insert adds value as the last child of parent, growing the pool if needed.
// An invalid parent yields a *RejectedError carrying value, which matches ErrInvalidIndex.
//
// Insert เพิ่มโหนดใหม่เป็นลูกตัวสุดท้ายของ parent
func (t *Tree[T]) Insert(value T, parent Index) (Index, error) {
	if t.arena.get(parent) == nil {
		return noIndex, reject(value, ErrInvalidIndex)
	}
	i := t.arena.allocate(value)
	t.appendLink(parent, i)
	return i, nil
}

// TryInsert is Insert without pool growth. The parent is checked first; a full pool
// yields a *RejectedError carrying value, which matches ErrCapacity.
func (t *Tree[T]) TryInsert(value T, parent Index) (Index, error) {
	if t.arena.get(parent) == nil {
		return noIndex, reject(value, ErrInvalidIndex)
	}
	i, ok := t.arena.tryAllocate(value)
	if !ok {
		return noIndex, reject(value, ErrCapacity)
	}
	t.appendLink(parent, i)
	return i, nil
}

// AppendChild moves node, with its subtree, to the end of newParent's children.
// Nothing is reallocated and Indexes inside the subtree stay valid.
// It fails with ErrInvalidIndex if either Index is invalid and with ErrCycle if
// newParent is node itself or one of its descendants.
func (t *Tree[T]) AppendChild(newParent, node Index) error {
	if t.arena.get(newParent) == nil || t.arena.get(node) == nil {
		return ErrInvalidIndex
	}
	for a := range t.Ancestors(newParent) {
		if a == node {
			return ErrCycle
		}
	}
	t.unlink(node)
	t.appendLink(newParent, node)
	return nil
}

// Remove detaches i from the tree, frees it and every descendant, and returns the
// value stored at i. Descendant values are dropped. It returns false if i is not valid.
//
// Remove ลบโหนด i และโหนดลูกหลานทั้งหมด แล้วคืนค่า value ของโหนด i
func (t *Tree[T]) Remove(i Index) (T, bool) {
	if t.arena.get(i) == nil {
		var zero T
		return zero, false
	}
	var subtree []Index
	for d := range t.Descendants(i) {
		subtree = append(subtree, d)
	}
	t.unlink(i)
	for _, d := range subtree[1:] {
		_, _ = t.arena.deallocate(d)
	}
	value, _ := t.arena.deallocate(i)
	return value, true
}

// Clear removes every node. Capacity is kept, and every Index issued so far becomes
// invalid.
func (t *Tree[T]) Clear() {
	t.arena.reset()
	t.root = noIndex
}

// All yields every node with its value in slot order, which is unrelated to tree order.
func (t *Tree[T]) All() iter.Seq2[Index, T] {
	return func(yield func(Index, T) bool) {
		for p := range t.arena.slots {
			s := &t.arena.slots[p]
			if !s.occupied {
				continue
			}
			if !yield(newIndex(p, s.generation), s.node.value) {
				return
			}
		}
	}
}

// Drain empties the tree like Clear and yields the detached nodes with their values.
// The tree is emptied as soon as Drain is called, whether or not the result is consumed.
func (t *Tree[T]) Drain() iter.Seq2[Index, T] {
	type entry struct {
		index Index
		value T
	}
	drained := make([]entry, 0, t.arena.len)
	for i, v := range t.All() {
		drained = append(drained, entry{i, v})
	}
	t.Clear()
	return func(yield func(Index, T) bool) {
		for _, e := range drained {
			if !yield(e.index, e.value) {
				return
			}
		}
	}
}

// adoptRoot makes the detached node i the root, demoting the current root to its child.
func (t *Tree[T]) adoptRoot(i Index) {
	if !t.root.IsZero() {
		t.appendLink(i, t.root)
	}
	t.root = i
}

// appendLink links the detached node child as the last child of parent.
// Both Indexes must be valid.
func (t *Tree[T]) appendLink(parent, child Index) {
	p := t.arena.get(parent)
	c := t.arena.get(child)
	c.parent = parent
	c.prevSibling = p.lastChild
	c.nextSibling = noIndex
	if p.lastChild.IsZero() {
		p.firstChild = child
	} else {
		t.arena.get(p.lastChild).nextSibling = child
	}
	p.lastChild = child
}

// unlink detaches i from its parent's child list, or from the root position.
// The subtree below i is left intact.
func (t *Tree[T]) unlink(i Index) {
	n := t.arena.get(i)
	if n.parent.IsZero() {
		if t.root == i {
			t.root = noIndex
		}
		return
	}
	p := t.arena.get(n.parent)
	if n.prevSibling.IsZero() {
		p.firstChild = n.nextSibling
	} else {
		t.arena.get(n.prevSibling).nextSibling = n.nextSibling
	}
	if n.nextSibling.IsZero() {
		p.lastChild = n.prevSibling
	} else {
		t.arena.get(n.nextSibling).prevSibling = n.prevSibling
	}
	n.parent, n.prevSibling, n.nextSibling = noIndex, noIndex, noIndex
}

// replaceLink puts the detached node repl at old's position: same parent, same place
// among its siblings, or the root position. old ends up detached.
func (t *Tree[T]) replaceLink(old, repl Index) {
	o := t.arena.get(old)
	r := t.arena.get(repl)
	r.parent, r.prevSibling, r.nextSibling = o.parent, o.prevSibling, o.nextSibling

	if o.parent.IsZero() {
		if t.root == old {
			t.root = repl
		}
	} else {
		p := t.arena.get(o.parent)
		if p.firstChild == old {
			p.firstChild = repl
		}
		if p.lastChild == old {
			p.lastChild = repl
		}
	}
	if !o.prevSibling.IsZero() {
		t.arena.get(o.prevSibling).nextSibling = repl
	}
	if !o.nextSibling.IsZero() {
		t.arena.get(o.nextSibling).prevSibling = repl
	}
	o.parent, o.prevSibling, o.nextSibling = noIndex, noIndex, noIndex
}
