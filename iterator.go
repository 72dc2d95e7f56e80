package vectree

import "iter"

// Walker is a pre-order cursor over the subtree rooted at a start node, the start
// node included. The typical use is:
//
//	w := tree.NewWalker(start)
//	for w.Next() {
//		i, depth := w.Index(), w.Depth()
//		// ...
//	}
//
// It needs no stack: it climbs through parent links and stops when it gets back to
// the start node. The tree must not be modified while a Walker is in use.
//
// Walker คือ cursor สำหรับวนลูปแบบ pre-order ภายใต้โหนดเริ่มต้น (รวมโหนดเริ่มต้นด้วย)
// ห้ามแก้ไขโครงสร้างของ Tree ระหว่างที่ใช้งาน Walker
type Walker[T any] struct {
	tree    *Tree[T]
	start   Index
	current Index // noIndex before the first Next and after exhaustion
	depth   int
	done    bool
}

// NewWalker creates a Walker positioned before start.
// A call to Next() is required to move onto start itself.
func (t *Tree[T]) NewWalker(start Index) *Walker[T] {
	return &Walker[T]{tree: t, start: start}
}

// Next advances to the next node in pre-order and reports whether there is one.
// An invalid start node produces no elements.
func (w *Walker[T]) Next() bool {
	if w.done {
		return false
	}
	if w.current.IsZero() {
		w.current, w.depth = w.start, 0
		return w.settle()
	}

	n := w.tree.arena.get(w.current)
	if n == nil {
		return w.finish()
	}
	if n.hasChildren() {
		w.current = n.firstChild
		w.depth++
		return w.settle()
	}
	for w.current != w.start {
		if !n.nextSibling.IsZero() {
			w.current = n.nextSibling
			return w.settle()
		}
		w.current = n.parent
		w.depth--
		if n = w.tree.arena.get(w.current); n == nil {
			return w.finish()
		}
	}
	return w.finish()
}

// settle checks that the node just moved onto is live.
func (w *Walker[T]) settle() bool {
	if w.tree.arena.get(w.current) == nil {
		return w.finish()
	}
	return true
}

func (w *Walker[T]) finish() bool {
	w.done = true
	w.current = noIndex
	w.depth = 0
	return false
}

// Index returns the node at the current position.
// It should only be called after a call to Next() has returned true.
func (w *Walker[T]) Index() Index {
	return w.current
}

// Depth returns the distance from the start node, which is at depth 0.
func (w *Walker[T]) Depth() int {
	return w.depth
}

// Value returns the value of the node at the current position.
// It should only be called after a call to Next() has returned true.
func (w *Walker[T]) Value() T {
	v, _ := w.tree.Get(w.current)
	return v
}

// Reset moves the walker back before the start node.
func (w *Walker[T]) Reset() {
	w.current, w.depth, w.done = noIndex, 0, false
}

// Clone creates an independent copy of the walker at its current position.
func (w *Walker[T]) Clone() *Walker[T] {
	c := *w
	return &c
}

// chain yields from, then every node reached by repeatedly following step,
// until a link is empty or no longer resolves.
func (t *Tree[T]) chain(from Index, step func(*node[T]) Index) iter.Seq[Index] {
	return func(yield func(Index) bool) {
		for i := from; !i.IsZero(); {
			if t.arena.get(i) == nil || !yield(i) {
				return
			}
			n := t.arena.get(i)
			if n == nil {
				return
			}
			i = step(n)
		}
	}
}

// Children yields the children of i from first to last.
// Children คืนลำดับของโหนดลูกของ i ตั้งแต่ตัวแรกจนถึงตัวสุดท้าย
func (t *Tree[T]) Children(i Index) iter.Seq[Index] {
	return func(yield func(Index) bool) {
		n := t.arena.get(i)
		if n == nil {
			return
		}
		t.chain(n.firstChild, func(n *node[T]) Index { return n.nextSibling })(yield)
	}
}

// PrecedingSiblings yields i and then its earlier siblings, nearest first.
func (t *Tree[T]) PrecedingSiblings(i Index) iter.Seq[Index] {
	return t.chain(i, func(n *node[T]) Index { return n.prevSibling })
}

// FollowingSiblings yields i and then its later siblings, nearest first.
func (t *Tree[T]) FollowingSiblings(i Index) iter.Seq[Index] {
	return t.chain(i, func(n *node[T]) Index { return n.nextSibling })
}

// Ancestors yields i, its parent, and so on up to the root.
func (t *Tree[T]) Ancestors(i Index) iter.Seq[Index] {
	return t.chain(i, func(n *node[T]) Index { return n.parent })
}

// Descendants yields i and every node below it in pre-order: each node comes before
// its children, and a child's whole subtree is visited before its next sibling.
//
// Descendants คืนโหนด i และลูกหลานทั้งหมดตามลำดับ pre-order
func (t *Tree[T]) Descendants(i Index) iter.Seq[Index] {
	return func(yield func(Index) bool) {
		w := t.NewWalker(i)
		for w.Next() {
			if !yield(w.Index()) {
				return
			}
		}
	}
}

// DescendantsWithDepth is Descendants with each node's depth relative to i,
// which itself has depth 0.
func (t *Tree[T]) DescendantsWithDepth(i Index) iter.Seq2[Index, int] {
	return func(yield func(Index, int) bool) {
		w := t.NewWalker(i)
		for w.Next() {
			if !yield(w.Index(), w.Depth()) {
				return
			}
		}
	}
}
