package vectree

// Fork splits i into a new parent holding parentValue and a pair of children: i itself
// first, then a new sibling holding siblingValue. The new parent takes i's exact place
// (same parent, same position among its siblings), or becomes the root if i was the
// root. The subtree below i is untouched.
//
// Fork returns the Index of the new sibling, or false if i is not valid.
// The pool grows as needed.
//
// Fork แยกโหนด i ออกเป็นโหนดพ่อแม่ใหม่ที่มีลูกสองตัว คือ i และโหนดพี่น้องใหม่
// โหนดพ่อแม่ใหม่จะอยู่ในตำแหน่งเดิมของ i
func (t *Tree[T]) Fork(i Index, parentValue, siblingValue T) (Index, bool) {
	if t.arena.get(i) == nil {
		return noIndex, false
	}
	parent := t.arena.allocate(parentValue)
	sibling := t.arena.allocate(siblingValue)

	t.replaceLink(i, parent)
	t.appendLink(parent, i)
	t.appendLink(parent, sibling)
	return sibling, true
}

// Merge fuses the sibling a into b. a's children, in order, are moved in front of
// b's own children, and a is freed. If that leaves their parent with b as its only
// child, the parent is freed too and b takes its place, possibly as the new root.
//
// Merge does nothing unless a and b are distinct, valid, and share a parent.
// No error is reported: callers may merge speculatively.
//
// Merge รวมโหนด a เข้ากับโหนดพี่น้อง b โดยย้ายลูกทั้งหมดของ a ไปไว้หน้าลูกของ b
// หากโหนดพ่อแม่เหลือลูกเพียงตัวเดียว โหนดพ่อแม่จะถูกลบและ b จะเข้าแทนที่
func (t *Tree[T]) Merge(a, b Index) {
	if a == b {
		return
	}
	an, bn := t.arena.get(a), t.arena.get(b)
	if an == nil || bn == nil || an.parent.IsZero() || an.parent != bn.parent {
		return
	}
	parent := an.parent

	t.spliceChildren(a, b)
	t.unlink(a)
	_, _ = t.arena.deallocate(a)

	if t.arena.get(parent).onlyChild(b) {
		t.collapse(parent, b)
	}
}

// spliceChildren moves every child of from in front of the children of to,
// keeping their order.
func (t *Tree[T]) spliceChildren(from, to Index) {
	f := t.arena.get(from)
	if !f.hasChildren() {
		return
	}
	for c := f.firstChild; !c.IsZero(); {
		n := t.arena.get(c)
		n.parent = to
		c = n.nextSibling
	}

	dst := t.arena.get(to)
	first, last := f.firstChild, f.lastChild
	if dst.hasChildren() {
		t.arena.get(last).nextSibling = dst.firstChild
		t.arena.get(dst.firstChild).prevSibling = last
	} else {
		dst.lastChild = last
	}
	dst.firstChild = first
	f.firstChild, f.lastChild = noIndex, noIndex
}

// collapse frees parent, whose only child is child, and puts child in its place.
func (t *Tree[T]) collapse(parent, child Index) {
	t.unlink(child)
	t.replaceLink(parent, child)
	_, _ = t.arena.deallocate(parent)
}
