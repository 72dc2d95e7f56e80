package vectree

// Validate walks the whole pool and checks the structural invariants of the tree:
// the free list only holds free slots, every child points back at the parent that
// lists it, sibling lists are consistent in both directions, the root is the only
// parentless node, and every live node is reachable from the root.
//
// It returns nil for a consistent tree and an error matching ErrCorrupt otherwise.
// The cost is O(capacity).
func (t *Tree[T]) Validate() error {
	a := t.arena

	freed := 0
	for f := a.freeHead; f != 0; f = a.slots[f-1].nextFree {
		if f-1 >= len(a.slots) {
			return corrupt("free list points outside the pool at %d", f-1)
		}
		if a.slots[f-1].occupied {
			return corrupt("free list reaches occupied slot %d", f-1)
		}
		if freed++; freed > len(a.slots) {
			return corrupt("free list does not terminate")
		}
	}
	if freed != a.free() {
		return corrupt("free list holds %d slots, want %d", freed, a.free())
	}

	occupied := 0
	for p := range a.slots {
		if a.slots[p].occupied {
			occupied++
		}
	}
	if occupied != a.len {
		return corrupt("%d occupied slots, length is %d", occupied, a.len)
	}

	if t.root.IsZero() {
		if a.len != 0 {
			return corrupt("%d live nodes but no root", a.len)
		}
		return nil
	}
	rn := a.get(t.root)
	if rn == nil {
		return corrupt("root %s is not live", t.root)
	}
	if !rn.parent.IsZero() || !rn.prevSibling.IsZero() || !rn.nextSibling.IsZero() {
		return corrupt("root %s has a parent or siblings", t.root)
	}

	reached := 0
	stack := []Index{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached++; reached > a.len {
			return corrupt("child lists revisit nodes")
		}

		n := a.get(i)
		prev := noIndex
		for c := n.firstChild; !c.IsZero(); {
			cn := a.get(c)
			switch {
			case cn == nil:
				return corrupt("%s lists dead child %s", i, c)
			case cn.parent != i:
				return corrupt("child %s of %s names %s as parent", c, i, cn.parent)
			case cn.prevSibling != prev:
				return corrupt("child %s of %s has previous sibling %s, want %s", c, i, cn.prevSibling, prev)
			}
			stack = append(stack, c)
			if len(stack) > a.len {
				return corrupt("sibling list of %s does not terminate", i)
			}
			prev = c
			c = cn.nextSibling
		}
		if n.lastChild != prev {
			return corrupt("last child of %s is %s, want %s", i, n.lastChild, prev)
		}
	}
	if reached != a.len {
		return corrupt("%d nodes reachable from root, %d live", reached, a.len)
	}
	return nil
}
