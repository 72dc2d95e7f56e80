package vectree

// node is the record stored in an occupied slot.
// All links are Indexes resolved through the owning arena; noIndex means "none".
type node[T any] struct {
	value T

	parent      Index
	firstChild  Index
	lastChild   Index
	prevSibling Index
	nextSibling Index
}

// reset clears the record so the slot can be handed out again.
// The value is zeroed to drop references held by T.
// reset เคลียร์ข้อมูลในโหนดเพื่อให้ slot ถูกนำกลับมาใช้ใหม่ได้อย่างปลอดภัย
func (n *node[T]) reset() {
	*n = node[T]{}
}

func (n *node[T]) hasChildren() bool {
	return !n.firstChild.IsZero()
}

// onlyChild reports whether c is the single child of n.
func (n *node[T]) onlyChild(c Index) bool {
	return n.firstChild == c && n.lastChild == c
}
