package vectree

import "fmt"

// Index is an opaque, comparable reference to a node in a Tree.
// It pairs a slot position with the generation the slot had when the node was
// allocated, so an Index outlives its node safely: once the node is removed the
// Index stops resolving, even if the slot is later reused.
//
// The zero Index refers to no node and is never valid.
//
// Index คือตัวอ้างอิงโหนดใน Tree ประกอบด้วยตำแหน่ง slot และ generation
// เมื่อโหนดถูกลบ Index เดิมจะใช้ไม่ได้อีก แม้ slot นั้นจะถูกนำกลับมาใช้ใหม่
type Index struct {
	slot       int // position + 1; 0 means no node
	generation uint64
}

// noIndex is the empty link value used inside node records.
var noIndex Index

func newIndex(pos int, generation uint64) Index {
	return Index{slot: pos + 1, generation: generation}
}

// IsZero reports whether i is the zero Index.
func (i Index) IsZero() bool {
	return i.slot == 0
}

func (i Index) pos() int {
	return i.slot - 1
}

// String returns a debug representation such as "3@1" (position 3, generation 1).
func (i Index) String() string {
	if i.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%d@%d", i.pos(), i.generation)
}
