package vectree

import "sync"

// Synced guards a Tree with a read/write mutex so several goroutines can share it.
// Callbacks passed to View run under one read lock, callbacks passed to Update under
// the write lock; the *Tree given to a callback must not escape it.
//
// Synced ห่อ Tree ด้วย RWMutex เพื่อให้ใช้งานร่วมกันระหว่างหลาย goroutine ได้
type Synced[T any] struct {
	mu   sync.RWMutex
	tree *Tree[T]
}

// NewSynced wraps t. t must not be used directly afterwards.
func NewSynced[T any](t *Tree[T]) *Synced[T] {
	return &Synced[T]{tree: t}
}

// View runs f with the tree under a read lock.
// Traversals started inside f stay consistent for the whole callback.
func (s *Synced[T]) View(f func(t *Tree[T])) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f(s.tree)
}

// Update runs f with the tree under the write lock and returns f's error.
func (s *Synced[T]) Update(f func(t *Tree[T]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f(s.tree)
}

// Len returns the number of nodes in the tree.
func (s *Synced[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

// Stats returns a snapshot of the pool occupancy.
func (s *Synced[T]) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Stats()
}
