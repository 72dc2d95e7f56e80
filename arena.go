package vectree

import "math"

const (
	// DefaultCapacity is the number of slots a Tree starts with when no capacity is given.
	DefaultCapacity = 4
	// DefaultGrowthFactor doubles the pool whenever it runs out of free slots.
	DefaultGrowthFactor = 2.0
)

// slot is one cell of the pool. A free slot only uses nextFree; an occupied slot
// holds a node record. The generation survives both states.
type slot[T any] struct {
	occupied   bool
	generation uint64
	nextFree   int // position + 1 of the next free slot; 0 ends the list
	node       node[T]
}

// arena is the contiguous slot pool backing a Tree.
// Freed slots are pushed on a singly linked free list and reused before the pool grows.
// arena คือพื้นที่เก็บ slot แบบต่อเนื่องของ Tree
// slot ที่ถูกคืนจะถูกนำกลับมาใช้ก่อนการขยายขนาด
type arena[T any] struct {
	slots    []slot[T]
	freeHead int // position + 1 of the first free slot; 0 when full
	len      int
	grows    int

	growthFactor float64
	growthSlots  int
}

type arenaConfig struct {
	capacity     int
	growthFactor float64
	growthSlots  int
}

// Option configures the slot pool of a Tree.
type Option func(*arenaConfig)

// WithCapacity pre-sizes the pool with n free slots.
// WithCapacity กำหนดจำนวน slot เริ่มต้นของ pool
func WithCapacity(n int) Option {
	return func(c *arenaConfig) {
		if n >= 0 {
			c.capacity = n
		}
	}
}

// WithGrowthFactor makes the pool grow to factor times its size when it is full.
// Values <= 1.0 are ignored.
func WithGrowthFactor(factor float64) Option {
	return func(c *arenaConfig) {
		if factor > 1.0 {
			c.growthFactor = factor
		}
	}
}

// WithGrowthSlots makes the pool grow by a fixed number of slots when it is full.
// It takes precedence over WithGrowthFactor.
func WithGrowthSlots(n int) Option {
	return func(c *arenaConfig) {
		if n > 0 {
			c.growthSlots = n
		}
	}
}

func newArena[T any](opts ...Option) *arena[T] {
	cfg := arenaConfig{
		capacity:     DefaultCapacity,
		growthFactor: DefaultGrowthFactor,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	a := &arena[T]{
		growthFactor: cfg.growthFactor,
		growthSlots:  cfg.growthSlots,
	}
	a.reserve(cfg.capacity)
	return a
}

func (a *arena[T]) capacity() int {
	return len(a.slots)
}

func (a *arena[T]) free() int {
	return len(a.slots) - a.len
}

// reserve appends additional free slots. The new slots are linked in position order
// in front of the existing free list.
func (a *arena[T]) reserve(additional int) {
	if additional <= 0 {
		return
	}
	start := len(a.slots)
	a.slots = append(a.slots, make([]slot[T], additional)...)
	last := len(a.slots) - 1
	for p := start; p < last; p++ {
		a.slots[p].nextFree = p + 2
	}
	a.slots[last].nextFree = a.freeHead
	a.freeHead = start + 1
}

// growth returns how many slots the next automatic growth adds.
func (a *arena[T]) growth() int {
	if a.growthSlots > 0 {
		return a.growthSlots
	}
	n := int(math.Ceil(float64(len(a.slots)) * (a.growthFactor - 1)))
	if n < 1 {
		n = 1
	}
	return n
}

// tryAllocate takes the head of the free list. It never grows the pool.
func (a *arena[T]) tryAllocate(value T) (Index, bool) {
	if a.freeHead == 0 {
		return noIndex, false
	}
	pos := a.freeHead - 1
	s := &a.slots[pos]
	a.freeHead = s.nextFree
	s.nextFree = 0
	s.occupied = true
	s.node = node[T]{value: value}
	a.len++
	return newIndex(pos, s.generation), true
}

// allocate is tryAllocate with automatic growth.
// Pointers into the pool obtained before the call may be stale afterwards.
func (a *arena[T]) allocate(value T) Index {
	if a.freeHead == 0 {
		a.reserve(a.growth())
		a.grows++
	}
	i, _ := a.tryAllocate(value)
	return i
}

// get resolves i to its node record, or nil if i is not valid.
func (a *arena[T]) get(i Index) *node[T] {
	p := i.pos()
	if p < 0 || p >= len(a.slots) {
		return nil
	}
	s := &a.slots[p]
	if !s.occupied || s.generation != i.generation {
		return nil
	}
	return &s.node
}

// deallocate frees the slot behind i and returns the value it held.
// The slot's generation is bumped so i, and every copy of it, stops resolving.
func (a *arena[T]) deallocate(i Index) (T, error) {
	if a.get(i) == nil {
		var zero T
		return zero, ErrInvalidIndex
	}
	s := &a.slots[i.pos()]
	value := s.node.value
	s.node.reset()
	s.occupied = false
	s.generation++
	s.nextFree = a.freeHead
	a.freeHead = i.slot
	a.len--
	return value, nil
}

// reset frees every occupied slot, keeping capacity. Generations of freed slots are
// bumped so no Index issued before the reset resolves afterwards.
func (a *arena[T]) reset() {
	a.freeHead = 0
	for p := len(a.slots) - 1; p >= 0; p-- {
		s := &a.slots[p]
		if s.occupied {
			s.node.reset()
			s.occupied = false
			s.generation++
		}
		s.nextFree = a.freeHead
		a.freeHead = p + 1
	}
	a.len = 0
}
