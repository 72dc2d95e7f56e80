package vectree

import (
	"errors"
	"fmt"
)

// Index errors
var (
	// ErrInvalidIndex indicates that an Index does not refer to a live node of the tree:
	// it was removed, cleared, belongs to another tree, or is the zero Index.
	ErrInvalidIndex = errors.New("vectree: invalid index")

	// ErrCycle indicates that a move would make a node its own ancestor.
	ErrCycle = errors.New("vectree: node cannot be moved under itself or its descendants")
)

// Pool errors
var (
	// ErrCapacity indicates that no free slot is available and growth was not allowed.
	ErrCapacity = errors.New("vectree: no free slot available")
)

// Consistency errors
var (
	// ErrCorrupt indicates that a structural invariant does not hold (should not happen).
	ErrCorrupt = errors.New("vectree: structural invariant violated")
)

// RejectedError is returned by insertions that could not take ownership of a value.
// The value is handed back to the caller in Value; the cause is available through
// errors.Is (ErrCapacity or ErrInvalidIndex).
type RejectedError[T any] struct {
	Value T
	Err   error
}

func (e *RejectedError[T]) Error() string {
	return fmt.Sprintf("insert rejected: %v", e.Err)
}

func (e *RejectedError[T]) Unwrap() error {
	return e.Err
}

func reject[T any](value T, err error) *RejectedError[T] {
	return &RejectedError[T]{Value: value, Err: err}
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}
