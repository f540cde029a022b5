// Package stack holds the generic LIFO stack used to hand out externally
// supplied predicates while a path compiles.
package stack

import (
	"slices"
)

type Stack[T any] struct {
	items []T
}

// NewFrom loads items so that items[0] is on top and is popped first.
// The caller's slice is copied and never modified.
func NewFrom[T any](items ...T) *Stack[T] {
	loaded := slices.Clone(items)
	slices.Reverse(loaded)
	return &Stack[T]{items: loaded}
}

func (s *Stack[T]) Pop() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}

	index := len(s.items) - 1
	item := s.items[index]
	s.items = s.items[:index]
	return item, true
}

// PopN removes n elements, returned in pop order. Nothing is removed when
// fewer than n elements are available.
func (s *Stack[T]) PopN(n int) ([]T, bool) {
	if n < 0 || n > len(s.items) {
		return nil, false
	}

	popped := make([]T, 0, n)
	for range n {
		item, _ := s.Pop()
		popped = append(popped, item)
	}
	return popped, true
}

func (s *Stack[T]) Size() int {
	return len(s.items)
}
