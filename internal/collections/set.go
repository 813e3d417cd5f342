// Package collections holds small generic containers.
package collections

import (
	"cmp"
	"slices"
)

// Set is an unordered set of values
type Set[T cmp.Ordered] map[T]struct{}

// NewSet creates a Set holding vs
func NewSet[T cmp.Ordered](vs ...T) Set[T] {
	s := make(Set[T], len(vs))
	for _, v := range vs {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was not yet present
func (s Set[T]) Add(v T) bool {
	if s.Has(v) {
		return false
	}
	s[v] = struct{}{}
	return true
}

// Has reports whether v is in the set
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in ascending order
func (s Set[T]) Sorted() []T {
	members := make([]T, 0, len(s))
	for v := range s {
		members = append(members, v)
	}
	slices.Sort(members)
	return members
}
