// Package structures provides a few generic data structures.
package structures

import (
	"slices"
)

// Set

type Set[Node comparable] map[Node]struct{}

// Add adds the node to the set. If the node was already in the set, nothing changes.
func (s Set[Node]) Add(n Node) {
	s[n] = struct{}{}
}

// Has checks whether the node is already in the set.
func (s Set[Node]) Has(n Node) bool {
	_, ok := s[n]
	return ok
}

// OrderedSet

// An OrderedSet is a set which remembers the order in which its nodes were first added.
// The zero value is an empty set ready to use.
type OrderedSet[Node comparable] struct {
	nodes []Node
	index Set[Node]
}

// NewOrderedSet creates an OrderedSet from the nodes, dropping any repeated nodes after their
// first occurrence.
func NewOrderedSet[Node comparable](nodes ...Node) *OrderedSet[Node] {
	s := &OrderedSet[Node]{}
	for _, n := range nodes {
		s.Add(n)
	}
	return s
}

// Add appends the node to the set. If the node was already in the set, nothing changes (including
// the order of nodes).
func (s *OrderedSet[Node]) Add(n Node) bool {
	if s.index == nil {
		s.index = make(Set[Node])
	}
	if s.index.Has(n) {
		return false
	}
	s.index.Add(n)
	s.nodes = append(s.nodes, n)
	return true
}

// Has checks whether the node is already in the set.
func (s *OrderedSet[Node]) Has(n Node) bool {
	if s == nil {
		return false
	}
	return s.index.Has(n)
}

// Values returns the nodes of the set in insertion order. The returned slice is a copy.
func (s *OrderedSet[Node]) Values() []Node {
	if s == nil {
		return nil
	}
	return slices.Clone(s.nodes)
}
