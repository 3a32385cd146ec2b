package graph

import (
	"maps"
	"slices"
)

// Set is an unordered collection of commit ids or ref names.
type Set map[string]struct{}

// NewSet creates a set holding the given items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Add inserts item into the set.
func (s Set) Add(item string) { s[item] = struct{}{} }

// Has reports whether item is in the set.
func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Sorted returns the items in ascending order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns a copy of the set. Cloning a nil set yields an empty set.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for item := range s {
		c[item] = struct{}{}
	}
	return c
}

// ParentMap maps a commit id to the ids of its direct parents.
type ParentMap map[string]Set

// Clone returns a deep copy of the map.
func (m ParentMap) Clone() ParentMap {
	c := make(ParentMap, len(m))
	for id, parents := range m {
		c[id] = parents.Clone()
	}
	return c
}

// RefMap maps an object id to the names of the refs pointing at it.
type RefMap map[string]Set

// Add records that ref name points at id.
func (m RefMap) Add(id, name string) {
	names, ok := m[id]
	if !ok {
		names = Set{}
		m[id] = names
	}
	names.Add(name)
}

// Clone returns a deep copy of the map.
func (m RefMap) Clone() RefMap {
	c := make(RefMap, len(m))
	for id, names := range m {
		c[id] = names.Clone()
	}
	return c
}
