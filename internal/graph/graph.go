// Package graph holds the in-memory commit DAG and the passes that reduce it
// to the commits worth drawing.
//
// A CommitGraph is never modified after construction. Filter,
// CollapseLinearRuns and ReduceEdges all return a new graph and leave the
// receiver usable, so a caller can keep the full history around (for example
// to compute identifier widths over every commit) while rendering a reduced
// view.
package graph

import (
	"errors"
	"fmt"
)

// ErrInconsistentGraph is returned when the parent and child maps of a graph
// do not describe the same DAG. It indicates broken input from the history
// backend and must not be ignored.
var ErrInconsistentGraph = errors.New("inconsistent commit graph")

// CommitGraph is a bidirectional commit DAG with the refs pointing into it.
type CommitGraph struct {
	parents  ParentMap
	children ParentMap
	branches RefMap
	tags     RefMap
	ellipsis Set
}

// New builds a graph from a parent map and the branch and tag mappings.
// The inputs are copied; later changes to them do not affect the graph.
func New(parents ParentMap, branches, tags RefMap) (*CommitGraph, error) {
	return build(parents.Clone(), branches.Clone(), tags.Clone(), nil)
}

// build takes ownership of its arguments.
func build(parents ParentMap, branches, tags RefMap, ellipsis Set) (*CommitGraph, error) {
	if parents == nil {
		parents = ParentMap{}
	}
	if branches == nil {
		branches = RefMap{}
	}
	if tags == nil {
		tags = RefMap{}
	}
	g := &CommitGraph{
		parents:  parents,
		children: childMap(parents),
		branches: branches,
		tags:     tags,
		ellipsis: Set{},
	}
	for id := range ellipsis {
		if g.Has(id) {
			g.ellipsis.Add(id)
		}
	}
	if err := g.verify(); err != nil {
		return nil, err
	}
	return g, nil
}

// childMap computes the transpose of parents. Every key of parents is also a
// key of the result.
func childMap(parents ParentMap) ParentMap {
	children := make(ParentMap, len(parents))
	for id, ps := range parents {
		for p := range ps {
			cs, ok := children[p]
			if !ok {
				cs = Set{}
				children[p] = cs
			}
			cs.Add(id)
		}
		if _, ok := children[id]; !ok {
			children[id] = Set{}
		}
	}
	return children
}

// verify checks that parents and children are transposes of each other over
// the same key domain.
func (g *CommitGraph) verify() error {
	for id, ps := range g.parents {
		for p := range ps {
			if _, ok := g.parents[p]; !ok {
				return fmt.Errorf("%w: parent %s of %s is not a known commit", ErrInconsistentGraph, p, id)
			}
			if !g.children[p].Has(id) {
				return fmt.Errorf("%w: %s lists parent %s but is not its child", ErrInconsistentGraph, id, p)
			}
		}
	}
	for id, cs := range g.children {
		if _, ok := g.parents[id]; !ok {
			return fmt.Errorf("%w: %s has children but no parent entry", ErrInconsistentGraph, id)
		}
		for c := range cs {
			if !g.parents[c].Has(id) {
				return fmt.Errorf("%w: %s lists child %s but is not its parent", ErrInconsistentGraph, id, c)
			}
		}
	}
	return nil
}

// Len returns the number of commits in the graph.
func (g *CommitGraph) Len() int { return len(g.parents) }

// Has reports whether id is a commit of the graph.
func (g *CommitGraph) Has(id string) bool {
	_, ok := g.parents[id]
	return ok
}

// IDs returns every commit id in ascending order.
func (g *CommitGraph) IDs() []string {
	return keys(g.parents).Sorted()
}

// Parents returns the sorted parent ids of id.
func (g *CommitGraph) Parents(id string) []string { return g.parents[id].Sorted() }

// Children returns the sorted child ids of id.
func (g *CommitGraph) Children(id string) []string { return g.children[id].Sorted() }

// ParentMap returns a copy of the parent map.
func (g *CommitGraph) ParentMap() ParentMap { return g.parents.Clone() }

// Branches returns the sorted branch names pointing at id.
func (g *CommitGraph) Branches(id string) []string { return g.branches[id].Sorted() }

// Tags returns the sorted tag names pointing at id.
func (g *CommitGraph) Tags(id string) []string { return g.tags[id].Sorted() }

// HasBranch reports whether a branch points at id.
func (g *CommitGraph) HasBranch(id string) bool {
	_, ok := g.branches[id]
	return ok
}

// HasTag reports whether a tag points at id.
func (g *CommitGraph) HasTag(id string) bool {
	_, ok := g.tags[id]
	return ok
}

// HasLabel reports whether a branch or tag points at id. Labeled commits are
// never removed by the reduction passes.
func (g *CommitGraph) HasLabel(id string) bool {
	return g.HasBranch(id) || g.HasTag(id)
}

// Labeled returns the sorted ids that carry a branch or tag, whether or not
// they are part of the graph.
func (g *CommitGraph) Labeled() []string {
	s := Set{}
	for id := range g.branches {
		s.Add(id)
	}
	for id := range g.tags {
		s.Add(id)
	}
	return s.Sorted()
}

// InGraph reports whether id appears in either the parent or the child map.
func (g *CommitGraph) InGraph(id string) bool {
	if _, ok := g.parents[id]; ok {
		return true
	}
	_, ok := g.children[id]
	return ok
}

// IsEllipsis reports whether id stands for a collapsed stretch of history.
func (g *CommitGraph) IsEllipsis(id string) bool { return g.ellipsis.Has(id) }

// Ellipsis returns the sorted ids of collapsed placeholders.
func (g *CommitGraph) Ellipsis() []string { return g.ellipsis.Sorted() }

// EdgeCount returns the number of parent edges.
func (g *CommitGraph) EdgeCount() int {
	n := 0
	for _, ps := range g.parents {
		n += len(ps)
	}
	return n
}

// Roots returns the sorted commits without parents.
func (g *CommitGraph) Roots() []string {
	s := Set{}
	for id, ps := range g.parents {
		if len(ps) == 0 {
			s.Add(id)
		}
	}
	return s.Sorted()
}

// Merges returns the sorted commits with more than one parent.
func (g *CommitGraph) Merges() []string {
	s := Set{}
	for id, ps := range g.parents {
		if len(ps) > 1 {
			s.Add(id)
		}
	}
	return s.Sorted()
}

// Bifurcations returns the sorted commits with more than one child.
func (g *CommitGraph) Bifurcations() []string {
	s := Set{}
	for id, cs := range g.children {
		if len(cs) > 1 {
			s.Add(id)
		}
	}
	return s.Sorted()
}

func keys[V any](m map[string]V) Set {
	s := make(Set, len(m))
	for k := range m {
		s.Add(k)
	}
	return s
}
