package graph

// ReduceEdges returns a new graph without redundant edges: an edge from c to
// p is dropped when p can also be reached through another parent of c.
// Reachability between the remaining commits is unchanged.
func (g *CommitGraph) ReduceEdges() (*CommitGraph, error) {
	parents := make(ParentMap, len(g.parents))
	for id, ps := range g.parents {
		kept := ps.Clone()
		if len(ps) > 1 {
			indirect := g.ancestors(ps)
			for p := range ps {
				if indirect.Has(p) {
					delete(kept, p)
				}
			}
		}
		parents[id] = kept
	}
	return build(parents, g.branches.Clone(), g.tags.Clone(), g.ellipsis.Clone())
}

// ancestors returns every commit reachable from the parents of the commits in
// from. The members of from are only included when one of them is an
// ancestor of another.
func (g *CommitGraph) ancestors(from Set) Set {
	seen := Set{}
	var queue []string
	for id := range from {
		for p := range g.parents[id] {
			queue = append(queue, p)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen.Has(id) {
			continue
		}
		seen.Add(id)
		for p := range g.parents[id] {
			if !seen.Has(p) {
				queue = append(queue, p)
			}
		}
	}
	return seen
}
