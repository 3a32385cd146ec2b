package graph

// CollapseLinearRuns returns a new graph in which every run of plain commits
// is replaced by a single ellipsis node. A commit is plain when it carries no
// label and has exactly one parent and exactly one child.
//
// The first commit of each run survives as the placeholder and is linked to
// the first ancestor that is not plain; the rest of the run is dropped.
func (g *CommitGraph) CollapseLinearRuns() (*CommitGraph, error) {
	parents := g.parents.Clone()
	ellipsis := g.ellipsis.Clone()

	for _, id := range g.IDs() {
		// Runs are entered from their non-plain child only, so each run is
		// handled exactly once.
		if g.isPlain(id) {
			continue
		}
		for _, p := range g.Parents(id) {
			if !g.isPlain(p) {
				continue
			}
			next := g.onlyParent(p)
			for g.isPlain(next) {
				delete(parents, next)
				next = g.onlyParent(next)
			}
			parents[p] = NewSet(next)
			ellipsis.Add(p)
		}
	}
	return build(parents, g.branches.Clone(), g.tags.Clone(), ellipsis)
}

func (g *CommitGraph) isPlain(id string) bool {
	return !g.HasLabel(id) && len(g.parents[id]) == 1 && len(g.children[id]) == 1
}

func (g *CommitGraph) onlyParent(id string) string {
	for p := range g.parents[id] {
		return p
	}
	return ""
}
