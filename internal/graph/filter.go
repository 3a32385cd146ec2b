package graph

// FilterOptions selects the commits that survive Filter.
type FilterOptions struct {
	Branches     bool
	Tags         bool
	Roots        bool
	Merges       bool
	Bifurcations bool

	// Additional commit ids to keep regardless of the flags above.
	Additional []string
}

// DefaultFilterOptions keeps branch tips, tagged objects and roots.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Branches: true,
		Tags:     true,
		Roots:    true,
	}
}

// Interesting returns the set of ids selected by opts.
func (g *CommitGraph) Interesting(opts FilterOptions) Set {
	interesting := Set{}
	if opts.Branches {
		for id := range g.branches {
			interesting.Add(id)
		}
	}
	if opts.Tags {
		for id := range g.tags {
			interesting.Add(id)
		}
	}
	if opts.Roots {
		for _, id := range g.Roots() {
			interesting.Add(id)
		}
	}
	if opts.Merges {
		for _, id := range g.Merges() {
			interesting.Add(id)
		}
	}
	if opts.Bifurcations {
		for _, id := range g.Bifurcations() {
			interesting.Add(id)
		}
	}
	for _, id := range opts.Additional {
		interesting.Add(id)
	}
	return interesting
}

// Filter returns a new graph containing only the interesting commits. Each
// kept commit is linked to the nearest interesting ancestors that can be
// reached from it without passing through another interesting commit.
//
// Interesting ids that are not commits of the graph (tags on trees or blobs,
// unknown additional ids) are kept as commits without parents.
func (g *CommitGraph) Filter(opts FilterOptions) (*CommitGraph, error) {
	interesting := g.Interesting(opts)

	parents := make(ParentMap, len(interesting))
	for id := range interesting {
		parents[id] = g.nearestInteresting(id, interesting)
	}
	return build(parents, g.branches.Clone(), g.tags.Clone(), nil)
}

// nearestInteresting walks the ancestry of id and stops at every interesting
// commit it meets.
func (g *CommitGraph) nearestInteresting(id string, interesting Set) Set {
	found := Set{}
	seen := Set{}
	queue := append([]string(nil), g.parents[id].Sorted()...)
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]
		if seen.Has(j) {
			continue
		}
		seen.Add(j)
		if interesting.Has(j) {
			found.Add(j)
			continue
		}
		for p := range g.parents[j] {
			if !seen.Has(p) {
				queue = append(queue, p)
			}
		}
	}
	return found
}
