package graph

const (
	// MinIDWidth is the shortest abbreviation used for commit ids.
	MinIDWidth = 7
	// FullIDWidth is the length of a full hexadecimal commit id.
	FullIDWidth = 40
)

// MinimalIDWidth returns the smallest abbreviation length in
// [MinIDWidth, FullIDWidth] under which every commit of the graph keeps a
// distinct prefix.
func (g *CommitGraph) MinimalIDWidth() int {
	n := len(g.parents)
	for w := MinIDWidth; w < FullIDWidth; w++ {
		prefixes := make(Set, n)
		for id := range g.parents {
			prefixes.Add(Abbrev(id, w))
		}
		if len(prefixes) == n {
			return w
		}
	}
	return FullIDWidth
}

// Abbrev shortens id to width characters. A width of zero or at least the
// length of id returns id unchanged.
func Abbrev(id string, width int) string {
	if width <= 0 || width >= len(id) {
		return id
	}
	return id[:width]
}
