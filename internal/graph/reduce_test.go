package graph

import "testing"

func TestReduceEdges_DropsShortcut(t *testing.T) {
	// Filtered form of an alternative route to a grandparent:
	// F -> {A, D}, D -> A. The edge F -> A is implied by F -> D -> A.
	g := newHistory().
		commit("A").
		commit("D", "A").
		commit("F", "A", "D").
		build(t)

	reduced, err := g.ReduceEdges()
	if err != nil {
		t.Fatalf("ReduceEdges: %v", err)
	}

	assertParents(t, reduced, parentsOf(map[string][]string{
		"A": nil,
		"D": {"A"},
		"F": {"D"},
	}))
}

func TestReduceEdges_KeepsIndependentParents(t *testing.T) {
	g := newHistory().
		commit("A").
		commit("B", "A").
		commit("C", "A").
		commit("D", "B", "C").
		build(t)

	reduced, err := g.ReduceEdges()
	if err != nil {
		t.Fatalf("ReduceEdges: %v", err)
	}

	assertParents(t, reduced, g.ParentMap())
}

func TestReduceEdges_KeepsEllipsis(t *testing.T) {
	g := newHistory().chain("A", "B", "C", "D").branch("D", "master").build(t)
	collapsed, err := g.CollapseLinearRuns()
	if err != nil {
		t.Fatalf("CollapseLinearRuns: %v", err)
	}

	reduced, err := collapsed.ReduceEdges()
	if err != nil {
		t.Fatalf("ReduceEdges: %v", err)
	}
	if !reduced.IsEllipsis(sha("C")) {
		t.Error("IsEllipsis(C) = false after ReduceEdges, expected true")
	}
}
