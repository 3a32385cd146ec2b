package graph

import (
	"errors"
	"slices"
	"testing"
)

func TestNew_BuildsChildMap(t *testing.T) {
	g := newHistory().
		commit("A").
		commit("B", "A").
		commit("C", "A").
		commit("D", "B", "C").
		build(t)

	tests := []struct {
		name     string
		commit   string
		expected []string
	}{
		{name: "Bifurcation", commit: "A", expected: ids("B", "C")},
		{name: "Left parent", commit: "B", expected: ids("D")},
		{name: "Right parent", commit: "C", expected: ids("D")},
		{name: "Tip", commit: "D", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Children(sha(tt.commit))
			if !slices.Equal(got, tt.expected) {
				t.Errorf("Children(%s) = %v, expected %v", tt.commit, got, tt.expected)
			}
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	h := newHistory().chain("A", "B").branch("B", "main")
	g := h.build(t)

	h.parents[sha("B")].Add(sha("X"))
	h.branches.Add(sha("A"), "other")

	if got := g.Parents(sha("B")); !slices.Equal(got, ids("A")) {
		t.Errorf("Parents(B) = %v after mutating input, expected %v", got, ids("A"))
	}
	if g.HasLabel(sha("A")) {
		t.Error("HasLabel(A) = true after mutating input, expected false")
	}
}

func TestNew_RejectsUnknownParent(t *testing.T) {
	parents := ParentMap{sha("B"): NewSet(sha("A"))}

	_, err := New(parents, nil, nil)
	if !errors.Is(err, ErrInconsistentGraph) {
		t.Fatalf("New() error = %v, expected ErrInconsistentGraph", err)
	}
}

func TestCommitGraph_Verify_DetectsAsymmetry(t *testing.T) {
	g := newHistory().chain("A", "B").build(t)
	g.children[sha("A")] = Set{}

	if err := g.verify(); !errors.Is(err, ErrInconsistentGraph) {
		t.Fatalf("verify() = %v, expected ErrInconsistentGraph", err)
	}

	g = newHistory().chain("A", "B").build(t)
	g.children[sha("B")].Add(sha("A"))
	if err := g.verify(); !errors.Is(err, ErrInconsistentGraph) {
		t.Fatalf("verify() = %v, expected ErrInconsistentGraph", err)
	}
}

func TestCommitGraph_Roots(t *testing.T) {
	g := newHistory().
		chain("A", "B").
		commit("C").
		commit("D").
		commit("E", "D", "B").
		build(t)

	if got, expected := g.Roots(), ids("A", "C", "D"); !slices.Equal(got, expected) {
		t.Errorf("Roots() = %v, expected %v", got, expected)
	}
}

func TestCommitGraph_MergesAndBifurcations(t *testing.T) {
	// A---B---D
	//  \     /
	//   --C--
	g := newHistory().
		commit("A").
		commit("B", "A").
		commit("C", "A").
		commit("D", "B", "C").
		build(t)

	if got, expected := g.Merges(), ids("D"); !slices.Equal(got, expected) {
		t.Errorf("Merges() = %v, expected %v", got, expected)
	}
	if got, expected := g.Bifurcations(), ids("A"); !slices.Equal(got, expected) {
		t.Errorf("Bifurcations() = %v, expected %v", got, expected)
	}
}

func TestCommitGraph_HasLabel(t *testing.T) {
	g := newHistory().
		chain("A", "B", "C").
		branch("C", "main").
		tag("A", "v1").
		build(t)

	tests := []struct {
		name     string
		commit   string
		expected bool
	}{
		{name: "Branch", commit: "C", expected: true},
		{name: "Tag", commit: "A", expected: true},
		{name: "Unlabeled", commit: "B", expected: false},
		{name: "Unknown", commit: "Z", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.HasLabel(sha(tt.commit)); got != tt.expected {
				t.Errorf("HasLabel(%s) = %v, expected %v", tt.commit, got, tt.expected)
			}
		})
	}
}

func TestCommitGraph_Labeled_IncludesDanglingRefs(t *testing.T) {
	g := newHistory().commit("A").tag("BLOB", "blob-tag").branch("A", "main").build(t)

	if got, expected := g.Labeled(), ids("A", "BLOB"); !slices.Equal(got, expected) {
		t.Errorf("Labeled() = %v, expected %v", got, expected)
	}
	if g.InGraph(sha("BLOB")) {
		t.Error("InGraph(BLOB) = true, expected false")
	}
}

func TestCommitGraph_EdgeCount(t *testing.T) {
	g := newHistory().
		commit("A").
		commit("B", "A").
		commit("C", "A").
		commit("D", "B", "C").
		build(t)

	if got := g.EdgeCount(); got != 4 {
		t.Errorf("EdgeCount() = %d, expected 4", got)
	}
	if got := g.Len(); got != 4 {
		t.Errorf("Len() = %d, expected 4", got)
	}
}
