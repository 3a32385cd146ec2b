package graph

import (
	"crypto/sha1"
	"encoding/hex"
	"maps"
	"slices"
	"testing"
)

// sha returns a stable 40-character id for a short commit name.
func sha(name string) string {
	sum := sha1.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}

// history builds graphs from short commit names.
type history struct {
	parents  ParentMap
	branches RefMap
	tags     RefMap
}

func newHistory() *history {
	return &history{parents: ParentMap{}, branches: RefMap{}, tags: RefMap{}}
}

// commit records name with the given parents.
func (h *history) commit(name string, parents ...string) *history {
	ps := Set{}
	for _, p := range parents {
		ps.Add(sha(p))
	}
	h.parents[sha(name)] = ps
	return h
}

// chain records a linear history where each name is the child of the previous one.
func (h *history) chain(names ...string) *history {
	for i, name := range names {
		if i == 0 {
			if _, ok := h.parents[sha(name)]; !ok {
				h.commit(name)
			}
			continue
		}
		h.commit(name, names[i-1])
	}
	return h
}

func (h *history) branch(commit, name string) *history {
	h.branches.Add(sha(commit), name)
	return h
}

func (h *history) tag(commit, name string) *history {
	h.tags.Add(sha(commit), name)
	return h
}

func (h *history) build(t *testing.T) *CommitGraph {
	t.Helper()
	g, err := New(h.parents, h.branches, h.tags)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

// parentsOf builds an expected parent map from short names.
func parentsOf(m map[string][]string) ParentMap {
	out := ParentMap{}
	for name, parents := range m {
		ps := Set{}
		for _, p := range parents {
			ps.Add(sha(p))
		}
		out[sha(name)] = ps
	}
	return out
}

func ids(names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = sha(n)
	}
	slices.Sort(out)
	return out
}

func assertParents(t *testing.T, g *CommitGraph, expected ParentMap) {
	t.Helper()
	got := g.ParentMap()
	if !maps.EqualFunc(got, expected, func(a, b Set) bool { return maps.Equal(a, b) }) {
		t.Fatalf("parents = %v, expected %v", got, expected)
	}
}
