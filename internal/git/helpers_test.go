package git

import (
	"context"
	"maps"
	"os/exec"
	"testing"

	"github.com/git-big-picture/git-big-picture/internal/graph"
	"github.com/git-big-picture/git-big-picture/internal/testrepo"
)

// scenario is the history built by newScenario:
//
//	A---B---C-------M master
//	    |\   \     /
//	    | \   E   / topic
//	    |  D-----' feature
//	   v1, v1-signed
//
// C is also origin/main and carries the lightweight tag "light". The
// annotated tag "data" points at a blob.
type scenario struct {
	repo             *testrepo.Repo
	master           string
	a, b, c, d, e, m string
	blob             string
}

func newScenario(t *testing.T) *scenario {
	t.Helper()
	r := testrepo.New(t)
	s := &scenario{repo: r}

	s.a = r.Commit("A")
	s.master = r.HeadBranch()
	s.b = r.Commit("B")
	r.Checkout("feature", true)
	s.d = r.Commit("D")
	r.Checkout(s.master, false)
	s.c = r.Commit("C")
	r.Checkout("topic", true)
	s.e = r.Commit("E")
	r.Checkout(s.master, false)
	s.m = r.Commit("Merge \"feature\"\n\nLonger description", s.d)

	r.Tag("light", s.c)
	v1 := r.AnnotatedTag("v1", s.b)
	r.AnnotatedTag("v1-signed", v1)
	s.blob = r.Blob("data\n")
	r.AnnotatedTag("data", s.blob)
	r.RemoteBranch("origin", "main", s.c)
	return s
}

func (s *scenario) expectedParents() graph.ParentMap {
	return graph.ParentMap{
		s.a: graph.NewSet(),
		s.b: graph.NewSet(s.a),
		s.c: graph.NewSet(s.b),
		s.d: graph.NewSet(s.b),
		s.e: graph.NewSet(s.c),
		s.m: graph.NewSet(s.c, s.d),
	}
}

type readerFactory struct {
	name string
	open func(t *testing.T, opts ReadOptions) RepositoryReader
}

// readerFactories returns both backends; the command line backend is skipped
// when git is not installed.
func readerFactories() []readerFactory {
	return []readerFactory{
		{
			name: "gogit",
			open: func(t *testing.T, opts ReadOptions) RepositoryReader {
				t.Helper()
				r, err := NewHistoryReader(opts)
				if err != nil {
					t.Fatalf("NewHistoryReader: %v", err)
				}
				return r
			},
		},
		{
			name: "cli",
			open: func(t *testing.T, opts ReadOptions) RepositoryReader {
				t.Helper()
				requireGit(t)
				r, err := NewCLIReader(context.Background(), opts)
				if err != nil {
					t.Fatalf("NewCLIReader: %v", err)
				}
				return r
			},
		},
	}
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

func assertRefMap(t *testing.T, what string, got, expected graph.RefMap) {
	t.Helper()
	if !maps.EqualFunc(got, expected, func(a, b graph.Set) bool { return maps.Equal(a, b) }) {
		t.Errorf("%s = %v, expected %v", what, got, expected)
	}
}

func assertParentMap(t *testing.T, got, expected graph.ParentMap) {
	t.Helper()
	if !maps.EqualFunc(got, expected, func(a, b graph.Set) bool { return maps.Equal(a, b) }) {
		t.Errorf("ParentMap() = %v, expected %v", got, expected)
	}
}
