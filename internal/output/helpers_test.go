package output

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/git-big-picture/git-big-picture/internal/graph"
)

var (
	idA = strings.Repeat("a", 40)
	idB = strings.Repeat("b", 40)
	idC = strings.Repeat("c", 40)
	idD = strings.Repeat("d", 40)
)

// linearGraph returns A <- B <- C with A tagged v1 and C on master.
func linearGraph(t *testing.T) *graph.CommitGraph {
	t.Helper()
	g, err := graph.New(
		graph.ParentMap{
			idA: graph.NewSet(),
			idB: graph.NewSet(idA),
			idC: graph.NewSet(idB),
		},
		graph.RefMap{idC: graph.NewSet("master")},
		graph.RefMap{idA: graph.NewSet("v1")},
	)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	return g
}

type mapMessages map[string]string

func (m mapMessages) Message(_ context.Context, id string) (string, error) {
	msg, ok := m[id]
	if !ok {
		return "", fmt.Errorf("unknown commit %s", id)
	}
	return msg, nil
}

type fakeRenderer struct {
	out     []byte
	err     error
	formats []string
}

func (r *fakeRenderer) Render(_ context.Context, _ []string, format string) ([]byte, error) {
	r.formats = append(r.formats, format)
	return r.out, r.err
}
