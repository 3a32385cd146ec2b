package git

import (
	"maps"
	"testing"

	"github.com/git-big-picture/git-big-picture/internal/graph"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input    string
		expected Backend
		wantErr  bool
	}{
		{input: "", expected: BackendGoGit},
		{input: "gogit", expected: BackendGoGit},
		{input: "CLI", expected: BackendCLI},
		{input: "libgit2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBackend(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBackend(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseBackend(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRefMappings_Branches(t *testing.T) {
	refs := newRefMappings()
	refs.LocalBranches.Add("c1", "main")
	refs.RemoteBranches.Add("c1", "origin/main")
	refs.RemoteBranches.Add("c2", "origin/dev")

	all := refs.Branches()

	expected := graph.RefMap{
		"c1": graph.NewSet("main", "origin/main"),
		"c2": graph.NewSet("origin/dev"),
	}
	if !maps.EqualFunc(all, expected, func(a, b graph.Set) bool { return maps.Equal(a, b) }) {
		t.Errorf("Branches() = %v, expected %v", all, expected)
	}
	if refs.LocalBranches["c1"].Has("origin/main") {
		t.Error("Branches() modified LocalBranches")
	}
}

func TestRefMappings_AddTag(t *testing.T) {
	refs := newRefMappings()
	refs.addTag("c1", "v1", "commit")
	refs.addTag("t1", "tree-tag", "tree")
	refs.addTag("b1", "blob-tag", "blob")

	if len(refs.Tags) != 3 {
		t.Errorf("len(Tags) = %d, expected 3", len(refs.Tags))
	}
	if !refs.CommitTags["c1"].Has("v1") || len(refs.CommitTags) != 1 {
		t.Errorf("CommitTags = %v", refs.CommitTags)
	}
	if len(refs.NonCommitTags) != 2 {
		t.Errorf("NonCommitTags = %v, expected two entries", refs.NonCommitTags)
	}
}
