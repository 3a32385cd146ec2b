package git

import (
	"fmt"
	"strings"

	"github.com/git-big-picture/git-big-picture/internal/graph"
)

// Backend selects how a repository is read.
type Backend string

const (
	// BackendGoGit reads the object database in-process with go-git.
	BackendGoGit Backend = "gogit"
	// BackendCLI shells out to the git executable.
	BackendCLI Backend = "cli"
)

// ParseBackend parses a backend name. The empty string selects BackendGoGit.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendGoGit:
		return BackendGoGit, nil
	case BackendCLI:
		return BackendCLI, nil
	default:
		return "", fmt.Errorf("unknown backend %q (valid: %s, %s)", s, BackendGoGit, BackendCLI)
	}
}

// RefMappings maps object ids to the names of the refs pointing at them.
// Tags are peeled to the first object that is not an annotated tag.
type RefMappings struct {
	LocalBranches  graph.RefMap
	RemoteBranches graph.RefMap

	// Tags holds every tag. CommitTags and NonCommitTags split it by the type
	// of the peeled object.
	Tags          graph.RefMap
	CommitTags    graph.RefMap
	NonCommitTags graph.RefMap
}

func newRefMappings() RefMappings {
	return RefMappings{
		LocalBranches:  graph.RefMap{},
		RemoteBranches: graph.RefMap{},
		Tags:           graph.RefMap{},
		CommitTags:     graph.RefMap{},
		NonCommitTags:  graph.RefMap{},
	}
}

// Branches returns local and remote branches in one map. Remote branches keep
// their remote prefix ("origin/main").
func (m RefMappings) Branches() graph.RefMap {
	all := m.LocalBranches.Clone()
	if all == nil {
		all = graph.RefMap{}
	}
	for id, names := range m.RemoteBranches {
		for name := range names {
			all.Add(id, name)
		}
	}
	return all
}

func (m RefMappings) addTag(id, name, objectType string) {
	m.Tags.Add(id, name)
	if objectType == "commit" {
		m.CommitTags.Add(id, name)
	} else {
		m.NonCommitTags.Add(id, name)
	}
}

// ReadOptions configures a repository reader.
type ReadOptions struct {
	RepoPath string
	Backend  Backend

	// Include and Exclude are doublestar globs matched against short branch
	// and tag names. Excluded refs are neither labeled nor walked.
	Include []string
	Exclude []string
}

const (
	localBranchPrefix  = "refs/heads/"
	remoteBranchPrefix = "refs/remotes/"
	tagPrefix          = "refs/tags/"
)
