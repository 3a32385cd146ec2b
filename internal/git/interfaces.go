package git

import (
	"context"
	"errors"

	"github.com/git-big-picture/git-big-picture/internal/graph"
)

var (
	// ErrNotRepository is returned when the path is not inside a git repository.
	ErrNotRepository = errors.New("not a git repository")
	// ErrGitNotFound is returned when the git executable is not on PATH.
	ErrGitNotFound = errors.New("git is either not installed or not on your $PATH")
)

// RepositoryReader defines the interface for reading the commit graph of a
// repository. It allows the in-process and command line backends to be
// swapped, and tests to run without a repository.
type RepositoryReader interface {
	// ParentMap returns every commit reachable from the selected refs and
	// HEAD, mapped to its direct parents.
	ParentMap(ctx context.Context) (graph.ParentMap, error)
	// RefMappings returns the branches and tags pointing into the history.
	RefMappings(ctx context.Context) (RefMappings, error)
	// Message returns the subject line of a commit message.
	Message(ctx context.Context, id string) (string, error)
	// Resolve turns a revision expression into a full commit id.
	Resolve(ctx context.Context, rev string) (string, error)
	// Setting returns the value of big-picture.<name> from git config.
	Setting(name string) (string, bool, error)
}

// Compile-time interface conformance checks.
var (
	_ RepositoryReader = (*HistoryReader)(nil)
	_ RepositoryReader = (*CLIReader)(nil)
	_ RepositoryReader = (*MockRepositoryReader)(nil)
)

// NewReader opens the repository with the backend selected in opts.
func NewReader(ctx context.Context, opts ReadOptions) (RepositoryReader, error) {
	switch opts.Backend {
	case BackendCLI:
		return NewCLIReader(ctx, opts)
	default:
		return NewHistoryReader(opts)
	}
}
