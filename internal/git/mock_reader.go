package git

import (
	"context"
	"fmt"

	"github.com/git-big-picture/git-big-picture/internal/graph"
)

// MockRepositoryReader is a test double for the repository readers.
// It allows tests to provide a predefined history without needing a real Git repository.
type MockRepositoryReader struct {
	Parents  graph.ParentMap
	Refs     RefMappings
	Messages map[string]string
	Settings map[string]string
	Error    error
}

// NewMockRepositoryReader creates a new MockRepositoryReader with the given data.
func NewMockRepositoryReader(parents graph.ParentMap, refs RefMappings, err error) *MockRepositoryReader {
	return &MockRepositoryReader{
		Parents:  parents,
		Refs:     refs,
		Messages: map[string]string{},
		Settings: map[string]string{},
		Error:    err,
	}
}

// ParentMap returns a copy of the predefined parent map or error.
func (m *MockRepositoryReader) ParentMap(_ context.Context) (graph.ParentMap, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Parents.Clone(), nil
}

// RefMappings returns the predefined refs or error.
func (m *MockRepositoryReader) RefMappings(_ context.Context) (RefMappings, error) {
	if m.Error != nil {
		return RefMappings{}, m.Error
	}
	return m.Refs, nil
}

// Message returns the first line of the predefined message.
func (m *MockRepositoryReader) Message(_ context.Context, id string) (string, error) {
	msg, ok := m.Messages[id]
	if !ok {
		return "", fmt.Errorf("no message for %s", id)
	}
	return firstLine(msg), nil
}

// Resolve accepts full ids of known commits and branch or tag names.
func (m *MockRepositoryReader) Resolve(_ context.Context, rev string) (string, error) {
	if _, ok := m.Parents[rev]; ok {
		return rev, nil
	}
	for _, refs := range []graph.RefMap{m.Refs.LocalBranches, m.Refs.RemoteBranches, m.Refs.CommitTags} {
		for id, names := range refs {
			if names.Has(rev) {
				return id, nil
			}
		}
	}
	return "", fmt.Errorf("failed to resolve %q", rev)
}

// Setting returns the predefined setting.
func (m *MockRepositoryReader) Setting(name string) (string, bool, error) {
	v, ok := m.Settings[name]
	return v, ok, nil
}
