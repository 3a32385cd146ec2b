package git

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// refFilter decides which branches and tags take part in the graph.
type refFilter struct {
	include []string
	exclude []string
	cache   map[string]bool
}

func newRefFilter(opts ReadOptions) *refFilter {
	return &refFilter{include: opts.Include, exclude: opts.Exclude, cache: make(map[string]bool)}
}

// matches checks a short ref name against the include and exclude globs.
// Exclusion wins over inclusion; no include globs means everything is
// included.
func (f *refFilter) matches(name string) (bool, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if v, ok := f.cache[name]; ok {
		return v, nil
	}

	result, err := f.evaluate(name)
	if err != nil {
		return false, err
	}
	f.cache[name] = result
	return result, nil
}

func (f *refFilter) evaluate(name string) (bool, error) {
	for _, pattern := range f.exclude {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return false, nil
		}
	}

	if len(f.include) == 0 {
		return true, nil
	}

	for _, pattern := range f.include {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// classify splits a full ref name into its kind and short name. Refs that are
// neither branches nor tags report kind "".
func classify(refName string) (kind, short string) {
	switch {
	case strings.HasPrefix(refName, localBranchPrefix):
		return "local", strings.TrimPrefix(refName, localBranchPrefix)
	case strings.HasPrefix(refName, remoteBranchPrefix):
		return "remote", strings.TrimPrefix(refName, remoteBranchPrefix)
	case strings.HasPrefix(refName, tagPrefix):
		return "tag", strings.TrimPrefix(refName, tagPrefix)
	default:
		return "", refName
	}
}

// firstLine returns msg up to its first line break.
func firstLine(msg string) string {
	if idx := strings.IndexByte(msg, '\n'); idx != -1 {
		msg = msg[:idx]
	}
	return strings.TrimRight(msg, "\r")
}
