package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/git-big-picture/git-big-picture/internal/graph"
)

// settingsSection is the git config section holding big-picture settings.
const settingsSection = "big-picture"

// HistoryReader reads the commit graph with go-git.
type HistoryReader struct {
	repo   *git.Repository
	opts   ReadOptions
	filter *refFilter

	refs     *RefMappings
	tips     []plumbing.Hash
	messages map[string]string
}

// NewHistoryReader opens the repository containing opts.RepoPath.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	repo, err := git.PlainOpenWithOptions(opts.RepoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("'%s' is probably not a Git repository: %w", opts.RepoPath, ErrNotRepository)
		}
		return nil, err
	}
	return &HistoryReader{
		repo:     repo,
		opts:     opts,
		filter:   newRefFilter(opts),
		messages: make(map[string]string),
	}, nil
}

// RefMappings reads every branch and tag. Annotated tags are peeled until a
// non-tag object is reached.
func (r *HistoryReader) RefMappings(ctx context.Context) (RefMappings, error) {
	if err := r.scanRefs(ctx); err != nil {
		return RefMappings{}, err
	}
	return *r.refs, nil
}

func (r *HistoryReader) scanRefs(ctx context.Context) error {
	if r.refs != nil {
		return nil
	}

	iter, err := r.repo.References()
	if err != nil {
		return fmt.Errorf("failed to list references: %w", err)
	}
	defer iter.Close()

	refs := newRefMappings()
	tips := make(map[plumbing.Hash]struct{})

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ref.Type() == plumbing.SymbolicReference {
			// HEAD is walked separately; remote HEADs resolve to a branch.
			if ref.Name() == plumbing.HEAD {
				return nil
			}
			resolved, err := r.repo.Reference(ref.Name(), true)
			if err != nil {
				return nil
			}
			ref = plumbing.NewHashReference(ref.Name(), resolved.Hash())
		}

		kind, short := classify(ref.Name().String())
		if kind != "" {
			ok, err := r.filter.matches(short)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		id, objectType, err := r.peel(ref.Hash())
		if err != nil {
			return fmt.Errorf("failed to peel %s: %w", ref.Name(), err)
		}
		if objectType == plumbing.CommitObject {
			tips[id] = struct{}{}
		}

		switch kind {
		case "local":
			if objectType == plumbing.CommitObject {
				refs.LocalBranches.Add(id.String(), short)
			}
		case "remote":
			if objectType == plumbing.CommitObject {
				refs.RemoteBranches.Add(id.String(), short)
			}
		case "tag":
			refs.addTag(id.String(), short, objectType.String())
		}
		return nil
	})
	if err != nil {
		return err
	}

	head, err := r.repo.Head()
	switch {
	case err == nil:
		tips[head.Hash()] = struct{}{}
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// Unborn branch in a repository without commits.
	default:
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	r.refs = &refs
	r.tips = make([]plumbing.Hash, 0, len(tips))
	for h := range tips {
		r.tips = append(r.tips, h)
	}
	return nil
}

// peel follows annotated tags to the object they finally point at.
func (r *HistoryReader) peel(h plumbing.Hash) (plumbing.Hash, plumbing.ObjectType, error) {
	for {
		obj, err := r.repo.Storer.EncodedObject(plumbing.AnyObject, h)
		if err != nil {
			return plumbing.ZeroHash, plumbing.InvalidObject, err
		}
		if obj.Type() != plumbing.TagObject {
			return h, obj.Type(), nil
		}
		tag, err := object.DecodeTag(r.repo.Storer, obj)
		if err != nil {
			return plumbing.ZeroHash, plumbing.InvalidObject, err
		}
		h = tag.Target
	}
}

// ParentMap walks the history from every selected ref and HEAD.
func (r *HistoryReader) ParentMap(ctx context.Context) (graph.ParentMap, error) {
	if err := r.scanRefs(ctx); err != nil {
		return nil, err
	}

	// Commits on the shallow boundary are parentless, as in rev-list.
	shallow, err := r.repo.Storer.Shallow()
	if err != nil {
		return nil, fmt.Errorf("failed to read shallow commits: %w", err)
	}
	boundary := make(map[plumbing.Hash]struct{}, len(shallow))
	for _, h := range shallow {
		boundary[h] = struct{}{}
	}

	parents := graph.ParentMap{}
	queue := append([]plumbing.Hash(nil), r.tips...)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := queue[0]
		queue = queue[1:]
		id := h.String()
		if _, ok := parents[id]; ok {
			continue
		}

		c, err := r.repo.CommitObject(h)
		if err != nil {
			return nil, fmt.Errorf("failed to read commit %s: %w", id, err)
		}
		ps := make(graph.Set, len(c.ParentHashes))
		parentHashes := c.ParentHashes
		if _, ok := boundary[h]; ok {
			parentHashes = nil
		}
		for _, p := range parentHashes {
			ps.Add(p.String())
			if _, ok := parents[p.String()]; !ok {
				queue = append(queue, p)
			}
		}
		parents[id] = ps
		r.messages[id] = firstLine(c.Message)
	}
	return parents, nil
}

// Message returns the subject line of a commit. Tagged blobs and trees have
// an empty message.
func (r *HistoryReader) Message(_ context.Context, id string) (string, error) {
	if msg, ok := r.messages[id]; ok {
		return msg, nil
	}
	h := plumbing.NewHash(id)
	obj, err := r.repo.Storer.EncodedObject(plumbing.AnyObject, h)
	if err != nil {
		return "", fmt.Errorf("failed to read object %s: %w", id, err)
	}
	if obj.Type() != plumbing.CommitObject {
		r.messages[id] = ""
		return "", nil
	}
	c, err := object.DecodeCommit(r.repo.Storer, obj)
	if err != nil {
		return "", fmt.Errorf("failed to read commit %s: %w", id, err)
	}
	msg := firstLine(c.Message)
	r.messages[id] = msg
	return msg, nil
}

// Resolve resolves a revision such as "HEAD~2", "v1.0" or an abbreviated id.
func (r *HistoryReader) Resolve(_ context.Context, rev string) (string, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", rev, err)
	}
	return h.String(), nil
}

// Setting reads big-picture.<name> from the repository and global config.
func (r *HistoryReader) Setting(name string) (string, bool, error) {
	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return "", false, fmt.Errorf("failed to read git config: %w", err)
	}
	if !cfg.Raw.HasSection(settingsSection) {
		return "", false, nil
	}
	section := cfg.Raw.Section(settingsSection)
	if !section.HasOption(name) {
		return "", false, nil
	}
	return section.Option(name), true, nil
}
