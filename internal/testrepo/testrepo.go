// Package testrepo builds small git repositories for tests.
package testrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a non-bare repository in a temporary directory.
type Repo struct {
	Dir  string
	Repo *git.Repository

	t     testing.TB
	wt    *git.Worktree
	when  time.Time
	count int
}

// New initializes an empty repository. HOME is pointed at an empty directory
// so the user's global git config does not leak into the test.
func New(t testing.TB) *Repo {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &Repo{
		Dir:  dir,
		Repo: repo,
		t:    t,
		wt:   wt,
		when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *Repo) signature() *object.Signature {
	r.when = r.when.Add(time.Minute)
	return &object.Signature{Name: "Test Author", Email: "test@example.com", When: r.when}
}

// Commit adds a new file on the checked out branch and returns the commit id.
// Extra parents turn the commit into a merge.
func (r *Repo) Commit(message string, extraParents ...string) string {
	r.t.Helper()
	r.count++
	name := fmt.Sprintf("file%03d.txt", r.count)
	if err := os.WriteFile(filepath.Join(r.Dir, name), []byte(message+"\n"), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(name); err != nil {
		r.t.Fatalf("Add: %v", err)
	}

	opts := &git.CommitOptions{Author: r.signature()}
	if len(extraParents) > 0 {
		head, err := r.Repo.Head()
		if err != nil {
			r.t.Fatalf("Head: %v", err)
		}
		opts.Parents = []plumbing.Hash{head.Hash()}
		for _, p := range extraParents {
			opts.Parents = append(opts.Parents, plumbing.NewHash(p))
		}
	}
	h, err := r.wt.Commit(message, opts)
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return h.String()
}

// Head returns the id HEAD points at.
func (r *Repo) Head() string {
	r.t.Helper()
	head, err := r.Repo.Head()
	if err != nil {
		r.t.Fatalf("Head: %v", err)
	}
	return head.Hash().String()
}

// HeadBranch returns the short name of the checked out branch.
func (r *Repo) HeadBranch() string {
	r.t.Helper()
	head, err := r.Repo.Head()
	if err != nil {
		r.t.Fatalf("Head: %v", err)
	}
	return head.Name().Short()
}

// Checkout switches to a branch, creating it at HEAD when create is set.
func (r *Repo) Checkout(branch string, create bool) {
	r.t.Helper()
	err := r.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	})
	if err != nil {
		r.t.Fatalf("Checkout(%s): %v", branch, err)
	}
}

func (r *Repo) setRef(name plumbing.ReferenceName, id string) {
	r.t.Helper()
	if err := r.Repo.Storer.SetReference(plumbing.NewHashReference(name, plumbing.NewHash(id))); err != nil {
		r.t.Fatalf("SetReference(%s): %v", name, err)
	}
}

// Branch points a local branch at id without checking it out.
func (r *Repo) Branch(name, id string) {
	r.t.Helper()
	r.setRef(plumbing.NewBranchReferenceName(name), id)
}

// RemoteBranch creates refs/remotes/<remote>/<name> at id.
func (r *Repo) RemoteBranch(remote, name, id string) {
	r.t.Helper()
	r.setRef(plumbing.NewRemoteReferenceName(remote, name), id)
}

// Tag creates a lightweight tag.
func (r *Repo) Tag(name, id string) {
	r.t.Helper()
	r.setRef(plumbing.NewTagReferenceName(name), id)
}

// AnnotatedTag creates an annotated tag on id, which may itself be a tag
// object, and returns the id of the new tag object.
func (r *Repo) AnnotatedTag(name, id string) string {
	r.t.Helper()
	ref, err := r.Repo.CreateTag(name, plumbing.NewHash(id), &git.CreateTagOptions{
		Tagger:  r.signature(),
		Message: "tag " + name,
	})
	if err != nil {
		r.t.Fatalf("CreateTag(%s): %v", name, err)
	}
	return ref.Hash().String()
}

// Blob stores content as a blob and returns its id.
func (r *Repo) Blob(content string) string {
	r.t.Helper()
	obj := r.Repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		r.t.Fatalf("blob writer: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		r.t.Fatalf("blob write: %v", err)
	}
	if err := w.Close(); err != nil {
		r.t.Fatalf("blob close: %v", err)
	}
	h, err := r.Repo.Storer.SetEncodedObject(obj)
	if err != nil {
		r.t.Fatalf("SetEncodedObject: %v", err)
	}
	return h.String()
}

// SetConfig writes <section>.<key> to the repository config.
func (r *Repo) SetConfig(section, key, value string) {
	r.t.Helper()
	cfg, err := r.Repo.Config()
	if err != nil {
		r.t.Fatalf("Config: %v", err)
	}
	cfg.Raw.Section(section).SetOption(key, value)
	if err := r.Repo.SetConfig(cfg); err != nil {
		r.t.Fatalf("SetConfig: %v", err)
	}
}
