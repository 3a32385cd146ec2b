package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/git-big-picture/git-big-picture/internal/graph"
)

// refFormat lists one ref per line as NUL-separated fields:
// object id, object type, ref name. Tags are peeled separately.
const refFormat = "%(objectname)%00%(objecttype)%00%(refname)"

// CLIReader reads the commit graph by running the git executable.
type CLIReader struct {
	opts   ReadOptions
	git    string
	filter *refFilter

	refs     *RefMappings
	tips     []string
	messages map[string]string
}

// NewCLIReader checks that git is installed and that opts.RepoPath is inside
// a repository.
func NewCLIReader(ctx context.Context, opts ReadOptions) (*CLIReader, error) {
	path, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("%w:\n>>>%v", ErrGitNotFound, err)
	}
	r := &CLIReader{
		opts:     opts,
		git:      path,
		filter:   newRefFilter(opts),
		messages: make(map[string]string),
	}
	if _, err := r.run(ctx, nil, "rev-parse"); err != nil {
		return nil, fmt.Errorf("'%s' is probably not a Git repository: %w", opts.RepoPath, ErrNotRepository)
	}
	return r, nil
}

func (r *CLIReader) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.git, append([]string{"-C", r.opts.RepoPath}, args...)...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

type refRecord struct {
	id         string
	objectType string
	name       string
}

// parseRefRecords parses the output of for-each-ref with refFormat.
func parseRefRecords(out []byte) ([]refRecord, error) {
	var records []refRecord
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\x00")
		if len(fields) != 3 {
			return nil, fmt.Errorf("unexpected for-each-ref record %q", line)
		}
		records = append(records, refRecord{
			id:         fields[0],
			objectType: fields[1],
			name:       fields[2],
		})
	}
	return records, nil
}

// RefMappings reads every branch and tag with a single for-each-ref call.
// Tags are peeled with one rev-parse call and typed with one cat-file call.
func (r *CLIReader) RefMappings(ctx context.Context) (RefMappings, error) {
	if err := r.scanRefs(ctx); err != nil {
		return RefMappings{}, err
	}
	return *r.refs, nil
}

func (r *CLIReader) scanRefs(ctx context.Context) error {
	if r.refs != nil {
		return nil
	}

	out, err := r.run(ctx, nil, "for-each-ref", "--format="+refFormat)
	if err != nil {
		return err
	}
	records, err := parseRefRecords(out)
	if err != nil {
		return err
	}

	refs := newRefMappings()
	tips := graph.Set{}
	var tagNames []string

	for _, rec := range records {
		kind, short := classify(rec.name)
		if kind != "tag" && rec.objectType != "commit" {
			continue
		}
		if kind != "" {
			ok, err := r.filter.matches(short)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}

		switch kind {
		case "local":
			refs.LocalBranches.Add(rec.id, short)
		case "remote":
			refs.RemoteBranches.Add(rec.id, short)
		case "tag":
			tagNames = append(tagNames, short)
			continue
		}
		tips.Add(rec.id)
	}

	if len(tagNames) > 0 {
		if err := r.peelTags(ctx, tagNames, refs, tips); err != nil {
			return err
		}
	}

	if head, err := r.run(ctx, nil, "rev-parse", "--verify", "--quiet", "HEAD^{commit}"); err == nil {
		tips.Add(strings.TrimSpace(string(head)))
	}

	r.refs = &refs
	r.tips = tips.Sorted()
	return nil
}

// peelTags dereferences tags recursively and records the type of the object
// each one ends at.
func (r *CLIReader) peelTags(ctx context.Context, names []string, refs RefMappings, tips graph.Set) error {
	args := []string{"rev-parse"}
	for _, name := range names {
		args = append(args, tagPrefix+name+"^{}")
	}
	out, err := r.run(ctx, nil, args...)
	if err != nil {
		return err
	}
	ids := strings.Fields(string(out))
	if len(ids) != len(names) {
		return fmt.Errorf("rev-parse returned %d ids for %d tags", len(ids), len(names))
	}

	out, err = r.run(ctx, []byte(strings.Join(ids, "\n")+"\n"), "cat-file", "--batch-check=%(objectname) %(objecttype)")
	if err != nil {
		return err
	}
	types := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 {
			types[fields[0]] = fields[1]
		}
	}

	for i, name := range names {
		id := ids[i]
		objectType, ok := types[id]
		if !ok {
			return fmt.Errorf("cat-file did not report tag target %s of %s", id, name)
		}
		refs.addTag(id, name, objectType)
		if objectType == "commit" {
			tips.Add(id)
		}
	}
	return nil
}

// ParentMap runs rev-list over the selected ref tips and HEAD.
func (r *CLIReader) ParentMap(ctx context.Context) (graph.ParentMap, error) {
	if err := r.scanRefs(ctx); err != nil {
		return nil, err
	}
	parents := graph.ParentMap{}
	if len(r.tips) == 0 {
		return parents, nil
	}

	out, err := r.run(ctx, []byte(strings.Join(r.tips, "\n")+"\n"), "rev-list", "--parents", "--stdin")
	if err != nil {
		return nil, err
	}
	return parseRevList(out)
}

// parseRevList parses "id parent..." lines.
func parseRevList(out []byte) (graph.ParentMap, error) {
	parents := graph.ParentMap{}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		for _, f := range fields {
			if !isObjectID(f) {
				return nil, fmt.Errorf("unexpected rev-list line %q", line)
			}
		}
		parents[fields[0]] = graph.NewSet(fields[1:]...)
	}
	return parents, nil
}

func isObjectID(s string) bool {
	if len(s) != graph.FullIDWidth {
		return false
	}
	for _, c := range s {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// Message returns the subject line of a commit. Tagged blobs and trees have
// an empty message.
func (r *CLIReader) Message(ctx context.Context, id string) (string, error) {
	if msg, ok := r.messages[id]; ok {
		return msg, nil
	}
	if err := r.scanRefs(ctx); err != nil {
		return "", err
	}
	if _, ok := r.refs.NonCommitTags[id]; ok {
		r.messages[id] = ""
		return "", nil
	}
	out, err := r.run(ctx, nil, "log", "-1", "--format=%s", id)
	if err != nil {
		return "", err
	}
	msg := firstLine(string(out))
	r.messages[id] = msg
	return msg, nil
}

// Resolve resolves a revision to the id of the commit it names.
func (r *CLIReader) Resolve(ctx context.Context, rev string) (string, error) {
	out, err := r.run(ctx, nil, "rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", rev, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Setting runs git config --get big-picture.<name>. A missing key is not an
// error.
func (r *CLIReader) Setting(name string) (string, bool, error) {
	out, err := r.run(context.Background(), nil, "config", "--get", settingsSection+"."+name)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimRight(string(out), "\n"), true, nil
}
