package output

import (
	"context"
	"fmt"
	"strings"

	"github.com/git-big-picture/git-big-picture/internal/graph"
)

// labelPalette holds one color per label case: 1 tags only, 2 branches only,
// 3 both.
const labelPalette = "/pastel13/%d"

// MessageSource looks up commit messages for labels.
type MessageSource interface {
	Message(ctx context.Context, id string) (string, error)
}

// DOTOptions controls GenerateDOT.
type DOTOptions struct {
	// ShowIDs appends the (abbreviated) id to every labeled commit.
	ShowIDs bool
	// WithMessages appends the first line of the commit message to ids.
	// Messages must be set when it is true.
	WithMessages bool
	Messages     MessageSource

	// Digits is the abbreviation width. Zero means full ids. Unlabeled
	// commits only get their own node when 0 < Digits < graph.FullIDWidth.
	Digits    int
	Direction HistoryDirection
}

// GenerateDOT serializes g into the lines of a graphviz digraph. The output is
// deterministic: nodes and edges are emitted in id order.
func GenerateDOT(ctx context.Context, g *graph.CommitGraph, opts DOTOptions) ([]string, error) {
	if opts.WithMessages && opts.Messages == nil {
		return nil, fmt.Errorf("commit messages requested without a message source")
	}

	lines := []string{"digraph {"}
	if rankdir := opts.Direction.Rankdir(); rankdir != "" {
		lines = append(lines, fmt.Sprintf("\trankdir=%q;", rankdir))
	}

	for _, id := range g.Labeled() {
		if !g.InGraph(id) {
			continue
		}
		labels, labelCase := refLabels(g, id)
		if opts.ShowIDs || opts.WithMessages {
			idLabel, err := commitLabel(ctx, id, opts)
			if err != nil {
				return nil, err
			}
			labels = append(labels, idLabel)
		}
		label := strings.ReplaceAll(strings.Join(labels, `\n`), `"`, `\"`)
		lines = append(lines, fmt.Sprintf("\t\"%s\"[label=\"%s\", color=\""+labelPalette+"\", style=filled];", id, label, labelCase))
	}

	for _, id := range g.Ellipsis() {
		lines = append(lines, fmt.Sprintf("\t\"%s\"[label=\"...\"];", id))
	}

	if opts.Digits > 0 && opts.Digits < graph.FullIDWidth {
		for _, id := range g.IDs() {
			if g.HasLabel(id) || g.IsEllipsis(id) {
				continue
			}
			label, err := commitLabel(ctx, id, opts)
			if err != nil {
				return nil, err
			}
			lines = append(lines, fmt.Sprintf("\t\"%s\"[label=\"%s\"];", id, label))
		}
	}

	for _, child := range g.IDs() {
		for _, p := range g.Parents(child) {
			lines = append(lines, fmt.Sprintf("\t\"%s\" -> \"%s\";", child, p))
		}
	}

	return append(lines, "}"), nil
}

// refLabels returns the sorted tag names followed by the sorted branch names
// of id, and the palette index for that combination.
func refLabels(g *graph.CommitGraph, id string) ([]string, int) {
	var labels []string
	labelCase := 0
	if g.HasTag(id) {
		labelCase++
		labels = append(labels, g.Tags(id)...)
	}
	if g.HasBranch(id) {
		labelCase += 2
		labels = append(labels, g.Branches(id)...)
	}
	return labels, labelCase
}

func commitLabel(ctx context.Context, id string, opts DOTOptions) (string, error) {
	label := graph.Abbrev(id, opts.Digits)
	if !opts.WithMessages {
		return label, nil
	}
	msg, err := opts.Messages.Message(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to read message of %s: %w", id, err)
	}
	return label + `\n` + cleanMessage(msg), nil
}

// cleanMessage returns the first line of msg without quotes.
func cleanMessage(msg string) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	msg = strings.TrimRight(msg, "\r")
	return strings.NewReplacer(`"`, "", "'", "").Replace(msg)
}
