package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/git-big-picture/git-big-picture/config"
	"github.com/git-big-picture/git-big-picture/internal/git"
	"github.com/git-big-picture/git-big-picture/internal/graph"
	"github.com/git-big-picture/git-big-picture/internal/output"
	"github.com/urfave/cli/v2"
)

// CommandContext holds the state shared by the steps of a run.
type CommandContext struct {
	Config *config.Config
	Logger *log.Logger
	Reader git.RepositoryReader
	Graph  *graph.CommitGraph
}

// NewCommandContext loads settings from every layer, opens the repository
// and reads its commit graph.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	ctx := c.Context
	logger := newLogger(c.App.ErrWriter, c.Bool("debug"))

	if c.NArg() > 1 {
		return nil, &usageError{fmt.Sprintf("too many arguments: %d, expected at most one REPOSITORY", c.NArg())}
	}
	repoPath := "."
	if c.NArg() == 1 {
		repoPath = c.Args().First()
	}

	base, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded base settings", "source", base.Source)

	backend, err := git.ParseBackend(base.Backend)
	if err != nil {
		return nil, err
	}
	reader, err := git.NewReader(ctx, git.ReadOptions{
		RepoPath: repoPath,
		Backend:  backend,
		Include:  base.Refs.Include,
		Exclude:  base.Refs.Exclude,
	})
	if err != nil {
		return nil, err
	}

	gitLayer, err := config.GitConfigLayer(logger, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read git config: %w", err)
	}
	cliLayer, err := commandLineLayer(c)
	if err != nil {
		return nil, &usageError{err.Error()}
	}
	cfg := config.Merge(logger, base, gitLayer, cliLayer)

	start := time.Now()
	parents, err := reader.ParentMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	refs, err := reader.RefMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read refs: %w", err)
	}
	g, err := graph.New(parents, refs.Branches(), refs.Tags)
	if err != nil {
		return nil, err
	}
	logger.Debug("read commit graph", "commits", g.Len(), "edges", g.EdgeCount(),
		"elapsed", time.Since(start).Round(time.Millisecond))

	return &CommandContext{
		Config: cfg,
		Logger: logger,
		Reader: reader,
		Graph:  g,
	}, nil
}

// loadConfig loads the configuration file and applies the flags that only
// exist outside of git config.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if includes := c.StringSlice("include-refs"); len(includes) > 0 {
		cfg.Refs.Include = includes
	}
	if excludes := c.StringSlice("exclude-refs"); len(excludes) > 0 {
		cfg.Refs.Exclude = excludes
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("renderer") {
		cfg.Renderer = c.String("renderer")
	}
	if c.IsSet("history-direction") {
		cfg.Output.HistoryDirection = c.String("history-direction")
	}
	if c.Bool("collapse") {
		cfg.Passes.Collapse = true
	}
	if c.Bool("reduce-edges") {
		cfg.Passes.ReduceEdges = true
	}
	return cfg, nil
}

// FilterOptions converts the merged settings into graph filter options.
// Revisions given with --include-commit are resolved to commit ids.
func (cc *CommandContext) FilterOptions(ctx context.Context, revisions []string) (graph.FilterOptions, error) {
	opts := graph.FilterOptions{
		Branches:     cc.Config.Filter.Branches,
		Tags:         cc.Config.Filter.Tags,
		Roots:        cc.Config.Filter.Roots,
		Merges:       cc.Config.Filter.Merges,
		Bifurcations: cc.Config.Filter.Bifurcations,
	}
	for _, rev := range revisions {
		id, err := cc.Reader.Resolve(ctx, rev)
		if err != nil {
			return opts, fmt.Errorf("failed to resolve '%s': %w", rev, err)
		}
		cc.Logger.Debug("including commit", "revision", rev, "id", id)
		opts.Additional = append(opts.Additional, id)
	}
	return opts, nil
}

// OutputOptions converts the merged settings into output options.
func (cc *CommandContext) OutputOptions() output.Options {
	return output.Options{
		Format:    cc.Config.Output.Format,
		Graphviz:  cc.Config.Output.Graphviz,
		Processed: cc.Config.Output.Processed,
		Viewer:    cc.Config.Output.Viewer,
		OutFile:   cc.Config.Output.OutFile,
		Wait:      time.Duration(cc.Config.Output.Wait * float64(time.Second)),
	}
}
