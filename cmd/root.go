package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/git-big-picture/git-big-picture/config"
	"github.com/git-big-picture/git-big-picture/internal/git"
	"github.com/git-big-picture/git-big-picture/internal/graph"
	"github.com/git-big-picture/git-big-picture/internal/output"
	"github.com/urfave/cli/v2"
)

// Version is the application version.
var Version = "1.3.0"

func init() {
	// -v selects the viewer.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

// App creates the CLI application.
func App() *cli.App {
	flags := outputFlags()
	flags = append(flags, filterFlags()...)
	flags = append(flags, miscFlags()...)

	return &cli.App{
		Name:                   "git-big-picture",
		Usage:                  "Visualize the branch and tag structure of a Git repository",
		UsageText:              "git-big-picture OPTIONS [REPOSITORY]",
		ArgsUsage:              "[REPOSITORY]",
		Version:                Version,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Flags:                  flags,
		Action:                 renderAction,
	}
}

// renderAction reduces the history of the repository and sends it to the
// selected output.
func renderAction(c *cli.Context) error {
	cc, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	ctx := c.Context

	if path := c.String("save-config"); path != "" {
		if err := config.SaveConfig(cc.Config, path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		cc.Logger.Debug("saved settings", "path", path)
		return nil
	}

	outOpts := cc.OutputOptions()
	if err := outOpts.Validate(); err != nil {
		return err
	}
	direction, err := output.ParseHistoryDirection(cc.Config.Output.HistoryDirection)
	if err != nil {
		return &usageError{err.Error()}
	}
	renderer, err := output.NewRenderer(cc.Config.Renderer)
	if err != nil {
		return &usageError{err.Error()}
	}

	g := cc.Graph
	showAll := c.Bool("all")
	if !showAll {
		filterOpts, err := cc.FilterOptions(ctx, c.StringSlice("include-commit"))
		if err != nil {
			return err
		}
		if g, err = g.Filter(filterOpts); err != nil {
			return err
		}
		cc.Logger.Debug("filtered commit graph", "commits", g.Len(), "edges", g.EdgeCount())
	}
	digits := g.MinimalIDWidth()

	if cc.Config.Passes.Collapse {
		if g, err = g.CollapseLinearRuns(); err != nil {
			return err
		}
		cc.Logger.Debug("collapsed linear runs", "commits", g.Len(), "ellipsis", len(g.Ellipsis()))
	}
	if cc.Config.Passes.ReduceEdges {
		if g, err = g.ReduceEdges(); err != nil {
			return err
		}
		cc.Logger.Debug("reduced edges", "edges", g.EdgeCount())
	}

	lines, err := output.GenerateDOT(ctx, g, output.DOTOptions{
		ShowIDs:      showAll,
		WithMessages: cc.Config.Annotation.Messages,
		Messages:     cc.Reader,
		Digits:       digits,
		Direction:    direction,
	})
	if err != nil {
		return err
	}

	emitter := output.NewEmitter(renderer, cc.Logger)
	emitter.Stdout = c.App.Writer
	emitter.Stderr = c.App.ErrWriter
	return emitter.Emit(ctx, lines, outOpts)
}

// usageError reports a command line that cannot be acted upon.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// Process exit codes. Usage errors and unexpected failures share 1.
const (
	exitFailure         = 1
	exitDotNotFound     = 2
	exitDotFailed       = 3
	exitDotTerminated   = 4
	exitWriteFile       = 5
	exitNoViewer        = 6
	exitConflictOutputs = 7
	exitNoOutput        = 8
	exitGitNotFound     = 9
	exitNotRepository   = 10
	exitInconsistent    = 11
	exitInterrupted     = 130
)

var exitCodes = []struct {
	err  error
	code int
}{
	{output.ErrDotNotFound, exitDotNotFound},
	{output.ErrDotFailed, exitDotFailed},
	{output.ErrWriteFile, exitWriteFile},
	{output.ErrViewerNotFound, exitNoViewer},
	{output.ErrConflictingOutputs, exitConflictOutputs},
	{output.ErrNoOutput, exitNoOutput},
	{git.ErrGitNotFound, exitGitNotFound},
	{git.ErrNotRepository, exitNotRepository},
	{graph.ErrInconsistentGraph, exitInconsistent},
}

// exitCode maps an error returned by the application to a process exit code.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	var dotErr *output.DotError
	if errors.As(err, &dotErr) {
		return exitDotTerminated
	}
	for _, m := range exitCodes {
		if errors.Is(err, m.err) {
			return m.code
		}
	}
	return exitFailure
}

// run executes the application and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := App()
	app.Writer = stdout
	app.ErrWriter = stderr

	err := app.RunContext(ctx, args)
	if err == nil {
		return 0
	}
	if ctx.Err() != nil {
		err = fmt.Errorf("interrupted: %w", ctx.Err())
	}
	fmt.Fprintln(stderr, color.New(color.FgRed).Sprintf("fatal: %v", err))
	return exitCode(err)
}

// Run executes the CLI application.
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
