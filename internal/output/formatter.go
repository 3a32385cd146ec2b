package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// DefaultFormat is the image format used when none is configured.
const DefaultFormat = "svg"

// DefaultWait is how long a temporary file is kept after the viewer started.
const DefaultWait = 2 * time.Second

var (
	// ErrConflictingOutputs is returned when graphviz or processed output is
	// combined with another output option.
	ErrConflictingOutputs = errors.New("conflicting output options")
	// ErrNoOutput is returned when no output option is set.
	ErrNoOutput = errors.New("must provide an output option, try '-h' for more information")
)

// Options selects where the graph goes.
type Options struct {
	// Format is the image format passed to the renderer.
	Format string
	// Graphviz prints the graphviz input itself.
	Graphviz bool
	// Processed prints the rendered image to stdout.
	Processed bool
	// Viewer opens the image with this command.
	Viewer string
	// OutFile writes the image to this path.
	OutFile string
	// Wait keeps a temporary file alive this long after the viewer started.
	Wait time.Duration
}

// Validate checks that exactly one kind of output was requested.
func (o Options) Validate() error {
	switch {
	case o.Graphviz && o.Processed:
		return fmt.Errorf("%w: options '-g | --graphviz' and '-p | --processed' are mutually exclusive", ErrConflictingOutputs)
	case (o.Graphviz || o.Processed) && (o.Viewer != "" || o.OutFile != ""):
		return fmt.Errorf("%w: options '-g | --graphviz' and '-p | --processed' are incompatible with other output options", ErrConflictingOutputs)
	case !o.Graphviz && !o.Processed && o.Viewer == "" && o.OutFile == "":
		return ErrNoOutput
	}
	return nil
}

// Emitter sends serialized graphs to the outputs chosen by Options.
type Emitter struct {
	Renderer Renderer
	Logger   *log.Logger

	// Stdout receives graphviz and processed output; Stderr receives warnings.
	Stdout io.Writer
	Stderr io.Writer

	// View opens a file in a viewer. Defaults to ShowInViewer.
	View func(ctx context.Context, viewer, path string) error
	// TempDir is where temporary images are created. Empty means os.TempDir.
	TempDir string

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// NewEmitter returns an Emitter writing to the process streams.
func NewEmitter(renderer Renderer, logger *log.Logger) *Emitter {
	return &Emitter{
		Renderer: renderer,
		Logger:   logger,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		View:     ShowInViewer,
	}
}

// Emit validates opts and writes lines to the selected output.
func (e *Emitter) Emit(ctx context.Context, lines []string, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	if opts.Graphviz {
		e.logger().Debug("printing graphviz input")
		return writeLines(e.Stdout, lines)
	}

	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	if opts.OutFile != "" {
		if guess := guessFormat(opts.OutFile); guess == "" {
			e.warnf("filename had no suffix, using format: %s", opts.Format)
			opts.OutFile += "." + opts.Format
		} else if guess != opts.Format {
			e.logger().Debug("format mismatch, using the filename suffix", "format", opts.Format, "suffix", guess)
			opts.Format = guess
		}
	}

	data, err := e.Renderer.Render(ctx, lines, opts.Format)
	if err != nil {
		return err
	}

	if opts.Viewer == "" && opts.OutFile == "" {
		e.logger().Debug("printing processed output", "format", opts.Format)
		if f, ok := e.Stdout.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			e.warnf("writing binary %s output to a terminal", opts.Format)
		}
		_, err := e.Stdout.Write(data)
		return err
	}

	return e.writeAndView(ctx, data, opts)
}

func (e *Emitter) writeAndView(ctx context.Context, data []byte, opts Options) error {
	path := opts.OutFile
	temporary := path == ""
	if temporary {
		var err error
		path, err = createTempFile(e.TempDir, opts.Format)
		if err != nil {
			return err
		}
		e.logger().Debug("created temp file", "path", path)
		defer func() {
			e.logger().Debug("removing temp file", "path", path)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				e.logger().Warn("could not remove temp file", "path", path, "err", err)
			}
		}()
	}

	e.logger().Debug("writing to file", "path", path)
	if err := writeFile(path, data); err != nil {
		return err
	}
	if opts.Viewer == "" {
		return nil
	}

	e.logger().Debug("opening file in viewer", "viewer", opts.Viewer)
	waitUntil := e.clock().Add(max(opts.Wait, 0))
	view := e.View
	if view == nil {
		view = ShowInViewer
	}
	if err := view(ctx, opts.Viewer, path); err != nil {
		return err
	}
	if temporary {
		if remaining := waitUntil.Sub(e.clock()); remaining > 0 {
			e.logger().Debug("waiting before removing temp file", "seconds", fmt.Sprintf("%.1f", remaining.Seconds()))
			e.pause(ctx, remaining)
		}
	}
	return nil
}

func (e *Emitter) warnf(format string, args ...any) {
	w := e.Stderr
	if w == nil {
		w = os.Stderr
	}
	color.New(color.FgYellow).Fprintf(w, "warning: "+format+"\n", args...)
}

func (e *Emitter) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

func (e *Emitter) pause(ctx context.Context, d time.Duration) {
	if e.sleep != nil {
		e.sleep(ctx, d)
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (e *Emitter) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}
