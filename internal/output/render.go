package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/goccy/go-graphviz"
)

var (
	// ErrDotNotFound is returned when the dot executable is not on PATH.
	ErrDotNotFound = errors.New("'dot' not found, please install the Graphviz utility")
	// ErrDotFailed is returned when dot could not be started.
	ErrDotFailed = errors.New("problem calling 'dot'")
)

// DotError reports a dot process that exited with a non-zero status.
type DotError struct {
	Format   string
	ExitCode int
	Stderr   string
}

func (e *DotError) Error() string {
	return fmt.Sprintf("'dot -T%s' terminated prematurely with error code %d; "+
		"probably you specified an invalid format, see 'man dot'.\nThe error from 'dot' was:\n>>>%s",
		e.Format, e.ExitCode, e.Stderr)
}

// Renderer turns graphviz input into an image of the requested format.
type Renderer interface {
	Render(ctx context.Context, lines []string, format string) ([]byte, error)
}

// GraphvizRenderer renders with the graphviz library linked into the binary.
// It supports the formats listed by Supports.
type GraphvizRenderer struct{}

var graphvizFormats = map[string]graphviz.Format{
	"svg":  graphviz.SVG,
	"png":  graphviz.PNG,
	"jpg":  graphviz.JPG,
	"jpeg": graphviz.JPG,
}

// Supports reports whether format can be rendered without the dot binary.
func (GraphvizRenderer) Supports(format string) bool {
	_, ok := graphvizFormats[strings.ToLower(format)]
	return ok
}

func (r GraphvizRenderer) Render(ctx context.Context, lines []string, format string) ([]byte, error) {
	gvFormat, ok := graphvizFormats[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("format %q is not supported by the embedded renderer", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(strings.Join(lines, "\n")))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// DotRenderer pipes the input through an external `dot -T<format>`.
type DotRenderer struct {
	// Path of the dot executable. Empty means "dot" looked up on PATH.
	Path string
}

func (r DotRenderer) Render(ctx context.Context, lines []string, format string) ([]byte, error) {
	path := r.Path
	if path == "" {
		path = "dot"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, ErrDotNotFound
	}

	cmd := exec.CommandContext(ctx, resolved, "-T"+format)
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n"))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &DotError{Format: format, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, fmt.Errorf("%w 'dot -T%s': %v", ErrDotFailed, format, err)
	}
	return stdout.Bytes(), nil
}

// AutoRenderer prefers the external dot binary, which knows every format, and
// falls back to the embedded renderer when dot is missing and the format is
// one the library can produce.
type AutoRenderer struct {
	Dot      DotRenderer
	Embedded GraphvizRenderer
}

func (r AutoRenderer) Render(ctx context.Context, lines []string, format string) ([]byte, error) {
	out, err := r.Dot.Render(ctx, lines, format)
	if errors.Is(err, ErrDotNotFound) && r.Embedded.Supports(format) {
		return r.Embedded.Render(ctx, lines, format)
	}
	return out, err
}

// NewRenderer returns the renderer for a backend name: "dot", "embedded" or
// "auto" (also the empty string).
func NewRenderer(name string) (Renderer, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return AutoRenderer{}, nil
	case "dot":
		return DotRenderer{}, nil
	case "embedded", "graphviz":
		return GraphvizRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q (valid: auto, dot, embedded)", name)
	}
}
