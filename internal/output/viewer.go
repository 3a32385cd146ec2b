package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrViewerNotFound is returned when the viewer command cannot be started.
var ErrViewerNotFound = errors.New("no such viewer")

// ShowInViewer opens path with the viewer command and waits for it to exit.
// The exit status of the viewer is ignored; many viewers hand the file to an
// already running process and return immediately.
func ShowInViewer(ctx context.Context, viewer, path string) error {
	resolved, err := exec.LookPath(viewer)
	if err != nil {
		return fmt.Errorf("%w: '%s':\n>>>%v", ErrViewerNotFound, viewer, err)
	}

	cmd := exec.CommandContext(ctx, resolved, path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("%w: '%s':\n>>>%v", ErrViewerNotFound, viewer, err)
	}
	return nil
}
