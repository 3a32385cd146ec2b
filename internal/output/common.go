package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrWriteFile is returned when the output file cannot be written.
var ErrWriteFile = errors.New("could not write file")

const tempFilePrefix = "git-big-picture-"

// guessFormat returns the suffix of path without the dot, or "" when path has
// no suffix.
func guessFormat(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimPrefix(ext, ".")
}

// writeFile writes data to path and syncs it to disk before returning, so a
// viewer started right after sees the complete file.
func writeFile(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w '%s':\n>>>%v", ErrWriteFile, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w '%s':\n>>>%v", ErrWriteFile, path, cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w '%s':\n>>>%v", ErrWriteFile, path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w '%s':\n>>>%v", ErrWriteFile, path, err)
	}
	return nil
}

// createTempFile reserves an empty temporary file ending in ".<format>".
func createTempFile(dir, format string) (string, error) {
	f, err := os.CreateTemp(dir, tempFilePrefix+"*."+format)
	if err != nil {
		return "", fmt.Errorf("%w:\n>>>%v", ErrWriteFile, err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("%w '%s':\n>>>%v", ErrWriteFile, name, err)
	}
	return name, nil
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
