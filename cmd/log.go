package cmd

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing timestamped messages to w.
func newLogger(w io.Writer, debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "git-big-picture",
	})
}
