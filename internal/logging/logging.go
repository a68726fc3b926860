// Package logging builds the CLI's structured logger.
package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Verbose lowers the level to Debug;
// the default only surfaces warnings so command output stays clean.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: verbose,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})
}
