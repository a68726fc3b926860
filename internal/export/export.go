// Package export serializes the assessment store and history log into
// portable formats. Exports are deterministic read-only projections: running
// the same export twice over the same data yields identical bytes apart from
// the generation timestamp in the Markdown header.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/riskwatch/internal/store"
)

// ErrUnknownFormat reports an unsupported export format string.
var ErrUnknownFormat = errors.New("unknown export format")

// Exporter formats the collections into bytes for output.
type Exporter interface {
	Export(d *store.Data, now time.Time) ([]byte, error)
}

// New returns an Exporter for the given format string.
// Supported formats: "csv", "markdown".
func New(format string) (Exporter, error) {
	switch format {
	case "csv":
		return &csvExporter{}, nil
	case "markdown", "md":
		return &markdownExporter{}, nil
	default:
		return nil, fmt.Errorf("%w %q: supported formats are csv, markdown", ErrUnknownFormat, format)
	}
}

// DefaultFilename builds the timestamped output name used when --out is not
// given.
func DefaultFilename(format string, now time.Time) string {
	stamp := now.Format("20060102_150405")
	switch format {
	case "markdown", "md":
		return fmt.Sprintf("assessments_report_%s.md", stamp)
	default:
		return fmt.Sprintf("assessments_export_%s.csv", stamp)
	}
}
