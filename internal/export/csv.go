package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/store"
)

// csvHeader is the column order of the history export. Reimport depends on
// it, so changes here are breaking.
var csvHeader = []string{
	"Topic", "Title", "Date", "Probability", "Descriptor",
	"Confidence", "Change", "Drivers", "Uncertainties", "Notes",
}

type csvExporter struct{}

// Export writes one row per history entry, topics in lexical order, entries
// in log order. An entry without a delta leaves the Change column empty.
func (e *csvExporter) Export(d *store.Data, _ time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}

	keys := make([]string, 0, len(d.History))
	for k := range d.History {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		title := d.Topics[key].Title
		if title == "" {
			if a, ok := d.Assessments[key]; ok && a.Title != "" {
				title = a.Title
			} else {
				title = key
			}
		}
		for _, entry := range d.History[key] {
			change := ""
			if entry.Change != nil {
				change = strconv.Itoa(*entry.Change)
			}
			row := []string{
				key,
				title,
				entry.Date,
				strconv.Itoa(entry.Probability),
				entry.Descriptor,
				string(entry.Confidence),
				change,
				strings.Join(entry.Drivers, "; "),
				strings.Join(entry.Uncertainties, "; "),
				entry.Notes,
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("writing csv row for %q: %w", key, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Row is one reimported history record.
type Row struct {
	Topic         string
	Title         string
	Date          string
	Probability   int
	Descriptor    string
	Confidence    schema.Confidence
	Change        *int
	Drivers       []string
	Uncertainties []string
	Notes         string
}

// ParseCSV reads an export back into rows. It is the inverse of the CSV
// exporter for all serialized fields.
func ParseCSV(data []byte) ([]Row, error) {
	r := csv.NewReader(bytes.NewReader(data))

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected csv header: %v", header)
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		probability, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, fmt.Errorf("row for %q: bad probability %q", rec[0], rec[3])
		}
		var change *int
		if rec[6] != "" {
			v, err := strconv.Atoi(rec[6])
			if err != nil {
				return nil, fmt.Errorf("row for %q: bad change %q", rec[0], rec[6])
			}
			change = &v
		}

		rows = append(rows, Row{
			Topic:         rec[0],
			Title:         rec[1],
			Date:          rec[2],
			Probability:   probability,
			Descriptor:    rec[4],
			Confidence:    schema.Confidence(rec[5]),
			Change:        change,
			Drivers:       splitList(rec[7]),
			Uncertainties: splitList(rec[8]),
			Notes:         rec[9],
		})
	}
	return rows, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "; ")
	return parts
}
