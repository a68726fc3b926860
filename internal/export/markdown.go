package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/store"
)

type markdownExporter struct{}

// mdSection pairs a topic key with its records for deterministic iteration.
type mdSection struct {
	Key        string
	Assessment schema.Assessment
	History    []schema.HistoryEntry
}

type mdReport struct {
	Generated string
	Sections  []mdSection
}

var mdTemplate = template.Must(template.New("export").Funcs(template.FuncMap{
	"arrow": func(delta int) string {
		switch {
		case delta > 0:
			return "↗"
		case delta < 0:
			return "↘"
		default:
			return "→"
		}
	},
	"inc":   func(i int) int { return i + 1 },
	"deref": func(p *int) int { return *p },
	"join":  func(items []string) string { return strings.Join(items, ", ") },
}).Parse(`# Assessment Tracker Report

Generated: {{ .Generated }}

## Current Assessments
{{ range .Sections }}
### {{ .Assessment.Title }}

**Question:** {{ .Assessment.Question }}

**Time Horizon:** {{ .Assessment.Horizon }}
{{ if .Assessment.Assessed }}
**Current Probability:** {{ .Assessment.CurrentProbability }}% ({{ .Assessment.CurrentDescriptor }})

**Confidence:** {{ .Assessment.Confidence }}

**Last Updated:** {{ .Assessment.LastUpdated }}

**Next Review:** {{ .Assessment.NextReview }}
{{ if .Assessment.KeyDrivers }}
**Key Drivers:**
{{ range .Assessment.KeyDrivers }}- {{ . }}
{{ end }}{{ end }}{{ if .Assessment.KeyUncertainties }}
**Critical Uncertainties:**
{{ range .Assessment.KeyUncertainties }}- {{ . }}
{{ end }}{{ end }}{{ if .Assessment.Notes }}
**Notes:** {{ .Assessment.Notes }}
{{ end }}{{ else }}
**Status:** Not yet assessed
{{ end }}
---
{{ end }}
## Assessment History
{{ range .Sections }}{{ if .History }}
### {{ .Assessment.Title }}
{{ range $i, $e := .History }}
#### Update #{{ inc $i }} - {{ $e.Date }}

- **Probability:** {{ $e.Probability }}% ({{ $e.Descriptor }})
- **Confidence:** {{ $e.Confidence }}
{{ if $e.Change }}- **Change:** {{ arrow (deref $e.Change) }} {{ printf "%+d" (deref $e.Change) }}%
{{ end }}{{ if $e.Drivers }}- **Drivers:** {{ join $e.Drivers }}
{{ end }}{{ if $e.Uncertainties }}- **Uncertainties:** {{ join $e.Uncertainties }}
{{ end }}{{ if $e.Notes }}- **Notes:** {{ $e.Notes }}
{{ end }}{{ end }}
---
{{ end }}{{ end }}`))

// Export renders the current assessments followed by the full history, topics
// in lexical order.
func (e *markdownExporter) Export(d *store.Data, now time.Time) ([]byte, error) {
	keys := make([]string, 0, len(d.Assessments))
	for k := range d.Assessments {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rep := mdReport{Generated: now.Format("2006-01-02 15:04:05")}
	for _, key := range keys {
		rep.Sections = append(rep.Sections, mdSection{
			Key:        key,
			Assessment: d.Assessments[key],
			History:    d.History[key],
		})
	}

	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, rep); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
