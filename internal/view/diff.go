package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/riskwatch/internal/schema"
)

var (
	insStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	delStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Strikethrough(true)
)

// DiffNotes produces a word-level diff between the analytic text of two
// consecutive history entries. Insertions are highlighted, deletions struck
// through. Returns "" when nothing material changed.
func DiffNotes(prev, cur schema.HistoryEntry) string {
	before := entryText(prev)
	after := entryText(cur)
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		text := d.Text
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			sb.WriteString(insStyle.Render(text))
		case diffmatchpatch.DiffDelete:
			sb.WriteString(delStyle.Render(text))
		default:
			sb.WriteString(text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// entryText flattens the fields an analyst edits between updates into one
// comparable string.
func entryText(e schema.HistoryEntry) string {
	parts := make([]string, 0, 3)
	if len(e.Drivers) > 0 {
		parts = append(parts, strings.Join(e.Drivers, "; "))
	}
	if len(e.Uncertainties) > 0 {
		parts = append(parts, strings.Join(e.Uncertainties, "; "))
	}
	if e.Notes != "" {
		parts = append(parts, e.Notes)
	}
	return strings.Join(parts, "\n")
}
