// Package view renders assessments and history for the console. All output
// is read-only; lipgloss styling degrades to plain text on dumb terminals.
package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/store"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Faint(true)
	upStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	downStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	rule = strings.Repeat("-", 70)
)

// Current renders one or all assessments. keys must exist in d.Assessments
// or d.Topics; callers resolve unknown keys before rendering.
func Current(d *store.Data, keys []string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("CURRENT ASSESSMENTS") + "\n")

	for _, key := range keys {
		a := d.Assessments[key]
		sb.WriteString("\n" + titleStyle.Render(a.Title) + "\n")
		sb.WriteString(labelStyle.Render("Question: ") + a.Question + "\n")

		if !a.Assessed() {
			sb.WriteString("Status: Not yet assessed\n")
			sb.WriteString(rule + "\n")
			continue
		}

		sb.WriteString(fmt.Sprintf("Probability: %d%% (%s)\n", *a.CurrentProbability, a.CurrentDescriptor))
		sb.WriteString(fmt.Sprintf("Confidence: %s\n", a.Confidence))
		sb.WriteString(fmt.Sprintf("Last Updated: %s\n", a.LastUpdated))
		sb.WriteString(fmt.Sprintf("Next Review: %s\n", a.NextReview))

		if len(a.KeyDrivers) > 0 {
			sb.WriteString("Key Drivers:\n")
			for _, driver := range a.KeyDrivers {
				sb.WriteString("  - " + driver + "\n")
			}
		}
		if len(a.KeyUncertainties) > 0 {
			sb.WriteString("Critical Uncertainties:\n")
			for _, u := range a.KeyUncertainties {
				sb.WriteString("  - " + u + "\n")
			}
		}
		if len(a.IndicatorStatus) > 0 {
			sb.WriteString("Indicator Status:\n")
			for _, ind := range sortedIndicators(a.IndicatorStatus) {
				status := a.IndicatorStatus[ind]
				line := fmt.Sprintf("  [%s] %s", status, ind)
				if status == schema.IndicatorCritical {
					line = criticalStyle.Render(line)
				}
				sb.WriteString(line + "\n")
			}
		}
		sb.WriteString(rule + "\n")
	}
	return sb.String()
}

// History renders every entry for one topic, oldest first, with the delta
// arrow and a word diff of the notes against the previous entry.
func History(topic schema.Topic, entries []schema.HistoryEntry) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("ASSESSMENT HISTORY: "+topic.Title) + "\n")

	if len(entries) == 0 {
		sb.WriteString("No history recorded yet.\n")
		return sb.String()
	}

	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("\n#%d - %s\n", i+1, e.Date))
		sb.WriteString(fmt.Sprintf("Probability: %d%% (%s)\n", e.Probability, e.Descriptor))
		sb.WriteString(fmt.Sprintf("Confidence: %s\n", e.Confidence))
		sb.WriteString("Change: " + DeltaLabel(e.Change) + "\n")

		if len(e.Drivers) > 0 {
			sb.WriteString("Drivers: " + strings.Join(e.Drivers, ", ") + "\n")
		}
		if len(e.Uncertainties) > 0 {
			sb.WriteString("Uncertainties: " + strings.Join(e.Uncertainties, ", ") + "\n")
		}
		if e.Notes != "" {
			sb.WriteString("Notes: " + e.Notes + "\n")
		}
		if i > 0 {
			if diff := DiffNotes(entries[i-1], e); diff != "" {
				sb.WriteString("What changed: " + diff + "\n")
			}
		}
		sb.WriteString(rule + "\n")
	}
	return sb.String()
}

// DeltaLabel renders a probability delta for display: "first update" when
// nil, a signed percentage with direction arrow otherwise.
func DeltaLabel(change *int) string {
	if change == nil {
		return "first update"
	}
	switch {
	case *change > 0:
		return upStyle.Render(fmt.Sprintf("↗ +%d%%", *change))
	case *change < 0:
		return downStyle.Render(fmt.Sprintf("↘ %d%%", *change))
	default:
		return "→ no change"
	}
}

// Topics lists the registry with assessment and history counts.
func Topics(d *store.Data) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("CONFIGURED TOPICS") + "\n\n")

	for _, key := range d.SortedKeys() {
		topic := d.Topics[key]
		mark := "o"
		if a, ok := d.Assessments[key]; ok && a.Assessed() {
			mark = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, key))
		sb.WriteString(fmt.Sprintf("  Title: %s\n", topic.Title))
		sb.WriteString(fmt.Sprintf("  Horizon: %s\n", topic.Horizon))
		sb.WriteString(fmt.Sprintf("  Indicators: %d\n", len(topic.KeyIndicators)))
		if n := len(d.History[key]); n > 0 {
			sb.WriteString(fmt.Sprintf("  History Entries: %d\n", n))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Total Topics: %d\n", len(d.Topics)))
	sb.WriteString(labelStyle.Render("Legend: * = assessed, o = not yet assessed") + "\n")
	return sb.String()
}

func sortedIndicators(status map[string]schema.IndicatorStatus) []string {
	names := make([]string, 0, len(status))
	for name := range status {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
