package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/riskwatch/internal/store"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dueSoonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	faintStyle   = lipgloss.NewStyle().Faint(true)

	rule = strings.Repeat("-", 70)
)

// RenderStatus formats the review-status partition for the console.
func RenderStatus(st Status) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("ASSESSMENT STATUS") + "\n")
	sb.WriteString(faintStyle.Render("Date: "+st.Date) + "\n\n")

	if len(st.Overdue) > 0 {
		sb.WriteString(overdueStyle.Render("OVERDUE:") + "\n")
		for _, item := range st.Overdue {
			sb.WriteString(fmt.Sprintf("  - %s - %d days overdue (due: %s)\n", item.Title, item.DaysOverdue, item.NextReview))
		}
		sb.WriteString("\n")
	}
	if len(st.Never) > 0 {
		sb.WriteString(overdueStyle.Render("NEVER ASSESSED:") + "\n")
		for _, item := range st.Never {
			sb.WriteString(fmt.Sprintf("  - %s\n", item.Title))
		}
		sb.WriteString("\n")
	}
	if len(st.DueSoon) > 0 {
		sb.WriteString(dueSoonStyle.Render("DUE SOON:") + "\n")
		for _, item := range st.DueSoon {
			sb.WriteString(fmt.Sprintf("  - %s - due in %d days (%s)\n", item.Title, item.DaysUntil, item.NextReview))
		}
		sb.WriteString("\n")
	}
	if !st.NeedsAttention() {
		sb.WriteString(okStyle.Render("All assessments are up to date.") + "\n")
	}
	if len(st.Current) > 0 {
		sb.WriteString(faintStyle.Render("CURRENT:") + "\n")
		for _, item := range st.Current {
			sb.WriteString(fmt.Sprintf("  - %s (next review %s)\n", item.Title, item.NextReview))
		}
	}
	return sb.String()
}

// RenderSummary formats the full weekly report: status overview, risk-level
// grouping, and every significant change in the history log.
func RenderSummary(d *store.Data, st Status, threshold int) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("WEEKLY ASSESSMENT REPORT") + "\n")
	sb.WriteString(faintStyle.Render("Generated: "+st.Date) + "\n\n")

	sb.WriteString(fmt.Sprintf("Total Topics: %d\n", len(d.Topics)))
	sb.WriteString(fmt.Sprintf("Assessed:     %d/%d\n", AssessedCount(d), len(d.Topics)))
	sb.WriteString(fmt.Sprintf("Overdue:      %d\n", len(st.Overdue)+len(st.Never)))
	sb.WriteString(fmt.Sprintf("Due Soon:     %d\n", len(st.DueSoon)))

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString(headerStyle.Render("CURRENT RISK LEVELS") + "\n")
	groups := GroupByRisk(d)
	for _, level := range RiskLevels {
		entries := groups[level]
		if len(entries) == 0 {
			continue
		}
		sb.WriteString("\n" + string(level) + ":\n")
		for _, e := range entries {
			if level == RiskNotAssessed {
				sb.WriteString(fmt.Sprintf("  - %s\n", e.Title))
				continue
			}
			sb.WriteString(fmt.Sprintf("  - %s: %d%% (Confidence: %s)\n", e.Title, e.Probability, e.Confidence))
		}
	}

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString(headerStyle.Render("SIGNIFICANT RECENT CHANGES") + "\n")
	changes := SignificantChanges(d, threshold)
	if len(changes) == 0 {
		sb.WriteString(fmt.Sprintf("  No significant changes (±%d%% or more) in recent updates\n", threshold))
		return sb.String()
	}
	for _, c := range changes {
		arrow := "↗"
		if c.Delta < 0 {
			arrow = "↘"
		}
		sb.WriteString(fmt.Sprintf("  %s %s: %+d%% on %s\n", arrow, c.Title, c.Delta, c.Date))
		if c.Notes != "" {
			sb.WriteString(faintStyle.Render("     Reason: "+c.Notes) + "\n")
		}
	}
	return sb.String()
}
