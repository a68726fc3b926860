// Package report computes read-only projections over the assessment store
// and history log: the review-status partition, risk-level grouping, and
// significant-change detection. Nothing here mutates stored data.
package report

import (
	"sort"
	"time"

	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/store"
)

// Item is one topic's position in the review-status partition.
type Item struct {
	Key           string `json:"key"`
	Title         string `json:"title"`
	NextReview    string `json:"next_review,omitempty"`
	DaysOverdue   int    `json:"days_overdue,omitempty"`
	DaysUntil     int    `json:"days_until,omitempty"`
	NeverAssessed bool   `json:"never_assessed,omitempty"`
}

// Status partitions every topic by review urgency. A topic appears in
// exactly one slice.
type Status struct {
	Date    string `json:"date"`
	Overdue []Item `json:"overdue"`
	DueSoon []Item `json:"due_soon"`
	Current []Item `json:"current"`
	Never   []Item `json:"never_assessed"`
}

// BuildStatus computes the partition for the given day. Due-soon covers the
// next dueSoonDays days inclusive.
func BuildStatus(d *store.Data, now time.Time, dueSoonDays int) Status {
	today := dayOf(now)
	st := Status{Date: schema.FormatDate(now)}

	for _, key := range d.SortedKeys() {
		a, ok := d.Assessments[key]
		title := d.Topics[key].Title
		if title == "" {
			title = key
		}

		if !ok || !a.Assessed() {
			st.Never = append(st.Never, Item{Key: key, Title: title, NeverAssessed: true})
			continue
		}

		next, err := schema.ParseDate(a.NextReview)
		if err != nil {
			// Unparseable review dates are rejected at load; an orphan that
			// slipped through is surfaced as overdue rather than hidden.
			st.Overdue = append(st.Overdue, Item{Key: key, Title: title, NextReview: a.NextReview})
			continue
		}

		days := int(next.Sub(today).Hours() / 24)
		switch {
		case days < 0:
			st.Overdue = append(st.Overdue, Item{Key: key, Title: title, NextReview: a.NextReview, DaysOverdue: -days})
		case days <= dueSoonDays:
			st.DueSoon = append(st.DueSoon, Item{Key: key, Title: title, NextReview: a.NextReview, DaysUntil: days})
		default:
			st.Current = append(st.Current, Item{Key: key, Title: title, NextReview: a.NextReview})
		}
	}
	return st
}

// NeedsAttention reports whether anything is overdue or due soon.
func (s Status) NeedsAttention() bool {
	return len(s.Overdue) > 0 || len(s.DueSoon) > 0 || len(s.Never) > 0
}

// Change is a history transition whose magnitude met the report threshold.
type Change struct {
	Key   string
	Title string
	Date  string
	Delta int
	Notes string
}

// SignificantChanges flags every history transition with |delta| >= threshold,
// newest first within a topic. Entries without a delta (first updates) never
// qualify.
func SignificantChanges(d *store.Data, threshold int) []Change {
	var out []Change
	for _, key := range sortedHistoryKeys(d) {
		title := d.Topics[key].Title
		if title == "" {
			title = key
		}
		for _, e := range d.History[key] {
			if e.Change == nil {
				continue
			}
			if abs(*e.Change) >= threshold {
				out = append(out, Change{Key: key, Title: title, Date: e.Date, Delta: *e.Change, Notes: e.Notes})
			}
		}
	}
	return out
}

// RiskLevel buckets current probabilities for the summary report.
type RiskLevel string

const (
	RiskCritical    RiskLevel = "Critical (70%+)"
	RiskElevated    RiskLevel = "Elevated (30-70%)"
	RiskLow         RiskLevel = "Low (<30%)"
	RiskNotAssessed RiskLevel = "Not Assessed"
)

// RiskLevels is the display order for the grouping.
var RiskLevels = []RiskLevel{RiskCritical, RiskElevated, RiskLow, RiskNotAssessed}

// RiskEntry is one topic inside a risk group.
type RiskEntry struct {
	Key         string
	Title       string
	Probability int
	Confidence  schema.Confidence
}

// GroupByRisk partitions topics into risk levels by current probability.
func GroupByRisk(d *store.Data) map[RiskLevel][]RiskEntry {
	groups := make(map[RiskLevel][]RiskEntry)
	for _, key := range d.SortedKeys() {
		a := d.Assessments[key]
		title := d.Topics[key].Title
		if title == "" {
			title = key
		}
		if !a.Assessed() {
			groups[RiskNotAssessed] = append(groups[RiskNotAssessed], RiskEntry{Key: key, Title: title})
			continue
		}
		entry := RiskEntry{Key: key, Title: title, Probability: *a.CurrentProbability, Confidence: a.Confidence}
		switch {
		case entry.Probability >= 70:
			groups[RiskCritical] = append(groups[RiskCritical], entry)
		case entry.Probability >= 30:
			groups[RiskElevated] = append(groups[RiskElevated], entry)
		default:
			groups[RiskLow] = append(groups[RiskLow], entry)
		}
	}
	return groups
}

// AssessedCount returns how many topics have at least one update.
func AssessedCount(d *store.Data) int {
	n := 0
	for _, a := range d.Assessments {
		if a.Assessed() {
			n++
		}
	}
	return n
}

func sortedHistoryKeys(d *store.Data) []string {
	keys := make([]string, 0, len(d.History))
	for k := range d.History {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
