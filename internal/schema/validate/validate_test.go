package validate

import (
	"strings"
	"testing"

	"github.com/dshills/riskwatch/internal/schema"
)

func intp(v int) *int { return &v }

func validAssessment() schema.Assessment {
	return schema.Assessment{
		Title:              "Test Topic",
		Question:           "Will it happen?",
		Horizon:            "3 months",
		CurrentProbability: intp(15),
		CurrentDescriptor:  "Unlikely",
		Confidence:         schema.ConfidenceMedium,
		IndicatorStatus:    map[string]schema.IndicatorStatus{"sig": schema.IndicatorStable},
		LastUpdated:        "2026-01-05",
		NextReview:         "2026-01-12",
	}
}

func TestTopics(t *testing.T) {
	topics := map[string]schema.Topic{
		"ok": {Title: "T", Question: "Q", Horizon: "3 months"},
	}
	if err := Topics(topics); err != nil {
		t.Fatalf("valid topics rejected: %v", err)
	}

	topics["bad"] = schema.Topic{Question: "Q"}
	if err := Topics(topics); err == nil {
		t.Fatal("topic without title accepted")
	}
}

func TestAssessments(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*schema.Assessment)
		wantErr string
	}{
		{"valid", func(a *schema.Assessment) {}, ""},
		{"never assessed", func(a *schema.Assessment) {
			*a = schema.Assessment{Title: "T", Question: "Q"}
		}, ""},
		{"probability out of range", func(a *schema.Assessment) {
			a.CurrentProbability = intp(101)
		}, "max"},
		{"probability zero", func(a *schema.Assessment) {
			a.CurrentProbability = intp(0)
		}, "min"},
		{"descriptor mismatch", func(a *schema.Assessment) {
			a.CurrentDescriptor = "Certain"
		}, "does not match"},
		{"bad confidence", func(a *schema.Assessment) {
			a.Confidence = "Maybe"
		}, "invalid confidence"},
		{"bad indicator status", func(a *schema.Assessment) {
			a.IndicatorStatus["sig"] = "Red"
		}, "invalid status"},
		{"too many drivers", func(a *schema.Assessment) {
			a.KeyDrivers = []string{"a", "b", "c", "d"}
		}, "max"},
		{"bad date", func(a *schema.Assessment) {
			a.LastUpdated = "05/01/2026"
		}, "last_updated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAssessment()
			tt.mutate(&a)
			err := Assessments(map[string]schema.Assessment{"k": a})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestHistoryDeltaConsistency(t *testing.T) {
	good := map[string][]schema.HistoryEntry{
		"k": {
			{ID: "1", Date: "2026-01-05", Probability: 15, Descriptor: "Unlikely", Confidence: schema.ConfidenceMedium},
			{ID: "2", Date: "2026-01-12", Probability: 20, Descriptor: "Unlikely", Confidence: schema.ConfidenceMedium, Change: intp(5)},
		},
	}
	if err := History(good); err != nil {
		t.Fatalf("valid history rejected: %v", err)
	}

	bad := map[string][]schema.HistoryEntry{
		"k": {
			{ID: "1", Date: "2026-01-05", Probability: 15, Descriptor: "Unlikely", Confidence: schema.ConfidenceMedium},
			{ID: "2", Date: "2026-01-12", Probability: 20, Descriptor: "Unlikely", Confidence: schema.ConfidenceMedium, Change: intp(3)},
		},
	}
	if err := History(bad); err == nil {
		t.Fatal("inconsistent delta accepted")
	}

	firstWithChange := map[string][]schema.HistoryEntry{
		"k": {
			{ID: "1", Date: "2026-01-05", Probability: 15, Descriptor: "Unlikely", Confidence: schema.ConfidenceMedium, Change: intp(15)},
		},
	}
	if err := History(firstWithChange); err == nil {
		t.Fatal("first entry with non-null change accepted")
	}
}
