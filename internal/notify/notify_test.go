package notify

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/riskwatch/internal/config"
	"github.com/dshills/riskwatch/internal/report"
)

var monday = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

func sampleStatus() report.Status {
	return report.Status{
		Overdue: []report.Item{
			{Key: "grid_failure", Title: "Regional Grid Failure", NextReview: "2026-01-01", DaysOverdue: 4},
		},
		DueSoon: []report.Item{
			{Key: "port_strike", Title: "Port Strike", NextReview: "2026-01-06", DaysUntil: 1},
		},
		Never: []report.Item{
			{Key: "new_topic", Title: "New Topic", NeverAssessed: true},
		},
	}
}

func TestSubject(t *testing.T) {
	got := Subject(sampleStatus(), monday)
	if !strings.Contains(got, "3 need attention") {
		t.Errorf("subject should count all attention items, got %q", got)
	}
	if !strings.Contains(got, "2026-01-05") {
		t.Errorf("subject should carry the date, got %q", got)
	}
}

func TestBuildBody(t *testing.T) {
	body, err := BuildBody(sampleStatus(), monday)
	if err != nil {
		t.Fatalf("BuildBody: %v", err)
	}

	for _, want := range []string{
		"You have 3 assessment(s) needing attention",
		"(2 overdue, 1 due soon)",
		"Regional Grid Failure",
		"4 days overdue",
		"New Topic",
		"Never assessed",
		"Port Strike",
		"Due in 1 day (2026-01-06)",
		"riskwatch update",
		"Monday, January 5, 2026",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestBuildBodyNothingDue(t *testing.T) {
	body, err := BuildBody(report.Status{}, monday)
	if err != nil {
		t.Fatalf("BuildBody: %v", err)
	}
	if !strings.Contains(body, "You have 0 assessment(s)") {
		t.Errorf("empty status should report zero, got:\n%s", body)
	}
	if strings.Contains(body, "Overdue Assessments") {
		t.Error("empty status should not render the overdue section")
	}
}

func TestResolveEmailFromConfig(t *testing.T) {
	cfg := &config.Email{
		SMTPHost: "smtp.example.com",
		SMTPPort: 465,
		Username: "bot",
		Password: "secret",
		From:     "bot@example.com",
		To:       []string{"analyst@example.com"},
	}
	got, err := ResolveEmail(cfg)
	if err != nil {
		t.Fatalf("ResolveEmail: %v", err)
	}
	if got.SMTPHost != "smtp.example.com" || got.SMTPPort != 465 {
		t.Errorf("config values not carried through: %+v", got)
	}
}

func TestResolveEmailEnvOverride(t *testing.T) {
	t.Setenv("EMAIL_SMTP_SERVER", "smtp.env.example.com")
	t.Setenv("EMAIL_SMTP_PORT", "2525")
	t.Setenv("EMAIL_USER", "env-user@example.com")
	t.Setenv("EMAIL_PASSWORD", "env-pass")

	got, err := ResolveEmail(&config.Email{SMTPHost: "smtp.file.example.com", From: ""})
	if err != nil {
		t.Fatalf("ResolveEmail: %v", err)
	}
	if got.SMTPHost != "smtp.env.example.com" {
		t.Errorf("env host should win, got %s", got.SMTPHost)
	}
	if got.SMTPPort != 2525 {
		t.Errorf("env port should win, got %d", got.SMTPPort)
	}
	if got.From != "env-user@example.com" {
		t.Errorf("from should default to the env user, got %s", got.From)
	}
	if len(got.To) != 1 || got.To[0] != "env-user@example.com" {
		t.Errorf("recipients should default to sender, got %v", got.To)
	}
}

func TestResolveEmailUnconfigured(t *testing.T) {
	if _, err := ResolveEmail(nil); !errors.Is(err, ErrNoEmailConfig) {
		t.Fatalf("expected ErrNoEmailConfig, got %v", err)
	}
}

func TestResolveEmailDefaultPort(t *testing.T) {
	got, err := ResolveEmail(&config.Email{SMTPHost: "smtp.example.com", From: "a@b.c"})
	if err != nil {
		t.Fatalf("ResolveEmail: %v", err)
	}
	if got.SMTPPort != 587 {
		t.Errorf("default port should be 587, got %d", got.SMTPPort)
	}
}

func TestDesktopQuietWhenNothingDue(t *testing.T) {
	if err := Desktop(report.Status{}); err != nil {
		t.Errorf("no attention items should be a no-op, got %v", err)
	}
}
