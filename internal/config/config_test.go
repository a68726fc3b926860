package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReviewCadenceDays != 7 {
		t.Errorf("ReviewCadenceDays = %d, want 7", cfg.ReviewCadenceDays)
	}
	if cfg.ChangeThreshold != 5 {
		t.Errorf("ChangeThreshold = %d, want 5", cfg.ChangeThreshold)
	}
	if cfg.DueSoonDays != 3 {
		t.Errorf("DueSoonDays = %d, want 3", cfg.DueSoonDays)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskwatch.yaml")
	content := "data_dir: /tmp/assessments\nchange_threshold: 10\nemail:\n  smtp_host: mail.example.com\n  smtp_port: 587\n  from: me@example.com\n  to: [me@example.com]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/tmp/assessments" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.ChangeThreshold != 10 {
		t.Errorf("ChangeThreshold = %d, want 10", cfg.ChangeThreshold)
	}
	// Values absent from the file keep their defaults.
	if cfg.ReviewCadenceDays != 7 {
		t.Errorf("ReviewCadenceDays = %d, want default 7", cfg.ReviewCadenceDays)
	}
	if cfg.Email == nil || cfg.Email.SMTPHost != "mail.example.com" {
		t.Errorf("Email = %+v", cfg.Email)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "data_dir: [unclosed"},
		{"zero cadence", "review_cadence_days: 0"},
		{"negative due soon", "due_soon_days: -1"},
		{"empty data dir", `data_dir: ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "riskwatch.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("invalid config accepted")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing explicit config file accepted")
	}
}
