// Package config holds the runtime configuration for the tracker. Every
// component receives a Config at construction; there is no package-level
// mutable state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Email configures the SMTP reminder sender. STARTTLS is always required.
type Email struct {
	SMTPHost string   `yaml:"smtp_host" json:"smtp_server"`
	SMTPPort int      `yaml:"smtp_port" json:"smtp_port"`
	Username string   `yaml:"username" json:"smtp_user"`
	Password string   `yaml:"password" json:"smtp_password"`
	From     string   `yaml:"from" json:"from_email"`
	To       []string `yaml:"to" json:"to_email"`
}

// Config is the explicit runtime configuration passed into each component.
type Config struct {
	DataDir           string `yaml:"data_dir"`
	OutputDir         string `yaml:"output_dir"`
	ReviewCadenceDays int    `yaml:"review_cadence_days"`
	DueSoonDays       int    `yaml:"due_soon_days"`
	ChangeThreshold   int    `yaml:"change_threshold"`
	DashboardHost     string `yaml:"dashboard_host"`
	DashboardPort     int    `yaml:"dashboard_port"`
	Email             *Email `yaml:"email"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:           "./data",
		OutputDir:         "./visualizations",
		ReviewCadenceDays: 7,
		DueSoonDays:       3,
		ChangeThreshold:   5,
		DashboardHost:     "127.0.0.1",
		DashboardPort:     5000,
	}
}

// Load returns the defaults overlaid with values from an optional YAML file.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.ReviewCadenceDays <= 0 {
		return fmt.Errorf("review_cadence_days must be positive, got %d", c.ReviewCadenceDays)
	}
	if c.DueSoonDays < 0 {
		return fmt.Errorf("due_soon_days must not be negative, got %d", c.DueSoonDays)
	}
	if c.ChangeThreshold <= 0 {
		return fmt.Errorf("change_threshold must be positive, got %d", c.ChangeThreshold)
	}
	return nil
}
