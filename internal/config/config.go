package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultUserAgent identifies requests as a desktop Chrome browser
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)" +
	" AppleWebKit/537.36 (KHTML, like Gecko)" +
	" Chrome/114.0.0.0 Safari/537.36"

// DefaultExcludedDomains lists social and platform hosts whose links are ignored
var DefaultExcludedDomains = []string{
	"g.co", "facebook.com", "instagram.com", "x.com", "twitter.com",
	"pinterest.com", "shopify.com", "edpb.europa.eu",
}

// DefaultReportFooter holds the contact lines printed at the end of every report
var DefaultReportFooter = []string{
	"https://www.terryecom.com",
	"terry@terryecom.com",
	"https://www.instagram.com/terryecom/",
	"https://x.com/TerryEcom",
}

// Config holds all runtime configuration parameters
type Config struct {
	ListenAddr      string   `json:"listen_addr" yaml:"listen_addr"`
	StaticDir       string   `json:"static_dir" yaml:"static_dir"`
	ReportDir       string   `json:"report_dir" yaml:"report_dir"`
	ReportFormat    string   `json:"report_format" yaml:"report_format"`
	DBPath          string   `json:"db_path" yaml:"db_path"`
	MetricsPath     string   `json:"metrics_path" yaml:"metrics_path"`
	PageTimeoutMs   int      `json:"page_timeout_ms" yaml:"page_timeout_ms"`
	ProbeTimeoutMs  int      `json:"probe_timeout_ms" yaml:"probe_timeout_ms"`
	UserAgent       string   `json:"user_agent" yaml:"user_agent"`
	ExcludedDomains []string `json:"excluded_domains" yaml:"excluded_domains"`
	EventBuffer     int      `json:"event_buffer" yaml:"event_buffer"`
	ReportFooter    []string `json:"report_footer" yaml:"report_footer"`
	LogLevel        string   `json:"log_level" yaml:"log_level"`
}

// LoadConfig reads and validates configuration from a JSON or YAML file.
// An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config YAML: %w", err)
			}
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config JSON: %w", err)
			}
		}
	}

	// Apply defaults for missing values
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// PageTimeout is the upper bound for fetching one site page
func (c *Config) PageTimeout() time.Duration {
	return time.Duration(c.PageTimeoutMs) * time.Millisecond
}

// ProbeTimeout is the upper bound for checking one outbound link
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMs) * time.Millisecond
}

// applyDefaults sets default values for unspecified fields
func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8000"
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "frontend-dist"
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "reports"
	}
	if cfg.ReportFormat == "" {
		cfg.ReportFormat = "pdf"
	}
	cfg.ReportFormat = strings.ToLower(cfg.ReportFormat)
	if cfg.DBPath == "" {
		cfg.DBPath = "linkcheck.db"
	}
	if cfg.PageTimeoutMs == 0 {
		cfg.PageTimeoutMs = 15000
	}
	if cfg.ProbeTimeoutMs == 0 {
		cfg.ProbeTimeoutMs = 10000
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.ExcludedDomains == nil {
		cfg.ExcludedDomains = append([]string(nil), DefaultExcludedDomains...)
	}
	if cfg.EventBuffer == 0 {
		cfg.EventBuffer = 64
	}
	if cfg.ReportFooter == nil {
		cfg.ReportFooter = append([]string(nil), DefaultReportFooter...)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate checks that values are sensible
func validate(cfg *Config) error {
	if cfg.ReportFormat != "pdf" && cfg.ReportFormat != "xlsx" {
		return fmt.Errorf("report_format must be pdf or xlsx, got %q", cfg.ReportFormat)
	}
	if cfg.PageTimeoutMs < 1000 {
		return fmt.Errorf("page_timeout_ms must be >= 1000")
	}
	if cfg.ProbeTimeoutMs < 1000 {
		return fmt.Errorf("probe_timeout_ms must be >= 1000")
	}
	if cfg.EventBuffer < 1 {
		return fmt.Errorf("event_buffer must be >= 1")
	}
	for _, d := range cfg.ExcludedDomains {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("excluded_domains must not contain empty entries")
		}
	}
	return nil
}
