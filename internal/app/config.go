package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Output formats understood by Run.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatHCL   = "hcl"
	FormatDOT   = "dot"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths []string // hcl files or directories

	Format      string // one of Formats()
	OutputPath  string // empty: the App's output writer
	MetricsFile string // empty: metrics are not written

	LogFormat string
	LogLevel  string
}

// NewConfig fills in defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one graph path is required")
	}

	cfg.Format = strings.ToLower(cfg.Format)
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}
	if formats := Formats(); !slices.Contains(formats, cfg.Format) {
		return nil, fmt.Errorf("invalid format %q: must be one of %s", cfg.Format, strings.Join(formats, ", "))
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	return &cfg, nil
}
