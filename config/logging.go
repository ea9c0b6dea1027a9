package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LoggingConfig defines the application log and the decision log store.
type LoggingConfig struct {
	// Backend selects the decision log store type: "jsonl", "jsonl_rotating",
	// "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the decision log store.
	Path string `json:"path"`
	// Level is the application log level (debug, info, warn, error).
	Level string `json:"level"`
	// Console switches application logs to the console writer.
	Console bool `json:"console"`

	// Rotation settings of the jsonl_rotating backend.
	MaxSizeMB  int `json:"max_size_mb"`
	MaxBackups int `json:"max_backups"`
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" && c.Backend != "none" {
		c.Path = "admission.log"
	}
	if c.Backend == "jsonl_rotating" && c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Backend {
	case "jsonl", "jsonl_rotating", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("path is required")
		}
	case "none":
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("rotation settings must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	return nil
}
