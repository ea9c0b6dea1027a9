package config

import (
	"fmt"
	"strings"
	"time"
)

// SnapshotConfig selects where fleet snapshots come from.
type SnapshotConfig struct {
	// Source is "file" or "postgres".
	Source string `json:"source"`
	// Path is the YAML or JSON fleet file for the file source.
	Path string `json:"path"`
	// DSN is the connection string for the postgres source.
	DSN string `json:"dsn"`
}

func (c *SnapshotConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = "file"
	}
	if c.Source == "file" && c.Path == "" {
		c.Path = "fleet.yaml"
	}
}

func (c SnapshotConfig) Validate() error {
	switch c.Source {
	case "file":
		if c.Path == "" {
			return fmt.Errorf("path is required")
		}
	case "postgres":
		if c.DSN == "" {
			return fmt.Errorf("dsn is required")
		}
	default:
		return fmt.Errorf("unknown source %s", c.Source)
	}
	return nil
}

// LedgerConfig selects the fuel ledger backend.
type LedgerConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

func (c *LedgerConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "fuel.db"
	}
}

func (c LedgerConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	return nil
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr                string `json:"addr"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds"`
	// Token protects the audit endpoints when set.
	Token string `json:"token"`
}

func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 10
	}
	if c.WriteTimeoutSeconds <= 0 {
		c.WriteTimeoutSeconds = 10
	}
}

func (c HTTPConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}

func (c HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c HTTPConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// WeeklyResetConfig schedules the reset of driver worked hours.
type WeeklyResetConfig struct {
	Enabled bool `json:"enabled"`
	// Weekday is an English day name, sunday by default.
	Weekday string `json:"weekday"`
	// Hour is the local hour of the reset, midnight by default.
	Hour int `json:"hour"`
}

func (c *WeeklyResetConfig) SetDefaults() {
	if c.Weekday == "" {
		c.Weekday = "sunday"
	}
}

func (c WeeklyResetConfig) Validate() error {
	if _, err := c.Day(); err != nil {
		return err
	}
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("hour must be between 0 and 23")
	}
	return nil
}

// Day parses Weekday.
func (c WeeklyResetConfig) Day() (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), c.Weekday) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", c.Weekday)
}
