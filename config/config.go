package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/fleetops/core/admission"
	"github.com/kilianp07/fleetops/core/metrics"
	"github.com/kilianp07/fleetops/infra/mqtt"
)

type Config struct {
	Admission   admission.Config  `json:"admission"`
	Snapshot    SnapshotConfig    `json:"snapshot"`
	Logging     LoggingConfig     `json:"logging"`
	Ledger      LedgerConfig      `json:"ledger"`
	Metrics     metrics.Config    `json:"metrics"`
	MQTT        mqtt.Config       `json:"mqtt"`
	HTTP        HTTPConfig        `json:"http"`
	WeeklyReset WeeklyResetConfig `json:"weekly_reset"`
}

// Load reads the configuration file at path, applies K_ environment
// overrides (K_SECTION__KEY), fills defaults and validates. An empty path
// loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Environment overrides: K_HTTP__ADDR sets http.addr.
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills unset values of every section.
func (c *Config) SetDefaults() {
	c.Admission.SetDefaults()
	c.Snapshot.SetDefaults()
	c.Logging.SetDefaults()
	c.Ledger.SetDefaults()
	c.MQTT.SetDefaults()
	c.HTTP.SetDefaults()
	c.WeeklyReset.SetDefaults()
}

// Validate checks every section and prefixes errors with the section name.
func (c Config) Validate() error {
	checks := []struct {
		name string
		err  error
	}{
		{"admission", c.Admission.Validate()},
		{"snapshot", c.Snapshot.Validate()},
		{"logging", c.Logging.Validate()},
		{"ledger", c.Ledger.Validate()},
		{"metrics", c.Metrics.Validate()},
		{"mqtt", c.MQTT.Validate()},
		{"http", c.HTTP.Validate()},
		{"weekly_reset", c.WeeklyReset.Validate()},
	}
	for _, chk := range checks {
		if chk.err != nil {
			return fmt.Errorf("%s: %w", chk.name, chk.err)
		}
	}
	return nil
}
