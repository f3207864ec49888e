// Package config loads and validates probe settings.
package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/nmslite/metrics-snmp/internal/target"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Agent   AgentConfig               `yaml:"agent"`
	Logging LoggingConfig             `yaml:"logging"`
	Metrics map[string][]MetricConfig `yaml:"metrics,omitempty" validate:"dive,keys,required,endkeys,min=1,dive"`
}

type AgentConfig struct {
	Host        string `yaml:"host" validate:"required"`
	Name        string `yaml:"name,omitempty"`
	Port        int    `yaml:"port" validate:"min=1,max=65535"`
	Community   string `yaml:"community" validate:"required"`
	SNMPVersion string `yaml:"snmp_version" validate:"oneof=1 2c"`
	TimeoutMS   int    `yaml:"timeout_ms" validate:"min=1"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// MetricConfig is one entry of a metric group defined in the config file
type MetricConfig struct {
	Name string `yaml:"name" validate:"required"`
	OID  string `yaml:"oid" validate:"required"`
	Type string `yaml:"type,omitempty" validate:"omitempty,oneof=Unknown Integer Counter32 Counter64 Unsigned32 Opaque OctetString"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			Host:        "127.0.0.1",
			Port:        161,
			Community:   "public",
			SNMPVersion: "2c",
			TimeoutMS:   2000,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads configuration from file and applies environment variable overrides.
// An empty path skips the file and starts from Default().
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		// Read config file
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse YAML over the defaults
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate ensures all configuration values are usable
func (c *Config) Validate() error {
	return validateStruct(c)
}

// applyEnvOverrides checks for environment variables with METRICS_SNMP_ prefix
func applyEnvOverrides(cfg *Config) {
	// Agent overrides
	if v := os.Getenv("METRICS_SNMP_AGENT_HOST"); v != "" {
		cfg.Agent.Host = v
	}
	if v := os.Getenv("METRICS_SNMP_AGENT_NAME"); v != "" {
		cfg.Agent.Name = v
	}
	if v := os.Getenv("METRICS_SNMP_AGENT_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Agent.Port)
	}
	if v := os.Getenv("METRICS_SNMP_AGENT_COMMUNITY"); v != "" {
		cfg.Agent.Community = v
	}
	if v := os.Getenv("METRICS_SNMP_AGENT_SNMP_VERSION"); v != "" {
		cfg.Agent.SNMPVersion = v
	}
	if v := os.Getenv("METRICS_SNMP_AGENT_TIMEOUT_MS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Agent.TimeoutMS)
	}

	// Logging overrides
	if v := os.Getenv("METRICS_SNMP_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("METRICS_SNMP_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
}

// Timeout returns the request timeout as a duration
func (a *AgentConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutMS) * time.Millisecond
}

// DisplayName returns the agent name used in metric lines, defaulting to the host
func (a *AgentConfig) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Host
}

// Targets converts the configured metric groups into target tables
func (c *Config) Targets() (map[string][]target.Target, error) {
	groups := make(map[string][]target.Target, len(c.Metrics))
	for nickname, entries := range c.Metrics {
		targets := make([]target.Target, 0, len(entries))
		for _, m := range entries {
			vtype := target.Unknown
			if m.Type != "" {
				var err error
				vtype, err = target.ParseValueType(m.Type)
				if err != nil {
					return nil, fmt.Errorf("metrics.%s: %w", nickname, err)
				}
			}
			targets = append(targets, target.New(m.Name, m.OID, vtype))
		}
		groups[nickname] = targets
	}
	return groups, nil
}

// RegisterMetrics adds the configured metric groups to a registry
func (c *Config) RegisterMetrics(r *target.Registry) error {
	groups, err := c.Targets()
	if err != nil {
		return err
	}

	nicknames := make([]string, 0, len(groups))
	for n := range groups {
		nicknames = append(nicknames, n)
	}
	sort.Strings(nicknames)

	for _, n := range nicknames {
		if err := r.Register(n, groups[n]); err != nil {
			return fmt.Errorf("failed to register metric group: %w", err)
		}
	}
	return nil
}

// DumpExampleConfig writes an example configuration to the provided writer
func DumpExampleConfig(w io.Writer) error {
	example := Default()
	example.Agent.Name = "web01"
	example.Metrics = map[string][]MetricConfig{
		"sys": {
			{Name: "sysName", OID: "1.3.6.1.2.1.1.5.0", Type: "OctetString"},
			{Name: "sysUpTime", OID: "1.3.6.1.2.1.1.3.0", Type: "Unknown"},
		},
		"ifhc": {
			{Name: "ifHCInOctets", OID: "1.3.6.1.2.1.31.1.1.1.6.1", Type: "Counter64"},
			{Name: "ifHCOutOctets", OID: "1.3.6.1.2.1.31.1.1.1.10.1", Type: "Counter64"},
		},
	}

	// Create a YAML node for custom formatting
	var node yaml.Node
	if err := node.Encode(example); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	header := `# =============================================================================
# metrics-snmp Example Configuration
# =============================================================================
# Command line flags take precedence over this file.
#
# Environment variable overrides follow the pattern: METRICS_SNMP_<SECTION>_<KEY>
# Example: METRICS_SNMP_AGENT_HOST, METRICS_SNMP_AGENT_COMMUNITY
#
# metrics: extra metric groups, usable as METRIC next to the built-in
# desc, ss, la, dsk, mem and if groups (which can not be redefined).
# type is one of Unknown, Integer, Counter32, Counter64, Unsigned32,
# Opaque, OctetString. Unknown accepts any numeric or string value.
# =============================================================================

`
	if _, err := fmt.Fprint(w, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&node); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close encoder: %w", err)
	}

	return nil
}
