// Package config loads the agent's startup configuration.
//
// This is deliberately outside the correlator's scope (spec §2 lists the
// YAML configuration loader as an external collaborator); it exists so
// cmd/nanolite-agent has something real to wire the exporter and
// recorder from.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level shape of the agent's YAML configuration file.
type Config struct {
	CollectorIP    string `yaml:"collector_ip"`
	CollectorPort  string `yaml:"collector_port"`
	Exporter       string `yaml:"exporter"`
	AgentPID       int64  `yaml:"-"`
	ShutdownMillis int64  `yaml:"shutdown_timeout_ms"`
}

// ShutdownTimeout returns the configured drain watchdog deadline, falling
// back to a conservative default when the field is left unset.
func (c Config) ShutdownTimeout() time.Duration {
	if c.ShutdownMillis <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ShutdownMillis) * time.Millisecond
}

// CollectorAddr returns the dial target for the OTLP exporter.
func (c Config) CollectorAddr() string {
	return fmt.Sprintf("%s:%s", c.CollectorIP, c.CollectorPort)
}

// Load reads and validates a YAML config file at path. Missing or empty
// required fields are fatal, per spec §6.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	applyEnvOverrides(&c)
	c.AgentPID = int64(os.Getpid())
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("NANOLITE_COLLECTOR_IP"); v != "" {
		c.CollectorIP = v
	}
	if v := os.Getenv("NANOLITE_COLLECTOR_PORT"); v != "" {
		c.CollectorPort = v
	}
	if v := os.Getenv("NANOLITE_EXPORTER"); v != "" {
		c.Exporter = v
	}
}

func (c Config) validate() error {
	if c.CollectorIP == "" {
		return fmt.Errorf("config: collector_ip is required")
	}
	if c.CollectorPort == "" {
		return fmt.Errorf("config: collector_port is required")
	}
	if c.Exporter == "" {
		return fmt.Errorf("config: exporter is required")
	}
	return nil
}
