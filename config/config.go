// Package config loads the PDP server configuration from a YAML file with
// sensible defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level PDP server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	PDP     PDPConfig     `yaml:"pdp"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // "postgres" or "memory"
	// PolicyFile seeds the memory driver from a JSON policy list.
	PolicyFile string `yaml:"policy_file"`
	// AuditToDB persists audit records through the storage driver.
	AuditToDB bool `yaml:"audit_to_db"`
}

type PDPConfig struct {
	RootPolicyID          string        `yaml:"root_policy_id"`
	RootPolicyVersion     string        `yaml:"root_policy_version"`
	StrictAttributeIssuer bool          `yaml:"strict_attribute_issuer"`
	MaxBagSize            int           `yaml:"max_bag_size"`
	MaxProductSize        int           `yaml:"max_product_size"`
	RequestTimeout        time.Duration `yaml:"request_timeout"`
	CacheSize             int           `yaml:"cache_size"`
	CacheTTL              time.Duration `yaml:"cache_ttl"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8282",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{Driver: "memory"},
		PDP: PDPConfig{
			MaxBagSize:     1000,
			MaxProductSize: 100000,
			RequestTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the configuration file over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.PDP.RootPolicyID == "" {
		return fmt.Errorf("pdp.root_policy_id is required")
	}
	return nil
}
