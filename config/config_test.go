package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pdpd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8282" {
		t.Errorf("default addr = %s", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("default driver = %s", cfg.Storage.Driver)
	}
	if cfg.PDP.MaxBagSize != 1000 || cfg.PDP.MaxProductSize != 100000 {
		t.Errorf("default limits = %+v", cfg.PDP)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
storage:
  driver: postgres
  audit_to_db: true
pdp:
  root_policy_id: "urn:example:policyset:root"
  strict_attribute_issuer: true
  max_bag_size: 50
  request_timeout: 2s
  cache_size: 128
  cache_ttl: 30s
logging:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %s", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "postgres" || !cfg.Storage.AuditToDB {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.PDP.RootPolicyID != "urn:example:policyset:root" || !cfg.PDP.StrictAttributeIssuer {
		t.Errorf("pdp = %+v", cfg.PDP)
	}
	if cfg.PDP.MaxBagSize != 50 || cfg.PDP.RequestTimeout != 2*time.Second {
		t.Errorf("pdp limits = %+v", cfg.PDP)
	}
	if cfg.PDP.CacheSize != 128 || cfg.PDP.CacheTTL != 30*time.Second {
		t.Errorf("cache = %+v", cfg.PDP)
	}
	// Unset keys keep their defaults.
	if cfg.PDP.MaxProductSize != 100000 {
		t.Errorf("max_product_size = %d", cfg.PDP.MaxProductSize)
	}
}

func TestLoadValidation(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: cassandra
pdp:
  root_policy_id: "urn:x"
`)
	if _, err := Load(path); err == nil {
		t.Error("unknown driver must be rejected")
	}

	path = writeConfig(t, `
storage:
  driver: memory
`)
	if _, err := Load(path); err == nil {
		t.Error("missing root policy id must be rejected")
	}
}
