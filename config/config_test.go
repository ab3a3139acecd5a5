package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCAddress != defaultRPCAddress {
		t.Fatalf("unexpected rpc address %q", cfg.RPCAddress)
	}
	if cfg.NetworkName != defaultNetworkName {
		t.Fatalf("unexpected network name %q", cfg.NetworkName)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file not written: %v", err)
	}

	// A second load reads the persisted file.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *again != *cfg {
		t.Fatalf("reload mismatch: %+v vs %+v", again, cfg)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("DataDir = \"/tmp/quorum-test\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/tmp/quorum-test" {
		t.Fatalf("explicit field lost: %q", cfg.DataDir)
	}
	if cfg.RPCAddress != defaultRPCAddress || cfg.NetworkName != defaultNetworkName {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestResolveKeystoreDir(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/quorum"}
	if got := cfg.ResolveKeystoreDir(); got != filepath.Join("/var/lib/quorum", "keystore") {
		t.Fatalf("unexpected default keystore dir %q", got)
	}
	cfg.KeystoreDir = "/etc/quorum/keys"
	if got := cfg.ResolveKeystoreDir(); got != "/etc/quorum/keys" {
		t.Fatalf("explicit keystore dir lost: %q", got)
	}
}
