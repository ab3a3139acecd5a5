package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	RPCAddress  string `toml:"RPCAddress"`
	DataDir     string `toml:"DataDir"`
	GenesisFile string `toml:"GenesisFile"`
	KeystoreDir string `toml:"KeystoreDir"`
	NetworkName string `toml:"NetworkName"`
}

// ResolveKeystoreDir returns the configured keystore directory, defaulting to
// a keystore subdirectory under the data dir.
func (c *Config) ResolveKeystoreDir() string {
	if dir := strings.TrimSpace(c.KeystoreDir); dir != "" {
		return dir
	}
	return filepath.Join(c.DataDir, "keystore")
}

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = defaultRPCAddress
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = defaultDataDir
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = defaultNetworkName
	}
	return cfg, nil
}

const (
	defaultRPCAddress  = ":8645"
	defaultDataDir     = "./quorum-data"
	defaultNetworkName = "quorum-local"
)

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RPCAddress:  defaultRPCAddress,
		DataDir:     defaultDataDir,
		NetworkName: defaultNetworkName,
	}
	if err := persist(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to write default config %s: %w", path, err)
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
