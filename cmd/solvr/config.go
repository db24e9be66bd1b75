package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// cliConfig holds settings for the solvr CLI, stored as TOML at
// ~/.config/solvr.toml. The SOLVR_API_KEY environment variable
// overrides the stored key.
type cliConfig struct {
	APIKey string `toml:"api_key"`
	APIURL string `toml:"api_url"`
}

func configPath() (string, error) {
	if path := os.Getenv("SOLVR_CONFIG"); path != "" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "solvr.toml"), nil
}

func readConfig() (*cliConfig, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	var cfg cliConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return &cliConfig{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return &cfg, nil
}

func writeConfig(cfg *cliConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// apiKey resolves the API key: SOLVR_API_KEY first, then the config file.
func (c *cliConfig) apiKey() (string, error) {
	if key := os.Getenv("SOLVR_API_KEY"); key != "" {
		return key, nil
	}
	if c.APIKey != "" {
		return c.APIKey, nil
	}
	return "", fmt.Errorf("no API key configured: set SOLVR_API_KEY or run 'solvr config set api_key <key>'")
}
