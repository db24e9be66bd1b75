package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - SOLVR_INFRA_CONFIG: config file location (default: ~/.config/solvr-infra.toml)
//   - SOLVR_INFRA_HOME: base directory for instance data (default: ~/.local/share/solvr-infra)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"ssh_dir":     filepath.Join(homeDir, ".ssh"),
	}, nil
}

// getConfigPath returns the config file path, checking SOLVR_INFRA_CONFIG env var
// first, then falling back to the default ~/.config/solvr-infra.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("SOLVR_INFRA_CONFIG"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "solvr-infra.toml"), nil
}

// getBaseDir returns the base directory for instance data, checking SOLVR_INFRA_HOME
// env var first, then falling back to the XDG default ~/.local/share/solvr-infra.
func getBaseDir() (string, error) {
	if path := os.Getenv("SOLVR_INFRA_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "solvr-infra"), nil
}
