package cloud

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// TokenEnvVar is the environment variable checked first for the Hetzner
// Cloud API token.
const TokenEnvVar = "HCLOUD_TOKEN"

// ResolveToken returns the Hetzner Cloud API token, checking the
// HCLOUD_TOKEN environment variable first and falling back to the active
// context of the hcloud CLI config (~/.config/hcloud/cli.toml).
func ResolveToken() (string, error) {
	return resolveToken(os.Getenv(TokenEnvVar), defaultCLIConfigPath())
}

func defaultCLIConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hcloud", "cli.toml")
}

func resolveToken(envToken, cliConfigPath string) (string, error) {
	if envToken != "" {
		return envToken, nil
	}

	if cliConfigPath != "" {
		token, err := tokenFromCLIConfig(cliConfigPath)
		if err == nil && token != "" {
			return token, nil
		}
	}

	return "", fmt.Errorf("%s not set and no active hcloud context found; set %s or run: hcloud context create <name>", TokenEnvVar, TokenEnvVar)
}

// cliConfig mirrors the hcloud CLI's cli.toml layout.
type cliConfig struct {
	ActiveContext string `toml:"active_context"`
	Contexts      []struct {
		Name  string `toml:"name"`
		Token string `toml:"token"`
	} `toml:"contexts"`
}

// tokenFromCLIConfig reads the token of the active context from the
// hcloud CLI config file.
func tokenFromCLIConfig(path string) (string, error) {
	var cfg cliConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return "", fmt.Errorf("reading hcloud CLI config: %w", err)
	}
	if cfg.ActiveContext == "" {
		return "", fmt.Errorf("no active hcloud context in %s", path)
	}
	for _, c := range cfg.Contexts {
		if c.Name == cfg.ActiveContext {
			return c.Token, nil
		}
	}
	return "", fmt.Errorf("active hcloud context %q not found in %s", cfg.ActiveContext, path)
}
