package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("SOLVR_INFRA_CONFIG", "/custom/config.toml")
		t.Setenv("SOLVR_INFRA_HOME", "/custom/solvr")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/solvr" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/solvr")
		}
		if defaults["log_dir"] != "/custom/solvr/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/solvr/log")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("SOLVR_INFRA_CONFIG", "")
		t.Setenv("SOLVR_INFRA_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "solvr-infra.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "solvr-infra")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}

		wantLog := filepath.Join(wantBase, "log")
		if defaults["log_dir"] != wantLog {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], wantLog)
		}

		wantSSH := filepath.Join(homeDir, ".ssh")
		if defaults["ssh_dir"] != wantSSH {
			t.Errorf("ssh_dir = %q, want %q", defaults["ssh_dir"], wantSSH)
		}
	})
}
