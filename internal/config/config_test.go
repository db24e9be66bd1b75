package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir: "/home/user/.local/share/solvr-infra",
		LogDir:  "/home/user/.local/share/solvr-infra/log",
		SSHDir:  "/home/user/.ssh",
		Store: StoreConfig{
			Type:     "s3",
			S3Bucket: "solvr-infra-state",
			S3Prefix: "instances/",
			S3Region: "eu-central-1",
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.SSHDir != original.SSHDir {
		t.Errorf("SSHDir = %q, want %q", got.SSHDir, original.SSHDir)
	}
	if got.Store.Type != "s3" {
		t.Errorf("Store.Type = %q, want s3", got.Store.Type)
	}
	if got.Store.S3Bucket != "solvr-infra-state" {
		t.Errorf("Store.S3Bucket = %q, want solvr-infra-state", got.Store.S3Bucket)
	}
	if got.Store.S3Region != "eu-central-1" {
		t.Errorf("Store.S3Region = %q, want eu-central-1", got.Store.S3Region)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/solvr-infra", "/home/user/.ssh")

	if cfg.BaseDir != "/data/solvr-infra" {
		t.Errorf("BaseDir = %q", cfg.BaseDir)
	}
	if cfg.LogDir != filepath.Join("/data/solvr-infra", "log") {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.Store.Type != "filesystem" {
		t.Errorf("Store.Type = %q, want filesystem", cfg.Store.Type)
	}
	if cfg.Store.Dir != filepath.Join("/data/solvr-infra", "instances") {
		t.Errorf("Store.Dir = %q", cfg.Store.Dir)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), "/base", "/ssh")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.BaseDir != "/base" || cfg.SSHDir != "/ssh" {
			t.Errorf("defaults not applied: %+v", cfg)
		}
		if cfg.Store.Type != "filesystem" {
			t.Errorf("Store.Type = %q, want filesystem", cfg.Store.Type)
		}
	})

	t.Run("partial file gets defaults for missing fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := "base_dir = \"/custom\"\n\n[store]\ntype = \"memory\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing config: %v", err)
		}

		cfg, err := Load(path, "/base", "/ssh")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.BaseDir != "/custom" {
			t.Errorf("BaseDir = %q, want /custom", cfg.BaseDir)
		}
		if cfg.LogDir != filepath.Join("/custom", "log") {
			t.Errorf("LogDir = %q, want under /custom", cfg.LogDir)
		}
		if cfg.SSHDir != "/ssh" {
			t.Errorf("SSHDir = %q, want /ssh", cfg.SSHDir)
		}
		if cfg.Store.Type != "memory" {
			t.Errorf("Store.Type = %q, want memory", cfg.Store.Type)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("base_dir = [broken"), 0644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		if _, err := Load(path, "/base", "/ssh"); err == nil {
			t.Error("Load() expected error for malformed file")
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.toml")
		if err := Init(path, NewConfig("/base", "/ssh")); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("config file not created: %v", err)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := Init(path, NewConfig("/base", "/ssh")); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, NewConfig("/other", "/ssh")); err == nil {
			t.Error("second Init() expected error")
		}
	})
}
