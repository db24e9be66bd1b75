package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the solvr-infra configuration. All fields have working
// defaults so the tool runs without a config file.
type Config struct {
	BaseDir string      `toml:"base_dir"`
	LogDir  string      `toml:"log_dir"`
	SSHDir  string      `toml:"ssh_dir"`
	Store   StoreConfig `toml:"store"`
}

// StoreConfig configures the instance metadata store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"` // "filesystem", "memory", or "s3"

	// Filesystem-specific fields (only used when Type == "filesystem")
	Dir string `toml:"dir,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3Endpoint  string `toml:"s3_endpoint,omitempty"`   // for S3-compatible storage
	S3AccessKey string `toml:"s3_access_key,omitempty"` // static credentials; default AWS chain when empty
	S3SecretKey string `toml:"s3_secret_key,omitempty"`
}

// NewConfig creates a Config with defaults rooted at baseDir. sshDir is
// where instance key pairs are written, normally ~/.ssh.
func NewConfig(baseDir, sshDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		SSHDir:  sshDir,
		Store: StoreConfig{
			Type: "filesystem",
			Dir:  filepath.Join(baseDir, "instances"),
		},
	}
}

// applyDefaults fills in any fields the config file left empty.
func (c *Config) applyDefaults(baseDir, sshDir string) {
	if c.BaseDir == "" {
		c.BaseDir = baseDir
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.BaseDir, "log")
	}
	if c.SSHDir == "" {
		c.SSHDir = sshDir
	}
	if c.Store.Type == "" {
		c.Store.Type = "filesystem"
	}
	if c.Store.Type == "filesystem" && c.Store.Dir == "" {
		c.Store.Dir = filepath.Join(c.BaseDir, "instances")
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load reads the config file at path, applying defaults for missing
// fields. A missing file is not an error: the returned config is the
// full default rooted at baseDir.
func Load(path, baseDir, sshDir string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(baseDir, sshDir), nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	cfg.applyDefaults(baseDir, sshDir)
	return cfg, nil
}

// Init writes a default config file at the specified path, failing if one
// already exists.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
