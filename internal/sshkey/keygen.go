// Package sshkey manages per-instance SSH key pairs and polls freshly
// booted servers for SSH readiness.
package sshkey

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"solvr-go/internal/provision"
)

// Runner runs an external command. Abstracted so key generation is
// testable without invoking ssh-keygen.
type Runner interface {
	Run(name string, args ...string) error
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Manager creates and locates instance key pairs under a single SSH
// directory, named solvr_<instance>.
type Manager struct {
	sshDir string
	runner Runner
}

// NewManager creates a key manager writing to sshDir.
func NewManager(sshDir string, runner Runner) *Manager {
	return &Manager{sshDir: sshDir, runner: runner}
}

// KeyPath returns the private key path for the named instance.
func (m *Manager) KeyPath(name string) string {
	return filepath.Join(m.sshDir, "solvr_"+name)
}

// Ensure generates an ed25519 key pair for the named instance unless one
// already exists. It returns the private key path and the public key line.
func (m *Manager) Ensure(name string) (string, string, error) {
	keyPath := m.KeyPath(name)
	pubPath := keyPath + ".pub"

	if _, err := os.Stat(keyPath); os.IsNotExist(err) {
		if err := os.MkdirAll(m.sshDir, 0700); err != nil {
			return "", "", fmt.Errorf("creating SSH directory: %w", err)
		}
		err := m.runner.Run("ssh-keygen",
			"-t", "ed25519",
			"-f", keyPath,
			"-N", "",
			"-C", "solvr-"+name,
		)
		if err != nil {
			return "", "", fmt.Errorf("generating SSH key: %w", err)
		}
	} else if err != nil {
		return "", "", fmt.Errorf("checking SSH key: %w", err)
	}

	pub, err := os.ReadFile(pubPath)
	if err != nil {
		return "", "", fmt.Errorf("reading public key: %w", err)
	}

	return keyPath, strings.TrimSpace(string(pub)), nil
}

// Compile-time check that Manager implements provision.KeyManager
var _ provision.KeyManager = (*Manager)(nil)
