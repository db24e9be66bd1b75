package testutil

import (
	"context"

	"solvr-go/internal/provision"
)

// StubKeyManager returns fixed paths without touching the filesystem.
type StubKeyManager struct {
	PrivateKeyPath string
	PublicKey      string
	Err            error
	EnsureCalls    []string
}

func (s *StubKeyManager) Ensure(name string) (string, string, error) {
	s.EnsureCalls = append(s.EnsureCalls, name)
	if s.Err != nil {
		return "", "", s.Err
	}
	return s.PrivateKeyPath, s.PublicKey, nil
}

// StubSSHWaiter records Wait calls and returns a configured error.
type StubSSHWaiter struct {
	Err       error
	WaitCalls []string
}

func (s *StubSSHWaiter) Wait(_ context.Context, ip, _ string) error {
	s.WaitCalls = append(s.WaitCalls, ip)
	return s.Err
}

var (
	_ provision.KeyManager = (*StubKeyManager)(nil)
	_ provision.SSHWaiter  = (*StubSSHWaiter)(nil)
)
