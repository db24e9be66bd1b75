package sshkey

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"solvr-go/internal/provision"

	"golang.org/x/crypto/ssh"
)

const (
	defaultWaitRetries = 10
	defaultWaitDelay   = 5 * time.Second
	dialTimeout        = 5 * time.Second
)

// DialFunc attempts one SSH connection to addr.
type DialFunc func(addr string, cfg *ssh.ClientConfig) error

// Waiter polls a server until SSH accepts key-authenticated connections,
// over a bounded number of retries with a fixed delay between them.
type Waiter struct {
	dial    DialFunc
	retries int
	delay   time.Duration
	sleeper provision.Sleeper
	logger  provision.Logger
}

// NewWaiter creates a Waiter with default retry settings (10 attempts,
// 5s apart).
func NewWaiter(logger provision.Logger, sleeper provision.Sleeper) *Waiter {
	return &Waiter{
		dial:    sshDial,
		retries: defaultWaitRetries,
		delay:   defaultWaitDelay,
		sleeper: sleeper,
		logger:  logger,
	}
}

// NewWaiterWithDial creates a Waiter with a custom dial function and
// retry settings. Used by tests.
func NewWaiterWithDial(dial DialFunc, retries int, delay time.Duration, logger provision.Logger, sleeper provision.Sleeper) *Waiter {
	return &Waiter{dial: dial, retries: retries, delay: delay, sleeper: sleeper, logger: logger}
}

// Wait blocks until an SSH connection to root@ip succeeds or the retry
// budget is exhausted.
func (w *Waiter) Wait(ctx context.Context, ip string, privateKeyPath string) error {
	keyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return fmt.Errorf("reading private key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("parsing private key: %w", err)
	}

	cfg := &ssh.ClientConfig{
		User: "root",
		Auth: []ssh.AuthMethod{ssh.PublicKeys(signer)},
		// New hosts have unknown host keys, so verification is skipped
		// for the readiness probe.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	addr := net.JoinHostPort(ip, "22")
	var lastErr error
	for attempt := 1; attempt <= w.retries; attempt++ {
		lastErr = w.dial(addr, cfg)
		if lastErr == nil {
			w.logger.Info("SSH ready", "addr", addr, "attempt", attempt)
			return nil
		}
		w.logger.Debug("SSH not ready", "addr", addr, "attempt", attempt, "error", lastErr)

		if attempt < w.retries {
			if err := w.sleeper.Sleep(ctx, w.delay); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("SSH not reachable after %d attempts: %w", w.retries, lastErr)
}

// sshDial makes a real SSH connection attempt and closes it on success.
func sshDial(addr string, cfg *ssh.ClientConfig) error {
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return err
	}
	return client.Close()
}

// Compile-time check that Waiter implements provision.SSHWaiter
var _ provision.SSHWaiter = (*Waiter)(nil)
