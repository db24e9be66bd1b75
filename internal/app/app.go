// Package app is the application layer between the CLI and the
// provisioner. It wires the Hetzner client, the instance store and the
// SSH tooling from config.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"solvr-go/internal/cloud"
	"solvr-go/internal/config"
	"solvr-go/internal/provision"
	"solvr-go/internal/sshkey"
	"solvr-go/internal/store"
)

// InfraApp constructs all dependencies from config and exposes the
// provisioning operations the CLI calls. The caller must call Close
// when done.
type InfraApp struct {
	cfg         *config.Config
	provisioner *provision.Provisioner
	store       provision.Store
	logFile     *os.File
}

// NewInfraApp creates a fully wired InfraApp from the given config.
// The Hetzner API token is resolved from HCLOUD_TOKEN or the hcloud CLI
// config. Every run gets a fresh run ID threaded through the log lines.
func NewInfraApp(ctx context.Context, cfg *config.Config) (*InfraApp, error) {
	token, err := cloud.ResolveToken()
	if err != nil {
		return nil, err
	}

	st, err := store.NewStoreFromConfig(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("creating instance store: %w", err)
	}

	runID := uuid.NewString()[:8]
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapted := &slogAdapter{l: logger}

	keys := sshkey.NewManager(cfg.SSHDir, sshkey.ExecRunner{})
	sleeper := provision.RealSleeper{}
	waiter := sshkey.NewWaiter(adapted, sleeper)

	p := provision.NewProvisioner(
		cloud.NewHetzner(token),
		st,
		keys,
		waiter,
		adapted,
		provision.RealClock{},
		sleeper,
	)

	return &InfraApp{
		cfg:         cfg,
		provisioner: p,
		store:       st,
		logFile:     logFile,
	}, nil
}

// Provision creates the named server unless one already exists.
func (a *InfraApp) Provision(ctx context.Context, req provision.Request) (*provision.Result, error) {
	return a.provisioner.Provision(ctx, req)
}

// List returns all live servers managed by this tool.
func (a *InfraApp) List(ctx context.Context) ([]*provision.Server, error) {
	return a.provisioner.List(ctx)
}

// Lookup returns the live server with the given name, or
// provision.ErrServerNotFound.
func (a *InfraApp) Lookup(ctx context.Context, name string) (*provision.Server, error) {
	return a.provisioner.Lookup(ctx, name)
}

// Destroy deletes the named server, its metadata record and provider key.
func (a *InfraApp) Destroy(ctx context.Context, name string) error {
	return a.provisioner.Destroy(ctx, name)
}

// Status returns the live state of the named server merged with its
// metadata record.
func (a *InfraApp) Status(ctx context.Context, name string) (*provision.StatusReport, error) {
	return a.provisioner.Status(ctx, name)
}

// Instances returns the locally stored metadata records.
func (a *InfraApp) Instances(ctx context.Context) ([]*provision.Instance, error) {
	return a.store.List(ctx)
}

// Close releases resources held by the app.
func (a *InfraApp) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
