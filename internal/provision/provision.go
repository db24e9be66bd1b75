// Package provision orchestrates server provisioning on Hetzner Cloud:
// idempotent create with purpose presets, listing by managed-by label,
// destroy with local cleanup, and status reporting.
package provision

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrServerNotFound is returned by lookups for names with no live server.
var ErrServerNotFound = errors.New("server not found")

// defaultBootWait is how long to wait after create before polling SSH,
// covering boot plus cloud-init startup.
const defaultBootWait = 45 * time.Second

// Provisioner coordinates the cloud API, local key management, SSH
// readiness polling and the instance metadata store.
type Provisioner struct {
	cloud    Cloud
	store    Store
	keys     KeyManager
	ssh      SSHWaiter
	logger   Logger
	clock    Clock
	sleeper  Sleeper
	bootWait time.Duration
}

// NewProvisioner creates a Provisioner with the provided dependencies.
func NewProvisioner(cloud Cloud, store Store, keys KeyManager, ssh SSHWaiter, logger Logger, clock Clock, sleeper Sleeper) *Provisioner {
	return &Provisioner{
		cloud:    cloud,
		store:    store,
		keys:     keys,
		ssh:      ssh,
		logger:   logger,
		clock:    clock,
		sleeper:  sleeper,
		bootWait: defaultBootWait,
	}
}

// SetBootWait overrides the post-create boot wait. Used by tests.
func (p *Provisioner) SetBootWait(d time.Duration) { p.bootWait = d }

// Request describes a server to provision. Purpose and Location fall back
// to defaults; Type falls back to the purpose preset's machine type.
type Request struct {
	Name     string
	Purpose  string
	Type     string
	Location string
}

// Result reports the outcome of a Provision call.
type Result struct {
	Instance      *Instance
	AlreadyExists bool
	SSHReady      bool
}

// Provision creates the named server unless one already exists.
//
// The operation is idempotent by name: when a server with the given name
// is already live, the result reports its address and nothing is created.
// Otherwise the local key pair is ensured, the public key is registered
// with the provider under a deterministic name (reused when present), the
// server is created from the purpose preset, SSH readiness is polled over
// a bounded number of retries, and the metadata record is persisted.
func (p *Provisioner) Provision(ctx context.Context, req Request) (*Result, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}

	purpose := req.Purpose
	if purpose == "" {
		purpose = DefaultPurpose
	}
	location := req.Location
	if location == "" {
		location = DefaultLocation
	}
	if !ValidLocation(location) {
		return nil, fmt.Errorf("unknown location %q (allowed: %v)", location, Locations)
	}

	existing, err := p.cloud.ServerByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("checking for existing server: %w", err)
	}
	if existing != nil {
		p.logger.Info("server already exists", "name", req.Name, "ip", existing.IP)
		return &Result{
			AlreadyExists: true,
			Instance: &Instance{
				Name:       existing.Name,
				IP:         existing.IP,
				ServerType: existing.Type,
				Location:   existing.Location,
				Labels:     existing.Labels,
				HetznerID:  existing.ID,
			},
		}, nil
	}

	keyPath, publicKey, err := p.keys.Ensure(req.Name)
	if err != nil {
		return nil, fmt.Errorf("ensuring SSH key pair: %w", err)
	}

	keyName := KeyName(req.Name)
	key, err := p.cloud.SSHKeyByName(ctx, keyName)
	if err != nil {
		return nil, fmt.Errorf("looking up SSH key: %w", err)
	}
	if key == nil {
		p.logger.Info("registering SSH key", "key", keyName)
		if _, err := p.cloud.CreateSSHKey(ctx, keyName, publicKey, map[string]string{ManagedByLabel: ManagedByValue}); err != nil {
			return nil, fmt.Errorf("registering SSH key: %w", err)
		}
	} else {
		p.logger.Info("reusing registered SSH key", "key", keyName)
	}

	preset := PresetFor(purpose)
	serverType := req.Type
	if serverType == "" {
		serverType = preset.ServerType
	}

	labels := make(map[string]string, len(preset.Labels)+2)
	for k, v := range preset.Labels {
		labels[k] = v
	}
	labels["name"] = req.Name
	labels[ManagedByLabel] = ManagedByValue

	userData, err := UserData(purpose, req.Name)
	if err != nil {
		return nil, err
	}

	p.logger.Info("creating server",
		"name", req.Name, "purpose", purpose, "type", serverType, "location", location)

	srv, err := p.cloud.CreateServer(ctx, CreateServerOpts{
		Name:       req.Name,
		Type:       serverType,
		Image:      preset.Image,
		Location:   location,
		UserData:   userData,
		Labels:     labels,
		SSHKeyName: keyName,
	})
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}
	p.logger.Info("server created", "name", srv.Name, "ip", srv.IP, "id", srv.ID)

	if err := p.sleeper.Sleep(ctx, p.bootWait); err != nil {
		return nil, err
	}

	sshReady := true
	if err := p.ssh.Wait(ctx, srv.IP, keyPath); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn("SSH not ready yet, but server is running", "name", srv.Name, "error", err)
		sshReady = false
	}

	inst := &Instance{
		Name:       req.Name,
		Purpose:    purpose,
		IP:         srv.IP,
		ServerType: serverType,
		Location:   location,
		Labels:     labels,
		SSHKeyPath: keyPath,
		CreatedAt:  p.clock.Now().UTC(),
		HetznerID:  srv.ID,
	}
	if err := p.store.Save(ctx, inst); err != nil {
		return nil, fmt.Errorf("saving instance metadata: %w", err)
	}

	return &Result{Instance: inst, SSHReady: sshReady}, nil
}

// List returns all live servers carrying the managed-by label.
func (p *Provisioner) List(ctx context.Context) ([]*Server, error) {
	servers, err := p.cloud.ListServers(ctx, ManagedByLabel+"="+ManagedByValue)
	if err != nil {
		return nil, fmt.Errorf("listing servers: %w", err)
	}
	return servers, nil
}

// Lookup returns the live server with the given name, or
// ErrServerNotFound.
func (p *Provisioner) Lookup(ctx context.Context, name string) (*Server, error) {
	srv, err := p.cloud.ServerByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("looking up server: %w", err)
	}
	if srv == nil {
		return nil, fmt.Errorf("%w: %s", ErrServerNotFound, name)
	}
	return srv, nil
}

// Destroy deletes the named server, its local metadata record, and the
// registered provider SSH key when present.
func (p *Provisioner) Destroy(ctx context.Context, name string) error {
	srv, err := p.Lookup(ctx, name)
	if err != nil {
		return err
	}

	p.logger.Info("deleting server", "name", name, "id", srv.ID)
	if err := p.cloud.DeleteServer(ctx, name); err != nil {
		return fmt.Errorf("deleting server: %w", err)
	}

	if err := p.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("deleting instance metadata: %w", err)
	}

	keyName := KeyName(name)
	key, err := p.cloud.SSHKeyByName(ctx, keyName)
	if err != nil {
		return fmt.Errorf("looking up SSH key: %w", err)
	}
	if key != nil {
		if err := p.cloud.DeleteSSHKey(ctx, keyName); err != nil {
			return fmt.Errorf("deleting SSH key: %w", err)
		}
		p.logger.Info("deleted SSH key", "key", keyName)
	}

	return nil
}

// StatusReport is the live server state merged with stored metadata.
// Metadata is nil when no local record exists.
type StatusReport struct {
	Server   *Server
	Metadata *Instance
}

// Status returns the current state of the named server merged with its
// local metadata record.
func (p *Provisioner) Status(ctx context.Context, name string) (*StatusReport, error) {
	srv, err := p.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	inst, err := p.store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading instance metadata: %w", err)
	}

	return &StatusReport{Server: srv, Metadata: inst}, nil
}
