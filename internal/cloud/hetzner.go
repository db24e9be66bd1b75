// Package cloud implements the provisioner's cloud interface on top of
// the Hetzner Cloud API.
package cloud

import (
	"context"
	"fmt"

	"solvr-go/internal/provision"

	"github.com/hetznercloud/hcloud-go/hcloud"
)

// Hetzner implements provision.Cloud against the Hetzner Cloud API.
type Hetzner struct {
	client *hcloud.Client
}

// NewHetzner creates a client authenticated with the given API token.
func NewHetzner(token string) *Hetzner {
	return &Hetzner{
		client: hcloud.NewClient(
			hcloud.WithToken(token),
			hcloud.WithApplication("solvr-infra", "1.0.0"),
		),
	}
}

// ServerByName returns the server with the given name, or (nil, nil).
func (h *Hetzner) ServerByName(ctx context.Context, name string) (*provision.Server, error) {
	srv, _, err := h.client.Server.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if srv == nil {
		return nil, nil
	}
	return convertServer(srv), nil
}

// CreateServer creates a server from the given options. Server type,
// image and location are resolved by name first so unknown values fail
// with a useful error instead of a generic API rejection.
func (h *Hetzner) CreateServer(ctx context.Context, opts provision.CreateServerOpts) (*provision.Server, error) {
	serverType, _, err := h.client.ServerType.GetByName(ctx, opts.Type)
	if err != nil {
		return nil, fmt.Errorf("resolving server type %q: %w", opts.Type, err)
	}
	if serverType == nil {
		return nil, fmt.Errorf("unknown server type %q", opts.Type)
	}

	image, _, err := h.client.Image.GetByName(ctx, opts.Image)
	if err != nil {
		return nil, fmt.Errorf("resolving image %q: %w", opts.Image, err)
	}
	if image == nil {
		return nil, fmt.Errorf("unknown image %q", opts.Image)
	}

	location, _, err := h.client.Location.GetByName(ctx, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("resolving location %q: %w", opts.Location, err)
	}
	if location == nil {
		return nil, fmt.Errorf("unknown location %q", opts.Location)
	}

	var sshKeys []*hcloud.SSHKey
	if opts.SSHKeyName != "" {
		key, _, err := h.client.SSHKey.GetByName(ctx, opts.SSHKeyName)
		if err != nil {
			return nil, fmt.Errorf("resolving SSH key %q: %w", opts.SSHKeyName, err)
		}
		if key == nil {
			return nil, fmt.Errorf("SSH key %q is not registered", opts.SSHKeyName)
		}
		sshKeys = append(sshKeys, key)
	}

	result, _, err := h.client.Server.Create(ctx, hcloud.ServerCreateOpts{
		Name:             opts.Name,
		ServerType:       serverType,
		Image:            image,
		Location:         location,
		UserData:         opts.UserData,
		Labels:           opts.Labels,
		SSHKeys:          sshKeys,
		StartAfterCreate: hcloud.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	return convertServer(result.Server), nil
}

// DeleteServer deletes the server with the given name.
func (h *Hetzner) DeleteServer(ctx context.Context, name string) error {
	srv, _, err := h.client.Server.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if srv == nil {
		return fmt.Errorf("server %q not found", name)
	}
	_, err = h.client.Server.Delete(ctx, srv)
	return err
}

// ListServers returns all servers matching the label selector.
func (h *Hetzner) ListServers(ctx context.Context, labelSelector string) ([]*provision.Server, error) {
	servers, err := h.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: labelSelector},
	})
	if err != nil {
		return nil, err
	}

	out := make([]*provision.Server, 0, len(servers))
	for _, s := range servers {
		out = append(out, convertServer(s))
	}
	return out, nil
}

// SSHKeyByName returns the registered key with the given name, or (nil, nil).
func (h *Hetzner) SSHKeyByName(ctx context.Context, name string) (*provision.SSHKey, error) {
	key, _, err := h.client.SSHKey.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, nil
	}
	return convertSSHKey(key), nil
}

// CreateSSHKey registers a public key with the provider.
func (h *Hetzner) CreateSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*provision.SSHKey, error) {
	key, _, err := h.client.SSHKey.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      name,
		PublicKey: publicKey,
		Labels:    labels,
	})
	if err != nil {
		return nil, err
	}
	return convertSSHKey(key), nil
}

// DeleteSSHKey removes the registered key with the given name.
func (h *Hetzner) DeleteSSHKey(ctx context.Context, name string) error {
	key, _, err := h.client.SSHKey.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if key == nil {
		return fmt.Errorf("SSH key %q not found", name)
	}
	_, err = h.client.SSHKey.Delete(ctx, key)
	return err
}

func convertServer(s *hcloud.Server) *provision.Server {
	out := &provision.Server{
		ID:      int64(s.ID),
		Name:    s.Name,
		Status:  string(s.Status),
		Labels:  s.Labels,
		Created: s.Created,
	}
	if len(s.PublicNet.IPv4.IP) > 0 {
		out.IP = s.PublicNet.IPv4.IP.String()
	}
	if s.ServerType != nil {
		out.Type = s.ServerType.Name
	}
	if s.Datacenter != nil {
		out.Location = s.Datacenter.Name
	}
	return out
}

func convertSSHKey(k *hcloud.SSHKey) *provision.SSHKey {
	return &provision.SSHKey{
		ID:          int64(k.ID),
		Name:        k.Name,
		Fingerprint: k.Fingerprint,
	}
}
