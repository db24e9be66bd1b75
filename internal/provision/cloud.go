package provision

import (
	"context"
	"time"
)

// Server is the provisioner's view of a cloud server.
type Server struct {
	ID       int64
	Name     string
	Status   string
	IP       string
	Type     string
	Location string
	Labels   map[string]string
	Created  time.Time
}

// SSHKey is a public key registered with the cloud provider.
type SSHKey struct {
	ID          int64
	Name        string
	Fingerprint string
}

// CreateServerOpts are the inputs for creating a server. SSHKeyName
// references a key already registered with the provider.
type CreateServerOpts struct {
	Name       string
	Type       string
	Image      string
	Location   string
	UserData   string
	Labels     map[string]string
	SSHKeyName string
}

// Cloud is the server-management API surface the provisioner needs.
// Resources are addressed by name; lookups return (nil, nil) when the
// resource does not exist.
type Cloud interface {
	ServerByName(ctx context.Context, name string) (*Server, error)
	CreateServer(ctx context.Context, opts CreateServerOpts) (*Server, error)
	DeleteServer(ctx context.Context, name string) error
	ListServers(ctx context.Context, labelSelector string) ([]*Server, error)

	SSHKeyByName(ctx context.Context, name string) (*SSHKey, error)
	CreateSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*SSHKey, error)
	DeleteSSHKey(ctx context.Context, name string) error
}
