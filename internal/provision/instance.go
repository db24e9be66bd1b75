package provision

import (
	"context"
	"time"
)

// Instance is the locally persisted record of a provisioned server.
type Instance struct {
	Name       string            `json:"name"`
	Purpose    string            `json:"purpose"`
	IP         string            `json:"ip"`
	ServerType string            `json:"server_type"`
	Location   string            `json:"location"`
	Labels     map[string]string `json:"labels,omitempty"`
	SSHKeyPath string            `json:"ssh_key_path"`
	CreatedAt  time.Time         `json:"created_at"`
	HetznerID  int64             `json:"hetzner_id"`
}

// Store persists instance metadata, one record per instance name.
// Load returns (nil, nil) when no record exists.
type Store interface {
	Save(ctx context.Context, inst *Instance) error
	Load(ctx context.Context, name string) (*Instance, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]*Instance, error)
}
