package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"solvr-go/internal/provision"
)

// FakeCloud is an in-memory implementation of provision.Cloud for tests.
// It records created servers and keys and supports simple
// "label=value" selectors for ListServers.
type FakeCloud struct {
	mu      sync.Mutex
	nextID  int64
	Servers map[string]*provision.Server
	Keys    map[string]*provision.SSHKey

	// CreateServerErr, when set, is returned from CreateServer.
	CreateServerErr error
	// CreatedOpts records the options of every CreateServer call.
	CreatedOpts []provision.CreateServerOpts
}

// NewFakeCloud creates an empty fake cloud.
func NewFakeCloud() *FakeCloud {
	return &FakeCloud{
		nextID:  100,
		Servers: make(map[string]*provision.Server),
		Keys:    make(map[string]*provision.SSHKey),
	}
}

// AddServer seeds a pre-existing server.
func (f *FakeCloud) AddServer(srv *provision.Server) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if srv.ID == 0 {
		f.nextID++
		srv.ID = f.nextID
	}
	f.Servers[srv.Name] = srv
}

// AddKey seeds a pre-registered SSH key.
func (f *FakeCloud) AddKey(key *provision.SSHKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if key.ID == 0 {
		f.nextID++
		key.ID = f.nextID
	}
	f.Keys[key.Name] = key
}

func (f *FakeCloud) ServerByName(_ context.Context, name string) (*provision.Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Servers[name], nil
}

func (f *FakeCloud) CreateServer(_ context.Context, opts provision.CreateServerOpts) (*provision.Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CreatedOpts = append(f.CreatedOpts, opts)
	if f.CreateServerErr != nil {
		return nil, f.CreateServerErr
	}
	if _, exists := f.Servers[opts.Name]; exists {
		return nil, fmt.Errorf("server %q already exists", opts.Name)
	}
	if opts.SSHKeyName != "" {
		if _, ok := f.Keys[opts.SSHKeyName]; !ok {
			return nil, fmt.Errorf("SSH key %q is not registered", opts.SSHKeyName)
		}
	}

	f.nextID++
	srv := &provision.Server{
		ID:       f.nextID,
		Name:     opts.Name,
		Status:   "running",
		IP:       fmt.Sprintf("192.0.2.%d", f.nextID%250),
		Type:     opts.Type,
		Location: opts.Location,
		Labels:   opts.Labels,
	}
	f.Servers[opts.Name] = srv
	return srv, nil
}

func (f *FakeCloud) DeleteServer(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Servers[name]; !ok {
		return fmt.Errorf("server %q not found", name)
	}
	delete(f.Servers, name)
	return nil
}

func (f *FakeCloud) ListServers(_ context.Context, labelSelector string) ([]*provision.Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key, value, _ := strings.Cut(labelSelector, "=")
	var out []*provision.Server
	for _, srv := range f.Servers {
		if labelSelector == "" || srv.Labels[key] == value {
			out = append(out, srv)
		}
	}
	return out, nil
}

func (f *FakeCloud) SSHKeyByName(_ context.Context, name string) (*provision.SSHKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Keys[name], nil
}

func (f *FakeCloud) CreateSSHKey(_ context.Context, name, publicKey string, _ map[string]string) (*provision.SSHKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.Keys[name]; exists {
		return nil, fmt.Errorf("SSH key %q already exists", name)
	}
	f.nextID++
	key := &provision.SSHKey{ID: f.nextID, Name: name, Fingerprint: "fake:" + publicKey}
	f.Keys[name] = key
	return key, nil
}

func (f *FakeCloud) DeleteSSHKey(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Keys[name]; !ok {
		return fmt.Errorf("SSH key %q not found", name)
	}
	delete(f.Keys, name)
	return nil
}

// Compile-time check that FakeCloud implements provision.Cloud
var _ provision.Cloud = (*FakeCloud)(nil)
