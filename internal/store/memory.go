package store

import (
	"context"
	"sort"
	"sync"

	"solvr-go/internal/provision"
)

// MemoryStore is an in-memory implementation of provision.Store, useful
// for testing. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	instances map[string]*provision.Instance
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{instances: make(map[string]*provision.Instance)}
}

// Save stores a copy of the instance record.
func (m *MemoryStore) Save(_ context.Context, inst *provision.Instance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *inst
	m.instances[inst.Name] = &cp
	return nil
}

// Load returns a copy of the instance record, or (nil, nil) when absent.
func (m *MemoryStore) Load(_ context.Context, name string) (*provision.Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, ok := m.instances[name]
	if !ok {
		return nil, nil
	}
	cp := *inst
	return &cp, nil
}

// Delete removes the instance record. Deleting a missing record is a no-op.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.instances, name)
	return nil
}

// List returns copies of all stored records, ordered by name.
func (m *MemoryStore) List(_ context.Context) ([]*provision.Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	instances := make([]*provision.Instance, 0, len(m.instances))
	for _, inst := range m.instances {
		cp := *inst
		instances = append(instances, &cp)
	}
	sort.Slice(instances, func(i, j int) bool { return instances[i].Name < instances[j].Name })
	return instances, nil
}

// Compile-time check that MemoryStore implements provision.Store
var _ provision.Store = (*MemoryStore)(nil)
