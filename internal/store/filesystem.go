// Package store provides instance metadata stores: filesystem (default),
// in-memory (tests), and S3 for teams sharing provisioning state.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"solvr-go/internal/provision"
)

// metadataFile is the file name of the per-instance record.
const metadataFile = "metadata.json"

// FileSystemStore keeps one JSON document per instance:
//
//	<root>/
//	  <name>/
//	    metadata.json
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates a store rooted at the given directory,
// creating it if needed.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create instances directory: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

// Save writes the instance record, replacing any previous one.
func (s *FileSystemStore) Save(_ context.Context, inst *provision.Instance) error {
	dir := filepath.Join(s.root, inst.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create instance directory: %w", err)
	}

	data, err := json.MarshalIndent(inst, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding instance metadata: %w", err)
	}

	path := filepath.Join(dir, metadataFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing instance metadata: %w", err)
	}
	return nil
}

// Load reads the instance record, returning (nil, nil) when absent.
func (s *FileSystemStore) Load(_ context.Context, name string) (*provision.Instance, error) {
	data, err := os.ReadFile(filepath.Join(s.root, name, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading instance metadata: %w", err)
	}

	var inst provision.Instance
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("decoding instance metadata: %w", err)
	}
	return &inst, nil
}

// Delete removes the instance record. Deleting a missing record is a no-op.
func (s *FileSystemStore) Delete(_ context.Context, name string) error {
	if err := os.RemoveAll(filepath.Join(s.root, name)); err != nil {
		return fmt.Errorf("deleting instance metadata: %w", err)
	}
	return nil
}

// List returns all stored instance records.
func (s *FileSystemStore) List(ctx context.Context) ([]*provision.Instance, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading instances directory: %w", err)
	}

	var instances []*provision.Instance
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		inst, err := s.Load(ctx, e.Name())
		if err != nil {
			return nil, err
		}
		if inst != nil {
			instances = append(instances, inst)
		}
	}
	return instances, nil
}

// Compile-time check that FileSystemStore implements provision.Store
var _ provision.Store = (*FileSystemStore)(nil)
