package store

import (
	"context"
	"testing"

	"solvr-go/internal/config"
)

func TestNewStoreFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := NewStoreFromConfig(ctx, config.StoreConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := s.(*MemoryStore); !ok {
			t.Errorf("got %T, want *MemoryStore", s)
		}
	})

	t.Run("filesystem", func(t *testing.T) {
		s, err := NewStoreFromConfig(ctx, config.StoreConfig{Type: "filesystem", Dir: t.TempDir()})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := s.(*FileSystemStore); !ok {
			t.Errorf("got %T, want *FileSystemStore", s)
		}
	})

	t.Run("filesystem requires dir", func(t *testing.T) {
		if _, err := NewStoreFromConfig(ctx, config.StoreConfig{Type: "filesystem"}); err == nil {
			t.Error("expected error for missing dir")
		}
	})

	t.Run("s3 requires bucket", func(t *testing.T) {
		if _, err := NewStoreFromConfig(ctx, config.StoreConfig{Type: "s3"}); err == nil {
			t.Error("expected error for missing bucket")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewStoreFromConfig(ctx, config.StoreConfig{Type: "etcd"}); err == nil {
			t.Error("expected error for unknown type")
		}
	})
}
