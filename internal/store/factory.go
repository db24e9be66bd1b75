package store

import (
	"context"
	"fmt"

	"solvr-go/internal/config"
	"solvr-go/internal/provision"
)

// NewStoreFromConfig creates a Store implementation based on the store config type.
func NewStoreFromConfig(ctx context.Context, cfg config.StoreConfig) (provision.Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem store requires dir to be set")
		}
		return NewFileSystemStore(cfg.Dir)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
