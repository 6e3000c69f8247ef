// Package storage selects the object storage backend from configuration.
package storage

import (
	"fmt"

	"ingestdesk/internal/config"
	"ingestdesk/internal/port"
	"ingestdesk/internal/storage/minio"
	"ingestdesk/internal/storage/s3"
)

// New returns the ObjectStorage for cfg.Provider.
func New(cfg *config.StorageConfig) (port.ObjectStorage, error) {
	switch cfg.Provider {
	case "", "s3":
		return s3.NewS3Client(cfg)
	case "minio":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("storage.New: minio provider requires an endpoint")
		}
		return minio.NewMinioClient(cfg)
	default:
		return nil, fmt.Errorf("storage.New: unknown provider %q", cfg.Provider)
	}
}
