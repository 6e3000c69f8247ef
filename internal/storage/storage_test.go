package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingestdesk/internal/config"
	"ingestdesk/internal/storage"
)

func TestNew_UnknownProvider(t *testing.T) {
	_, err := storage.New(&config.StorageConfig{Provider: "gcs"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"gcs"`)
}

func TestNew_MinioRequiresEndpoint(t *testing.T) {
	_, err := storage.New(&config.StorageConfig{Provider: "minio"})
	require.Error(t, err)
}

func TestNew_Minio(t *testing.T) {
	s, err := storage.New(&config.StorageConfig{
		Provider:  "minio",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestNew_S3WithEndpoint(t *testing.T) {
	s, err := storage.New(&config.StorageConfig{
		Provider:  "s3",
		Region:    "us-east-1",
		Endpoint:  "https://project.supabase.co/storage/v1/s3",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
