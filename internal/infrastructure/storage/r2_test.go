package storage

import (
	"context"
	"testing"
	"time"

	"github.com/frontandrew/platescan/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewR2Client_NotConfigured(t *testing.T) {
	_, err := NewR2Client(&config.StorageConfig{Endpoint: "https://r2.example.com"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestR2Client_ObjectURL(t *testing.T) {
	client, err := NewR2Client(&config.StorageConfig{
		Endpoint:  "https://r2.example.com/",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "plates",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://r2.example.com/plates/scans/a.png", client.objectURL("/scans/a.png"))

	client.publicBaseURL = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/plates/scans/a.png", client.objectURL("scans/a.png"))
}

func TestR2Client_UploadNil(t *testing.T) {
	var client *R2Client
	_, err := client.Upload(context.Background(), "k", []byte("x"), "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestScanImageKey(t *testing.T) {
	at := time.Date(2024, 5, 7, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "scans/2024/05/07/abc.jpg", ScanImageKey("abc", "image/jpeg", at))
	assert.Equal(t, "scans/2024/05/07/abc.bin", ScanImageKey("abc", "application/octet-stream", at))
}
