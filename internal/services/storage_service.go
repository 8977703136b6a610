package services

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/breedwatch/internal/config"
)

// BlobStorage uploads raw image bytes to the blob store over HTTP. Network,
// auth, and quota errors all surface as a single opaque upload failure.
type BlobStorage struct {
	baseURL   string
	container string
	client    *http.Client
}

// NewBlobStorage creates a storage client from configuration
func NewBlobStorage(cfg *config.Config) *BlobStorage {
	return &BlobStorage{
		baseURL:   strings.TrimSuffix(cfg.StorageURL, "/"),
		container: cfg.StorageContainer,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload stores the bytes under a fresh uuid object name and returns the
// object URL. Synchronous; no retry, no idempotency key.
func (s *BlobStorage) Upload(data []byte, extension string) (string, error) {
	if extension == "" {
		extension = "jpg"
	}
	blobName := fmt.Sprintf("%s.%s", uuid.New().String(), extension)
	objectURL := fmt.Sprintf("%s/%s/%s", s.baseURL, s.container, blobName)

	req, err := http.NewRequest(http.MethodPut, objectURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}
	req.Header.Set("Content-Type", "image/"+extension)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage upload failed: status %d", resp.StatusCode)
	}

	return objectURL, nil
}
