package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/localnerve/breedwatch/internal/config"
)

// DetectionClient submits uploaded images to the external detection API. The
// API processes asynchronously and reports back through the result image
// update endpoint; nothing in the result lifecycle waits on it.
type DetectionClient struct {
	baseURL string
	client  *http.Client
}

// NewDetectionClient creates a detection API client from configuration.
// Returns nil when no DETECTION_API_URL is configured.
func NewDetectionClient(cfg *config.Config) *DetectionClient {
	if cfg.DetectionAPIURL == "" {
		return nil
	}
	return &DetectionClient{
		baseURL: strings.TrimSuffix(cfg.DetectionAPIURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ProcessImage submits an image URL and result id for classification
func (d *DetectionClient) ProcessImage(imageURL string, resultID uint) error {
	payload := map[string]interface{}{
		"image_url": imageURL,
		"resultId":  resultID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := d.client.Post(d.baseURL+"/process-images", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("detection API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("detection API call failed: status %d", resp.StatusCode)
	}

	return nil
}
