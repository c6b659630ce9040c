package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"showprep-backend/config"
)

// ErrNotConfigured is returned when the storage endpoint or key is missing.
// The intake service degrades this to a warning rather than failing the scan.
var ErrNotConfigured = errors.New("storage not configured: set storage.url and storage.service_key")

// ErrInvalidDataURL is returned when the payload is not a base64 image data URL.
var ErrInvalidDataURL = errors.New("invalid image payload")

var dataURLRe = regexp.MustCompile(`^data:(image/[a-zA-Z0-9.+-]+);base64,(.+)$`)

// UploadRequest identifies where an issue photo belongs.
type UploadRequest struct {
	ShowID  string
	CaseID  string
	IssueID string
	DataURL string
}

// Uploader stores issue photos in a Supabase-storage-style object endpoint.
type Uploader struct {
	cfg    config.StorageConfig
	client *http.Client
}

// NewUploader creates an uploader from the storage configuration.
func NewUploader(cfg config.StorageConfig) *Uploader {
	return &Uploader{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload decodes the data URL and POSTs the bytes to the object store.
// Returns the public URL of the stored object.
func (u *Uploader) Upload(ctx context.Context, req UploadRequest) (string, error) {
	if u.cfg.URL == "" || u.cfg.ServiceKey == "" {
		return "", ErrNotConfigured
	}

	mimeType, data, err := parseDataURL(req.DataURL)
	if err != nil {
		return "", err
	}

	filePath := fmt.Sprintf("%s/%s/%s.%s", req.ShowID, req.CaseID, req.IssueID, extensionForMime(mimeType))
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", u.cfg.URL, u.cfg.Bucket, filePath)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+u.cfg.ServiceKey)
	httpReq.Header.Set("apikey", u.cfg.ServiceKey)
	httpReq.Header.Set("Content-Type", mimeType)
	httpReq.Header.Set("x-upsert", "true")

	resp, err := u.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		details, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("storage upload failed (%d): %s", resp.StatusCode, details)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.cfg.URL, u.cfg.Bucket, filePath), nil
}

func parseDataURL(dataURL string) (mimeType string, data []byte, err error) {
	match := dataURLRe.FindStringSubmatch(dataURL)
	if match == nil {
		return "", nil, ErrInvalidDataURL
	}
	data, err = base64.StdEncoding.DecodeString(match[2])
	if err != nil {
		return "", nil, ErrInvalidDataURL
	}
	return match[1], data, nil
}

func extensionForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "bin"
	}
}
