package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSender delivers scan payloads to the server's scan intake endpoint.
type HTTPSender struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSender creates a sender posting to <baseURL>/api/scan.
func NewHTTPSender(baseURL string) *HTTPSender {
	return &HTTPSender{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Send posts one payload. A 4xx response becomes a *RejectedError (the server
// refused the scan; retrying cannot help); network failures and 5xx responses
// are returned as plain errors and treated as transient by the queue.
func (s *HTTPSender) Send(ctx context.Context, payload json.RawMessage) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/scan", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create scan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("scan request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	message := string(body)
	var errBody struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
		message = errBody.Error
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &RejectedError{StatusCode: resp.StatusCode, Message: message}
	}
	return fmt.Errorf("scan request failed (%d): %s", resp.StatusCode, message)
}
