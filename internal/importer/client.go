package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	service "github.com/okian/mindset-tracker/internal/app"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client talks to the service's HTTP API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a client for baseURL with the given request timeout.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// CheckHealth verifies the service answers /healthz.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Import posts rows to /participants/import.
func (c *Client) Import(ctx context.Context, rows []service.ParticipantInput) (service.ImportResult, error) {
	body, err := json.Marshal(map[string]any{"participants": rows})
	if err != nil {
		return service.ImportResult{}, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/participants/import", bytes.NewReader(body))
	if err != nil {
		return service.ImportResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return service.ImportResult{}, fmt.Errorf("import request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return service.ImportResult{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(data, "error").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return service.ImportResult{}, fmt.Errorf("%w: %d %s", ErrRejected, resp.StatusCode, msg)
	}

	res := gjson.ParseBytes(data)
	return service.ImportResult{
		Imported:   int(res.Get("imported").Int()),
		Duplicates: int(res.Get("duplicates").Int()),
	}, nil
}
