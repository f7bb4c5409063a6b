// Package legacy talks to the legacy store administration system. Store
// changes made here are mirrored there until that system is retired.
package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// EventCreated and EventUpdated name the store lifecycle events the legacy
// system understands.
const (
	EventCreated = "created"
	EventUpdated = "updated"
)

// StoreSnapshot is the store state pushed to the legacy system.
type StoreSnapshot struct {
	ID                      int64  `json:"id"`
	Name                    string `json:"name"`
	QuantityProductsInStock int    `json:"quantityProductsInStock"`
}

// Client wraps interactions with the legacy store API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ping checks if the legacy system is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("legacy system returned status %d", resp.StatusCode)
	}
	return nil
}

// Sync pushes a store snapshot for the given event to the legacy system.
func (c *Client) Sync(ctx context.Context, event string, snapshot StoreSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/stores/%d?event=%s", c.baseURL, snapshot.ID, event)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("legacy sync failed with status %d", resp.StatusCode)
	}
	return nil
}
