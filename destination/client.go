package destination

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"airquiz/types"
)

// upsertProcedure is the single remote procedure the pipeline writes
// through. It is idempotent keyed by source_id on the destination side,
// which is what makes repeated runs over the same pages safe.
const upsertProcedure = "upsert_imported_question"

// Config holds connection and retry settings for the destination datastore.
type Config struct {
	BaseURL    string // e.g. https://xyz.supabase.co
	ServiceKey string
	Retries    int           // attempts, default 3
	BaseDelay  time.Duration // linear backoff unit, default 500ms
}

// UpsertError reports a destination write that failed after exhausting
// retries.
type UpsertError struct {
	SourceID string
	Attempts int
	Err      error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("upsert for %s failed after %d attempt(s): %v", e.SourceID, e.Attempts, e.Err)
}

func (e *UpsertError) Unwrap() error { return e.Err }

// Client sends final payloads to the destination datastore's upsert RPC.
type Client struct {
	baseURL    string
	serviceKey string
	policy     retryPolicy
	httpClient *http.Client
}

// NewClient creates a destination client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("destination base URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("destination service key is required")
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		serviceKey: cfg.ServiceKey,
		policy:     retryPolicy{Retries: cfg.Retries, BaseDelay: cfg.BaseDelay}.withDefaults(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Upsert writes one payload through the idempotent upsert procedure,
// retrying transient failures per the client's policy. After the final
// failed attempt the last error is returned as an *UpsertError.
func (c *Client) Upsert(ctx context.Context, payload types.FinalPayload) error {
	attempts, err := withRetry(ctx, c.policy, func(ctx context.Context) error {
		return c.callRPC(ctx, payload)
	})
	if err != nil {
		return &UpsertError{SourceID: payload.SourceID, Attempts: attempts, Err: err}
	}
	return nil
}

func (c *Client) callRPC(ctx context.Context, payload types.FinalPayload) error {
	body := map[string]interface{}{"payload": payload}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, upsertProcedure)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call upsert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("destination returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
