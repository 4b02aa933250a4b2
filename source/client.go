package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientConfig holds connection settings for the document store API.
type ClientConfig struct {
	BaseURL string // e.g. https://api.notion.com
	Token   string // integration token, sent as a Bearer header
	Version string // API version header; empty uses DefaultAPIVersion
}

// DefaultAPIVersion is sent in the version header unless overridden.
const DefaultAPIVersion = "2022-06-28"

// QueryResult is one page of results from a collection query.
type QueryResult struct {
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// Client queries the hosted document store. Read-only: the pipeline never
// mutates source pages.
type Client struct {
	baseURL    string
	token      string
	version    string
	httpClient *http.Client
}

// NewClient creates a document store client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("source base URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("source token is required")
	}
	version := cfg.Version
	if version == "" {
		version = DefaultAPIVersion
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		version:    version,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// QueryPage fetches one batch of pages from a collection, sorted by last
// edit time descending so fresh records surface first. Pass the previous
// result's NextCursor to continue; nil means start from the beginning.
func (c *Client) QueryPage(ctx context.Context, collectionID string, pageSize int, cursor *string) (*QueryResult, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}

	payload := map[string]interface{}{
		"page_size": pageSize,
		"sorts": []map[string]string{
			{"timestamp": "last_edited_time", "direction": "descending"},
		},
	}
	if cursor != nil && *cursor != "" {
		payload["start_cursor"] = *cursor
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	url := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, collectionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("source API returned %d: %s", resp.StatusCode, string(body))
	}

	var result QueryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return &result, nil
}
