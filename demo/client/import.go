package client

import (
	"context"
	"net/http"

	"airquiz/types"
)

// RunRequest mirrors the run endpoint's request body.
type RunRequest struct {
	DryRun      bool   `json:"dryRun"`
	Limit       int    `json:"limit,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
}

// RunImport triggers one import run via the API and returns its report.
func (c *Client) RunImport(ctx context.Context, req RunRequest) (*types.RunReport, error) {
	var report types.RunReport
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/import/run", req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetCheckpoint returns the saved resume cursor via the API.
func (c *Client) GetCheckpoint(ctx context.Context) (string, error) {
	var result struct {
		Cursor string `json:"cursor"`
	}
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/import/checkpoint", nil, &result); err != nil {
		return "", err
	}
	return result.Cursor, nil
}
