package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"airquiz/demo/client"
)

// runDryImport creates a command that triggers a dry run via the API.
func runDryImport(c *client.Client, startCursor string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		report, err := c.RunImport(ctx, client.RunRequest{
			DryRun:      true,
			StartCursor: startCursor,
		})
		return RunCompleteMsg{Report: report, Err: err}
	}
}
