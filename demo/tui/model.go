package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"airquiz/demo/client"
	"airquiz/types"
)

// State represents the application state machine
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateError    State = "error"
)

// visibleRows is how many result rows fit in the scrolling window.
const visibleRows = 15

// Model represents the TUI client state (thin client over the import API)
type Model struct {
	Client *client.Client

	State  State
	Report *types.RunReport
	Err    error

	// Scroll offset into Report.Rows
	Offset int
	// Cursor to resume the next dry run from
	NextCursor string
}

// NewModel creates a new TUI model
func NewModel(apiURL string) Model {
	return Model{
		Client: client.NewClient(apiURL),
		State:  StateIdle,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) getStateText() string {
	switch m.State {
	case StateIdle:
		return HighlightStyle.Render("Ready to preview an import") + "\n\n" +
			InfoStyle.Render("Press 'd' to run a dry-run preview")
	case StateRunning:
		return StatusStyle.Render("Running dry-run import...")
	case StateComplete:
		return HighlightStyle.Render("DRY RUN COMPLETE")
	case StateError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render("Error: " + errMsg)
	default:
		return ""
	}
}
