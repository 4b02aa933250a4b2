package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case RunCompleteMsg:
		return m.handleRunComplete(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "d", "D":
		if m.State == StateIdle || m.State == StateComplete || m.State == StateError {
			m.State = StateRunning
			m.Offset = 0
			return m, runDryImport(m.Client, "")
		}
	case "n", "N":
		// Continue from where the last run stopped
		if m.State == StateComplete && m.NextCursor != "" {
			m.State = StateRunning
			m.Offset = 0
			return m, runDryImport(m.Client, m.NextCursor)
		}
	case "up", "k":
		if m.Offset > 0 {
			m.Offset--
		}
	case "down", "j":
		if m.Report != nil && m.Offset < len(m.Report.Rows)-visibleRows {
			m.Offset++
		}
	}
	return m, nil
}

// handleRunComplete processes a finished dry run
func (m Model) handleRunComplete(msg RunCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.Report = msg.Report
	m.NextCursor = msg.Report.NextCursor
	m.State = StateComplete
	return m, nil
}
