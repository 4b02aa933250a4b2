package tui

import (
	"fmt"
	"strings"

	"airquiz/types"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("Question Import Preview"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	// Summary + rows
	if m.Report != nil && m.State == StateComplete {
		s := m.Report.Summary
		stats := fmt.Sprintf("Total: %d | Valid: %d | Errors: %d | Needs Review: %d",
			s.Total, s.Valid, s.Errors, s.NeedsReview)
		b.WriteString(InfoStyle.Render(stats))
		b.WriteString("\n\n")
		b.WriteString(BoxStyle.Render(m.formatRows()))
		b.WriteString("\n\n")
	}

	// Help text
	switch m.State {
	case StateIdle:
		b.WriteString(InfoStyle.Render("Press 'd' to run a dry run | Press 'q' or Ctrl+C to quit"))
	case StateComplete:
		help := "Press 'd' to rerun | up/down to scroll | 'q' or Ctrl+C to quit"
		if m.NextCursor != "" {
			help = "Press 'n' for the next batch | " + help
		}
		b.WriteString(InfoStyle.Render(help))
	default:
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
	}

	return b.String()
}

// formatRows renders the visible window of result rows.
func (m Model) formatRows() string {
	rows := m.Report.Rows
	if len(rows) == 0 {
		return InfoStyle.Render("No records in this batch")
	}

	end := m.Offset + visibleRows
	if end > len(rows) {
		end = len(rows)
	}

	var b strings.Builder
	for _, row := range rows[m.Offset:end] {
		b.WriteString(formatRow(row))
		b.WriteString("\n")
	}

	if len(rows) > visibleRows {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("\n(%d-%d of %d)", m.Offset+1, end, len(rows))))
	}
	return b.String()
}

func formatRow(row types.ResultRow) string {
	label := fmt.Sprintf("[%3d] ", row.RowIndex)

	switch row.Status {
	case types.RowStatusOK:
		return label + StatusStyle.Render("OK      ") + " " + row.TitlePreview
	case types.RowStatusNeedsReview:
		cats := strings.Join(row.SuggestedCategorySlugs, ", ")
		return label + ReviewStyle.Render("REVIEW  ") + " " + row.TitlePreview +
			InfoStyle.Render(" -> "+cats)
	case types.RowStatusImported:
		return label + StatusStyle.Render("IMPORTED") + " " + row.TitlePreview
	default:
		return label + ErrorStyle.Render("ERROR   ") + " " + row.TitlePreview +
			InfoStyle.Render(" ("+strings.Join(row.Errors, "; ")+")")
	}
}
