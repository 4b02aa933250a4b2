package tui

import "airquiz/types"

// RunCompleteMsg is delivered when the import API finishes a dry run.
type RunCompleteMsg struct {
	Report *types.RunReport
	Err    error
}
