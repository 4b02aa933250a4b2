package types

// Row statuses produced by an import run.
const (
	RowStatusOK          = "ok"
	RowStatusNeedsReview = "needs_review"
	RowStatusError       = "error"
	RowStatusImported    = "imported"
)

// ResultRow is the per-record outcome of one run, in source encounter order.
type ResultRow struct {
	RowIndex               int      `json:"row_index"`
	SourceID               string   `json:"source_id"`
	TitlePreview           string   `json:"title_preview"`
	SuggestedCategorySlugs []string `json:"suggested_category_slugs"`
	WouldCreateCategories  bool     `json:"would_create_categories"`
	Status                 string   `json:"status"`
	Errors                 []string `json:"errors,omitempty"`
}

// RunSummary holds the counters accumulated over one run.
type RunSummary struct {
	Total       int `json:"total"`
	Valid       int `json:"valid"`
	Errors      int `json:"errors"`
	NeedsReview int `json:"needs_review"`
}

// RunReport is the unit of output for one import run: counters, ordered rows
// and the cursor to resume from when the source has more pages.
type RunReport struct {
	DryRun     bool        `json:"dryRun"`
	Summary    RunSummary  `json:"summary"`
	Rows       []ResultRow `json:"rows"`
	NextCursor string      `json:"next_cursor,omitempty"`
}
