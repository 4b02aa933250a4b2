package importer

import (
	"context"
	"fmt"
	"log"
	"time"

	"airquiz/events"
	"airquiz/source"
	"airquiz/types"
)

// Run limits enforced at the orchestration boundary. Callers on platforms
// with request timeouts should pick a limit small enough to finish in time.
const (
	DefaultRunLimit = 50
	MaxRunLimit     = 200
	maxPageSize     = 100
)

const titlePreviewLen = 80

// SourceQuerier fetches batches of pages from the document store.
type SourceQuerier interface {
	QueryPage(ctx context.Context, collectionID string, pageSize int, cursor *string) (*source.QueryResult, error)
}

// ImageRehoster copies a record's image references into owned storage.
type ImageRehoster interface {
	Rehost(ctx context.Context, rec types.NormalizedRecord, dryRun bool) types.RehostResult
}

// Upserter writes one final payload through the destination's idempotent
// upsert procedure.
type Upserter interface {
	Upsert(ctx context.Context, payload types.FinalPayload) error
}

// CheckpointSaver persists the resume cursor after a run.
type CheckpointSaver interface {
	Save(ctx context.Context, collectionID, cursor string) error
}

// EventPublisher announces successfully imported questions.
type EventPublisher interface {
	PublishImported(event events.ImportedEvent) error
}

// Orchestrator drives the import pipeline: paginated fetch, per-record
// map -> normalize -> validate, and for live runs rehost -> build -> upsert.
// All collaborators are injected so every stage is testable with fakes;
// Checkpoints and Events are optional (nil disables them).
type Orchestrator struct {
	Source      SourceQuerier
	Mapper      *Mapper
	Rehoster    ImageRehoster
	Destination Upserter
	Checkpoints CheckpointSaver
	Events      EventPublisher
	Now         func() time.Time
}

// RunOptions selects what one run does.
type RunOptions struct {
	CollectionID string
	DryRun       bool
	Limit        int    // total records, clamped to [1, MaxRunLimit], default DefaultRunLimit
	StartCursor  string // resume position from a previous run's NextCursor
}

// Run executes one import run and returns its report. Per-record failures
// (validation, rehost, upsert) become error rows and never abort the batch;
// only a failing source fetch aborts the run, since without a working source
// connection no further progress is possible.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*types.RunReport, error) {
	if opts.CollectionID == "" {
		return nil, fmt.Errorf("collection id is required")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultRunLimit
	}
	if limit > MaxRunLimit {
		limit = MaxRunLimit
	}

	now := o.Now
	if now == nil {
		now = time.Now
	}

	report := &types.RunReport{
		DryRun: opts.DryRun,
		Rows:   []types.ResultRow{},
	}

	var cursor *string
	if opts.StartCursor != "" {
		c := opts.StartCursor
		cursor = &c
	}

	for report.Summary.Total < limit {
		pageSize := limit - report.Summary.Total
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}

		batch, err := o.Source.QueryPage(ctx, opts.CollectionID, pageSize, cursor)
		if err != nil {
			return nil, fmt.Errorf("source fetch failed: %w", err)
		}

		for _, page := range batch.Results {
			if report.Summary.Total >= limit {
				break
			}
			row := o.processRecord(ctx, page, opts.DryRun, now, &report.Summary)
			row.RowIndex = len(report.Rows)
			report.Rows = append(report.Rows, row)
			report.Summary.Total++
		}

		if batch.NextCursor == nil || *batch.NextCursor == "" || len(batch.Results) == 0 {
			cursor = nil
			break
		}
		cursor = batch.NextCursor

		if !batch.HasMore {
			cursor = nil
			break
		}
	}

	if cursor != nil {
		report.NextCursor = *cursor
	}

	if o.Checkpoints != nil {
		if err := o.Checkpoints.Save(ctx, opts.CollectionID, report.NextCursor); err != nil {
			log.Printf("Warning: failed to save checkpoint: %v", err)
		}
	}

	return report, nil
}

// processRecord runs the stage chain for one source page and returns its
// result row. Counters are updated here; RowIndex is assigned by the caller.
func (o *Orchestrator) processRecord(ctx context.Context, page source.Page, dryRun bool, now func() time.Time, summary *types.RunSummary) types.ResultRow {
	mapped := o.Mapper.Map(page)
	rec := Normalize(mapped)

	row := types.ResultRow{
		SourceID:               rec.SourceID,
		TitlePreview:           preview(rec.Question),
		SuggestedCategorySlugs: rec.CategorySlugs,
		WouldCreateCategories:  !rec.SlugsExplicit,
	}

	validation := Validate(rec)
	if !validation.Valid {
		summary.Errors++
		row.Status = types.RowStatusError
		row.Errors = validation.Errors
		return row
	}

	if dryRun {
		summary.Valid++
		if rec.SlugsExplicit {
			row.Status = types.RowStatusOK
		} else {
			// Auto-derived categories: a human should confirm the
			// classification before committing.
			summary.NeedsReview++
			row.Status = types.RowStatusNeedsReview
		}
		return row
	}

	rehosted := o.Rehoster.Rehost(ctx, rec, false)
	payload := BuildPayload(rec, rehosted, now())

	if err := o.Destination.Upsert(ctx, payload); err != nil {
		summary.Errors++
		row.Status = types.RowStatusError
		row.Errors = []string{err.Error()}
		return row
	}

	summary.Valid++
	row.Status = types.RowStatusImported

	if o.Events != nil {
		event := events.ImportedEvent{
			SourceID:      rec.SourceID,
			CategorySlugs: rec.CategorySlugs,
			AccessTier:    rec.AccessTier,
			ImportedAt:    now().UTC(),
		}
		if err := o.Events.PublishImported(event); err != nil {
			log.Printf("Warning: failed to publish import event for %s: %v", rec.SourceID, err)
		}
	}

	return row
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= titlePreviewLen {
		return s
	}
	return string(runes[:titlePreviewLen-3]) + "..."
}
