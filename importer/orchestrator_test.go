package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"airquiz/events"
	"airquiz/source"
	"airquiz/types"
)

// fakeSource serves canned pages in fixed-size batches and tracks the
// cursors it was queried with.
type fakeSource struct {
	pages     []source.Page
	batchSize int
	queries   []string // cursor per call, "" for nil
	err       error
}

func (f *fakeSource) QueryPage(ctx context.Context, collectionID string, pageSize int, cursor *string) (*source.QueryResult, error) {
	if f.err != nil {
		return nil, f.err
	}

	start := 0
	if cursor != nil {
		fmt.Sscanf(*cursor, "cursor-%d", &start)
		f.queries = append(f.queries, *cursor)
	} else {
		f.queries = append(f.queries, "")
	}

	size := f.batchSize
	if size == 0 || size > pageSize {
		size = pageSize
	}
	end := start + size
	if end > len(f.pages) {
		end = len(f.pages)
	}

	result := &source.QueryResult{Results: f.pages[start:end]}
	if end < len(f.pages) {
		next := fmt.Sprintf("cursor-%d", end)
		result.NextCursor = &next
		result.HasMore = true
	}
	return result, nil
}

type fakeRehoster struct {
	calls int
}

func (f *fakeRehoster) Rehost(ctx context.Context, rec types.NormalizedRecord, dryRun bool) types.RehostResult {
	f.calls++
	return types.RehostResult{
		ChoiceImages: make([]string, types.ChoiceCount),
		ImagesMeta:   map[string]types.ImageMeta{"question": {Mode: types.RehostModeNone}},
	}
}

type fakeUpserter struct {
	calls   []types.FinalPayload
	failFor map[string]error
}

func (f *fakeUpserter) Upsert(ctx context.Context, payload types.FinalPayload) error {
	f.calls = append(f.calls, payload)
	if err, ok := f.failFor[payload.SourceID]; ok {
		return err
	}
	return nil
}

type fakeCheckpoints struct {
	saved map[string]string
}

func (f *fakeCheckpoints) Save(ctx context.Context, collectionID, cursor string) error {
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	f.saved[collectionID] = cursor
	return nil
}

type fakeEvents struct {
	published []events.ImportedEvent
}

func (f *fakeEvents) PublishImported(event events.ImportedEvent) error {
	f.published = append(f.published, event)
	return nil
}

func questionPage(id string, explicitSlugs bool) source.Page {
	props := map[string]source.Property{
		"Question":       {Type: "title", Title: []source.RichTextSpan{{PlainText: "Question " + id}}},
		"Choice A":       {Type: "rich_text", RichText: []source.RichTextSpan{{PlainText: "a"}}},
		"Choice B":       {Type: "rich_text", RichText: []source.RichTextSpan{{PlainText: "b"}}},
		"Choice C":       {Type: "rich_text", RichText: []source.RichTextSpan{{PlainText: "c"}}},
		"Choice D":       {Type: "rich_text", RichText: []source.RichTextSpan{{PlainText: "d"}}},
		"Correct Answer": {Type: "select", Select: &source.SelectOption{Name: "A"}},
	}
	if explicitSlugs {
		props["Category Slugs"] = source.Property{
			Type:        "multi_select",
			MultiSelect: []source.SelectOption{{Name: "systems"}},
		}
	} else {
		props["Subject"] = source.Property{Type: "select", Select: &source.SelectOption{Name: "Systems"}}
	}
	return source.Page{ID: id, Properties: props}
}

func brokenPage(id string) source.Page {
	return source.Page{ID: id, Properties: map[string]source.Property{}}
}

func newTestOrchestrator(src SourceQuerier, dest Upserter) (*Orchestrator, *fakeRehoster) {
	rehoster := &fakeRehoster{}
	return &Orchestrator{
		Source:      src,
		Mapper:      NewMapper(source.DefaultPropertyMap()),
		Rehoster:    rehoster,
		Destination: dest,
		Now:         func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) },
	}, rehoster
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	src := &fakeSource{pages: []source.Page{
		questionPage("p1", true),
		questionPage("p2", false),
		brokenPage("p3"),
	}}
	dest := &fakeUpserter{}
	o, rehoster := newTestOrchestrator(src, dest)

	report, err := o.Run(context.Background(), RunOptions{CollectionID: "col", DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(dest.calls) != 0 {
		t.Errorf("dry run performed %d upserts, want 0", len(dest.calls))
	}
	if rehoster.calls != 0 {
		t.Errorf("dry run performed %d rehost calls, want 0", rehoster.calls)
	}
	if !report.DryRun {
		t.Error("report should echo dryRun=true")
	}

	s := report.Summary
	if s.Total != 3 || s.Valid != 2 || s.Errors != 1 || s.NeedsReview != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.Valid+s.Errors != s.Total {
		t.Errorf("valid(%d)+errors(%d) != total(%d)", s.Valid, s.Errors, s.Total)
	}
}

func TestRunRowClassification(t *testing.T) {
	src := &fakeSource{pages: []source.Page{
		questionPage("p1", true),
		questionPage("p2", false),
		brokenPage("p3"),
	}}
	o, _ := newTestOrchestrator(src, &fakeUpserter{})

	report, err := o.Run(context.Background(), RunOptions{CollectionID: "col", DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantStatus := []string{types.RowStatusOK, types.RowStatusNeedsReview, types.RowStatusError}
	for i, row := range report.Rows {
		if row.RowIndex != i {
			t.Errorf("row %d has index %d", i, row.RowIndex)
		}
		if row.Status != wantStatus[i] {
			t.Errorf("row %d status = %q, want %q", i, row.Status, wantStatus[i])
		}
	}
	if !report.Rows[1].WouldCreateCategories {
		t.Error("derived-slug row should flag category creation")
	}
	if report.Rows[0].WouldCreateCategories {
		t.Error("explicit-slug row should not flag category creation")
	}
	if len(report.Rows[2].Errors) == 0 {
		t.Error("error row should carry rule codes")
	}
}

func TestRunLiveImportsAndPublishes(t *testing.T) {
	src := &fakeSource{pages: []source.Page{questionPage("p1", true)}}
	dest := &fakeUpserter{}
	o, rehoster := newTestOrchestrator(src, dest)
	evs := &fakeEvents{}
	o.Events = evs

	report, err := o.Run(context.Background(), RunOptions{CollectionID: "col"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(dest.calls) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(dest.calls))
	}
	if dest.calls[0].SourceID != "p1" {
		t.Errorf("upserted wrong record: %s", dest.calls[0].SourceID)
	}
	if dest.calls[0].Metadata.ImportedAt != "2026-08-01T00:00:00Z" {
		t.Errorf("unexpected importedAt: %s", dest.calls[0].Metadata.ImportedAt)
	}
	if rehoster.calls != 1 {
		t.Errorf("expected 1 rehost call, got %d", rehoster.calls)
	}
	if report.Rows[0].Status != types.RowStatusImported {
		t.Errorf("row status = %q, want imported", report.Rows[0].Status)
	}
	if len(evs.published) != 1 || evs.published[0].SourceID != "p1" {
		t.Errorf("unexpected events: %+v", evs.published)
	}
}

func TestRunUpsertFailureContinuesBatch(t *testing.T) {
	src := &fakeSource{pages: []source.Page{
		questionPage("p1", true),
		questionPage("p2", true),
	}}
	dest := &fakeUpserter{failFor: map[string]error{"p1": errors.New("rpc unavailable")}}
	o, _ := newTestOrchestrator(src, dest)

	report, err := o.Run(context.Background(), RunOptions{CollectionID: "col"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(dest.calls) != 2 {
		t.Fatalf("failure should not stop the batch, got %d upserts", len(dest.calls))
	}
	if report.Rows[0].Status != types.RowStatusError {
		t.Errorf("failed row status = %q", report.Rows[0].Status)
	}
	if report.Rows[1].Status != types.RowStatusImported {
		t.Errorf("second row status = %q", report.Rows[1].Status)
	}
	if report.Summary.Errors != 1 || report.Summary.Valid != 1 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}
}

func TestRunPaginationAndResume(t *testing.T) {
	pages := make([]source.Page, 5)
	for i := range pages {
		pages[i] = questionPage(fmt.Sprintf("p%d", i), true)
	}
	src := &fakeSource{pages: pages, batchSize: 2}
	o, _ := newTestOrchestrator(src, &fakeUpserter{})
	cps := &fakeCheckpoints{}
	o.Checkpoints = cps

	report, err := o.Run(context.Background(), RunOptions{
		CollectionID: "col",
		DryRun:       true,
		Limit:        2,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Summary.Total != 2 {
		t.Fatalf("limit not honored: total=%d", report.Summary.Total)
	}
	if report.NextCursor != "cursor-2" {
		t.Fatalf("next cursor = %q, want cursor-2", report.NextCursor)
	}
	if cps.saved["col"] != "cursor-2" {
		t.Errorf("checkpoint not saved: %v", cps.saved)
	}

	// Resume from the reported cursor; row indices restart per run.
	report, err = o.Run(context.Background(), RunOptions{
		CollectionID: "col",
		DryRun:       true,
		Limit:        200,
		StartCursor:  report.NextCursor,
	})
	if err != nil {
		t.Fatalf("resumed run failed: %v", err)
	}
	if report.Summary.Total != 3 {
		t.Errorf("resumed total = %d, want 3", report.Summary.Total)
	}
	if report.Rows[0].SourceID != "p2" || report.Rows[0].RowIndex != 0 {
		t.Errorf("resume started at wrong record: %+v", report.Rows[0])
	}
	if report.NextCursor != "" {
		t.Errorf("exhausted source should clear cursor, got %q", report.NextCursor)
	}
}

func TestRunLimitClamping(t *testing.T) {
	pages := make([]source.Page, 1)
	pages[0] = questionPage("p0", true)
	src := &fakeSource{pages: pages}
	o, _ := newTestOrchestrator(src, &fakeUpserter{})

	if _, err := o.Run(context.Background(), RunOptions{DryRun: true}); err == nil {
		t.Error("missing collection id should fail")
	}

	report, err := o.Run(context.Background(), RunOptions{CollectionID: "col", DryRun: true, Limit: 900})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Summary.Total != 1 {
		t.Errorf("total = %d", report.Summary.Total)
	}
}

func TestRunSourceFailureAborts(t *testing.T) {
	src := &fakeSource{err: errors.New("401 unauthorized")}
	o, _ := newTestOrchestrator(src, &fakeUpserter{})

	if _, err := o.Run(context.Background(), RunOptions{CollectionID: "col", DryRun: true}); err == nil {
		t.Fatal("source failure should abort the run")
	}
}

func TestPreviewTruncation(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "ab"
	}
	got := preview(long)
	if len([]rune(got)) != titlePreviewLen {
		t.Errorf("preview length = %d, want %d", len([]rune(got)), titlePreviewLen)
	}
	if preview("short") != "short" {
		t.Error("short titles should pass through unchanged")
	}
}
