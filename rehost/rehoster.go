package rehost

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"airquiz/types"
)

// DevStubPrefix marks URLs synthesized when no object store is configured
// (local development). Recognizable on sight and obviously not servable.
const DevStubPrefix = "dev-stub://rehost/"

// maxImageBytes caps a single image download. Oversized responses degrade to
// passthrough like any other fetch failure.
const maxImageBytes = 10 << 20

// ObjectStore is the narrow slice of the S3 wrapper the rehoster needs.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
	PublicURL(bucket, key string) string
}

// Config holds rehosting targets. An empty Bucket (or nil store) puts the
// rehoster in dev-stub mode.
type Config struct {
	Bucket    string
	KeyPrefix string
}

// Rehoster copies externally-hosted question images into owned object
// storage so imported questions don't depend on third-party URL longevity.
type Rehoster struct {
	store      ObjectStore
	bucket     string
	prefix     string
	httpClient *http.Client
}

// New creates a rehoster. store may be nil when storage is not configured;
// every image then takes the dev-stub path.
func New(store ObjectStore, cfg Config) *Rehoster {
	prefix := strings.Trim(cfg.KeyPrefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Rehoster{
		store:      store,
		bucket:     cfg.Bucket,
		prefix:     prefix,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Rehost processes every image reference on one record. It never returns an
// error: a single unreachable image is not a reason to lose an otherwise
// valid question, so failures degrade to passing the original URL through,
// with the reason recorded in ImagesMeta.
//
// The question image and up to four choice images are fetched concurrently;
// each fetch-and-upload is independent, so there is no shared state across
// the fan-out beyond the per-slot result.
func (r *Rehoster) Rehost(ctx context.Context, rec types.NormalizedRecord, dryRun bool) types.RehostResult {
	type slot struct {
		key string // meta key, e.g. "question", "choice_2"
		url string
		obj string // object name within the record's prefix
	}

	slots := make([]slot, 0, types.ChoiceCount+1)
	slots = append(slots, slot{key: "question", url: rec.QuestionImage, obj: "question"})
	for i, u := range rec.ChoiceImages {
		slots = append(slots, slot{
			key: fmt.Sprintf("choice_%d", i),
			url: u,
			obj: fmt.Sprintf("choice_%d", i),
		})
	}

	urls := make([]string, len(slots))
	metas := make([]types.ImageMeta, len(slots))

	var wg sync.WaitGroup
	for i, s := range slots {
		if s.url == "" {
			metas[i] = types.ImageMeta{Mode: types.RehostModeNone}
			continue
		}
		if dryRun {
			urls[i] = s.url
			metas[i] = types.ImageMeta{Mode: types.RehostModeDryRun}
			continue
		}
		wg.Add(1)
		go func(i int, s slot) {
			defer wg.Done()
			urls[i], metas[i] = r.rehostOne(ctx, rec.SourceID, s.obj, s.url)
		}(i, s)
	}
	wg.Wait()

	result := types.RehostResult{
		QuestionImage: urls[0],
		ChoiceImages:  urls[1:],
		ImagesMeta:    make(map[string]types.ImageMeta, len(slots)),
	}
	for i, s := range slots {
		result.ImagesMeta[s.key] = metas[i]
	}
	return result
}

// rehostOne handles a single image: fetch remote bytes, upload under a key
// derived from the record, return the new public URL. Any failure keeps the
// original URL (passthrough) with the reason recorded.
func (r *Rehoster) rehostOne(ctx context.Context, sourceID, obj, srcURL string) (string, types.ImageMeta) {
	if r.store == nil || r.bucket == "" {
		// Storage unconfigured: synthesize a recognizable placeholder so
		// local runs are distinguishable from real uploads.
		return DevStubPrefix + sourceID + "/" + obj, types.ImageMeta{Mode: types.RehostModeDevStub}
	}

	data, contentType, err := r.fetch(ctx, srcURL)
	if err != nil {
		return srcURL, types.ImageMeta{
			Mode:   types.RehostModePassthrough,
			Reason: fmt.Sprintf("fetch failed: %v", err),
		}
	}

	key := r.prefix + sourceID + "/" + obj + extensionFor(contentType, srcURL)

	// Keys are derived from the record, so a re-run of the same page hits the
	// same key. Objects are immutable once written; skip the redundant upload.
	if exists, err := r.store.Exists(ctx, r.bucket, key); err == nil && exists {
		return r.store.PublicURL(r.bucket, key), types.ImageMeta{Mode: types.RehostModeS3}
	}

	if err := r.store.Put(ctx, r.bucket, key, bytes.NewReader(data), contentType); err != nil {
		return srcURL, types.ImageMeta{
			Mode:   types.RehostModePassthrough,
			Reason: fmt.Sprintf("upload failed: %v", err),
		}
	}

	return r.store.PublicURL(r.bucket, key), types.ImageMeta{Mode: types.RehostModeS3}
}

func (r *Rehoster) fetch(ctx context.Context, srcURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

// extensionFor picks an object extension from the response content type,
// falling back to the source URL's path.
func extensionFor(contentType, srcURL string) string {
	switch {
	case strings.HasPrefix(contentType, "image/png"):
		return ".png"
	case strings.HasPrefix(contentType, "image/jpeg"):
		return ".jpg"
	case strings.HasPrefix(contentType, "image/gif"):
		return ".gif"
	case strings.HasPrefix(contentType, "image/webp"):
		return ".webp"
	case strings.HasPrefix(contentType, "image/svg"):
		return ".svg"
	}
	if ext := path.Ext(strings.SplitN(srcURL, "?", 2)[0]); ext != "" && len(ext) <= 5 {
		return strings.ToLower(ext)
	}
	return ""
}
