package rehost

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"airquiz/types"
)

type fakeStore struct {
	puts    map[string]string // key -> content type
	putErr  error
	baseURL string
}

func newFakeStore() *fakeStore {
	return &fakeStore{puts: map[string]string{}, baseURL: "https://cdn.test"}
}

func (f *fakeStore) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts[key] = contentType
	return nil
}

func (f *fakeStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, ok := f.puts[key]
	return ok, nil
}

func (f *fakeStore) PublicURL(bucket, key string) string {
	return f.baseURL + "/" + bucket + "/" + key
}

func recordWithImages(question string, choices ...string) types.NormalizedRecord {
	imgs := make([]string, types.ChoiceCount)
	copy(imgs, choices)
	return types.NormalizedRecord{
		SourceID:      "page-1",
		QuestionImage: question,
		ChoiceImages:  imgs,
	}
}

func TestRehostDryRunPassesURLsThrough(t *testing.T) {
	store := newFakeStore()
	r := New(store, Config{Bucket: "quiz-images"})

	rec := recordWithImages("https://files.example/q.png", "https://files.example/a.png")
	result := r.Rehost(context.Background(), rec, true)

	if result.QuestionImage != rec.QuestionImage {
		t.Errorf("dry run rewrote question image: %q", result.QuestionImage)
	}
	if result.ChoiceImages[0] != rec.ChoiceImages[0] {
		t.Errorf("dry run rewrote choice image: %q", result.ChoiceImages[0])
	}
	if len(store.puts) != 0 {
		t.Errorf("dry run uploaded %d objects", len(store.puts))
	}
	if result.ImagesMeta["question"].Mode != types.RehostModeDryRun {
		t.Errorf("question meta mode = %q", result.ImagesMeta["question"].Mode)
	}
	if result.ImagesMeta["choice_1"].Mode != types.RehostModeNone {
		t.Errorf("empty slot meta mode = %q", result.ImagesMeta["choice_1"].Mode)
	}
}

func TestRehostDevStubWhenStorageUnconfigured(t *testing.T) {
	r := New(nil, Config{})

	rec := recordWithImages("https://files.example/q.png")
	result := r.Rehost(context.Background(), rec, false)

	if !strings.HasPrefix(result.QuestionImage, DevStubPrefix) {
		t.Errorf("expected dev-stub URL, got %q", result.QuestionImage)
	}
	if result.ImagesMeta["question"].Mode != types.RehostModeDevStub {
		t.Errorf("meta mode = %q", result.ImagesMeta["question"].Mode)
	}
}

func TestRehostUploadsAndRewrites(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	store := newFakeStore()
	r := New(store, Config{Bucket: "quiz-images", KeyPrefix: "imports/"})

	rec := recordWithImages(server.URL + "/q")
	result := r.Rehost(context.Background(), rec, false)

	wantKey := "imports/page-1/question.png"
	if _, ok := store.puts[wantKey]; !ok {
		t.Fatalf("object not uploaded under %q, got %v", wantKey, store.puts)
	}
	if store.puts[wantKey] != "image/png" {
		t.Errorf("content type = %q", store.puts[wantKey])
	}
	if result.QuestionImage != "https://cdn.test/quiz-images/"+wantKey {
		t.Errorf("rewritten URL = %q", result.QuestionImage)
	}
	if result.ImagesMeta["question"].Mode != types.RehostModeS3 {
		t.Errorf("meta mode = %q", result.ImagesMeta["question"].Mode)
	}
}

func TestRehostSkipsExistingObjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	store := newFakeStore()
	store.puts["page-1/question.png"] = "image/png" // already rehosted by a prior run

	r := New(store, Config{Bucket: "quiz-images"})
	result := r.Rehost(context.Background(), recordWithImages(server.URL+"/q"), false)

	if len(store.puts) != 1 {
		t.Errorf("existing object was re-uploaded: %v", store.puts)
	}
	if result.ImagesMeta["question"].Mode != types.RehostModeS3 {
		t.Errorf("meta mode = %q", result.ImagesMeta["question"].Mode)
	}
	if result.QuestionImage != "https://cdn.test/quiz-images/page-1/question.png" {
		t.Errorf("URL = %q", result.QuestionImage)
	}
}

func TestRehostFetchFailureDegradesToPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	store := newFakeStore()
	r := New(store, Config{Bucket: "quiz-images"})

	srcURL := server.URL + "/expired-signature.png"
	result := r.Rehost(context.Background(), recordWithImages(srcURL), false)

	if result.QuestionImage != srcURL {
		t.Errorf("failed fetch should keep source URL, got %q", result.QuestionImage)
	}
	meta := result.ImagesMeta["question"]
	if meta.Mode != types.RehostModePassthrough {
		t.Errorf("meta mode = %q", meta.Mode)
	}
	if !strings.Contains(meta.Reason, "status 403") {
		t.Errorf("reason should mention upstream status, got %q", meta.Reason)
	}
	if len(store.puts) != 0 {
		t.Error("nothing should be uploaded after a failed fetch")
	}
}

func TestRehostUploadFailureDegradesToPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("bytes"))
	}))
	defer server.Close()

	store := newFakeStore()
	store.putErr = errors.New("access denied")
	r := New(store, Config{Bucket: "quiz-images"})

	srcURL := server.URL + "/q.jpg"
	result := r.Rehost(context.Background(), recordWithImages(srcURL), false)

	if result.QuestionImage != srcURL {
		t.Errorf("failed upload should keep source URL, got %q", result.QuestionImage)
	}
	if !strings.Contains(result.ImagesMeta["question"].Reason, "upload failed") {
		t.Errorf("reason = %q", result.ImagesMeta["question"].Reason)
	}
}

func TestRehostFansOutPerSlot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.Contains(req.URL.Path, "broken") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	store := newFakeStore()
	r := New(store, Config{Bucket: "quiz-images"})

	rec := recordWithImages(
		server.URL+"/q",
		server.URL+"/a",
		server.URL+"/broken",
	)
	result := r.Rehost(context.Background(), rec, false)

	if result.ImagesMeta["question"].Mode != types.RehostModeS3 {
		t.Errorf("question mode = %q", result.ImagesMeta["question"].Mode)
	}
	if result.ImagesMeta["choice_0"].Mode != types.RehostModeS3 {
		t.Errorf("choice_0 mode = %q", result.ImagesMeta["choice_0"].Mode)
	}
	// One broken image degrades alone; siblings still upload.
	if result.ImagesMeta["choice_1"].Mode != types.RehostModePassthrough {
		t.Errorf("choice_1 mode = %q", result.ImagesMeta["choice_1"].Mode)
	}
	if len(store.puts) != 2 {
		t.Errorf("expected 2 uploads, got %d", len(store.puts))
	}
}

func TestExtensionFor(t *testing.T) {
	cases := []struct {
		contentType string
		srcURL      string
		want        string
	}{
		{"image/png", "https://x/y", ".png"},
		{"image/jpeg; charset=binary", "https://x/y", ".jpg"},
		{"application/octet-stream", "https://x/diagram.GIF?token=1", ".gif"},
		{"application/octet-stream", "https://x/no-extension", ""},
		{"text/html", "https://x/a.verylongext", ""},
	}
	for _, tc := range cases {
		if got := extensionFor(tc.contentType, tc.srcURL); got != tc.want {
			t.Errorf("extensionFor(%q, %q) = %q, want %q", tc.contentType, tc.srcURL, got, tc.want)
		}
	}
}
