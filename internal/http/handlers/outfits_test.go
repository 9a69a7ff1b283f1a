package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stylemate/internal/domain"
	"stylemate/internal/http/handlers"
	"stylemate/internal/http/httpapi"
	"stylemate/internal/infra"
	"stylemate/internal/joborch"
	"stylemate/internal/jobstore"
	"stylemate/internal/providers/openai"
	"stylemate/internal/storage"
)

// pngBytes is a minimal valid PNG file (signature + empty IHDR payload is not
// required for the sniff, which checks the 8-byte signature only).
var pngBytes = append([]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}, []byte("fakebody")...)

type stubEditor struct {
	err    error
	images [][]byte
	block  chan struct{}
}

func (s *stubEditor) EditImages(ctx context.Context, req openai.ImageEditRequest) ([][]byte, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.images != nil {
		return s.images, nil
	}
	out := make([][]byte, req.Count)
	for i := range out {
		out[i] = []byte(fmt.Sprintf("generated-%d", i+1))
	}
	return out, nil
}

type stubClassifier struct {
	archetype domain.Archetype
	text      string
	err       error
}

func (s *stubClassifier) Classify(ctx context.Context, face, full openai.ImagePart) (domain.Archetype, string, error) {
	if s.err != nil {
		return domain.Archetype{}, s.text, s.err
	}
	return s.archetype, s.text, nil
}

func newTestServer(t *testing.T, editor openai.ImageEditor, classifier openai.Classifier) *httptest.Server {
	t.Helper()
	logger := infra.NewLogger("test")
	blobs, err := storage.NewFileStore(t.TempDir(), "http://localhost/outfits/file")
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	registry := joborch.NewRegistry(joborch.Deps{
		Store:  jobstore.NewMemoryStore(),
		Blobs:  blobs,
		Editor: editor,
		Logger: logger,
	})
	app := handlers.NewApp(logger, registry, blobs, classifier, 4*1024*1024, "1024x1024")
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:        logger,
		AllowedOrigin: "https://aistylemate.ru",
		DefaultLocale: "ru",
	})
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

type startForm struct {
	email     string
	event     string
	archetype string
	full      []byte
	fullType  string
	face      []byte
	faceType  string
}

func defaultStartForm() startForm {
	return startForm{
		email:     "a@b.com",
		event:     "Свадьба",
		archetype: `{"type":"Луна","reason":"мягкие линии","bullets":["а","б","в","г"]}`,
		full:      pngBytes,
		fullType:  "image/png",
		face:      pngBytes,
		faceType:  "image/png",
	}
}

func postStart(t *testing.T, ts *httptest.Server, form startForm) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("email", form.email)
	_ = mw.WriteField("event", form.event)
	_ = mw.WriteField("archetype", form.archetype)
	writeFilePart(t, mw, "full", "full.png", form.fullType, form.full)
	writeFilePart(t, mw, "face", "face.png", form.faceType, form.face)
	_ = mw.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/outfits/start", &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func writeFilePart(t *testing.T, mw *multipart.Writer, field, filename, contentType string, data []byte) {
	t.Helper()
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename)}
	h["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
}

func getStatus(t *testing.T, ts *httptest.Server, job string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + "/outfits/status?job=" + job)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func pollStatus(t *testing.T, ts *httptest.Server, job, want string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_, body := getStatus(t, ts, job)
		if body["status"] == want {
			return body
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for status %s", want)
	return nil
}

func TestStartValidSubmission(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	ts := newTestServer(t, &stubEditor{block: release}, &stubClassifier{})

	resp, body := postStart(t, ts, defaultStartForm())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok, got %v", body)
	}
	job, _ := body["job"].(string)
	if !domain.ValidJobID(job) {
		t.Fatalf("job id %q is not 24 hex chars", job)
	}

	// While the generator is blocked the poller sees an in-flight phase.
	_, status := getStatus(t, ts, job)
	switch status["status"] {
	case "queued", "running", "saving":
	default:
		t.Fatalf("unexpected immediate status %v", status["status"])
	}
}

func TestStartCompletesJob(t *testing.T) {
	ts := newTestServer(t, &stubEditor{}, &stubClassifier{})

	resp, body := postStart(t, ts, defaultStartForm())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	job := body["job"].(string)

	done := pollStatus(t, ts, job, "done")
	images, _ := done["images"].([]any)
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %v", done["images"])
	}
}

func TestStartInvalidEmail(t *testing.T) {
	ts := newTestServer(t, &stubEditor{}, &stubClassifier{})
	form := defaultStartForm()
	form.email = "not-an-email"

	resp, body := postStart(t, ts, form)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["ok"] != false || body["error"] == "" {
		t.Fatalf("expected error payload, got %v", body)
	}
}

func TestStartDisguisedNonPNG(t *testing.T) {
	ts := newTestServer(t, &stubEditor{}, &stubClassifier{})
	form := defaultStartForm()
	form.full = []byte("GIF89a-definitely-not-a-png")
	form.fullType = "image/png"

	resp, _ := postStart(t, ts, form)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for signature mismatch", resp.StatusCode)
	}
}

func TestStartInvalidArchetype(t *testing.T) {
	ts := newTestServer(t, &stubEditor{}, &stubClassifier{})
	for _, raw := range []string{"", "not json", `{"reason":"r"}`} {
		form := defaultStartForm()
		form.archetype = raw
		resp, _ := postStart(t, ts, form)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("archetype %q: status = %d, want 400", raw, resp.StatusCode)
		}
	}
}

func TestStartOversizedFile(t *testing.T) {
	ts := newTestServer(t, &stubEditor{}, &stubClassifier{})
	form := defaultStartForm()
	form.full = append(append([]byte{}, pngBytes...), make([]byte, 5*1024*1024)...)

	resp, _ := postStart(t, ts, form)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for oversized file", resp.StatusCode)
	}
}

func TestStatusAfterGenerationFailure(t *testing.T) {
	ts := newTestServer(t, &stubEditor{err: errors.New("openai: image edit http 500")}, &stubClassifier{})

	_, body := postStart(t, ts, defaultStartForm())
	job := body["job"].(string)

	failed := pollStatus(t, ts, job, "error")
	if failed["error"] == "" {
		t.Fatalf("expected non-empty error, got %v", failed)
	}
	images, _ := failed["images"].([]any)
	if len(images) != 0 {
		t.Fatalf("expected empty images on error, got %v", failed["images"])
	}
}

func TestStatusBadJobShape(t *testing.T) {
	ts := newTestServer(t, &stubEditor{}, &stubClassifier{})
	for _, job := range []string{"nope", "0123456789ABCDEF01234567", "0123456789abcdef0123456"} {
		resp, _ := getStatus(t, ts, job)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("job %q: status = %d, want 400", job, resp.StatusCode)
		}
	}
}

func TestStatusUnknownJob(t *testing.T) {
	ts := newTestServer(t, &stubEditor{}, &stubClassifier{})
	resp, _ := getStatus(t, ts, domain.NewJobID())
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestOutfitsFileRoundTrip(t *testing.T) {
	ts := newTestServer(t, &stubEditor{}, &stubClassifier{})

	_, body := postStart(t, ts, defaultStartForm())
	job := body["job"].(string)
	pollStatus(t, ts, job, "done")

	resp, err := ts.Client().Get(ts.URL + "/outfits/file/jobs/" + job + "/input.png")
	if err != nil {
		t.Fatalf("get file: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("file status = %d", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc == "" {
		t.Fatalf("expected cache headers on immutable artifacts")
	}
}

func TestOutfitsFileMissing(t *testing.T) {
	ts := newTestServer(t, &stubEditor{}, &stubClassifier{})
	resp, err := ts.Client().Get(ts.URL + "/outfits/file/jobs/none/input.png")
	if err != nil {
		t.Fatalf("get file: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestUnknownRouteReturnsJSONEnvelope(t *testing.T) {
	ts := newTestServer(t, &stubEditor{}, &stubClassifier{})
	resp, err := ts.Client().Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ok, _ := body["ok"].(bool); ok {
		t.Fatal("expected ok=false")
	}
	if body["error"] != "Не найдено" {
		t.Fatalf("error = %v", body["error"])
	}
}
