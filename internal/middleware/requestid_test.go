package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"stylemate/internal/domain"
)

func requestIDChain(l zerolog.Logger) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return RequestID(Logger(l)(inner))
}

func TestRequestIDKeptAndLogged(t *testing.T) {
	var buf bytes.Buffer
	h := requestIDChain(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/outfits/status?job="+domain.NewJobID(), nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "req-abc-123" {
		t.Fatalf("request id header = %q", got)
	}
	line := buf.String()
	if !strings.Contains(line, `"request_id":"req-abc-123"`) {
		t.Fatalf("log line missing request id: %s", line)
	}
	if !strings.Contains(line, `"path":"/outfits/status"`) || !strings.Contains(line, `"status":204`) {
		t.Fatalf("log line missing request fields: %s", line)
	}
}

func TestRequestIDOversizedReplaced(t *testing.T) {
	var buf bytes.Buffer
	h := requestIDChain(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	got := rr.Header().Get("X-Request-ID")
	if got == "" || len(got) > maxRequestIDLength {
		t.Fatalf("expected a generated id, got %q", got)
	}
	if strings.Contains(got, "xxxx") {
		t.Fatalf("oversized client id was kept: %q", got)
	}
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	var buf bytes.Buffer
	h := requestIDChain(zerolog.New(&buf))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id header")
	}
}
