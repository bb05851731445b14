package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hpungsan/tinynotes/internal/config"
)

// newKeyedRequest builds a GET /healthz request carrying an X-API-Key header.
func newKeyedRequest(key string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-API-Key", key)
	return req, httptest.NewRecorder()
}

// smallBurstConfig returns a config with a tiny burst so rate-limit tests
// don't need hundreds of requests.
func smallBurstConfig(burst int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.RateLimitBurst = burst
	// Slow refill keeps the bucket drained for the duration of the test
	cfg.RateLimitPerSec = 0.001
	return cfg
}

func TestPipeline_RateLimitExceeded(t *testing.T) {
	_, handler := setupTest(t, smallBurstConfig(3))

	for i := 0; i < 3; i++ {
		rec := getPath(t, handler, "/healthz")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200 (within burst)", i+1, rec.Code)
		}
	}

	rec := getPath(t, handler, "/healthz")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 after burst exhausted", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal 429 body: %v", err)
	}
	if body["detail"] != "rate_limit_exceeded" {
		t.Errorf("detail = %q, want %q", body["detail"], "rate_limit_exceeded")
	}
}

func TestPipeline_LimitSharedAcrossEndpoints(t *testing.T) {
	_, handler := setupTest(t, smallBurstConfig(2))

	// Any endpoint drains the same per-key bucket
	getPath(t, handler, "/healthz")
	getPath(t, handler, "/notes")

	rec := getPath(t, handler, "/metrics")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 (bucket shared across endpoints)", rec.Code)
	}
}

func TestPipeline_KeysHaveIndependentBuckets(t *testing.T) {
	_, handler := setupTest(t, smallBurstConfig(1))

	// Default identity drains its bucket
	if rec := getPath(t, handler, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}
	if rec := getPath(t, handler, "/healthz"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}

	// A distinct API key gets a fresh bucket
	req, rec := newKeyedRequest("other-key")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("other key status = %d, want 200", rec.Code)
	}
}

func TestPipeline_RejectionsAreNotTimed(t *testing.T) {
	h, handler := setupTest(t, smallBurstConfig(1))

	getPath(t, handler, "/healthz") // admitted
	getPath(t, handler, "/healthz") // rejected

	snap := h.metrics.Snapshot()
	if got := snap["GET /healthz"].Count; got != 1 {
		t.Fatalf("GET /healthz count = %d, want 1 (rejections happen before timing)", got)
	}
}

func TestPipeline_RecordsUnderWrappedName(t *testing.T) {
	h, handler := setupTest(t, nil)

	getPath(t, handler, "/notes")

	snap := h.metrics.Snapshot()
	if _, ok := snap["GET /notes"]; !ok {
		t.Fatalf("metrics missing %q series, got %v", "GET /notes", snap)
	}
}
