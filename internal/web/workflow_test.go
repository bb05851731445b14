package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/tinynotes/internal/metrics"
	"github.com/hpungsan/tinynotes/internal/note"
)

// TestFullWorkflow exercises the complete request lifecycle against a real
// server: health check → idempotent create → replay → list → metrics.
func TestFullWorkflow(t *testing.T) {
	_, handler := setupTest(t, nil)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	client := srv.Client()
	apiKey := "dev-key"

	do := func(method, path, idemKey string, body []byte) (*http.Response, []byte) {
		req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("X-API-Key", apiKey)
		if idemKey != "" {
			req.Header.Set("Idempotency-Key", idemKey)
		}
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, data
	}

	// 1. Health check
	resp, body := do("GET", "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))

	// 2. Create a note
	payload, err := json.Marshal(map[string]string{"content": "hello world"})
	require.NoError(t, err)

	resp, first := do("POST", "/notes", "k1", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created note.Note
	require.NoError(t, json.Unmarshal(first, &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "hello world", created.Content)

	// 3. Replay with the same key returns the byte-identical body
	resp, second := do("POST", "/notes", "k1", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, first, second)

	// 4. List contains exactly the one note, in creation order
	resp, body = do("GET", "/notes", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var notes []note.Note
	require.NoError(t, json.Unmarshal(body, &notes))
	require.Len(t, notes, 1)
	require.Equal(t, created.ID, notes[0].ID)

	// 5. Metrics include a GET series with at least one sample
	resp, body = do("GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap map[string]metrics.EndpointStats
	require.NoError(t, json.Unmarshal(body, &snap))

	foundGet := false
	for name, stats := range snap {
		if strings.HasPrefix(name, "GET ") && stats.Count >= 1 {
			foundGet = true
			require.GreaterOrEqual(t, stats.P95Ms, 0.0)
		}
	}
	require.True(t, foundGet, "metrics should contain a GET series, got %v", snap)
}
