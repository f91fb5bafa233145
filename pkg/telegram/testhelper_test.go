package telegram

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

// okResult writes a successful envelope around result.
func okResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	writeJSON(t, w, map[string]any{"ok": true, "result": result})
}

// rejection writes an ok:false envelope.
func rejection(t *testing.T, w http.ResponseWriter, code int, description string) {
	t.Helper()
	writeJSON(t, w, map[string]any{"ok": false, "error_code": code, "description": description})
}

// newTestClient builds a client against a test server URL.
func newTestClient(t *testing.T, token, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(token, WithBaseURL(baseURL))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}
