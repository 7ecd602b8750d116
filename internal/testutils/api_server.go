package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/middleware"
)

// NewAPIServer serves mux as a fake market API and returns its base URL,
// which ends in /api like the real one. The server is closed on cleanup.
func NewAPIServer(t *testing.T, mux http.Handler) string {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv.URL + "/api"
}

func WriteJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// QuietContext carries a logger that discards everything, so request logs
// do not clutter test output.
func QuietContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return middleware.WithLogger(context.Background(), logger)
}
