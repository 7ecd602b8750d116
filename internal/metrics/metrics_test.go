package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathPattern(t *testing.T) {
	tests := map[string]string{
		"/api/products/":        "/api/products/",
		"/api/products/42/":     "/api/products/{id}/",
		"/api/orders/7/pdf/":    "/api/orders/{id}/pdf/",
		"/media/products/1.png": "/media/products/1.png",
		"/api/orders/7":         "/api/orders/{id}",
	}

	for path, want := range tests {
		assert.Equal(t, want, PathPattern(path), path)
	}
}

func TestTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := &http.Client{Transport: Transport(http.DefaultTransport)}

	t.Run("Counts responses by status", func(t *testing.T) {
		counter := apiRequestsTotal.WithLabelValues("204", http.MethodDelete, "/api/products/{id}/")
		before := testutil.ToFloat64(counter)

		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/products/42/", nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0)
		assert.InDelta(t, 0, testutil.ToFloat64(apiRequestsInFlight), 0)
	})

	t.Run("Counts transport failures", func(t *testing.T) {
		counter := apiRequestsTotal.WithLabelValues("error", http.MethodGet, "/api/orders/")
		before := testutil.ToFloat64(counter)

		failing := middleware.RoundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: connection refused")
		})

		req, err := http.NewRequest(http.MethodGet, "http://127.0.0.1:1/api/orders/", nil)
		require.NoError(t, err)

		_, err = Transport(failing).RoundTrip(req)

		assert.Error(t, err)
		assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	apiRequestsTotal.WithLabelValues("200", http.MethodGet, "/api/products/").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "market_admin_api_requests_total")
}
