package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fulmenhq/gofulmen/telemetry"
	telemetrytesting "github.com/fulmenhq/gofulmen/telemetry/testing"
	"github.com/stretchr/testify/require"

	"github.com/namelens/namesmith/internal/observability"
)

func setupTelemetry(t *testing.T) *telemetrytesting.FakeCollector {
	t.Helper()

	collector := telemetrytesting.NewFakeCollector()
	sys, err := telemetry.NewSystem(&telemetry.Config{Enabled: true, Emitter: collector})
	require.NoError(t, err)

	original := observability.TelemetrySystem
	observability.TelemetrySystem = sys
	t.Cleanup(func() { observability.TelemetrySystem = original })
	return collector
}

func TestRequestMetricsEmitsRequestAndDuration(t *testing.T) {
	collector := setupTelemetry(t)

	handler := RequestMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"scores":[]}`))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/names/score", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Positive(t, collector.CountMetricsByName(HTTPRequestsTotal))
	require.Positive(t, collector.CountMetricsByName(HTTPRequestDuration))
	require.Positive(t, collector.CountMetricsByName(HTTPResponseBytes))
	require.Zero(t, collector.CountMetricsByName(HTTPErrorsTotal))
}

func TestRequestMetricsCountsErrors(t *testing.T) {
	collector := setupTelemetry(t)

	handler := RequestMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/names/generate", nil))

	require.Positive(t, collector.CountMetricsByName(HTTPErrorsTotal))
}

func TestRequestMetricsWithoutTelemetry(t *testing.T) {
	original := observability.TelemetrySystem
	observability.TelemetrySystem = nil
	t.Cleanup(func() { observability.TelemetrySystem = original })

	handler := RequestMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEndpointPattern(t *testing.T) {
	cases := map[string]string{
		"/health":            "/health/*",
		"/health/ready":      "/health/*",
		"/version":           "/version",
		"/metrics":           "/metrics",
		"/v1/domains/acme":   "/v1/domains/{name}",
		"/v1/domains/a.io":   "/v1/domains/{name}",
		"/v1/domains/batch":  "/v1/domains/batch",
		"/v1/names/generate": "/v1/names/generate",
		"/api/users/123":     "/unknown",
		"/":                  "/",
	}
	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			require.Equal(t, want, endpointPattern(httptest.NewRequest(http.MethodGet, path, nil)))
		})
	}
}

func TestRequestIDPropagation(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, "caller-id", seen)
	require.Equal(t, "caller-id", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Len(t, seen, 36)
}

func TestRecoveryWritesEnvelope(t *testing.T) {
	handler := RequestID(Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	require.Contains(t, body.Error.Message, "boom")
	require.NotEmpty(t, body.Error.RequestID)
}
