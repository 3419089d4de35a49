package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func checker(err error) HealthCheckFunc {
	return func(context.Context) error { return err }
}

func TestHealthHandlerReturnsHealthyStatus(t *testing.T) {
	manager := NewHealthManager("1.2.3")
	manager.RegisterChecker("store", checker(nil))

	rec := httptest.NewRecorder()
	manager.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, StatusHealthy, resp.Status)
	require.Equal(t, "1.2.3", resp.Version)
	require.Equal(t, StatusHealthy, resp.Checks["store"])
}

func TestHealthHandlerReportsDegradedCompletionProvider(t *testing.T) {
	manager := NewHealthManager("dev")
	manager.RegisterChecker("store", checker(nil))
	manager.RegisterChecker("completion", checker(&DegradedError{Reason: "no provider"}))

	rec := httptest.NewRecorder()
	manager.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, StatusDegraded, resp.Status)
	require.Equal(t, StatusDegraded, resp.Checks["completion"])
}

func TestHealthHandlerReturnsServiceUnavailableWhenUnhealthy(t *testing.T) {
	manager := NewHealthManager("1.2.3")
	manager.RegisterChecker("store", checker(errors.New("down")))

	rec := httptest.NewRecorder()
	manager.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp struct {
		Error struct {
			Code    string                 `json:"code"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "SERVICE_UNAVAILABLE", resp.Error.Code)
	require.Equal(t, "ready", resp.Error.Details["probe"])

	checks, ok := resp.Error.Details["checks"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, StatusUnhealthy, checks["store"])
}

func TestOverallStatusTreatsTimeoutAsDegraded(t *testing.T) {
	require.Equal(t, StatusDegraded, overallStatus(map[string]string{"store": StatusTimeout}))
	require.Equal(t, StatusHealthy, overallStatus(nil))
	require.Equal(t, StatusUnhealthy, overallStatus(map[string]string{
		"a": StatusDegraded,
		"b": StatusUnhealthy,
	}))
}

func TestGlobalHandlersWithoutManager(t *testing.T) {
	previous := globalHealthManager
	globalHealthManager = nil
	t.Cleanup(func() { globalHealthManager = previous })

	rec := httptest.NewRecorder()
	LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
