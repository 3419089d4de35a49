package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/namelens/namesmith/internal/ailink"
	"github.com/namelens/namesmith/internal/core/engine"
	"github.com/namelens/namesmith/internal/server/middleware"
)

func TestFromGenerateErrorMapsValidation(t *testing.T) {
	err := fmt.Errorf("%w: count must be between 1 and 50", engine.ErrInvalidRequest)

	envelope := FromGenerateError(context.Background(), err)

	require.Equal(t, CodeInvalidInput, envelope.Code)
	require.Equal(t, http.StatusBadRequest, HTTPStatusFromCode(envelope.Code))
	require.Contains(t, envelope.Message, "count must be between")
}

func TestFromGenerateErrorCarriesRetryAttempts(t *testing.T) {
	err := &ailink.RetryError{Attempts: 3, Err: context.DeadlineExceeded}

	envelope := FromGenerateError(context.Background(), err)

	require.Equal(t, CodeTimeout, envelope.Code)
	require.EqualValues(t, 3, ResponseDetails(envelope)["attempts"])
	require.Equal(t, string(ailink.CodeTimeout), ResponseDetails(envelope)["ai_error"])
}

func TestFromGenerateErrorDefaultsToExternalService(t *testing.T) {
	envelope := FromGenerateError(context.Background(), stderrors.New("malformed completion"))

	require.Equal(t, CodeExternalService, envelope.Code)
	require.Equal(t, http.StatusBadGateway, HTTPStatusFromCode(envelope.Code))
	require.Equal(t, "malformed completion", ResponseDetails(envelope)["wrapped_error"])
}

func TestHTTPStatusFromCode(t *testing.T) {
	cases := map[string]int{
		CodeInvalidInput:       http.StatusBadRequest,
		CodeNotFound:           http.StatusNotFound,
		CodeMethodNotAllowed:   http.StatusMethodNotAllowed,
		CodeTimeout:            http.StatusGatewayTimeout,
		CodeExternalService:    http.StatusBadGateway,
		CodeServiceUnavailable: http.StatusServiceUnavailable,
		CodeConfigInvalid:      http.StatusInternalServerError,
		"SOMETHING_ELSE":       http.StatusInternalServerError,
	}
	for code, want := range cases {
		require.Equal(t, want, HTTPStatusFromCode(code), code)
	}
}

func TestEnsureEnvelopeWrapsPlainErrors(t *testing.T) {
	envelope := EnsureEnvelope(stderrors.New("boom"))
	require.Equal(t, CodeInternal, envelope.Code)
	require.Equal(t, "boom", ResponseDetails(envelope)["wrapped_error"])

	original := NewNotFoundError("missing")
	require.Same(t, original, EnsureEnvelope(fmt.Errorf("lookup: %w", original)))
}

func TestRespondWithErrorUsesRequestID(t *testing.T) {
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondWithError(w, r, NewServiceUnavailableError("name generation is not configured"))
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/names/generate", nil)
	req.Header.Set("X-Request-ID", "req-42")
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, CodeServiceUnavailable, body.Error.Code)
	require.Equal(t, "req-42", body.Error.RequestID)
}
