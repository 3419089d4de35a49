package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/namelens/namesmith/internal/ailink/driver"
)

func userRequest(text string) *driver.Request {
	return &driver.Request{
		Model:    "test-model",
		Messages: []driver.Message{{Role: "user", Content: text}},
	}
}

func TestClientRequiresAPIKey(t *testing.T) {
	client := NewClient("", "")
	_, err := client.Complete(context.Background(), userRequest("hi"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "api key")
}

func TestClientRejectsUnknownRole(t *testing.T) {
	client := NewClient("", "test-key")
	_, err := client.Complete(context.Background(), &driver.Request{
		Model:    "test",
		Messages: []driver.Message{{Role: "tool", Content: "hi"}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported message role")
}

func TestClientSendsRequestAndParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		require.Equal(t, "test-model", payload["model"])
		require.EqualValues(t, 512, payload["max_tokens"])
		format, ok := payload["response_format"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "json_object", format["type"])
		messages, ok := payload["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","created":1,"model":"test-model","choices":[{"index":0,"message":{"role":"assistant","content":"{\"names\":[]}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	client.HTTPClient = server.Client()

	resp, err := client.Complete(context.Background(), &driver.Request{
		Model: "test-model",
		Messages: []driver.Message{
			{Role: "system", Content: "sys"},
			{Role: "user", Content: "usr"},
		},
		MaxTokens: 512,
		JSONMode:  true,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Equal(t, "stop", resp.FinishReason)
	require.Equal(t, `{"names":[]}`, resp.Text)
	require.NotNil(t, resp.Usage)
	require.Equal(t, 3, resp.Usage.TotalTokens)
}

func TestClientMapsNon2xxToProviderError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error","code":"invalid_api_key","param":null}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	client.HTTPClient = server.Client()

	_, err := client.Complete(context.Background(), userRequest("hi"))
	require.Error(t, err)

	var perr *driver.ProviderError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, http.StatusUnauthorized, perr.StatusCode)
	require.Equal(t, "openai", perr.Provider)
	require.False(t, perr.Retryable())
	require.Equal(t, 1, calls)
}

func TestClientCustomDriverName(t *testing.T) {
	client := NewClient("https://api.x.ai/v1", "k")
	client.DriverName = "xai"
	require.Equal(t, "xai", client.Name())
	require.True(t, client.Capabilities().SupportsJSONMode)
}
