package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/namelens/namesmith/internal/ailink/driver"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements the driver on the official OpenAI SDK. Any
// OpenAI-compatible endpoint can be targeted through BaseURL.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	// DriverName labels traces and errors; defaults to "openai".
	DriverName string
}

// NewClient returns a client with defaults applied.
func NewClient(baseURL, apiKey string) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}

	return &Client{
		BaseURL: url,
		APIKey:  strings.TrimSpace(apiKey),
	}
}

// Name returns the driver identifier.
func (c *Client) Name() string {
	if c != nil && strings.TrimSpace(c.DriverName) != "" {
		return c.DriverName
	}
	return "openai"
}

// Capabilities describes supported features.
func (c *Client) Capabilities() driver.Capabilities {
	return driver.Capabilities{
		SupportsJSONMode:  true,
		SupportsStreaming: false,
	}
}

// Complete sends a chat completion request. The SDK's own retries are
// disabled; callers own the retry policy.
func (c *Client) Complete(ctx context.Context, req *driver.Request) (*driver.Response, error) {
	if c == nil {
		return nil, fmt.Errorf("openai client not configured")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}

	params, err := buildParams(req)
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(c.APIKey),
		option.WithBaseURL(c.BaseURL),
		option.WithMaxRetries(0),
	}
	if c.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(c.HTTPClient))
	}
	client := sdk.NewClient(opts...)

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	body, _ := json.Marshal(params)
	start := time.Now()

	completion, err := client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)
	if err != nil {
		perr := c.providerError(err)
		entry := driver.TraceEntry{
			Driver:      c.Name(),
			Endpoint:    endpoint,
			Method:      http.MethodPost,
			Model:       req.Model,
			RequestBody: body,
			Error:       err.Error(),
			Duration:    duration,
		}
		if perr != nil {
			entry.StatusCode = perr.StatusCode
			entry.Response = rawJSON(perr.RawResponse)
			driver.Trace(entry)
			return nil, perr
		}
		driver.Trace(entry)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	driver.Trace(driver.TraceEntry{
		Driver:      c.Name(),
		Endpoint:    endpoint,
		Method:      http.MethodPost,
		Model:       req.Model,
		RequestBody: body,
		StatusCode:  http.StatusOK,
		Response:    rawJSON([]byte(completion.RawJSON())),
		Duration:    duration,
	})

	return toDriverResponse(completion)
}

func (c *Client) providerError(err error) *driver.ProviderError {
	var apiErr *sdk.Error
	if !errors.As(err, &apiErr) || apiErr == nil {
		return nil
	}

	message := strings.TrimSpace(apiErr.Message)
	if message == "" {
		message = http.StatusText(apiErr.StatusCode)
	}
	return &driver.ProviderError{
		Provider:    c.Name(),
		StatusCode:  apiErr.StatusCode,
		Message:     message,
		RawResponse: []byte(apiErr.RawJSON()),
	}
}

func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 || !json.Valid(b) {
		return nil
	}
	return json.RawMessage(b)
}
