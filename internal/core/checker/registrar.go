package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/namelens/namesmith/internal/core/engine"
)

// RegistrarProvider queries a registrar availability API of the form
// GET {BaseURL}/domains/{domain}/availability returning
// {"available": bool, "price": number, "currency": "USD"}.
type RegistrarProvider struct {
	ID         string
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Limiter    *engine.RateLimiter
}

type registrarResponse struct {
	Domain    string   `json:"domain"`
	Available *bool    `json:"available"`
	Price     *float64 `json:"price"`
	Currency  string   `json:"currency"`
	Error     string   `json:"error"`
}

func (p *RegistrarProvider) Name() string {
	if p != nil && strings.TrimSpace(p.ID) != "" {
		return p.ID
	}
	return "registrar"
}

// Available asks the registrar whether domain can be registered.
func (p *RegistrarProvider) Available(ctx context.Context, domain string) (*Availability, error) {
	if p == nil || strings.TrimSpace(p.BaseURL) == "" {
		return nil, fmt.Errorf("registrar provider is not configured")
	}

	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(p.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid registrar base url: %w", err)
	}
	endpoint := base.Hostname()

	reqURL := base.String() + "/domains/" + url.PathEscape(strings.ToLower(domain)) + "/availability"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if key := strings.TrimSpace(p.APIKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	if endpoint != "" {
		if err := p.Limiter.Take(ctx, endpoint); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name(), err)
		}
	}

	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if endpoint != "" {
			_ = p.Limiter.Backoff(ctx, endpoint, retryAfterHeader(resp))
		}
		return nil, fmt.Errorf("%s rate limited", p.Name())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s returned status %d", p.Name(), resp.StatusCode)
	}

	var payload registrarResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", p.Name(), err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("%s: %s", p.Name(), payload.Error)
	}
	if payload.Available == nil {
		return nil, fmt.Errorf("%s response missing availability", p.Name())
	}

	return &Availability{
		Available: *payload.Available,
		Price:     payload.Price,
		Currency:  strings.ToUpper(strings.TrimSpace(payload.Currency)),
	}, nil
}
