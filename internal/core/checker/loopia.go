package checker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kolo/xmlrpc"

	"github.com/namelens/namesmith/internal/core/engine"
)

// DefaultLoopiaEndpoint is Loopia's public XML-RPC API.
const DefaultLoopiaEndpoint = "https://api.loopia.se/RPCSERV"

// Loopia domainIsFree status codes.
const (
	loopiaFree         = "OK"
	loopiaOccupied     = "OCCUPIED"
	loopiaAuthError    = "AUTH_ERROR"
	loopiaNotSupported = "NOT_SUPPORTED"
)

// LoopiaProvider checks availability through Loopia's domainIsFree call.
type LoopiaProvider struct {
	Endpoint  string
	Username  string
	Password  string
	Transport http.RoundTripper
	Limiter   *engine.RateLimiter
}

func (p *LoopiaProvider) Name() string { return "loopia" }

// Available calls domainIsFree(username, password, domain).
func (p *LoopiaProvider) Available(ctx context.Context, domain string) (*Availability, error) {
	if p == nil || strings.TrimSpace(p.Username) == "" {
		return nil, fmt.Errorf("loopia provider is not configured")
	}

	endpoint := strings.TrimSpace(p.Endpoint)
	if endpoint == "" {
		endpoint = DefaultLoopiaEndpoint
	}
	host := endpoint
	if u, err := url.Parse(endpoint); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	if err := p.Limiter.Take(ctx, host); err != nil {
		return nil, fmt.Errorf("loopia: %w", err)
	}

	client, err := xmlrpc.NewClient(endpoint, p.Transport)
	if err != nil {
		return nil, err
	}

	type callResult struct {
		status string
		err    error
	}
	done := make(chan callResult, 1)
	go func() {
		var status string
		err := client.Call("domainIsFree", []interface{}{p.Username, p.Password, strings.ToLower(domain)}, &status)
		done <- callResult{status: status, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = client.Close()
		return nil, ctx.Err()
	case res := <-done:
		_ = client.Close()
		if res.err != nil {
			return nil, fmt.Errorf("loopia domainIsFree: %w", res.err)
		}
		switch strings.TrimSpace(res.status) {
		case loopiaFree:
			return &Availability{Available: true}, nil
		case loopiaOccupied:
			return &Availability{Available: false}, nil
		case loopiaAuthError:
			return nil, fmt.Errorf("loopia rejected credentials")
		case loopiaNotSupported:
			return nil, fmt.Errorf("loopia does not support %s", domain)
		default:
			return nil, fmt.Errorf("loopia domainIsFree returned %q", res.status)
		}
	}
}
