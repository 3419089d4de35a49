package checker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/openrdap/rdap"

	"github.com/namelens/namesmith/internal/core/engine"
)

const rdapProviderName = "rdap"

// DefaultRDAPServers routes the default extensions straight to their
// registry RDAP services; other TLDs go through IANA bootstrap.
var DefaultRDAPServers = map[string][]string{
	"com": {"https://rdap.verisign.com/com/v1"},
	"net": {"https://rdap.verisign.com/net/v1"},
	"org": {"https://rdap.publicinterestregistry.org/rdap"},
	"io":  {"https://rdap.identitydigital.services/rdap"},
	"ai":  {"https://rdap.identitydigital.services/rdap"},
	"app": {"https://pubapi.registry.google/rdap", "https://www.rdap.net/rdap"},
	"dev": {"https://pubapi.registry.google/rdap", "https://www.rdap.net/rdap"},
}

// RDAPProvider answers availability from registry RDAP services. A 404 for
// the domain object means the name is unregistered.
type RDAPProvider struct {
	Client  *rdap.Client
	Timeout time.Duration
	Limiter *engine.RateLimiter

	// Servers maps TLDs (no leading dot) to RDAP base URLs.
	Servers map[string][]string
}

func (p *RDAPProvider) Name() string { return rdapProviderName }

// Available performs an RDAP domain lookup, trying each configured server.
func (p *RDAPProvider) Available(ctx context.Context, domain string) (*Availability, error) {
	_, tld, err := splitDomain(domain)
	if err != nil {
		return nil, err
	}

	client := p.Client
	if client == nil {
		client = &rdap.Client{}
	}

	servers := p.servers(tld)
	if len(servers) == 0 {
		// Bootstrap through IANA.
		return p.query(ctx, client, domain, nil)
	}

	var lastErr error
	for _, serverBase := range servers {
		serverURL, err := url.Parse(serverBase)
		if err != nil {
			return nil, fmt.Errorf("invalid rdap server url: %w", err)
		}
		avail, err := p.query(ctx, client, domain, serverURL)
		if err == nil {
			return avail, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (p *RDAPProvider) query(ctx context.Context, client *rdap.Client, domain string, serverURL *url.URL) (*Availability, error) {
	endpoint := "rdap"
	requestURL := ""
	if serverURL != nil {
		endpoint = serverURL.Hostname()
		requestURL = rdapDomainURL(serverURL, domain)
	}

	if err := p.Limiter.Take(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("rdap: %w", err)
	}

	req := rdap.NewDomainRequest(domain)
	if serverURL != nil {
		req = req.WithServer(serverURL)
	}
	if p.Timeout > 0 {
		req.Timeout = p.Timeout
	}
	req = req.WithContext(ctx)

	resp, reqErr := client.Do(req)
	statusCode, server := responseStatus(resp, requestURL)

	if reqErr != nil {
		if isNotFound(reqErr) || statusCode == http.StatusNotFound {
			return &Availability{Available: true}, nil
		}
		if statusCode == http.StatusTooManyRequests {
			_ = p.Limiter.Backoff(ctx, endpoint, retryAfter(resp))
			return nil, fmt.Errorf("rdap rate limited by %s", server)
		}
		if statusCode >= 500 && statusCode <= 599 {
			return nil, fmt.Errorf("rdap server error %d from %s", statusCode, server)
		}
		return nil, fmt.Errorf("rdap lookup failed: %w", reqErr)
	}

	if _, ok := resp.Object.(*rdap.Domain); ok {
		return &Availability{Available: false}, nil
	}
	return nil, fmt.Errorf("unexpected rdap response from %s", server)
}

func (p *RDAPProvider) servers(tld string) []string {
	normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tld, ".")))
	if normalized == "" {
		return nil
	}
	servers := DefaultRDAPServers
	if p != nil && p.Servers != nil {
		servers = p.Servers
	}
	return servers[normalized]
}

func rdapDomainURL(server *url.URL, domain string) string {
	if server == nil {
		return ""
	}

	temp := *server
	temp.RawQuery = ""
	temp.Fragment = ""
	base := temp.String()
	if base == "" {
		return ""
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "domain/" + strings.TrimSpace(domain)
}

func splitDomain(domain string) (string, string, error) {
	value := strings.TrimSpace(domain)
	if value == "" {
		return "", "", errors.New("domain is required")
	}

	parts := strings.Split(value, ".")
	if len(parts) < 2 || parts[len(parts)-1] == "" {
		return "", "", errors.New("domain must include a tld")
	}

	base := strings.ToLower(strings.Join(parts[:len(parts)-1], "."))
	tld := strings.ToLower(parts[len(parts)-1])

	return base, tld, nil
}

func responseStatus(resp *rdap.Response, fallbackURL string) (int, string) {
	if resp == nil || len(resp.HTTP) == 0 || resp.HTTP[0] == nil || resp.HTTP[0].Response == nil {
		return 0, strings.TrimSpace(fallbackURL)
	}

	hrr := resp.HTTP[0].Response
	url := resp.HTTP[0].URL
	if strings.TrimSpace(url) == "" {
		url = strings.TrimSpace(fallbackURL)
	}

	return hrr.StatusCode, url
}

func retryAfter(resp *rdap.Response) time.Duration {
	if resp == nil || len(resp.HTTP) == 0 || resp.HTTP[0] == nil || resp.HTTP[0].Response == nil {
		return 0
	}
	return retryAfterValue(resp.HTTP[0].Response.Header.Get("Retry-After"))
}

func retryAfterValue(retry string) time.Duration {
	retry = strings.TrimSpace(retry)
	if retry == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retry); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if parsed, err := http.ParseTime(retry); err == nil {
		return time.Until(parsed)
	}
	return 0
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}

	var clientErr *rdap.ClientError
	if !errors.As(err, &clientErr) {
		return false
	}

	return clientErr.Type == rdap.ObjectDoesNotExist
}
