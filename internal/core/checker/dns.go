package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// ErrNoRecords reports that a domain has no NS or A records.
var ErrNoRecords = errors.New("no dns records")

// Resolver probes whether a domain resolves. Resolve returns nil when
// records exist and ErrNoRecords when the name is absent.
type Resolver interface {
	Resolve(ctx context.Context, domain string) error
}

// DNSResolver queries NS then A records over UDP.
type DNSResolver struct {
	// Servers are host:port nameservers; empty uses /etc/resolv.conf.
	Servers []string
	Timeout time.Duration
}

var fallbackNameservers = []string{"1.1.1.1:53", "8.8.8.8:53"}

// Resolve implements Resolver.
func (r *DNSResolver) Resolve(ctx context.Context, domain string) error {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return errors.New("domain is required")
	}

	client := &dns.Client{Net: "udp"}
	if r != nil && r.Timeout > 0 {
		client.Timeout = r.Timeout
	}

	var lastErr error
	for _, server := range r.servers() {
		err := r.query(ctx, client, server, domain)
		if err == nil || errors.Is(err, ErrNoRecords) {
			return err
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no nameservers available")
	}
	return lastErr
}

func (r *DNSResolver) query(ctx context.Context, client *dns.Client, server, domain string) error {
	for _, qtype := range []uint16{dns.TypeNS, dns.TypeA} {
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(domain), qtype)
		msg.RecursionDesired = true

		resp, _, err := client.ExchangeContext(ctx, msg, server)
		if err != nil {
			return fmt.Errorf("dns query %s: %w", server, err)
		}
		switch resp.Rcode {
		case dns.RcodeNameError:
			return ErrNoRecords
		case dns.RcodeSuccess:
		default:
			return fmt.Errorf("dns query %s: %s", server, dns.RcodeToString[resp.Rcode])
		}
		if len(resp.Answer) > 0 {
			return nil
		}
	}
	return ErrNoRecords
}

func (r *DNSResolver) servers() []string {
	if r != nil && len(r.Servers) > 0 {
		return r.Servers
	}
	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cfg.Servers) == 0 {
		return fallbackNameservers
	}
	servers := make([]string, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		servers = append(servers, net.JoinHostPort(s, cfg.Port))
	}
	return servers
}

func isNoRecords(err error) bool {
	return errors.Is(err, ErrNoRecords)
}
