package checker

import (
	"context"
	"errors"
	"fmt"

	"github.com/namelens/namesmith/internal/core"
)

// Availability is a registrar's answer for one domain.
type Availability struct {
	Available bool
	Price     *float64
	Currency  string
}

// Provider answers availability questions for fully-qualified domains.
type Provider interface {
	Name() string
	Available(ctx context.Context, domain string) (*Availability, error)
}

// ChainResult is the first successful answer from a Chain.
type ChainResult struct {
	Availability *Availability
	Provider     string
	Source       core.APISource
}

// Chain queries providers in order; the first success wins.
type Chain []Provider

// Lookup returns the first provider answer, or the joined provider errors.
func (c Chain) Lookup(ctx context.Context, domain string) (*ChainResult, error) {
	if len(c) == 0 {
		return nil, errors.New("no domain providers configured")
	}

	var errs []error
	for i, p := range c {
		if p == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		avail, err := p.Available(ctx, domain)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if avail == nil {
			errs = append(errs, fmt.Errorf("%s: empty response", p.Name()))
			continue
		}
		source := core.SourcePrimary
		if i > 0 {
			source = core.SourceSecondary
		}
		return &ChainResult{Availability: avail, Provider: p.Name(), Source: source}, nil
	}
	return nil, errors.Join(errs...)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc struct {
	ID string
	Fn func(ctx context.Context, domain string) (*Availability, error)
}

func (p ProviderFunc) Name() string { return p.ID }

func (p ProviderFunc) Available(ctx context.Context, domain string) (*Availability, error) {
	return p.Fn(ctx, domain)
}
