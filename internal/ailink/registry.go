package ailink

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/namelens/namesmith/internal/ailink/driver"
	"github.com/namelens/namesmith/internal/ailink/driver/openai"
)

// ErrNoProvider is returned when no enabled provider can serve a role.
var ErrNoProvider = errors.New("no completion provider configured")

var providerBaseURLs = map[string]string{
	"openai": "https://api.openai.com/v1",
	"xai":    "https://api.x.ai/v1",
}

// Registry turns provider instances from config into drivers. Drivers are
// built once per provider and credential and reused.
type Registry struct {
	cfg Config

	mu      sync.Mutex
	drivers map[string]driver.Driver
	rr      map[string]int
}

// ResolvedProvider is a ready driver with the settings it was built from.
type ResolvedProvider struct {
	ProviderID string
	Provider   ProviderInstanceConfig
	Credential CredentialConfig
	Driver     driver.Driver
	Model      string
	BaseURL    string
}

func NewRegistry(cfg Config) *Registry {
	return &Registry{cfg: cfg, drivers: map[string]driver.Driver{}, rr: map[string]int{}}
}

// Resolve picks the provider for role, a credential, and a model. A
// non-empty modelOverride replaces the provider's default model.
func (r *Registry) Resolve(role, modelOverride string) (*ResolvedProvider, error) {
	if r == nil {
		return nil, ErrNoProvider
	}
	id, provider, err := r.providerFor(strings.TrimSpace(role))
	if err != nil {
		return nil, err
	}
	model, err := resolveModel(provider, modelOverride)
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", id, err)
	}
	cred, credKey, err := selectCredential(provider, func(group string, n int) int {
		return r.rrIndex(id+":"+group, n)
	})
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", id, err)
	}
	drv, baseURL, err := r.driverFor(id, provider, cred, credKey)
	if err != nil {
		return nil, err
	}
	return &ResolvedProvider{
		ProviderID: id,
		Provider:   provider,
		Credential: cred,
		Driver:     drv,
		Model:      model,
		BaseURL:    baseURL,
	}, nil
}

// providerFor applies, in order: explicit routing for role, the first
// enabled provider (by id) declaring role, the default provider, and
// finally the only enabled provider.
func (r *Registry) providerFor(role string) (string, ProviderInstanceConfig, error) {
	lookup := func(id, what string) (string, ProviderInstanceConfig, error) {
		provider, ok := r.cfg.Providers[id]
		switch {
		case !ok:
			return "", ProviderInstanceConfig{}, fmt.Errorf("%s provider %q not configured", what, id)
		case !provider.Enabled:
			return "", ProviderInstanceConfig{}, fmt.Errorf("%s provider %q is disabled", what, id)
		}
		return id, provider, nil
	}

	ids := slices.Sorted(maps.Keys(r.cfg.Providers))
	if role != "" {
		if id := strings.TrimSpace(r.cfg.Routing[role]); id != "" {
			return lookup(id, "routed")
		}
		for _, id := range ids {
			if p := r.cfg.Providers[id]; p.Enabled && hasRole(p.Roles, role) {
				return id, p, nil
			}
		}
	}
	if id := strings.TrimSpace(r.cfg.DefaultProvider); id != "" {
		return lookup(id, "default")
	}

	enabled := slices.DeleteFunc(ids, func(id string) bool { return !r.cfg.Providers[id].Enabled })
	switch len(enabled) {
	case 0:
		return "", ProviderInstanceConfig{}, ErrNoProvider
	case 1:
		return enabled[0], r.cfg.Providers[enabled[0]], nil
	default:
		return "", ProviderInstanceConfig{}, fmt.Errorf("%d providers enabled; set default_provider or routing", len(enabled))
	}
}

// selectCredential returns the credential to use and a stable key for it.
// Credentials without an API key are skipped, as are labelled ones that
// are disabled. default_credential wins; otherwise the highest priority
// group is used, rotated when selection_policy is round_robin.
func selectCredential(cfg ProviderInstanceConfig, next func(group string, n int) int) (CredentialConfig, string, error) {
	if len(cfg.Credentials) == 0 {
		return CredentialConfig{}, "", errors.New("no credentials configured")
	}
	usable := slices.DeleteFunc(slices.Clone(cfg.Credentials), func(c CredentialConfig) bool {
		return strings.TrimSpace(c.APIKey) == "" || (!c.Enabled && strings.TrimSpace(c.Label) != "")
	})
	if len(usable) == 0 {
		return CredentialConfig{}, "", errors.New("no usable credentials configured")
	}

	if want := strings.TrimSpace(cfg.DefaultCredential); want != "" {
		for _, c := range usable {
			if strings.EqualFold(strings.TrimSpace(c.Label), want) {
				return c, strings.TrimSpace(c.Label), nil
			}
		}
	}

	top := slices.MaxFunc(usable, func(a, b CredentialConfig) int { return a.Priority - b.Priority }).Priority
	group := slices.DeleteFunc(usable, func(c CredentialConfig) bool { return c.Priority != top })

	idx := 0
	if next != nil && strings.EqualFold(strings.TrimSpace(cfg.SelectionPolicy), "round_robin") {
		idx = next(strconv.Itoa(top), len(group))
	}
	key := strings.TrimSpace(group[idx].Label)
	if key == "" {
		key = fmt.Sprintf("p%d-%d", top, idx)
	}
	return group[idx], key, nil
}

func (r *Registry) driverFor(id string, provider ProviderInstanceConfig, cred CredentialConfig, credKey string) (driver.Driver, string, error) {
	kind := strings.ToLower(strings.TrimSpace(provider.AIProvider))
	baseURL := strings.TrimSpace(provider.BaseURL)
	switch kind {
	case "openai", "xai":
		if baseURL == "" {
			baseURL = providerBaseURLs[kind]
		}
	case "openai-compatible":
		if baseURL == "" {
			return nil, "", fmt.Errorf("provider %q requires base_url", id)
		}
	case "":
		return nil, "", fmt.Errorf("provider %q has no ai_provider", id)
	default:
		return nil, "", fmt.Errorf("unsupported ai_provider %q for provider %q", kind, id)
	}

	key := id + ":" + credKey
	r.mu.Lock()
	defer r.mu.Unlock()
	if drv, ok := r.drivers[key]; ok {
		return drv, baseURL, nil
	}
	client := openai.NewClient(baseURL, cred.APIKey)
	client.DriverName = kind
	r.drivers[key] = client
	return client, baseURL, nil
}

func resolveModel(provider ProviderInstanceConfig, override string) (string, error) {
	if model := strings.TrimSpace(override); model != "" {
		return model, nil
	}
	if model := strings.TrimSpace(provider.Models["default"]); model != "" {
		return model, nil
	}
	return "", errors.New("model not configured")
}

func (r *Registry) rrIndex(key string, n int) int {
	if n <= 1 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.rr[key] % n
	r.rr[key]++
	return idx
}

func hasRole(roles []string, role string) bool {
	return slices.ContainsFunc(roles, func(v string) bool {
		return strings.EqualFold(strings.TrimSpace(v), role)
	})
}
