package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/ailink"
	"github.com/namelens/namesmith/internal/ailink/prompt"
	"github.com/namelens/namesmith/internal/config"
	"github.com/namelens/namesmith/internal/core/checker"
	"github.com/namelens/namesmith/internal/core/engine"
	"github.com/namelens/namesmith/internal/core/store"
	"github.com/namelens/namesmith/internal/observability"
	"github.com/namelens/namesmith/internal/server/handlers"
)

// generationRole is the ailink routing role used for name generation.
const generationRole = "name-generation"

// services holds the engine components a command works with.
type services struct {
	cfg     *config.Config
	log     observability.Logger
	store   *store.Store
	redis   *redis.Client
	limiter *engine.RateLimiter
	checker *checker.Checker
	batch   *engine.BatchChecker
}

// buildServices wires the domain checker and its supporting infrastructure.
// The store is optional: when it cannot be opened, rate limit state lives in
// memory and the store cache backend is rejected.
func buildServices(ctx context.Context, cfg *config.Config, log observability.Logger) (*services, error) {
	log = observability.Or(log)
	svc := &services{cfg: cfg, log: log}

	db, err := openStore(ctx, cfg)
	if err != nil {
		log.Warn("Store unavailable; rate limit state kept in memory", zap.Error(err))
	} else {
		svc.store = db
	}

	svc.limiter = &engine.RateLimiter{Margin: cfg.RateLimitMargin}
	if svc.store != nil {
		svc.limiter.Store = svc.store
	} else {
		svc.limiter.Store = engine.NewMemoryRateStore()
	}
	svc.limiter.ApplyOverrides(cfg.RateLimits)

	providers, err := buildProviders(cfg.Domain, svc.limiter)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}

	exts, err := cfg.Domain.ResolvedExtensions()
	if err != nil {
		_ = svc.Close()
		return nil, err
	}

	cache, err := svc.buildCache(ctx)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}

	svc.checker = &checker.Checker{
		Providers:       checker.Chain(providers),
		Resolver:        &checker.DNSResolver{Servers: cfg.Domain.DNS.Servers, Timeout: cfg.Domain.DNS.Timeout},
		Cache:           cache,
		Extensions:      exts,
		ProviderTimeout: cfg.Domain.ProviderTimeout,
		Logger:          log,
	}
	svc.batch = &engine.BatchChecker{
		Checker:    svc.checker,
		GroupSize:  cfg.Batch.GroupSize,
		GroupDelay: cfg.Batch.GroupDelay,
		Logger:     log,
	}
	return svc, nil
}

func (s *services) buildCache(ctx context.Context) (checker.Cache, error) {
	ttl := s.cfg.Cache.TTL
	switch s.cfg.Cache.Backend {
	case config.CacheBackendRedis:
		r := s.cfg.Cache.Redis
		client, err := checker.ConnectRedis(ctx, r.Addr, r.Password, r.DB)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache at %s: %w", r.Addr, err)
		}
		s.redis = client
		return &checker.RedisCache{Client: client, TTL: ttl}, nil
	case config.CacheBackendStore:
		if s.store == nil {
			return nil, fmt.Errorf("cache backend %q requires a working store", config.CacheBackendStore)
		}
		return &store.DomainCache{Store: s.store, TTL: ttl}, nil
	default:
		return checker.NewMemoryCache(ttl), nil
	}
}

// buildProviders turns domain.providers into a provider chain in order.
func buildProviders(cfg config.DomainConfig, limiter *engine.RateLimiter) ([]checker.Provider, error) {
	ids := cfg.Providers
	if len(ids) == 0 {
		ids = []string{config.ProviderRDAP}
	}

	providers := make([]checker.Provider, 0, len(ids))
	for _, id := range ids {
		switch strings.ToLower(strings.TrimSpace(id)) {
		case config.ProviderRDAP:
			providers = append(providers, &checker.RDAPProvider{
				Timeout: cfg.RDAP.Timeout,
				Limiter: limiter,
				Servers: rdapServers(cfg.RDAP.Servers),
			})
		case config.ProviderRegistrar:
			if strings.TrimSpace(cfg.Registrar.BaseURL) == "" {
				return nil, fmt.Errorf("domain.registrar.base_url is required for the registrar provider")
			}
			providers = append(providers, &checker.RegistrarProvider{
				ID:      cfg.Registrar.Name,
				BaseURL: cfg.Registrar.BaseURL,
				APIKey:  cfg.Registrar.APIKey,
				Limiter: limiter,
			})
		case config.ProviderLoopia:
			if strings.TrimSpace(cfg.Loopia.Username) == "" {
				return nil, fmt.Errorf("domain.loopia.username is required for the loopia provider")
			}
			providers = append(providers, &checker.LoopiaProvider{
				Endpoint: cfg.Loopia.Endpoint,
				Username: cfg.Loopia.Username,
				Password: cfg.Loopia.Password,
				Limiter:  limiter,
			})
		default:
			return nil, fmt.Errorf("unknown domain provider %q", id)
		}
	}
	return providers, nil
}

// rdapServers overlays configured TLD servers on the built-in routing.
func rdapServers(overrides map[string][]string) map[string][]string {
	servers := make(map[string][]string, len(checker.DefaultRDAPServers)+len(overrides))
	for tld, urls := range checker.DefaultRDAPServers {
		servers[tld] = urls
	}
	for tld, urls := range overrides {
		tld = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tld)), ".")
		if tld == "" {
			continue
		}
		servers[tld] = urls
	}
	return servers
}

// orchestrator resolves the completion provider and returns a ready
// orchestrator over the services' checker.
func (s *services) orchestrator(modelOverride string) (*engine.Orchestrator, error) {
	resolved, err := ailink.NewRegistry(s.cfg.AILink).Resolve(generationRole, modelOverride)
	if err != nil {
		return nil, fmt.Errorf("resolve completion provider: %w", err)
	}

	prompts, err := prompt.RegistryWithOverrides(strings.TrimSpace(s.cfg.AILink.PromptsDir))
	if err != nil {
		return nil, fmt.Errorf("load prompt guidance: %w", err)
	}

	client := ailink.NewClient(resolved, s.cfg.AILink)
	client.Logger = s.log

	return &engine.Orchestrator{
		Prompts:   prompt.NewComposer(prompts),
		Completer: client,
		Domains:   s.checker,
		Logger:    s.log,
	}, nil
}

// Close releases the store and redis connections.
func (s *services) Close() error {
	var firstErr error
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			firstErr = err
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// generatorSource resolves an orchestrator per HTTP request so callers can
// override the model.
type generatorSource struct {
	svc *services
}

func (g generatorSource) Generator(model string, skipDomains bool) (handlers.NameGenerator, error) {
	orch, err := g.svc.orchestrator(model)
	if err != nil {
		return nil, err
	}
	if skipDomains {
		orch.Domains = nil
	}
	return orch, nil
}
